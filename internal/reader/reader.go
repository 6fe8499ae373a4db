// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package reader implements a bounds-checked cursor over a save file's raw
// bytes: typed little-endian primitive reads, length-prefixed strings, and
// the seek/tell/skip operations the format decoders build on.
package reader

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf16"

	"github.com/savekit/arksave/saveerr"
)

// maxFStringLen bounds the absolute value of an FString length prefix.
// Anything larger is almost certainly corrupt data, not a real string.
const maxFStringLen = 16 * 1024 * 1024

// Reader is a cursor over an in-memory save buffer. The buffer is owned by
// the caller and must not be mutated while a Reader is in use.
type Reader struct {
	data []byte
	pos  int
}

// New wraps data in a Reader positioned at offset 0.
func New(data []byte) *Reader {
	return &Reader{data: data}
}

// Len returns the total size of the underlying buffer.
func (r *Reader) Len() int {
	return len(r.data)
}

// Tell returns the current cursor offset.
func (r *Reader) Tell() int {
	return r.pos
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

// SeekTo moves the cursor to an absolute offset.
func (r *Reader) SeekTo(pos int) error {
	if pos < 0 || pos > len(r.data) {
		return fmt.Errorf("%w: seek to %d (len %d)", saveerr.ErrEndOfData, pos, len(r.data))
	}
	r.pos = pos
	return nil
}

// Skip advances the cursor by n bytes.
func (r *Reader) Skip(n int) error {
	return r.SeekTo(r.pos + n)
}

func (r *Reader) require(n int) error {
	if n < 0 || r.pos+n > len(r.data) {
		return fmt.Errorf("%w: need %d bytes at offset %d, have %d", saveerr.ErrEndOfData, n, r.pos, len(r.data)-r.pos)
	}
	return nil
}

// ReadBytes returns the next n bytes and advances the cursor. The returned
// slice aliases the underlying buffer — callers that need to retain it past
// the life of the buffer must copy it.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if err := r.require(n); err != nil {
		return nil, err
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// ReadGUID reads a 16-byte GUID.
func (r *Reader) ReadGUID() ([16]byte, error) {
	var guid [16]byte
	b, err := r.ReadBytes(16)
	if err != nil {
		return guid, err
	}
	copy(guid[:], b)
	return guid, nil
}

func (r *Reader) ReadU8() (uint8, error) {
	b, err := r.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *Reader) ReadI8() (int8, error) {
	v, err := r.ReadU8()
	return int8(v), err
}

func (r *Reader) ReadU16() (uint16, error) {
	b, err := r.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (r *Reader) ReadI16() (int16, error) {
	v, err := r.ReadU16()
	return int16(v), err
}

func (r *Reader) ReadU32() (uint32, error) {
	b, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *Reader) ReadI32() (int32, error) {
	v, err := r.ReadU32()
	return int32(v), err
}

func (r *Reader) ReadU64() (uint64, error) {
	b, err := r.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (r *Reader) ReadI64() (int64, error) {
	v, err := r.ReadU64()
	return int64(v), err
}

func (r *Reader) ReadF32() (float32, error) {
	v, err := r.ReadU32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

func (r *Reader) ReadF64() (float64, error) {
	v, err := r.ReadU64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

func (r *Reader) ReadBool8() (bool, error) {
	v, err := r.ReadU8()
	return v != 0, err
}

func (r *Reader) ReadBool16() (bool, error) {
	v, err := r.ReadU16()
	return v != 0, err
}

func (r *Reader) ReadBool32() (bool, error) {
	v, err := r.ReadU32()
	return v != 0, err
}

// ReadFString decodes the game's length-prefixed string encoding (see
// saveerr / format docs): a signed 32-bit length N.
//
//	N == 0: empty string.
//	N >  0: N bytes of ASCII/UTF-8 including a trailing NUL; the NUL is stripped.
//	N <  0: |N| UTF-16LE code units including a trailing NUL; the NUL is stripped.
func (r *Reader) ReadFString() (string, error) {
	n, err := r.ReadI32()
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", nil
	}
	if n > maxFStringLen || n < -maxFStringLen {
		return "", fmt.Errorf("%w: fstring length %d out of range", saveerr.ErrCorrupt, n)
	}
	if n > 0 {
		b, err := r.ReadBytes(int(n))
		if err != nil {
			return "", err
		}
		if len(b) == 0 {
			return "", nil
		}
		return string(b[:len(b)-1]), nil
	}
	// n < 0: |n| UTF-16LE code units, including a trailing NUL.
	count := int(-n)
	b, err := r.ReadBytes(count * 2)
	if err != nil {
		return "", err
	}
	units := make([]uint16, count)
	for i := range units {
		units[i] = binary.LittleEndian.Uint16(b[i*2:])
	}
	if len(units) == 0 {
		return "", nil
	}
	return string(utf16.Decode(units[:len(units)-1])), nil
}
