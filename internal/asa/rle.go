// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package asa

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/savekit/arksave/saveerr"
)

// maxRLEChunks bounds how many chunk headers decompressBlob will read before
// giving up, guarding against a corrupt stream of endless zero-length
// headers that would otherwise spin without ever reaching EOF or the cap.
const maxRLEChunks = 1 << 20

// decompressBlob inflates a zlib-wrapped, custom-RLE-encoded object blob.
// The RLE contract: the inflated stream is a sequence of chunks, each
// either `+N` (an i32) followed by N literal bytes, or `-N` followed by N
// implicit zero bytes. Decoding reads chunks until the underlying zlib
// stream is exhausted, capped at declaredLen bytes produced — the schema
// observed here doesn't carry a separate uncompressed-length field, so
// natural stream EOF is the primary terminator and declaredLen is an
// allocation/runaway guard rather than a required exact match.
func decompressBlob(compressed []byte, declaredLen int) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("%w: zlib: %v", saveerr.ErrCorrupt, err)
	}
	defer zr.Close()

	out := make([]byte, 0, declaredLen)
	var lenBuf [4]byte
	for i := 0; i < maxRLEChunks; i++ {
		if _, err := io.ReadFull(zr, lenBuf[:]); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				break
			}
			return nil, fmt.Errorf("%w: rle chunk header: %v", saveerr.ErrCorrupt, err)
		}
		n := int32(binary.LittleEndian.Uint32(lenBuf[:]))
		switch {
		case n > 0:
			chunk := make([]byte, n)
			if _, err := io.ReadFull(zr, chunk); err != nil {
				return nil, fmt.Errorf("%w: rle literal chunk: %v", saveerr.ErrCorrupt, err)
			}
			out = append(out, chunk...)
		case n < 0:
			out = append(out, make([]byte, -n)...)
		}
		if declaredLen > 0 && len(out) >= declaredLen {
			break
		}
	}
	if declaredLen > 0 && len(out) > declaredLen {
		out = out[:declaredLen]
	}
	return out, nil
}
