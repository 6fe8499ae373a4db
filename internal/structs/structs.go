// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package structs implements the decoders for the closed set of registered
// game structs a StructProperty can name: core engine types (Vector,
// Rotator, Quat, LinearColor, Color, Guid, UniqueNetIdRepl, Transform,
// DateTime, Timespan) and the game-specific structs carried in player,
// tribe, and dino data (DinoAncestorsEntry, PrimalPlayerDataStruct,
// ArkInventoryData, ArkTribeGovernment, TribeAlliance, CryopodPayload).
//
// Every decoder consumes exactly the declared size, even for the
// game-specific structs whose exact internal layout varies by patch: the
// body is first sliced to size, decoded as far as known fields go, and any
// remainder is kept as raw bytes rather than guessed at.
package structs

import (
	"fmt"

	"github.com/savekit/arksave/internal/reader"
	"github.com/savekit/arksave/saveerr"
)

// Value is implemented by every decoded struct value.
type Value interface {
	isStructValue()
}

// Decoder decodes one struct value of a known size (the property's declared
// byte length) from r. It must consume exactly size bytes.
type Decoder func(r *reader.Reader, size uint64) (Value, error)

// Registry is the closed table of known struct-class names to decoders.
// Unknown names are UnknownStructError (saveerr.ErrUnknownStruct).
var Registry = map[string]Decoder{
	"Vector":                 decodeVector,
	"Vector_NetQuantize":     decodeVector,
	"Rotator":                decodeRotator,
	"Quat":                   decodeQuat,
	"LinearColor":            decodeLinearColor,
	"Color":                  decodeColor,
	"Guid":                   decodeGuid,
	"UniqueNetIdRepl":        decodeUniqueNetIdRepl,
	"Transform":              decodeTransform,
	"DateTime":               decodeDateTime,
	"Timespan":               decodeTimespan,
	"DinoAncestorsEntry":     decodeDinoAncestorsEntry,
	"PrimalPlayerDataStruct": decodePrimalPlayerDataStruct,
	"ArkInventoryData":       decodeArkInventoryData,
	"ArkTribeGovernment":     decodeArkTribeGovernment,
	"TribeAlliance":          decodeTribeAlliance,
	"CryopodPayload":         decodeCryopodPayload,
}

// Decode routes to the registered decoder for className, or returns
// saveerr.ErrUnknownStruct for anything outside the closed table.
func Decode(className string, r *reader.Reader, size uint64) (Value, error) {
	dec, ok := Registry[className]
	if !ok {
		return nil, fmt.Errorf("%w: %q", saveerr.ErrUnknownStruct, className)
	}
	return dec(r, size)
}

// sized reads exactly n bytes and returns a Reader scoped to just that
// slice, so a decoder can parse a known prefix and discard the rest without
// risking over- or under-reading the parent stream.
func sized(r *reader.Reader, n uint64) (*reader.Reader, error) {
	b, err := r.ReadBytes(int(n))
	if err != nil {
		return nil, err
	}
	return reader.New(b), nil
}

type Vector struct{ X, Y, Z float64 }

func (Vector) isStructValue() {}

func decodeVector(r *reader.Reader, size uint64) (Value, error) {
	switch size {
	case 24:
		x, _ := r.ReadF64()
		y, _ := r.ReadF64()
		z, err := r.ReadF64()
		return Vector{X: x, Y: y, Z: z}, err
	case 12:
		x, _ := r.ReadF32()
		y, _ := r.ReadF32()
		z, err := r.ReadF32()
		return Vector{X: float64(x), Y: float64(y), Z: float64(z)}, err
	default:
		return nil, fmt.Errorf("%w: Vector: unexpected size %d", saveerr.ErrUnexpected, size)
	}
}

type Rotator struct{ Pitch, Yaw, Roll float64 }

func (Rotator) isStructValue() {}

func decodeRotator(r *reader.Reader, size uint64) (Value, error) {
	switch size {
	case 24:
		p, _ := r.ReadF64()
		y, _ := r.ReadF64()
		ro, err := r.ReadF64()
		return Rotator{Pitch: p, Yaw: y, Roll: ro}, err
	case 12:
		p, _ := r.ReadF32()
		y, _ := r.ReadF32()
		ro, err := r.ReadF32()
		return Rotator{Pitch: float64(p), Yaw: float64(y), Roll: float64(ro)}, err
	default:
		return nil, fmt.Errorf("%w: Rotator: unexpected size %d", saveerr.ErrUnexpected, size)
	}
}

type Quat struct{ X, Y, Z, W float64 }

func (Quat) isStructValue() {}

func decodeQuat(r *reader.Reader, size uint64) (Value, error) {
	switch size {
	case 32:
		x, _ := r.ReadF64()
		y, _ := r.ReadF64()
		z, _ := r.ReadF64()
		w, err := r.ReadF64()
		return Quat{X: x, Y: y, Z: z, W: w}, err
	case 16:
		x, _ := r.ReadF32()
		y, _ := r.ReadF32()
		z, _ := r.ReadF32()
		w, err := r.ReadF32()
		return Quat{X: float64(x), Y: float64(y), Z: float64(z), W: float64(w)}, err
	default:
		return nil, fmt.Errorf("%w: Quat: unexpected size %d", saveerr.ErrUnexpected, size)
	}
}

type LinearColor struct{ R, G, B, A float32 }

func (LinearColor) isStructValue() {}

func decodeLinearColor(r *reader.Reader, size uint64) (Value, error) {
	if size != 16 {
		return nil, fmt.Errorf("%w: LinearColor: unexpected size %d", saveerr.ErrUnexpected, size)
	}
	rr, _ := r.ReadF32()
	g, _ := r.ReadF32()
	b, _ := r.ReadF32()
	a, err := r.ReadF32()
	return LinearColor{R: rr, G: g, B: b, A: a}, err
}

type Color struct{ B, G, R, A uint8 }

func (Color) isStructValue() {}

func decodeColor(r *reader.Reader, size uint64) (Value, error) {
	if size != 4 {
		return nil, fmt.Errorf("%w: Color: unexpected size %d", saveerr.ErrUnexpected, size)
	}
	b, _ := r.ReadU8()
	g, _ := r.ReadU8()
	rr, _ := r.ReadU8()
	a, err := r.ReadU8()
	return Color{B: b, G: g, R: rr, A: a}, err
}

type Guid struct{ Bytes [16]byte }

func (Guid) isStructValue() {}

func decodeGuid(r *reader.Reader, size uint64) (Value, error) {
	if size != 16 {
		return nil, fmt.Errorf("%w: Guid: unexpected size %d", saveerr.ErrUnexpected, size)
	}
	b, err := r.ReadGUID()
	return Guid{Bytes: b}, err
}

type UniqueNetIdRepl struct {
	Present bool
	Type    string
	Hex     string
}

func (UniqueNetIdRepl) isStructValue() {}

func decodeUniqueNetIdRepl(r *reader.Reader, size uint64) (Value, error) {
	sub, err := sized(r, size)
	if err != nil {
		return nil, err
	}
	present, err := sub.ReadBool8()
	if err != nil || !present {
		return UniqueNetIdRepl{Present: present}, nil
	}
	typ, err := sub.ReadFString()
	if err != nil {
		return UniqueNetIdRepl{Present: true}, nil
	}
	hex, err := sub.ReadFString()
	if err != nil {
		return UniqueNetIdRepl{Present: true, Type: typ}, nil
	}
	return UniqueNetIdRepl{Present: true, Type: typ, Hex: hex}, nil
}

type Transform struct {
	Rotation    Quat
	Translation Vector
	Scale3D     Vector
}

func (Transform) isStructValue() {}

func decodeTransform(r *reader.Reader, size uint64) (Value, error) {
	sub, err := sized(r, size)
	if err != nil {
		return nil, err
	}
	// modern Transform is rotation(f64 x4) + translation(f64 x3) + scale(f64 x3) = 80 bytes.
	// legacy layout is the f32 equivalent = 40 bytes.
	quatSize, vecSize := uint64(32), uint64(24)
	if size == 40 {
		quatSize, vecSize = 16, 12
	}
	rotV, err := decodeQuat(sub, quatSize)
	if err != nil {
		return nil, err
	}
	transV, err := decodeVector(sub, vecSize)
	if err != nil {
		return nil, err
	}
	scaleV, err := decodeVector(sub, vecSize)
	if err != nil {
		return nil, err
	}
	return Transform{Rotation: rotV.(Quat), Translation: transV.(Vector), Scale3D: scaleV.(Vector)}, nil
}

type DateTime struct{ Ticks int64 }

func (DateTime) isStructValue() {}

func decodeDateTime(r *reader.Reader, size uint64) (Value, error) {
	if size != 8 {
		return nil, fmt.Errorf("%w: DateTime: unexpected size %d", saveerr.ErrUnexpected, size)
	}
	v, err := r.ReadI64()
	return DateTime{Ticks: v}, err
}

type Timespan struct{ Ticks int64 }

func (Timespan) isStructValue() {}

func decodeTimespan(r *reader.Reader, size uint64) (Value, error) {
	if size != 8 {
		return nil, fmt.Errorf("%w: Timespan: unexpected size %d", saveerr.ErrUnexpected, size)
	}
	v, err := r.ReadI64()
	return Timespan{Ticks: v}, err
}

// DinoAncestorsEntry records one ancestor of a tamed creature's lineage.
type DinoAncestorsEntry struct {
	Name string
	ID1  uint32
	ID2  uint32
}

func (DinoAncestorsEntry) isStructValue() {}

func decodeDinoAncestorsEntry(r *reader.Reader, size uint64) (Value, error) {
	sub, err := sized(r, size)
	if err != nil {
		return nil, err
	}
	name, err := sub.ReadFString()
	if err != nil {
		return DinoAncestorsEntry{}, nil
	}
	id1, _ := sub.ReadU32()
	id2, _ := sub.ReadU32()
	return DinoAncestorsEntry{Name: name, ID1: id1, ID2: id2}, nil
}

// PrimalPlayerDataStruct carries profile-embedded inventory/engram payloads
// whose exact layout drifts between patches; only the leading player-data
// id is interpreted, the remainder is preserved for model extraction.
type PrimalPlayerDataStruct struct {
	PlayerDataID uint64
	Raw          []byte
}

func (PrimalPlayerDataStruct) isStructValue() {}

func decodePrimalPlayerDataStruct(r *reader.Reader, size uint64) (Value, error) {
	sub, err := sized(r, size)
	if err != nil {
		return nil, err
	}
	var id uint64
	if size >= 8 {
		id, _ = sub.ReadU64()
	}
	rest, _ := sub.ReadBytes(sub.Remaining())
	raw := append([]byte(nil), rest...)
	return PrimalPlayerDataStruct{PlayerDataID: id, Raw: raw}, nil
}

// ArkInventoryData wraps an item/inventory blob; the object-reference
// prefix (when present) is the owning inventory's object index.
type ArkInventoryData struct {
	OwnerIndex int32
	Raw        []byte
}

func (ArkInventoryData) isStructValue() {}

func decodeArkInventoryData(r *reader.Reader, size uint64) (Value, error) {
	sub, err := sized(r, size)
	if err != nil {
		return nil, err
	}
	var owner int32
	if size >= 4 {
		owner, _ = sub.ReadI32()
	}
	rest, _ := sub.ReadBytes(sub.Remaining())
	raw := append([]byte(nil), rest...)
	return ArkInventoryData{OwnerIndex: owner, Raw: raw}, nil
}

// ArkTribeGovernment carries a tribe's voting/decay policy settings.
type ArkTribeGovernment struct {
	TribeWarTimer   float32
	DecayGracePeriod float32
	Raw             []byte
}

func (ArkTribeGovernment) isStructValue() {}

func decodeArkTribeGovernment(r *reader.Reader, size uint64) (Value, error) {
	sub, err := sized(r, size)
	if err != nil {
		return nil, err
	}
	var warTimer, grace float32
	if size >= 4 {
		warTimer, _ = sub.ReadF32()
	}
	if size >= 8 {
		grace, _ = sub.ReadF32()
	}
	rest, _ := sub.ReadBytes(sub.Remaining())
	raw := append([]byte(nil), rest...)
	return ArkTribeGovernment{TribeWarTimer: warTimer, DecayGracePeriod: grace, Raw: raw}, nil
}

// TribeAlliance records an alliance's id and the tribe ids that belong to it.
type TribeAlliance struct {
	AllianceID uint32
	TribeIDs   []uint32
}

func (TribeAlliance) isStructValue() {}

func decodeTribeAlliance(r *reader.Reader, size uint64) (Value, error) {
	sub, err := sized(r, size)
	if err != nil {
		return nil, err
	}
	var allianceID uint32
	if size >= 4 {
		allianceID, _ = sub.ReadU32()
	}
	var ids []uint32
	for sub.Remaining() >= 4 {
		id, err := sub.ReadU32()
		if err != nil {
			break
		}
		ids = append(ids, id)
	}
	return TribeAlliance{AllianceID: allianceID, TribeIDs: ids}, nil
}

// CryopodPayload is the struct-embedded form (ASA) of a cryopod's mini-save;
// ASE carries the equivalent data as a byte-array custom item property
// instead (see the models package's cryopod extraction). Data is the raw
// mini-save blob, decoded recursively the same way a top-level ASE save is.
type CryopodPayload struct {
	Data []byte
}

func (CryopodPayload) isStructValue() {}

func decodeCryopodPayload(r *reader.Reader, size uint64) (Value, error) {
	b, err := r.ReadBytes(int(size))
	if err != nil {
		return nil, err
	}
	return CryopodPayload{Data: append([]byte(nil), b...)}, nil
}
