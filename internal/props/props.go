// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package props implements the self-describing property system: the
// per-type prelude/value decoders keyed by tag, the property-list loop
// terminated by the "None" sentinel, and the forward-progress recovery
// contract that keeps a single malformed property from corrupting the rest
// of the object.
package props

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/savekit/arksave/internal/nametable"
	"github.com/savekit/arksave/internal/reader"
	"github.com/savekit/arksave/internal/structs"
	"github.com/savekit/arksave/saveerr"
)

// SizeWidth selects whether a property's declared size is a u32 or u64 on
// disk — ASE uses u32, ASA's blob format uses u64.
type SizeWidth int

const (
	SizeU32 SizeWidth = iota
	SizeU64
)

// ObjectRefWidth selects how ObjectProperty values are encoded.
type ObjectRefWidth int

const (
	ObjectRefIndex ObjectRefWidth = iota // ASE: i32 index, -1 == null
	ObjectRefGUID                        // ASA: 16-byte GUID, all-zero == null
)

// ParseError_t records one recoverable decoding failure.
type ParseError_t struct {
	Offset int64
	Kind   error
	Detail string
}

// ParseErrorLog accumulates ParseError_t entries during a decode.
type ParseErrorLog struct {
	entries []ParseError_t
}

func (l *ParseErrorLog) Add(offset int64, kind error, detail string) {
	l.entries = append(l.entries, ParseError_t{Offset: offset, Kind: kind, Detail: detail})
}

func (l *ParseErrorLog) Count() int { return len(l.entries) }

func (l *ParseErrorLog) Entries() []ParseError_t { return l.entries }

// DecodeContext is the single value threaded through one decode call,
// carrying the active NameTable strategy, size/object-ref width, and the
// error log properties recover into.
type DecodeContext struct {
	Names      *nametable.Context
	SizeWidth  SizeWidth
	ObjectRefs ObjectRefWidth
	Errors     *ParseErrorLog
}

// ObjectRef is an object reference: either an index into the current
// container's object table (ASE) or a GUID (ASA).
type ObjectRef struct {
	Index  int32
	GUID   uuid.UUID
	IsGUID bool
}

// IsNull reports whether the reference is the null sentinel for its format.
func (o ObjectRef) IsNull() bool {
	if o.IsGUID {
		return o.GUID == uuid.Nil
	}
	return o.Index < 0
}

// Value is implemented by every decoded property value variant.
type Value interface {
	isPropertyValue()
}

type BoolValue bool

func (BoolValue) isPropertyValue() {}

type ByteValue struct {
	EnumType string // "None" when the byte is a raw value, not an enum
	Raw      uint8
	Name     string // resolved enum value name, valid when EnumType != "None"
}

func (ByteValue) isPropertyValue() {}

type IntValue int32

func (IntValue) isPropertyValue() {}

type UInt32Value uint32

func (UInt32Value) isPropertyValue() {}

type UInt64Value uint64

func (UInt64Value) isPropertyValue() {}

type Int64Value int64

func (Int64Value) isPropertyValue() {}

type FloatValue float32

func (FloatValue) isPropertyValue() {}

type DoubleValue float64

func (DoubleValue) isPropertyValue() {}

type StrValue string

func (StrValue) isPropertyValue() {}

type NameValue nametable.Ref

func (NameValue) isPropertyValue() {}

type TextValue struct {
	Flags     uint32
	Namespace string
	Key       string
	Source    string
}

func (TextValue) isPropertyValue() {}

type EnumValue struct {
	EnumType string
	Value    string
}

func (EnumValue) isPropertyValue() {}

type ObjectValue ObjectRef

func (ObjectValue) isPropertyValue() {}

type StructValue struct {
	ClassName  string
	Typed      structs.Value // non-nil when ClassName is a registered struct
	Anonymous  []*Property_t // non-nil when ClassName is not registered
}

func (StructValue) isPropertyValue() {}

type ArrayValue struct {
	InnerTag Tag_e
	Items    []Value
}

func (ArrayValue) isPropertyValue() {}

type SetValue struct {
	InnerTag Tag_e
	Items    []Value
}

func (SetValue) isPropertyValue() {}

type MapPair struct {
	Key   Value
	Value Value
}

// RawValue holds the undecoded bytes of a property whose type name wasn't
// recognized — forward progress (§4.4) means the property is still yielded,
// just opaque, rather than aborting the whole decode.
type RawValue []byte

func (RawValue) isPropertyValue() {}

type MapValue struct {
	KeyTag   Tag_e
	ValueTag Tag_e
	Pairs    []MapPair
}

func (MapValue) isPropertyValue() {}

// Property_t is one self-describing record from a property list.
type Property_t struct {
	Name  nametable.Ref
	Type  Tag_e
	Index uint32
	Value Value
}

// DecodePropertyList reads properties until the "None" sentinel name is
// encountered, returning the ordered list (order matters: duplicate names
// with differing Index fields are how stat arrays are represented).
func DecodePropertyList(ctx *DecodeContext, r *reader.Reader) ([]*Property_t, error) {
	var list []*Property_t
	for {
		name, err := ctx.Names.ReadRef(r)
		if err != nil {
			return list, fmt.Errorf("props: reading property name: %w", err)
		}
		if name.IsNone() {
			return list, nil
		}

		prop, err := decodeOne(ctx, r, name)
		if err != nil {
			return list, err
		}
		list = append(list, prop)
	}
}

func (w SizeWidth) read(r *reader.Reader) (uint64, error) {
	if w == SizeU64 {
		return r.ReadU64()
	}
	v, err := r.ReadU32()
	return uint64(v), err
}

// decodeOne decodes a single property record after its name has already
// been read. It implements the property-parsing contract: if the value
// decoder doesn't consume exactly `size` bytes, the cursor is forced to
// `offset + size` and a ParseError_t is recorded rather than the error
// propagating up the stack.
func decodeOne(ctx *DecodeContext, r *reader.Reader, name nametable.Ref) (*Property_t, error) {
	typeRef, err := ctx.Names.ReadRef(r)
	if err != nil {
		return nil, fmt.Errorf("props: %q: reading type: %w", name.String(), err)
	}
	tag := TagFromTypeName(typeRef.Name)

	size, err := ctx.SizeWidth.read(r)
	if err != nil {
		return nil, fmt.Errorf("props: %q: reading size: %w", name.String(), err)
	}
	index, err := r.ReadU32()
	if err != nil {
		return nil, fmt.Errorf("props: %q: reading index: %w", name.String(), err)
	}

	// The tag-specific prelude (a bool's value byte; an enum, struct or inner
	// element type name) precedes the value bytes and is not counted by size.
	start := r.Tell()
	switch tag {
	case TagBool:
		_, err = r.ReadU8()
	case TagByte, TagEnum, TagStruct, TagArray, TagSet:
		_, err = ctx.Names.ReadRef(r)
	case TagMap:
		if _, err = ctx.Names.ReadRef(r); err == nil {
			_, err = ctx.Names.ReadRef(r)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("props: %q: reading prelude: %w", name.String(), err)
	}

	pre := r.Tell()
	end := int64(pre) + int64(size)

	// Unrecognized type name: there's no decoder to dispatch to, so there's
	// nothing to attempt — skip straight to the recovery path and yield the
	// property with its raw bytes rather than aborting the whole decode.
	if tag == TagUnknown {
		raw, _ := r.ReadBytes(int(size))
		ctx.Errors.Add(int64(pre), saveerr.ErrUnknownProperty, fmt.Sprintf("unrecognized property type %q", typeRef.Name))
		if err := r.SeekTo(int(end)); err != nil {
			return nil, fmt.Errorf("props: %q: recovery seek past end of buffer: %w", name.String(), err)
		}
		return &Property_t{Name: name, Type: tag, Index: index, Value: RawValue(raw)}, nil
	}

	_ = r.SeekTo(start)
	value, decErr := decodeValue(ctx, r, tag, size)

	if decErr != nil || int64(r.Tell()) != end {
		detail := ""
		if decErr != nil {
			detail = decErr.Error()
		} else {
			detail = fmt.Sprintf("consumed %d bytes, declared %d", r.Tell()-pre, size)
		}
		ctx.Errors.Add(int64(pre), classifyError(decErr), detail)
		if err := r.SeekTo(int(end)); err != nil {
			return nil, fmt.Errorf("props: %q: recovery seek past end of buffer: %w", name.String(), err)
		}
	}

	return &Property_t{Name: name, Type: tag, Index: index, Value: value}, nil
}

func classifyError(err error) error {
	switch {
	case err == nil:
		return saveerr.ErrUnexpected
	case errors.Is(err, saveerr.ErrUnknownStruct):
		return saveerr.ErrUnknownStruct
	case errors.Is(err, saveerr.ErrUnknownProperty):
		return saveerr.ErrUnknownProperty
	case errors.Is(err, saveerr.ErrEndOfData):
		return saveerr.ErrEndOfData
	case errors.Is(err, saveerr.ErrCorrupt):
		return saveerr.ErrCorrupt
	default:
		return saveerr.ErrUnexpected
	}
}

func decodeValue(ctx *DecodeContext, r *reader.Reader, tag Tag_e, size uint64) (Value, error) {
	switch tag {
	case TagBool:
		// BoolProperty carries its value inline in the prelude (size is 0).
		// ASA uses a different placeholder byte for this slot; since the
		// boolean's truthiness is the only thing that matters downstream,
		// both formats are read the same way here.
		v, err := r.ReadBool8()
		return BoolValue(v), err
	case TagByte:
		enumRef, err := ctx.Names.ReadRef(r)
		if err != nil {
			return nil, err
		}
		if enumRef.Name == "None" {
			v, err := r.ReadU8()
			return ByteValue{EnumType: "None", Raw: v}, err
		}
		nameRef, err := ctx.Names.ReadRef(r)
		if err != nil {
			return nil, err
		}
		return ByteValue{EnumType: enumRef.Name, Name: nameRef.String()}, nil
	case TagInt:
		v, err := r.ReadI32()
		return IntValue(v), err
	case TagUInt32:
		v, err := r.ReadU32()
		return UInt32Value(v), err
	case TagUInt64:
		v, err := r.ReadU64()
		return UInt64Value(v), err
	case TagInt64:
		v, err := r.ReadI64()
		return Int64Value(v), err
	case TagFloat:
		v, err := r.ReadF32()
		return FloatValue(v), err
	case TagDouble:
		v, err := r.ReadF64()
		return DoubleValue(v), err
	case TagStr:
		v, err := r.ReadFString()
		return StrValue(v), err
	case TagName:
		ref, err := ctx.Names.ReadRef(r)
		return NameValue(ref), err
	case TagText:
		return decodeText(r)
	case TagEnum:
		enumTypeRef, err := ctx.Names.ReadRef(r)
		if err != nil {
			return nil, err
		}
		valueRef, err := ctx.Names.ReadRef(r)
		if err != nil {
			return nil, err
		}
		return EnumValue{EnumType: enumTypeRef.Name, Value: valueRef.String()}, nil
	case TagObject:
		return decodeObjectRef(ctx, r)
	case TagStruct:
		return decodeStruct(ctx, r, size)
	case TagArray:
		return decodeArrayOrSet(ctx, r, false)
	case TagSet:
		return decodeArrayOrSet(ctx, r, true)
	case TagMap:
		return decodeMap(ctx, r)
	default:
		return nil, fmt.Errorf("%w: tag %s", saveerr.ErrUnknownProperty, tag)
	}
}

func decodeText(r *reader.Reader) (Value, error) {
	flags, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	namespace, err := r.ReadFString()
	if err != nil {
		return nil, err
	}
	key, err := r.ReadFString()
	if err != nil {
		return nil, err
	}
	source, err := r.ReadFString()
	if err != nil {
		return nil, err
	}
	return TextValue{Flags: flags, Namespace: namespace, Key: key, Source: source}, nil
}

func decodeObjectRef(ctx *DecodeContext, r *reader.Reader) (Value, error) {
	if ctx.ObjectRefs == ObjectRefGUID {
		b, err := r.ReadGUID()
		if err != nil {
			return nil, err
		}
		id, err := uuid.FromBytes(b[:])
		if err != nil {
			return nil, fmt.Errorf("%w: object ref guid: %v", saveerr.ErrCorrupt, err)
		}
		return ObjectValue{GUID: id, IsGUID: true}, nil
	}
	idx, err := r.ReadI32()
	return ObjectValue{Index: idx}, err
}

func decodeStruct(ctx *DecodeContext, r *reader.Reader, size uint64) (Value, error) {
	classRef, err := ctx.Names.ReadRef(r)
	if err != nil {
		return nil, err
	}
	if _, ok := structs.Registry[classRef.Name]; ok {
		v, err := structs.Decode(classRef.Name, r, size)
		if err != nil {
			return nil, err
		}
		return StructValue{ClassName: classRef.Name, Typed: v}, nil
	}
	// Not a registered fixed-schema struct: decode it as an anonymous
	// sequence of nested properties terminated by "None".
	props, err := DecodePropertyList(ctx, r)
	if err != nil {
		return nil, err
	}
	return StructValue{ClassName: classRef.Name, Anonymous: props}, nil
}

func decodeArrayOrSet(ctx *DecodeContext, r *reader.Reader, isSet bool) (Value, error) {
	innerRef, err := ctx.Names.ReadRef(r)
	if err != nil {
		return nil, err
	}
	innerTag := TagFromTypeName(innerRef.Name)

	count, err := r.ReadU32()
	if err != nil {
		return nil, err
	}

	var structType string
	var structSize uint32
	if innerTag == TagStruct {
		if _, err := ctx.Names.ReadRef(r); err != nil { // inner property name, discarded
			return nil, err
		}
		typeRef, err := ctx.Names.ReadRef(r)
		if err != nil {
			return nil, err
		}
		structType = typeRef.Name
		structSize, err = r.ReadU32()
		if err != nil {
			return nil, err
		}
	}

	items := make([]Value, 0, count)
	for i := uint32(0); i < count; i++ {
		var v Value
		var err error
		if innerTag == TagStruct {
			sv, serr := structs.Decode(structType, r, uint64(structSize))
			err = serr
			if serr == nil {
				v = StructValue{ClassName: structType, Typed: sv}
			}
		} else {
			v, err = decodeInner(ctx, r, innerTag)
		}
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		items = append(items, v)
	}
	if isSet {
		return SetValue{InnerTag: innerTag, Items: items}, nil
	}
	return ArrayValue{InnerTag: innerTag, Items: items}, nil
}

func decodeMap(ctx *DecodeContext, r *reader.Reader) (Value, error) {
	keyRef, err := ctx.Names.ReadRef(r)
	if err != nil {
		return nil, err
	}
	valueRef, err := ctx.Names.ReadRef(r)
	if err != nil {
		return nil, err
	}
	keyTag := TagFromTypeName(keyRef.Name)
	valueTag := TagFromTypeName(valueRef.Name)

	if _, err := r.ReadU32(); err != nil { // num_removed, discarded
		return nil, err
	}
	count, err := r.ReadU32()
	if err != nil {
		return nil, err
	}

	pairs := make([]MapPair, 0, count)
	for i := uint32(0); i < count; i++ {
		k, err := decodeInner(ctx, r, keyTag)
		if err != nil {
			return nil, fmt.Errorf("pair %d key: %w", i, err)
		}
		v, err := decodeInner(ctx, r, valueTag)
		if err != nil {
			return nil, fmt.Errorf("pair %d value: %w", i, err)
		}
		pairs = append(pairs, MapPair{Key: k, Value: v})
	}
	return MapValue{KeyTag: keyTag, ValueTag: valueTag, Pairs: pairs}, nil
}

// decodeInner decodes one bare value of tag inside an array/set/map — no
// name/type/size/index framing, since container elements are self-
// delimiting by construction (fixed-width scalars or self-describing
// FStrings/NameRefs).
func decodeInner(ctx *DecodeContext, r *reader.Reader, tag Tag_e) (Value, error) {
	switch tag {
	case TagBool:
		v, err := r.ReadBool32()
		return BoolValue(v), err
	case TagByte:
		v, err := r.ReadU8()
		return ByteValue{EnumType: "None", Raw: v}, err
	case TagInt:
		v, err := r.ReadI32()
		return IntValue(v), err
	case TagUInt32:
		v, err := r.ReadU32()
		return UInt32Value(v), err
	case TagUInt64:
		v, err := r.ReadU64()
		return UInt64Value(v), err
	case TagInt64:
		v, err := r.ReadI64()
		return Int64Value(v), err
	case TagFloat:
		v, err := r.ReadF32()
		return FloatValue(v), err
	case TagDouble:
		v, err := r.ReadF64()
		return DoubleValue(v), err
	case TagStr:
		v, err := r.ReadFString()
		return StrValue(v), err
	case TagName:
		ref, err := ctx.Names.ReadRef(r)
		return NameValue(ref), err
	case TagEnum:
		ref, err := ctx.Names.ReadRef(r)
		return EnumValue{Value: ref.String()}, err
	case TagObject:
		return decodeObjectRef(ctx, r)
	default:
		return nil, fmt.Errorf("%w: container element tag %s", saveerr.ErrUnknownProperty, tag)
	}
}
