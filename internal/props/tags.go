// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package props

import (
	"encoding/json"
	"fmt"
)

// Tag_e is the property's self-describing type tag, read as a NameRef on
// disk (e.g. "IntProperty", "StructProperty") and normalized here to a
// small enum for dispatch, following the teacher's Type_e enum convention.
type Tag_e int

const (
	TagUnknown Tag_e = iota
	TagBool
	TagByte
	TagInt
	TagUInt32
	TagUInt64
	TagInt64
	TagFloat
	TagDouble
	TagStr
	TagName
	TagText
	TagEnum
	TagObject
	TagStruct
	TagArray
	TagMap
	TagSet
)

var (
	// EnumToString is a helper map for marshalling the enum.
	EnumToString = map[Tag_e]string{
		TagBool:   "BoolProperty",
		TagByte:   "ByteProperty",
		TagInt:    "IntProperty",
		TagUInt32: "UInt32Property",
		TagUInt64: "UInt64Property",
		TagInt64:  "Int64Property",
		TagFloat:  "FloatProperty",
		TagDouble: "DoubleProperty",
		TagStr:    "StrProperty",
		TagName:   "NameProperty",
		TagText:   "TextProperty",
		TagEnum:   "EnumProperty",
		TagObject: "ObjectProperty",
		TagStruct: "StructProperty",
		TagArray:  "ArrayProperty",
		TagMap:    "MapProperty",
		TagSet:    "SetProperty",
	}
	// StringToEnum is a helper map for unmarshalling the enum.
	StringToEnum = map[string]Tag_e{}
)

func init() {
	for tag, name := range EnumToString {
		StringToEnum[name] = tag
	}
}

// MarshalJSON implements the json.Marshaler interface.
func (t Tag_e) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// String implements the fmt.Stringer interface.
func (t Tag_e) String() string {
	if s, ok := EnumToString[t]; ok {
		return s
	}
	return fmt.Sprintf("Tag(%d)", int(t))
}

// TagFromTypeName maps a property's "type" NameRef string to its Tag_e, or
// TagUnknown if the name isn't one of the recognized property tags.
func TagFromTypeName(name string) Tag_e {
	if t, ok := StringToEnum[name]; ok {
		return t
	}
	return TagUnknown
}
