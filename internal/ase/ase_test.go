// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package ase_test

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/savekit/arksave/internal/ase"
	"github.com/savekit/arksave/internal/props"
)

// aseBuf is a small byte-slice builder for hand-constructing an ASE file
// matching the component design's fixed header and trailing name-table
// layout.
type aseBuf struct{ b []byte }

func (w *aseBuf) u32(v uint32) *aseBuf {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	w.b = append(w.b, b...)
	return w
}
func (w *aseBuf) i32(v int32) *aseBuf  { return w.u32(uint32(v)) }
func (w *aseBuf) bool32(v bool) *aseBuf {
	if v {
		return w.u32(1)
	}
	return w.u32(0)
}
func (w *aseBuf) f32(v float32) *aseBuf {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, math.Float32bits(v))
	w.b = append(w.b, b...)
	return w
}
func (w *aseBuf) pair(v int64) *aseBuf {
	w.u32(uint32(uint64(v) & 0xffffffff))
	w.u32(uint32(uint64(v) >> 32))
	return w
}
func (w *aseBuf) fstring(s string) *aseBuf {
	n := int32(len(s) + 1)
	w.i32(n)
	w.b = append(w.b, s...)
	w.b = append(w.b, 0)
	return w
}
func (w *aseBuf) nameref(index, suffix uint32) *aseBuf {
	w.u32(index)
	w.u32(suffix)
	return w
}
func (w *aseBuf) raw(b ...byte) *aseBuf {
	w.b = append(w.b, b...)
	return w
}

// names used by the fixture, in table order.
const (
	nNone = iota
	nPlayerDataPC
	nPrimalPlayerDataC
	nPlayerName
	nStrProperty
	nPlayerDataID
	nUInt64Property
	nTribeID
	nIntProperty
)

var nameTable = []string{
	"None", "PlayerDataPC", "PrimalPlayerData_C", "PlayerName",
	"StrProperty", "PlayerDataID", "UInt64Property", "TribeID", "IntProperty",
}

func buildEmptyProfileFixture() []byte {
	const headerLen = 40
	nameTableLen := 0
	for _, s := range nameTable {
		nameTableLen += 4 + len(s) + 1
	}
	objectsOffset := int64(headerLen + nameTableLen)
	const objectHeaderLen = 64
	propsOffset := objectsOffset + objectHeaderLen

	w := &aseBuf{}
	w.i32(6)              // version
	w.f32(0)              // game time
	w.pair(headerLen)     // name table offset
	w.i32(1)              // object count
	w.pair(objectsOffset) // objects offset
	w.pair(0)             // props offset (header-level field, unused)
	w.i32(0)              // num data files

	for _, s := range nameTable {
		w.fstring(s)
	}

	// object header
	w.raw(make([]byte, 16)...) // guid, zero
	w.i32(1)                   // name count
	w.nameref(nPlayerDataPC, 0)
	w.bool32(false) // is item
	w.i32(1)        // component count
	w.nameref(nPrimalPlayerDataC, 0)
	w.bool32(false) // has location
	w.pair(propsOffset)
	w.bool32(true) // should be loaded
	w.u32(0)       // extra data size

	// property list
	w.nameref(nPlayerName, 0)
	w.nameref(nStrProperty, 0)
	w.u32(10) // size: 4-byte length prefix + "Alice\0"
	w.u32(0)  // index
	w.i32(6)
	w.b = append(w.b, "Alice"...)
	w.b = append(w.b, 0)

	w.nameref(nPlayerDataID, 0)
	w.nameref(nUInt64Property, 0)
	w.u32(8)
	w.u32(0)
	var idBuf [8]byte
	binary.LittleEndian.PutUint64(idBuf[:], 42)
	w.raw(idBuf[:]...)

	w.nameref(nTribeID, 0)
	w.nameref(nIntProperty, 0)
	w.u32(4)
	w.u32(0)
	w.i32(1)

	w.nameref(nNone, 0)

	return w.b
}

func TestDecodeEmptyASEProfile(t *testing.T) {
	data := buildEmptyProfileFixture()
	result, err := ase.Decode(data, 6)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if result.Container.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", result.Container.Len())
	}
	obj := result.Container.All()[0]
	if obj.ClassName != "PrimalPlayerData_C" {
		t.Errorf("ClassName = %q, want PrimalPlayerData_C", obj.ClassName)
	}

	name := obj.Prop("PlayerName")
	if name == nil {
		t.Fatal("PlayerName property missing")
	}
	if got := name.Value.(props.StrValue); got != "Alice" {
		t.Errorf("PlayerName = %q, want Alice", got)
	}

	id := obj.Prop("PlayerDataID")
	if id == nil || id.Value.(props.UInt64Value) != 42 {
		t.Errorf("PlayerDataID = %+v, want 42", id)
	}

	tribe := obj.Prop("TribeID")
	if tribe == nil || tribe.Value.(props.IntValue) != 1 {
		t.Errorf("TribeID = %+v, want 1", tribe)
	}

	if result.Errors.Count() != 0 {
		t.Errorf("parse error count = %d, want 0", result.Errors.Count())
	}
}
