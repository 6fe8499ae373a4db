// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package nametable_test

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/savekit/arksave/internal/nametable"
	"github.com/savekit/arksave/internal/reader"
	"github.com/savekit/arksave/saveerr"
)

func fstring(s string) []byte {
	n := int32(len(s) + 1)
	buf := make([]byte, 4+len(s)+1)
	binary.LittleEndian.PutUint32(buf, uint32(n))
	copy(buf[4:], s)
	return buf
}

func TestLoadTableSeeksBackToSavedPosition(t *testing.T) {
	header := []byte{0xAA, 0xBB, 0xCC, 0xDD}
	var table []byte
	table = append(table, fstring("None")...)
	table = append(table, fstring("PlayerName")...)
	data := append(append([]byte{}, header...), table...)

	r := reader.New(data)
	if err := r.SeekTo(2); err != nil {
		t.Fatalf("seek: %v", err)
	}
	nt, err := nametable.LoadTable(r, int64(len(header)), 2)
	if err != nil {
		t.Fatalf("LoadTable() error = %v", err)
	}
	if r.Tell() != 2 {
		t.Errorf("reader position = %d, want 2 (restored)", r.Tell())
	}
	if nt.Len() != 2 {
		t.Errorf("Len() = %d, want 2", nt.Len())
	}

	got, err := nt.Resolve(1)
	if err != nil {
		t.Fatalf("Resolve(1) error = %v", err)
	}
	if got != "PlayerName" {
		t.Errorf("Resolve(1) = %q, want PlayerName", got)
	}
}

func TestResolveOutOfRangeIsFatal(t *testing.T) {
	r := reader.New(fstring("None"))
	nt, err := nametable.LoadTable(r, 0, 1)
	if err != nil {
		t.Fatalf("LoadTable() error = %v", err)
	}
	if _, err := nt.Resolve(5); !errors.Is(err, saveerr.ErrCorrupt) {
		t.Errorf("expected ErrCorrupt, got %v", err)
	}
}

func TestRefStringAndEquality(t *testing.T) {
	a := nametable.Ref{Name: "Health", Suffix: 0}
	b := nametable.Ref{Name: "Health", Suffix: 2}
	if a.String() != "Health" {
		t.Errorf("a.String() = %q, want Health", a.String())
	}
	if b.String() != "Health_2" {
		t.Errorf("b.String() = %q, want Health_2", b.String())
	}
	if a == b {
		t.Errorf("refs with different suffixes must not be equal")
	}
	if (nametable.Ref{Name: "Health"}) != (nametable.Ref{Name: "Health"}) {
		t.Errorf("identical refs must be equal")
	}
}

func TestContextInlineReadsFStringDirectly(t *testing.T) {
	ctx := &nametable.Context{Strategy: nametable.Inline}
	r := reader.New(fstring("StructProperty"))
	ref, err := ctx.ReadRef(r)
	if err != nil {
		t.Fatalf("ReadRef() error = %v", err)
	}
	if ref.Name != "StructProperty" || ref.Suffix != 0 {
		t.Errorf("ReadRef() = %+v", ref)
	}
}

func TestContextTrailingReadsIndexSuffixPair(t *testing.T) {
	tableData := append(fstring("None"), fstring("RandomMutationsFemale")...)
	tr := reader.New(tableData)
	nt, err := nametable.LoadTable(tr, 0, 2)
	if err != nil {
		t.Fatalf("LoadTable() error = %v", err)
	}
	ctx := &nametable.Context{Strategy: nametable.Trailing, Table: nt}

	body := make([]byte, 8)
	binary.LittleEndian.PutUint32(body[0:], 1)
	binary.LittleEndian.PutUint32(body[4:], 7)
	r := reader.New(body)

	ref, err := ctx.ReadRef(r)
	if err != nil {
		t.Fatalf("ReadRef() error = %v", err)
	}
	if ref.Name != "RandomMutationsFemale" || ref.Suffix != 7 {
		t.Errorf("ReadRef() = %+v", ref)
	}
	if ref.String() != "RandomMutationsFemale_7" {
		t.Errorf("String() = %q", ref.String())
	}
}

func TestNoneSentinel(t *testing.T) {
	if !(nametable.Ref{Name: "None"}).IsNone() {
		t.Error("expected None ref to report IsNone")
	}
	if (nametable.Ref{Name: "Health"}).IsNone() {
		t.Error("Health ref must not report IsNone")
	}
}
