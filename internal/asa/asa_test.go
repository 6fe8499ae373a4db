// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package asa

import (
	"bytes"
	"compress/zlib"
	"database/sql"
	"encoding/binary"
	"testing"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

func openMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("sql.Open() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func fstringBytes(s string) []byte {
	n := int32(len(s) + 1)
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, uint32(n))
	b = append(b, s...)
	b = append(b, 0)
	return b
}

func u32le(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func u64le(v uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	return b
}

func rleEncode(t *testing.T, raw []byte) []byte {
	t.Helper()
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(raw)))
	var rleBody []byte
	rleBody = append(rleBody, lenBuf[:]...)
	rleBody = append(rleBody, raw...)

	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(rleBody); err != nil {
		t.Fatalf("zlib write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("zlib close: %v", err)
	}
	return buf.Bytes()
}

func TestSchemaDiscoveryByShape(t *testing.T) {
	db := openMemoryDB(t)
	mustExec(t, db, `CREATE TABLE game (key TEXT, value BLOB)`)
	mustExec(t, db, `CREATE TABLE actors (guid BLOB, transform BLOB)`)
	mustExec(t, db, `CREATE TABLE custom (guid BLOB, data BLOB)`)
	// A two-BLOB table is classified from a sample row, so custom needs one.
	mustExec(t, db, `INSERT INTO custom (guid, data) VALUES (?, ?)`, make([]byte, 16), []byte{1, 2, 3})

	header, actors, custom, err := discoverSchema(db)
	if err != nil {
		t.Fatalf("discoverSchema() error = %v", err)
	}
	if header == nil || header.name != "game" {
		t.Errorf("header table = %+v, want game", header)
	}
	if custom == nil || custom.name != "custom" {
		t.Errorf("custom table = %+v, want custom", custom)
	}
	_ = actors // actors table has no sample row yet; classified unknown until populated
}

func mustExec(t *testing.T, db *sql.DB, stmt string, args ...any) {
	t.Helper()
	if _, err := db.Exec(stmt, args...); err != nil {
		t.Fatalf("exec %q: %v", stmt, err)
	}
}

func TestDecodeASAWorldSaveWithOneObject(t *testing.T) {
	db := openMemoryDB(t)
	mustExec(t, db, `CREATE TABLE game (key TEXT, value BLOB)`)
	mustExec(t, db, `CREATE TABLE actors (guid BLOB, transform BLOB)`)
	mustExec(t, db, `CREATE TABLE custom (guid BLOB, data BLOB)`)

	nameTable := append(fstringBytes("None"), fstringBytes("Health")...)
	nameTable = append(nameTable, fstringBytes("FloatProperty")...)
	mustExec(t, db, `INSERT INTO game (key, value) VALUES (?, ?)`, "NameTable", nameTable)
	mustExec(t, db, `INSERT INTO game (key, value) VALUES (?, ?)`, "GameTime", u64le(0))

	id := uuid.New()
	xform := make([]byte, 48) // all-zero position/rotation
	mustExec(t, db, `INSERT INTO actors (guid, transform) VALUES (?, ?)`, id[:], xform)

	var propBytes []byte
	propBytes = append(propBytes, u32le(1)...) // name index: Health
	propBytes = append(propBytes, u32le(0)...) // suffix
	propBytes = append(propBytes, u32le(2)...) // type index: FloatProperty
	propBytes = append(propBytes, u32le(0)...) // suffix
	propBytes = append(propBytes, u64le(4)...) // size (u64 width in ASA)
	propBytes = append(propBytes, u32le(0)...) // index
	propBytes = append(propBytes, []byte{0, 0, 128, 63}...) // 1.0f
	propBytes = append(propBytes, u32le(0)...)              // name index: None
	propBytes = append(propBytes, u32le(0)...)              // suffix

	blob := rleEncode(t, propBytes)
	mustExec(t, db, `INSERT INTO custom (guid, data) VALUES (?, ?)`, id[:], blob)

	result, err := Decode(db)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if result.Container.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", result.Container.Len())
	}
	obj, ok := result.Container.ByGUID(id)
	if !ok {
		t.Fatalf("object not indexed by guid %s", id)
	}
	if obj.Location == nil {
		t.Fatal("expected location to be populated from actors table")
	}
	if obj.Prop("Health") == nil {
		t.Error("expected Health property to be decoded")
	}
}
