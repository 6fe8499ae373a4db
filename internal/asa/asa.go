// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package asa implements the modern SQLite-container world/profile/tribe
// decoder: read-only database open with a pragma sanity check, schema
// discovery by table shape (not name), per-actor transform loading, and
// per-object compressed-blob decoding through the shared property decoder.
package asa

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/savekit/arksave/internal/container"
	"github.com/savekit/arksave/internal/nametable"
	"github.com/savekit/arksave/internal/props"
	"github.com/savekit/arksave/internal/reader"
	"github.com/savekit/arksave/saveerr"
)

// Result_t is the outcome of decoding one ASA save container.
type Result_t struct {
	GameTime  float64
	Container *container.Container_t
	Errors    *props.ParseErrorLog
}

// Open opens path read-only and confirms it is a well-formed SQLite
// database, following the teacher store's Open()-then-pragma-check shape.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?mode=ro&immutable=1", path))
	if err != nil {
		log.Printf("asa: open: %s: %v\n", path, err)
		return nil, fmt.Errorf("%w: %v", saveerr.ErrNotASQLiteDatabase, err)
	}

	var queryOnly int
	row := db.QueryRow(`PRAGMA query_only`)
	if err := row.Scan(&queryOnly); err != nil {
		_ = db.Close()
		log.Printf("asa: open: query_only pragma failed: %v\n", err)
		return nil, fmt.Errorf("%w: %v", saveerr.ErrPragmaReturnedNil, err)
	}

	if _, err := db.Query(`SELECT name FROM sqlite_master LIMIT 1`); err != nil {
		_ = db.Close()
		log.Printf("asa: open: not a sqlite database: %v\n", err)
		return nil, fmt.Errorf("%w: %v", saveerr.ErrNotASQLiteDatabase, err)
	}
	return db, nil
}

// Decode loads the full object graph from an already-open ASA container.
func Decode(db *sql.DB) (*Result_t, error) {
	header, actorsTable, customTable, err := discoverSchema(db)
	if err != nil {
		return nil, fmt.Errorf("asa: discovering schema: %w", err)
	}
	if header == nil {
		return nil, fmt.Errorf("%w: no header key/value table found", saveerr.ErrCorrupt)
	}
	if customTable == nil {
		return nil, fmt.Errorf("%w: no custom property blob table found", saveerr.ErrCorrupt)
	}

	nameBlob, gameTime, err := readHeaderTable(db, header)
	if err != nil {
		return nil, err
	}
	r := reader.New(nameBlob)
	count := estimateFStringCount(nameBlob)
	table, err := nametable.LoadTable(r, 0, count)
	if err != nil {
		return nil, fmt.Errorf("asa: loading name table: %w", err)
	}
	names := &nametable.Context{Strategy: nametable.Trailing, Table: table}

	locations, err := readLocations(db, actorsTable)
	if err != nil {
		return nil, err
	}

	errs := &props.ParseErrorLog{}
	ctx := &props.DecodeContext{Names: names, SizeWidth: props.SizeU64, ObjectRefs: props.ObjectRefGUID, Errors: errs}

	c := container.New()
	rows, err := db.Query(fmt.Sprintf(`SELECT %q, %q FROM %q`, customTable.columns[0].name, customTable.columns[1].name, customTable.name))
	if err != nil {
		return nil, fmt.Errorf("asa: querying custom table: %w", err)
	}
	defer rows.Close()

	id := 0
	for rows.Next() {
		var guidBytes, blob []byte
		if err := rows.Scan(&guidBytes, &blob); err != nil {
			return nil, fmt.Errorf("asa: scanning custom row: %w", err)
		}
		id++
		guid, err := uuid.FromBytes(guidBytes)
		if err != nil {
			errs.Add(0, saveerr.ErrCorrupt, fmt.Sprintf("malformed object guid: %v", err))
			continue
		}

		declared := len(blob) // declared uncompressed length isn't separately stored in observed schemas; decompressBlob stops naturally at zlib EOF when omitted, so over-estimate from the compressed size as a safe upper bound.
		data, err := decompressBlob(blob, declared*8+4096)
		if err != nil {
			errs.Add(0, saveerr.ErrCorrupt, fmt.Sprintf("guid %s: decompress: %v", guid, err))
			continue
		}

		objReader := reader.New(data)
		proplist, declErr := props.DecodePropertyList(ctx, objReader)
		if declErr != nil {
			// The object is still yielded below with whatever properties
			// were parsed before the failure, rather than dropped entirely.
			errs.Add(0, saveerr.ErrCorrupt, fmt.Sprintf("guid %s: property decode: %v", guid, declErr))
		}

		className := classNameFromProperties(proplist)
		loc := locations[guid]

		o := &container.GameObject_t{
			ID:         id,
			GUID:       guid,
			ClassName:  className,
			Names:      []nametable.Ref{{Name: guid.String()}},
			Properties: proplist,
			Location:   loc,
		}
		c.Add(o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("asa: iterating custom rows: %w", err)
	}
	c.BuildRelationships()

	return &Result_t{GameTime: gameTime, Container: c, Errors: errs}, nil
}

// classNameFromProperties has no dedicated class column in the custom
// table shape observed; ASA property blobs carry their class as an
// ObjectClass-style NameProperty in practice. When absent, ClassName is
// left empty and callers fall back to property-based model matching.
func classNameFromProperties(list []*props.Property_t) string {
	for _, p := range list {
		if p.Name.Name == "ObjectClass" || p.Name.Name == "ClassName" {
			if s, ok := p.Value.(props.StrValue); ok {
				return string(s)
			}
			if n, ok := p.Value.(props.NameValue); ok {
				return nametable.Ref(n).String()
			}
		}
	}
	return ""
}

func readHeaderTable(db *sql.DB, header *tableInfo) (nameBlob []byte, gameTime float64, err error) {
	keyCol, valCol := header.columns[0].name, header.columns[1].name
	rows, err := db.Query(fmt.Sprintf(`SELECT %q, %q FROM %q`, keyCol, valCol, header.name))
	if err != nil {
		return nil, 0, fmt.Errorf("asa: reading header table: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var val []byte
		if err := rows.Scan(&key, &val); err != nil {
			return nil, 0, fmt.Errorf("asa: scanning header row: %w", err)
		}
		if nameBlob == nil && looksLikeNameTable(val) {
			nameBlob = val
			continue
		}
		if len(val) == 8 {
			gameTime = asFloat64(val)
		}
	}
	if nameBlob == nil {
		return nil, 0, fmt.Errorf("%w: could not identify name table blob by shape", saveerr.ErrCorrupt)
	}
	return nameBlob, gameTime, rows.Err()
}

// looksLikeNameTable reports whether decoding blob as a run of FStrings
// consumes it cleanly to the end — the shape signature of a name table,
// used instead of trusting a column/key name that may vary by patch.
func looksLikeNameTable(blob []byte) bool {
	if len(blob) < 4 {
		return false
	}
	r := reader.New(blob)
	n := 0
	for r.Remaining() > 0 {
		if _, err := r.ReadFString(); err != nil {
			return false
		}
		n++
		if n > 1_000_000 {
			return false
		}
	}
	return n > 0
}

func asFloat64(b []byte) float64 {
	r := reader.New(b)
	v, err := r.ReadF64()
	if err != nil {
		return 0
	}
	return v
}

func estimateFStringCount(blob []byte) int {
	r := reader.New(blob)
	n := 0
	for r.Remaining() > 0 {
		if _, err := r.ReadFString(); err != nil {
			break
		}
		n++
	}
	return n
}

func readLocations(db *sql.DB, actorsTable *tableInfo) (map[uuid.UUID]*container.LocationData_t, error) {
	out := make(map[uuid.UUID]*container.LocationData_t)
	if actorsTable == nil {
		return out, nil
	}
	guidCol, xformCol := actorsTable.columns[0].name, actorsTable.columns[1].name
	rows, err := db.Query(fmt.Sprintf(`SELECT %q, %q FROM %q`, guidCol, xformCol, actorsTable.name))
	if err != nil {
		return nil, fmt.Errorf("asa: reading actor transforms: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var guidBytes, xform []byte
		if err := rows.Scan(&guidBytes, &xform); err != nil {
			return nil, fmt.Errorf("asa: scanning actor row: %w", err)
		}
		guid, err := uuid.FromBytes(guidBytes)
		if err != nil {
			continue
		}
		if len(xform) != 48 {
			continue
		}
		r := reader.New(xform)
		x, _ := r.ReadF64()
		y, _ := r.ReadF64()
		z, _ := r.ReadF64()
		pitch, _ := r.ReadF64()
		yaw, _ := r.ReadF64()
		roll, _ := r.ReadF64()
		out[guid] = &container.LocationData_t{X: x, Y: y, Z: z, Pitch: pitch, Yaw: yaw, Roll: roll}
	}
	return out, rows.Err()
}
