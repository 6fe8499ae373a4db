// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package asa

import (
	"database/sql"
	"fmt"
)

// tableShape classifies one of the container's tables by its column shape
// rather than its name, per the format's open question: ASA table/column
// names vary between game patches, but the three roles — header key/value,
// fixed-size per-actor transform, and variable-size compressed property
// blob — are stable in shape.
type tableShape int

const (
	shapeUnknown tableShape = iota
	shapeGameHeader
	shapeActorTransform
	shapeCustomBlob
)

type tableInfo struct {
	name    string
	columns []columnInfo
	shape   tableShape
}

type columnInfo struct {
	name string
	typ  string
}

func listTables(db *sql.DB) ([]string, error) {
	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type = 'table'`)
	if err != nil {
		return nil, fmt.Errorf("asa: listing tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("asa: scanning table name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func columnsOf(db *sql.DB, table string) ([]columnInfo, error) {
	rows, err := db.Query(fmt.Sprintf(`PRAGMA table_info(%q)`, table))
	if err != nil {
		return nil, fmt.Errorf("asa: reading columns of %s: %w", table, err)
	}
	defer rows.Close()

	var cols []columnInfo
	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dflt any
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("asa: scanning column info: %w", err)
		}
		cols = append(cols, columnInfo{name: name, typ: ctype})
	}
	return cols, rows.Err()
}

// classify inspects table by column count/type and, for two-BLOB-column
// tables, by sampling the first row's second column length: a fixed 48-byte
// (3x position + 3x rotation, f64) value is a transform table; anything
// else with a sizable blob is the compressed custom-property table.
func classify(db *sql.DB, t tableInfo) tableShape {
	if len(t.columns) != 2 {
		return shapeUnknown
	}
	a, b := t.columns[0], t.columns[1]
	if isTextLike(a.typ) && isBlobLike(b.typ) {
		return shapeGameHeader
	}
	if !isBlobLike(a.typ) || !isBlobLike(b.typ) {
		return shapeUnknown
	}

	row := db.QueryRow(fmt.Sprintf(`SELECT %q FROM %q LIMIT 1`, b.name, t.name))
	var sample []byte
	if err := row.Scan(&sample); err != nil {
		return shapeUnknown
	}
	if len(sample) == 48 {
		return shapeActorTransform
	}
	return shapeCustomBlob
}

func isTextLike(t string) bool {
	switch t {
	case "TEXT", "VARCHAR", "CHAR", "":
		return true
	default:
		return false
	}
}

func isBlobLike(t string) bool {
	return t == "BLOB" || t == ""
}

// discoverSchema lists every table and classifies it, returning the first
// table found for each shape of interest.
func discoverSchema(db *sql.DB) (header, actors, custom *tableInfo, err error) {
	names, err := listTables(db)
	if err != nil {
		return nil, nil, nil, err
	}
	for _, name := range names {
		cols, err := columnsOf(db, name)
		if err != nil {
			return nil, nil, nil, err
		}
		t := tableInfo{name: name, columns: cols}
		t.shape = classify(db, t)
		switch t.shape {
		case shapeGameHeader:
			if header == nil {
				tc := t
				header = &tc
			}
		case shapeActorTransform:
			if actors == nil {
				tc := t
				actors = &tc
			}
		case shapeCustomBlob:
			if custom == nil {
				tc := t
				custom = &tc
			}
		}
	}
	return header, actors, custom, nil
}
