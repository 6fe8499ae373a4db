// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package nametable implements the deduplicated string pool used for
// property and class names: a trailing table for formats that index into a
// header-declared table, and an inline strategy for formats that write
// every name as a plain FString in place.
package nametable

import (
	"fmt"

	"github.com/savekit/arksave/internal/reader"
	"github.com/savekit/arksave/saveerr"
)

// Ref is a resolved, logical interned string: the name itself plus the
// numeric suffix UE-style FNames carry (0 when absent). Equality compares
// both fields, matching the data model's NameRef equality rule.
type Ref struct {
	Name   string
	Suffix uint32
}

// String renders "<name>_<suffix>" when Suffix != 0, else the bare name.
func (r Ref) String() string {
	if r.Suffix == 0 {
		return r.Name
	}
	return fmt.Sprintf("%s_%d", r.Name, r.Suffix)
}

// IsNone reports whether this ref is the "None" sentinel that terminates
// property lists and anonymous structs.
func (r Ref) IsNone() bool {
	return r.Name == "None"
}

// Strategy selects how NameRefs are materialized for the file being decoded.
type Strategy int

const (
	// Inline: every NameRef is an FString read in place, no index.
	Inline Strategy = iota
	// Trailing: NameRefs are (index uint32, suffix uint32) pairs resolved
	// against a table loaded once from a header-declared offset.
	Trailing
)

// Table is the deduplicated string pool for the Trailing strategy: header
// declares an offset and count, the reader seeks there, decodes count
// FStrings, and returns to the saved position. The whole table is
// materialized up front, so resolving an index is a plain slice lookup —
// there's no working set smaller than the full table to bound a cache to.
type Table struct {
	names []string
}

// LoadTable seeks to offset, reads count FStrings, and restores the
// reader's original position before returning.
func LoadTable(r *reader.Reader, offset int64, count int) (*Table, error) {
	saved := r.Tell()
	defer func() { _ = r.SeekTo(saved) }()

	if err := r.SeekTo(int(offset)); err != nil {
		return nil, fmt.Errorf("nametable: seek to offset %d: %w", offset, err)
	}
	names := make([]string, count)
	for i := 0; i < count; i++ {
		s, err := r.ReadFString()
		if err != nil {
			return nil, fmt.Errorf("nametable: entry %d: %w", i, err)
		}
		names[i] = s
	}
	return &Table{names: names}, nil
}

func (t *Table) Len() int { return len(t.names) }

// Resolve maps a table index to its string, per invariant 1 of the data
// model: an out-of-range index is a fatal corruption error.
func (t *Table) Resolve(index uint32) (string, error) {
	if int(index) >= len(t.names) {
		return "", fmt.Errorf("%w: name index %d out of range (table has %d entries)", saveerr.ErrCorrupt, index, len(t.names))
	}
	return t.names[index], nil
}

// Context is the single value threaded through decoding that picks which
// NameRef materialization strategy is in effect for the file being read.
type Context struct {
	Strategy Strategy
	Table    *Table // nil when Strategy == Inline
}

// ReadRef reads one NameRef according to the active strategy.
func (c *Context) ReadRef(r *reader.Reader) (Ref, error) {
	if c.Strategy == Inline {
		name, err := r.ReadFString()
		if err != nil {
			return Ref{}, err
		}
		return Ref{Name: name}, nil
	}
	idx, err := r.ReadU32()
	if err != nil {
		return Ref{}, err
	}
	suffix, err := r.ReadU32()
	if err != nil {
		return Ref{}, err
	}
	name, err := c.Table.Resolve(idx)
	if err != nil {
		return Ref{}, err
	}
	return Ref{Name: name, Suffix: suffix}, nil
}
