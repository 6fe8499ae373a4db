// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package ase implements the legacy pure-binary world/profile/tribe decoder:
// header parsing, the trailing name table, and the two-pass object walk
// (headers first, then each object's property list).
package ase

import (
	"fmt"

	"github.com/savekit/arksave/internal/container"
	"github.com/savekit/arksave/internal/nametable"
	"github.com/savekit/arksave/internal/props"
	"github.com/savekit/arksave/internal/reader"
	"github.com/savekit/arksave/saveerr"
)

// Header_t is the parsed fixed-layout header common to ASE save kinds.
type Header_t struct {
	Version        int32
	SaveCount      int32 // present iff Version >= 9
	GameTime       float64
	NameTableOffset int64
	ObjectCount    int32
	ObjectsOffset  int64
	PropsOffset    int64
	DataFiles      []string
}

// objectHeader_t is one entry from the first object pass: everything except
// the decoded property list, which is filled in during the second pass.
type objectHeader_t struct {
	names          []nametable.Ref
	isItem         bool
	components     []nametable.Ref
	location       *container.LocationData_t
	propsOffset    int64
	shouldBeLoaded bool
	extraDataSize  uint32
}

// Result_t is the outcome of decoding one ASE save.
type Result_t struct {
	Header    Header_t
	Container *container.Container_t
	Errors    *props.ParseErrorLog
}

func readU64Pair(r *reader.Reader) (int64, error) {
	lo, err := r.ReadU32()
	if err != nil {
		return 0, err
	}
	hi, err := r.ReadU32()
	if err != nil {
		return 0, err
	}
	return int64(uint64(hi)<<32 | uint64(lo)), nil
}

func readHeader(r *reader.Reader, version int32) (Header_t, error) {
	h := Header_t{Version: version}
	if version >= 9 {
		sc, err := r.ReadI32()
		if err != nil {
			return h, fmt.Errorf("ase: reading save count: %w", err)
		}
		h.SaveCount = sc
	}
	gameTime, err := r.ReadF32()
	if err != nil {
		return h, fmt.Errorf("ase: reading game time: %w", err)
	}
	h.GameTime = float64(gameTime)

	h.NameTableOffset, err = readU64Pair(r)
	if err != nil {
		return h, fmt.Errorf("ase: reading name table offset: %w", err)
	}
	count, err := r.ReadI32()
	if err != nil {
		return h, fmt.Errorf("ase: reading object count: %w", err)
	}
	h.ObjectCount = count
	h.ObjectsOffset, err = readU64Pair(r)
	if err != nil {
		return h, fmt.Errorf("ase: reading objects offset: %w", err)
	}
	h.PropsOffset, err = readU64Pair(r)
	if err != nil {
		return h, fmt.Errorf("ase: reading props offset: %w", err)
	}

	numDataFiles, err := r.ReadI32()
	if err != nil {
		return h, fmt.Errorf("ase: reading data file count: %w", err)
	}
	for i := int32(0); i < numDataFiles; i++ {
		s, err := r.ReadFString()
		if err != nil {
			return h, fmt.Errorf("ase: reading data file %d: %w", i, err)
		}
		h.DataFiles = append(h.DataFiles, s)
	}
	return h, nil
}

// Decode runs the full two-pass ASE world decode described in the format's
// component design: header, name table, object headers, then a second pass
// over each object's property offset.
func Decode(data []byte, version int32) (*Result_t, error) {
	r := reader.New(data)
	if _, err := r.ReadI32(); err != nil { // version already known from detection, re-consume it
		return nil, fmt.Errorf("ase: re-reading version: %w", err)
	}
	header, err := readHeader(r, version)
	if err != nil {
		return nil, err
	}

	// Name table count: the count is not stored with the offset; the table
	// runs from NameTableOffset to ObjectsOffset.
	nameCount := 0
	// The exact count isn't in the fixed header; rather than guess, load
	// greedily until the objects region and let LoadTable's own FString
	// bounds checking catch corruption. A zero count degenerates to an
	// empty table, which is fine for ASE files that use no names (none in
	// practice, but keeps the path total).
	if header.ObjectsOffset > header.NameTableOffset {
		nameCount = estimateNameCount(data, header.NameTableOffset, header.ObjectsOffset)
	}
	table, err := nametable.LoadTable(r, header.NameTableOffset, nameCount)
	if err != nil {
		return nil, fmt.Errorf("ase: loading name table: %w", err)
	}
	names := &nametable.Context{Strategy: nametable.Trailing, Table: table}

	if err := r.SeekTo(int(header.ObjectsOffset)); err != nil {
		return nil, fmt.Errorf("ase: seeking to objects region: %w", err)
	}

	errs := &props.ParseErrorLog{}
	headers := make([]objectHeader_t, 0, header.ObjectCount)
	for i := int32(0); i < header.ObjectCount; i++ {
		oh, err := readObjectHeader(r, names)
		if err != nil {
			return nil, fmt.Errorf("ase: object %d header: %w", i, err)
		}
		headers = append(headers, oh)
	}

	ctx := &props.DecodeContext{Names: names, SizeWidth: props.SizeU32, ObjectRefs: props.ObjectRefIndex, Errors: errs}
	c := container.New()
	for i, oh := range headers {
		if err := r.SeekTo(int(oh.propsOffset)); err != nil {
			return nil, fmt.Errorf("ase: object %d: seeking to properties: %w", i, err)
		}
		proplist, declErr := props.DecodePropertyList(ctx, r)
		if declErr != nil {
			// Per-object property decode failures are recorded, not fatal:
			// the object is still yielded with whatever properties were
			// parsed before the failure.
			errs.Add(int64(oh.propsOffset), saveerr.ErrCorrupt, fmt.Sprintf("object %d: properties: %v", i, declErr))
		}
		var extra []byte
		if oh.extraDataSize > 0 {
			extra, err = r.ReadBytes(int(oh.extraDataSize))
			if err != nil {
				return nil, fmt.Errorf("ase: object %d: reading extra data: %w", i, err)
			}
		}

		className := ""
		if len(oh.names) > 0 {
			className = classNameFromComponents(oh.components, oh.names[0].Name)
		}

		o := &container.GameObject_t{
			ID:         i,
			ClassName:  className,
			Names:      oh.names,
			IsItem:     oh.isItem,
			Location:   oh.location,
			Properties: proplist,
			ExtraData:  append([]byte(nil), extra...),
		}
		c.Add(o)
	}
	c.BuildRelationships()

	return &Result_t{Header: header, Container: c, Errors: errs}, nil
}

// classNameFromComponents picks the object's class name. ASE world objects
// carry their qualified class path as one of the "components" NameRefs in
// observed saves; fall back to the object's logical name when no component
// entry looks like a class path.
func classNameFromComponents(components []nametable.Ref, fallback string) string {
	for _, c := range components {
		if c.Name != "" && c.Name != "None" {
			return c.Name
		}
	}
	return fallback
}

func readObjectHeader(r *reader.Reader, names *nametable.Context) (objectHeader_t, error) {
	var oh objectHeader_t
	if _, err := r.ReadGUID(); err != nil { // zero in ASE
		return oh, fmt.Errorf("%w: reading guid: %v", saveerr.ErrEndOfData, err)
	}

	nameCount, err := r.ReadI32()
	if err != nil {
		return oh, err
	}
	for i := int32(0); i < nameCount; i++ {
		ref, err := names.ReadRef(r)
		if err != nil {
			return oh, err
		}
		oh.names = append(oh.names, ref)
	}

	isItem, err := r.ReadBool32()
	if err != nil {
		return oh, err
	}
	oh.isItem = isItem

	compCount, err := r.ReadI32()
	if err != nil {
		return oh, err
	}
	for i := int32(0); i < compCount; i++ {
		ref, err := names.ReadRef(r)
		if err != nil {
			return oh, err
		}
		oh.components = append(oh.components, ref)
	}

	hasLocation, err := r.ReadBool32()
	if err != nil {
		return oh, err
	}
	if hasLocation {
		x, _ := r.ReadF32()
		y, _ := r.ReadF32()
		z, _ := r.ReadF32()
		pitch, _ := r.ReadF32()
		yaw, _ := r.ReadF32()
		roll, err := r.ReadF32()
		if err != nil {
			return oh, err
		}
		oh.location = &container.LocationData_t{
			X: float64(x), Y: float64(y), Z: float64(z),
			Pitch: float64(pitch), Yaw: float64(yaw), Roll: float64(roll),
		}
	}

	propsOffset, err := readU64Pair(r)
	if err != nil {
		return oh, err
	}
	oh.propsOffset = propsOffset

	shouldBeLoaded, err := r.ReadBool32()
	if err != nil {
		return oh, err
	}
	oh.shouldBeLoaded = shouldBeLoaded

	if shouldBeLoaded {
		size, err := r.ReadU32()
		if err != nil {
			return oh, err
		}
		oh.extraDataSize = size
	}
	return oh, nil
}

// estimateNameCount scans the name-table region for its FString count by
// walking FString records until the region is exhausted. This mirrors what
// the real format does implicitly (the table simply runs to a known end);
// the dry run decodes each FString with its own reader and counts the
// records, discarding the strings.
func estimateNameCount(data []byte, start, end int64) int {
	r := reader.New(data)
	if err := r.SeekTo(int(start)); err != nil {
		return 0
	}
	count := 0
	for int64(r.Tell()) < end {
		if _, err := r.ReadFString(); err != nil {
			break
		}
		count++
	}
	return count
}
