// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package container implements the indexed object store (C8): an
// insertion-ordered list of decoded game objects plus by-id, by-guid, and
// by-name indices, the curated class-pattern bulk queries, and the
// relationship-building pass that links component sub-objects to their
// parent actor.
package container

import (
	"strings"

	"github.com/google/uuid"

	"github.com/savekit/arksave/internal/nametable"
	"github.com/savekit/arksave/internal/props"
)

// LocationData_t is a world position/rotation. ASA stores these as f64
// triples; ASE as f32 triples — both are widened to float64 here so callers
// never need to care which format produced the value.
type LocationData_t struct {
	X, Y, Z          float64
	Pitch, Yaw, Roll float64
}

// GameObject_t is one decoded actor or component.
type GameObject_t struct {
	ID       int
	GUID     uuid.UUID // zero value for ASE objects
	ClassName string
	Names    []nametable.Ref // Names[0] is the logical name; len > 1 marks a component
	IsItem   bool
	Location *LocationData_t
	Properties []*props.Property_t
	ExtraData  []byte

	Parent     *GameObject_t
	Components map[string]*GameObject_t // keyed by component ClassName
}

// Prop returns the first property named name, or nil.
func (o *GameObject_t) Prop(name string) *props.Property_t {
	for _, p := range o.Properties {
		if p.Name.Name == name {
			return p
		}
	}
	return nil
}

// PropsNamed returns every property named name, in declaration order —
// used for stat-array style fields where repeated properties are
// distinguished by their Index field.
func (o *GameObject_t) PropsNamed(name string) []*props.Property_t {
	var out []*props.Property_t
	for _, p := range o.Properties {
		if p.Name.Name == name {
			out = append(out, p)
		}
	}
	return out
}

// IsComponent reports whether this object is a sub-object of another.
func (o *GameObject_t) IsComponent() bool {
	return len(o.Names) > 1
}

// Container_t is the insertion-ordered object store with secondary indices.
type Container_t struct {
	objects []*GameObject_t
	byID    map[int]*GameObject_t
	byGUID  map[uuid.UUID]*GameObject_t
	byName  map[string][]*GameObject_t
}

// New returns an empty Container_t.
func New() *Container_t {
	return &Container_t{
		byID:   make(map[int]*GameObject_t),
		byGUID: make(map[uuid.UUID]*GameObject_t),
		byName: make(map[string][]*GameObject_t),
	}
}

// Add inserts o, assigning it the next sequential id if ID is unset.
func (c *Container_t) Add(o *GameObject_t) {
	if o.ID == 0 && len(c.objects) > 0 {
		o.ID = len(c.objects)
	}
	c.objects = append(c.objects, o)
	c.byID[o.ID] = o
	if o.GUID != uuid.Nil {
		c.byGUID[o.GUID] = o
	}
	if len(o.Names) > 0 {
		name := o.Names[0].String()
		c.byName[name] = append(c.byName[name], o)
	}
}

// All returns every object in insertion order.
func (c *Container_t) All() []*GameObject_t { return c.objects }

// Len returns the object count.
func (c *Container_t) Len() int { return len(c.objects) }

// Truncate drops every object past the first n, along with their index
// entries, and rebuilds relationships so no component is left pointing at
// a dropped parent's id via a stale index lookup. Used to enforce a
// configured max-objects cap after a full decode.
func (c *Container_t) Truncate(n int) {
	if n >= len(c.objects) {
		return
	}
	dropped := c.objects[n:]
	c.objects = c.objects[:n]

	droppedSet := make(map[*GameObject_t]bool, len(dropped))
	for _, o := range dropped {
		droppedSet[o] = true
		delete(c.byID, o.ID)
		if o.GUID != uuid.Nil {
			delete(c.byGUID, o.GUID)
		}
	}
	for name, objs := range c.byName {
		kept := objs[:0]
		for _, o := range objs {
			if !droppedSet[o] {
				kept = append(kept, o)
			}
		}
		if len(kept) == 0 {
			delete(c.byName, name)
		} else {
			c.byName[name] = kept
		}
	}
	c.BuildRelationships()
}

// ByID looks up an object by its container-assigned id.
func (c *Container_t) ByID(id int) (*GameObject_t, bool) {
	o, ok := c.byID[id]
	return o, ok
}

// ByGUID looks up an ASA object by its GUID.
func (c *Container_t) ByGUID(id uuid.UUID) (*GameObject_t, bool) {
	o, ok := c.byGUID[id]
	return o, ok
}

// ByName returns every object whose first name matches name exactly.
func (c *Container_t) ByName(name string) []*GameObject_t {
	return c.byName[name]
}

// classPattern describes one curated class-name substring query.
type classPattern struct {
	name     string
	contains []string
	excludes []string
}

var patterns = map[string]classPattern{
	"creatures":  {contains: []string{"_Character_"}, excludes: []string{"Corpse", "DinoCharacterStatusComponent"}},
	"structures": {contains: []string{"Structure"}, excludes: []string{"StructureInventory"}},
	"players":    {contains: []string{"PlayerPawnTest_"}},
	"profiles":   {contains: []string{"PrimalPlayerData"}},
	"tribes":     {contains: []string{"PrimalTribeData"}},
}

func matches(className string, p classPattern) bool {
	ok := false
	for _, s := range p.contains {
		if strings.Contains(className, s) {
			ok = true
			break
		}
	}
	if !ok {
		return false
	}
	for _, s := range p.excludes {
		if strings.Contains(className, s) {
			return false
		}
	}
	return true
}

// Creatures returns objects whose class names look like creature actors.
func (c *Container_t) Creatures() []*GameObject_t { return c.scan(patterns["creatures"]) }

// Structures returns objects whose class names look like placed structures.
func (c *Container_t) Structures() []*GameObject_t { return c.scan(patterns["structures"]) }

// PlayerPawns returns player-controlled pawn objects.
func (c *Container_t) PlayerPawns() []*GameObject_t { return c.scan(patterns["players"]) }

// Profiles returns PrimalPlayerData objects (player profiles).
func (c *Container_t) Profiles() []*GameObject_t { return c.scan(patterns["profiles"]) }

// Tribes returns PrimalTribeData objects.
func (c *Container_t) Tribes() []*GameObject_t { return c.scan(patterns["tribes"]) }

// Items returns every object flagged as an item.
func (c *Container_t) Items() []*GameObject_t {
	var out []*GameObject_t
	for _, o := range c.objects {
		if o.IsItem {
			out = append(out, o)
		}
	}
	return out
}

// Tamed returns creatures whose status component carries a non-empty
// TamerString; Wild returns the rest.
func (c *Container_t) Tamed() []*GameObject_t { return c.splitByTamer(true) }

func (c *Container_t) Wild() []*GameObject_t { return c.splitByTamer(false) }

func (c *Container_t) splitByTamer(tamed bool) []*GameObject_t {
	var out []*GameObject_t
	for _, o := range c.Creatures() {
		status := o.Components["DinoCharacterStatusComponent"]
		hasTamer := false
		if status != nil {
			if p := status.Prop("TamerString"); p != nil {
				s, _ := p.Value.(props.StrValue)
				hasTamer = s != ""
			}
		}
		if hasTamer == tamed {
			out = append(out, o)
		}
	}
	return out
}

func (c *Container_t) scan(p classPattern) []*GameObject_t {
	var out []*GameObject_t
	for _, o := range c.objects {
		if matches(o.ClassName, p) {
			out = append(out, o)
		}
	}
	return out
}

// BuildRelationships pairs every object A whose Names has more than one
// entry with the object Q whose Names[0] equals A.Names[1], recording A
// under Q.Components keyed by A.ClassName. Idempotent: re-running clears
// and recomputes rather than appending.
func (c *Container_t) BuildRelationships() {
	for _, o := range c.objects {
		o.Parent = nil
		o.Components = make(map[string]*GameObject_t)
	}
	for _, a := range c.objects {
		if !a.IsComponent() {
			continue
		}
		parentName := a.Names[1].String()
		candidates := c.byName[parentName]
		for _, q := range candidates {
			if q == a {
				continue
			}
			a.Parent = q
			q.Components[a.ClassName] = a
			break
		}
	}
}
