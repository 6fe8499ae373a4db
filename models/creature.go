// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package models

import "github.com/savekit/arksave/internal/container"

// Creature_t is a tamed or wild dino extracted from a status-component pair.
type Creature_t struct {
	Species   string
	IsTamed   bool
	Level     int
	Stats     StatArray_t
	Mutations int
	Imprint   float64
	DinoID    int64 // (AncestorsDinoID1, AncestorsDinoID2) composed into one 64-bit id
	ParentID1 int64
	ParentID2 int64
	TamerName string
	Location  *container.LocationData_t
}

const statusComponentClass = "DinoCharacterStatusComponent"

// ExtractCreature projects o (and its status component, if present) into a
// Creature_t. A missing status component is not an error: the status fields
// are then read from the creature object itself, and any field absent there
// takes its zero value.
func ExtractCreature(o *container.GameObject_t) Creature_t {
	status := o.Components[statusComponentClass]
	// Cryopod-embedded mini-saves sometimes fold the status fields onto the
	// creature's own object instead of a separate component; fall back to
	// reading from the creature itself rather than losing the stats.
	var source objectLike = o
	if status != nil {
		source = status
	}

	tamer := stringProp(source, "TamerString")
	isTamed := tamer != ""

	base := intProp(source, "BaseCharacterLevel")
	extra := intProp(source, "ExtraCharacterLevel")
	level := 1 + int(base)
	if isTamed {
		level += int(extra)
	}

	mutF := intProp(source, "RandomMutationsFemale")
	mutM := intProp(source, "RandomMutationsMale")

	imprint := floatProp(source, "DinoImprintingQuality")
	if imprint < 0 {
		imprint = 0
	} else if imprint > 1 {
		imprint = 1
	}

	id1 := intProp(source, "AncestorsDinoID1")
	id2 := intProp(source, "AncestorsDinoID2")

	statsSource := status
	if statsSource == nil {
		statsSource = o
	}

	return Creature_t{
		Species:   o.ClassName,
		IsTamed:   isTamed,
		Level:     level,
		Stats:     extractStats(statsSource),
		Mutations: int(mutF + mutM),
		Imprint:   imprint,
		DinoID:    composeDinoID(id1, id2),
		ParentID1: id1,
		ParentID2: id2,
		TamerName: tamer,
		Location:  o.Location,
	}
}

// composeDinoID packs the ancestor id pair into a single 64-bit value the
// same way the save format does: ID1 in the high word, ID2 in the low word.
func composeDinoID(id1, id2 int64) int64 {
	return (id1 << 32) | (id2 & 0xffffffff)
}
