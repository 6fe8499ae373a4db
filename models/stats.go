// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package models projects decoded game objects into the typed entities
// consumers actually want: creatures, players, tribes, structures, items,
// and tribe logs, applying the level/stat/imprint/ancestry derivation
// rules and the cryopod recursive mini-save decode.
package models

import "github.com/savekit/arksave/internal/container"

// StatIndex_e is the fixed 0..11 ordering of creature/player stats used
// throughout the data model.
type StatIndex_e int

const (
	StatHealth StatIndex_e = iota
	StatStamina
	StatTorpidity
	StatOxygen
	StatFood
	StatWater
	StatTemperature
	StatWeight
	StatMelee
	StatSpeed
	StatFortitude
	StatCrafting
	statCount
)

// StatArray_t holds the 12 fixed-order stat values for a creature or player.
type StatArray_t [statCount]float64

// statPropertyName is the name every per-stat property is shared under; the
// stat it belongs to is distinguished by the property's Index field.
const statPropertyName = "NumberOfLevelUpPointsApplied"

// extractStats sums same-named stat properties over their Index field: each
// of the component's StatIndex_e slots accumulates every
// NumberOfLevelUpPointsApplied instance whose Index matches that slot. It
// builds this single array only; no second per-stat array is extracted.
func extractStats(o *container.GameObject_t) StatArray_t {
	var out StatArray_t
	if o == nil {
		return out
	}
	for _, p := range o.PropsNamed(statPropertyName) {
		if int(p.Index) >= int(statCount) {
			continue
		}
		out[p.Index] += numericValueOf(p.Value)
	}
	return out
}
