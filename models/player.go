// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package models

import (
	"github.com/savekit/arksave/internal/container"
	"github.com/savekit/arksave/internal/props"
)

// Profile_t is a player profile extracted from a PrimalPlayerData object.
type Profile_t struct {
	PlayerName       string
	PlayerDataID     int64
	TribeID          int64
	Level            int
	Stats            StatArray_t
	EngramBlueprints []string
}

// ExtractProfile projects a decoded PrimalPlayerData-class object into a
// Profile_t. Players have no separate status component — their level and
// stats are read directly off the object's own properties.
func ExtractProfile(o *container.GameObject_t) Profile_t {
	level := 1 + int(intProp(o, "CharacterStatusComponent_ExtraCharacterLevel"))

	var engrams []string
	if p := o.Prop("EngramBlueprints"); p != nil {
		if arr, ok := p.Value.(props.ArrayValue); ok {
			for _, item := range arr.Items {
				engrams = append(engrams, stringValueOf(item))
			}
		}
	}
	if engrams == nil {
		engrams = []string{}
	}

	return Profile_t{
		PlayerName:       stringProp(o, "PlayerName"),
		PlayerDataID:     intProp(o, "PlayerDataID"),
		TribeID:          intProp(o, "TribeID"),
		Level:            level,
		Stats:            extractStats(o),
		EngramBlueprints: engrams,
	}
}
