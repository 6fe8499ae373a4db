// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package models

import "github.com/savekit/arksave/internal/container"

// Structure_t is a placed structure extracted directly from its object
// (structures carry their own health/ownership properties, no companion
// component).
type Structure_t struct {
	ClassName    string
	OwnerTribeID int64
	Health       float64
	MaxHealth    float64
	DecayTimer   float64
	Location     *container.LocationData_t
}

// ExtractStructure projects o into a Structure_t. gameTime is the save's
// current game-time field, used to derive the decay countdown from the
// structure's last-in-range timestamp.
func ExtractStructure(o *container.GameObject_t, gameTime float64) Structure_t {
	return Structure_t{
		ClassName:    o.ClassName,
		OwnerTribeID: intProp(o, "TargetingTeam"),
		Health:       floatProp(o, "Health"),
		MaxHealth:    floatProp(o, "MaxHealth"),
		DecayTimer:   gameTime - floatProp(o, "LastInAllyRangeTimeSerialized"),
		Location:     o.Location,
	}
}
