// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package models

import (
	"strings"

	"github.com/savekit/arksave/internal/container"
)

// Item_t is an inventory item, possibly a cryopod carrying an embedded
// creature.
type Item_t struct {
	ClassName       string
	IsCryopod       bool
	CryopodCreature *Creature_t
}

// ExtractItem projects an is_item object into an Item_t, decoding its
// embedded creature when the item is a cryopod.
func ExtractItem(o *container.GameObject_t) Item_t {
	it := Item_t{
		ClassName: o.ClassName,
		IsCryopod: strings.Contains(o.ClassName, "Cryopod") || boolProp(o, "bIsCryopod"),
	}
	if it.IsCryopod {
		if creature, ok := ExtractCryopod(o); ok {
			it.CryopodCreature = &creature
		}
	}
	return it
}
