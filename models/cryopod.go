// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package models

import (
	"github.com/savekit/arksave/internal/ase"
	"github.com/savekit/arksave/internal/container"
	"github.com/savekit/arksave/internal/detect"
	"github.com/savekit/arksave/internal/props"
	"github.com/savekit/arksave/internal/structs"
)

// cryopodDataProperty is the name observed for a cryopod item's embedded
// creature bytes in ASE saves: an ArrayProperty of raw ByteProperty
// elements. ASA instead carries the same payload as a CryopodPayload
// struct (see structs.CryopodPayload), decoded in ExtractCryopod below.
const cryopodDataProperty = "ByteArrayCustomItemData"

// ExtractCryopod decodes an item's embedded creature save, if any. It
// returns (Creature_t{}, false) for an item with no or empty cryopod
// payload — an empty payload is not an error condition.
func ExtractCryopod(o *container.GameObject_t) (Creature_t, bool) {
	raw := cryopodRawBytes(o)
	if len(raw) == 0 {
		return Creature_t{}, false
	}
	return decodeCryopodBytes(raw)
}

func cryopodRawBytes(o *container.GameObject_t) []byte {
	if p := o.Prop(cryopodDataProperty); p != nil {
		if arr, ok := p.Value.(props.ArrayValue); ok {
			raw := make([]byte, 0, len(arr.Items))
			for _, item := range arr.Items {
				if b, ok := item.(props.ByteValue); ok {
					raw = append(raw, b.Raw)
				}
			}
			return raw
		}
	}
	if p := o.Prop("InventoryCryopodData"); p != nil {
		if sv, ok := p.Value.(props.StructValue); ok && sv.Typed != nil {
			if payload, ok := sv.Typed.(structs.CryopodPayload); ok {
				return payload.Data
			}
		}
	}
	return nil
}

// decodeCryopodBytes runs the shared property decoder over an embedded
// mini-save the same way a top-level ASE object is decoded: its own
// version/header and its own name table, the only intentional recursion
// in the decoder.
func decodeCryopodBytes(raw []byte) (Creature_t, bool) {
	sniff, err := detect.Detect(raw)
	if err != nil || sniff.Format != detect.FormatASE {
		return Creature_t{}, false
	}
	result, err := ase.Decode(raw, sniff.Version)
	if err != nil {
		return Creature_t{}, false
	}
	result.Container.BuildRelationships()
	for _, o := range result.Container.Creatures() {
		return ExtractCreature(o), true
	}
	// No dedicated creature-class object: some cryopod payloads store the
	// creature as the save's sole top-level object without matching the
	// usual class-pattern scan.
	if all := result.Container.All(); len(all) > 0 {
		return ExtractCreature(all[0]), true
	}
	return Creature_t{}, false
}
