// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package export builds the third-party-compatible (ASV-style) JSON
// dictionary from decoded models. It is the final, external-collaborator
// stage of the pipeline: bytes -> detector -> decoder -> container -> models
// -> export.
package export

import (
	"sort"

	"github.com/savekit/arksave/gps"
	"github.com/savekit/arksave/internal/container"
	"github.com/savekit/arksave/models"
)

// All builds the ASV_*-keyed export dictionary from a decoded save's
// models. The result is order-stable (sorted by each model's natural ID)
// so that calling All twice over the same decoded graph produces an
// identical dictionary, satisfying the export round-trip property.
func All(profiles []models.Profile_t, tribes []models.Tribe_t, creatures []models.Creature_t, structures []models.Structure_t, mapper *gps.Mapper) (map[string]any, error) {
	sortedProfiles := append([]models.Profile_t(nil), profiles...)
	sort.Slice(sortedProfiles, func(i, j int) bool { return sortedProfiles[i].PlayerDataID < sortedProfiles[j].PlayerDataID })

	sortedTribes := append([]models.Tribe_t(nil), tribes...)
	sort.Slice(sortedTribes, func(i, j int) bool { return sortedTribes[i].TribeID < sortedTribes[j].TribeID })

	sortedCreatures := append([]models.Creature_t(nil), creatures...)
	sort.Slice(sortedCreatures, func(i, j int) bool { return sortedCreatures[i].DinoID < sortedCreatures[j].DinoID })

	sortedStructures := append([]models.Structure_t(nil), structures...)
	sort.Slice(sortedStructures, func(i, j int) bool {
		return sortedStructures[i].OwnerTribeID < sortedStructures[j].OwnerTribeID
	})

	var tamed, wild []map[string]any
	for _, c := range sortedCreatures {
		d := creatureDict(c, mapper)
		if c.IsTamed {
			tamed = append(tamed, d)
		} else {
			wild = append(wild, d)
		}
	}

	var players []map[string]any
	for _, p := range sortedProfiles {
		players = append(players, profileDict(p))
	}

	var tribeDicts []map[string]any
	var tribeLogs []map[string]any
	for _, tb := range sortedTribes {
		tribeDicts = append(tribeDicts, tribeDict(tb))
		for _, l := range tb.Logs {
			tribeLogs = append(tribeLogs, map[string]any{
				"TribeID": tb.TribeID,
				"Day":     l.Day,
				"Time":    l.Time,
				"Message": l.CleanMessage,
			})
		}
	}

	var structDicts []map[string]any
	for _, s := range sortedStructures {
		structDicts = append(structDicts, structureDict(s, mapper))
	}

	return map[string]any{
		"ASV_Tamed":      orEmpty(tamed),
		"ASV_Wild":       orEmpty(wild),
		"ASV_Players":    orEmpty(players),
		"ASV_Tribes":     orEmpty(tribeDicts),
		"ASV_Structures": orEmpty(structDicts),
		"ASV_TribeLogs":  orEmpty(tribeLogs),
		"ASV_Summary": map[string]any{
			"PlayerCount":    len(players),
			"TribeCount":     len(tribeDicts),
			"CreatureCount":  len(tamed) + len(wild),
			"StructureCount": len(structDicts),
		},
	}, nil
}

// orEmpty normalizes a nil slice to an empty, non-nil one so the exported
// JSON always carries `[]` rather than `null` for an absent collection.
func orEmpty(items []map[string]any) []map[string]any {
	if items == nil {
		return []map[string]any{}
	}
	return items
}

func latLon(mapper *gps.Mapper, loc *container.LocationData_t) (lat, lon float64) {
	if mapper == nil || loc == nil {
		return 0, 0
	}
	return mapper.ToLatLon(loc.X, loc.Y)
}

func creatureDict(c models.Creature_t, mapper *gps.Mapper) map[string]any {
	lat, lon := latLon(mapper, c.Location)
	return map[string]any{
		"Species":   c.Species,
		"IsTamed":   c.IsTamed,
		"Level":     c.Level,
		"Stats":     c.Stats,
		"Mutations": c.Mutations,
		"Imprint":   c.Imprint,
		"DinoID":    c.DinoID,
		"ParentID1": c.ParentID1,
		"ParentID2": c.ParentID2,
		"TamerName": c.TamerName,
		"Lat":       lat,
		"Lon":       lon,
	}
}

func profileDict(p models.Profile_t) map[string]any {
	return map[string]any{
		"PlayerName":       p.PlayerName,
		"PlayerDataID":     p.PlayerDataID,
		"TribeID":          p.TribeID,
		"Level":            p.Level,
		"Stats":            p.Stats,
		"EngramBlueprints": p.EngramBlueprints,
	}
}

func tribeDict(tb models.Tribe_t) map[string]any {
	return map[string]any{
		"TribeID":     tb.TribeID,
		"TribeName":   tb.TribeName,
		"OwnerID":     tb.OwnerID,
		"MemberCount": tb.MemberCount,
	}
}

func structureDict(s models.Structure_t, mapper *gps.Mapper) map[string]any {
	lat, lon := latLon(mapper, s.Location)
	return map[string]any{
		"ClassName":    s.ClassName,
		"OwnerTribeID": s.OwnerTribeID,
		"Health":       s.Health,
		"MaxHealth":    s.MaxHealth,
		"DecayTimer":   s.DecayTimer,
		"Lat":          lat,
		"Lon":          lon,
	}
}
