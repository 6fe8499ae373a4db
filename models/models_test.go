// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package models_test

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/savekit/arksave/internal/container"
	"github.com/savekit/arksave/internal/nametable"
	"github.com/savekit/arksave/internal/props"
	"github.com/savekit/arksave/models"
)

func strProp(name string, value string) *props.Property_t {
	return &props.Property_t{Name: nametable.Ref{Name: name}, Type: props.TagStr, Value: props.StrValue(value)}
}

func intProp(name string, value int32) *props.Property_t {
	return &props.Property_t{Name: nametable.Ref{Name: name}, Type: props.TagInt, Value: props.IntValue(value)}
}

func TestExtractProfileEmptyASEProfile(t *testing.T) {
	o := &container.GameObject_t{
		ClassName: "PrimalPlayerData_C",
		Names:     []nametable.Ref{{Name: "PlayerDataPC"}},
		Properties: []*props.Property_t{
			strProp("PlayerName", "Alice"),
			intProp("PlayerDataID", 42),
			intProp("TribeID", 1),
		},
	}
	profile := models.ExtractProfile(o)
	if profile.PlayerName != "Alice" {
		t.Errorf("PlayerName = %q, want Alice", profile.PlayerName)
	}
	if profile.Level != 1 {
		t.Errorf("Level = %d, want 1", profile.Level)
	}
	if len(profile.EngramBlueprints) != 0 {
		t.Errorf("EngramBlueprints = %v, want empty", profile.EngramBlueprints)
	}
}

func TestExtractTribeLogsStripsRichColorAndParsesDay(t *testing.T) {
	tribeObj := &container.GameObject_t{
		ClassName: "PrimalTribeData_C",
		Names:     []nametable.Ref{{Name: "TribeData"}},
		Properties: []*props.Property_t{
			{
				Name: nametable.Ref{Name: "TribeLogs"},
				Type: props.TagArray,
				Value: props.ArrayValue{
					InnerTag: props.TagStr,
					Items: []props.Value{
						props.StrValue("Day 1, 12:00:00: Tamed a Rex"),
						props.StrValue("Day 2, 03:14:15: <RichColor Color='1,0,0,1'>Lost</>"),
					},
				},
			},
		},
	}
	logs := models.ExtractTribeLogs(tribeObj)
	if len(logs) != 2 {
		t.Fatalf("len(logs) = %d, want 2", len(logs))
	}
	if logs[1].Day != 2 {
		t.Errorf("logs[1].Day = %d, want 2", logs[1].Day)
	}
	if logs[1].CleanMessage != "Lost" {
		t.Errorf("logs[1].CleanMessage = %q, want Lost", logs[1].CleanMessage)
	}
}

func statProp(index uint32, value float64) *props.Property_t {
	return &props.Property_t{
		Name:  nametable.Ref{Name: "NumberOfLevelUpPointsApplied"},
		Type:  props.TagFloat,
		Index: index,
		Value: props.FloatValue(value),
	}
}

func TestExtractCreatureTamedLevelAndMutations(t *testing.T) {
	status := &container.GameObject_t{
		ClassName: "DinoCharacterStatusComponent",
		Names:     []nametable.Ref{{Name: "MyRex"}, {Name: "MyRex"}},
		Properties: []*props.Property_t{
			intProp("BaseCharacterLevel", 150),
			intProp("ExtraCharacterLevel", 73),
			{Name: nametable.Ref{Name: "DinoImprintingQuality"}, Type: props.TagFloat, Value: props.FloatValue(0.75)},
			intProp("RandomMutationsFemale", 3),
			intProp("RandomMutationsMale", 2),
			strProp("TamerString", "Alice"),
			statProp(0, 4500),
		},
	}
	creature := &container.GameObject_t{
		ClassName:  "Rex_Character_BP_C",
		Names:      []nametable.Ref{{Name: "MyRex"}},
		Components: map[string]*container.GameObject_t{"DinoCharacterStatusComponent": status},
	}

	got := models.ExtractCreature(creature)
	if got.Level != 224 {
		t.Errorf("Level = %d, want 224", got.Level)
	}
	if !floatEq(got.Imprint, 0.75) {
		t.Errorf("Imprint = %v, want 0.75", got.Imprint)
	}
	if got.Mutations != 5 {
		t.Errorf("Mutations = %d, want 5", got.Mutations)
	}
	if got.Stats[models.StatHealth] != 4500 {
		t.Errorf("Stats[Health] = %v, want 4500", got.Stats[models.StatHealth])
	}
}

func floatEq(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func u32le(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func fstringBytes(s string) []byte {
	n := int32(len(s) + 1)
	b := u32le(uint32(n))
	b = append(b, s...)
	b = append(b, 0)
	return b
}

// buildMiniCreatureSave constructs a minimal ASE-shaped byte blob embedding
// a single creature actor, matching the shape decodeCryopodBytes expects
// to recurse into via ase.Decode.
func buildMiniCreatureSave(species string, baseLevel int32) []byte {
	const headerLen = 40
	names := []string{"None", "MyRex", species, "BaseCharacterLevel", "IntProperty"}
	nameTableLen := 0
	for _, s := range names {
		nameTableLen += 4 + len(s) + 1
	}
	objectsOffset := int64(headerLen + nameTableLen)
	const objectHeaderLen = 64
	propsOffset := objectsOffset + objectHeaderLen

	var b []byte
	b = append(b, u32le(6)...)                 // version
	b = append(b, u32le(0)...)                 // game time f32 0.0
	b = append(b, pair(int64(headerLen))...)   // name table offset
	b = append(b, u32le(1)...)                 // object count
	b = append(b, pair(objectsOffset)...)      // objects offset
	b = append(b, pair(0)...)                  // props offset header field (unused)
	b = append(b, u32le(0)...)                 // num data files

	for _, s := range names {
		b = append(b, fstringBytes(s)...)
	}

	b = append(b, make([]byte, 16)...) // guid
	b = append(b, u32le(1)...)         // name count
	b = append(b, u32le(1)...)         // nameref index: MyRex
	b = append(b, u32le(0)...)         // suffix
	b = append(b, u32le(0)...)         // is item = false
	b = append(b, u32le(1)...)         // component count
	b = append(b, u32le(2)...)         // component nameref index: species
	b = append(b, u32le(0)...)         // suffix
	b = append(b, u32le(0)...)         // has location = false
	b = append(b, pair(propsOffset)...)
	b = append(b, u32le(1)...) // should be loaded
	b = append(b, u32le(0)...) // extra data size

	// properties: BaseCharacterLevel (int), then None
	b = append(b, u32le(3)...) // nameref: BaseCharacterLevel
	b = append(b, u32le(0)...)
	b = append(b, u32le(4)...) // type: IntProperty
	b = append(b, u32le(0)...)
	b = append(b, u32le(4)...) // size
	b = append(b, u32le(0)...) // index
	b = append(b, u32le(uint32(baseLevel))...)
	b = append(b, u32le(0)...) // None
	b = append(b, u32le(0)...)

	return b
}

func pair(v int64) []byte {
	return append(u32le(uint32(uint64(v)&0xffffffff)), u32le(uint32(uint64(v)>>32))...)
}

func TestExtractCryopodFromEmbeddedMiniSave(t *testing.T) {
	mini := buildMiniCreatureSave("Rex_Character_BP_C", 49)

	var arrItems []props.Value
	for _, bb := range mini {
		arrItems = append(arrItems, props.ByteValue{Raw: bb})
	}

	cryopod := &container.GameObject_t{
		ClassName: "PrimalItem_WeaponEmptyCryopod_C",
		Names:     []nametable.Ref{{Name: "UploadedItem"}},
		IsItem:    true,
		Properties: []*props.Property_t{
			{
				Name:  nametable.Ref{Name: "ByteArrayCustomItemData"},
				Type:  props.TagArray,
				Value: props.ArrayValue{InnerTag: props.TagByte, Items: arrItems},
			},
		},
	}

	item := models.ExtractItem(cryopod)
	if !item.IsCryopod {
		t.Fatal("expected IsCryopod true")
	}
	if item.CryopodCreature == nil {
		t.Fatal("expected a decoded cryopod creature")
	}
	if item.CryopodCreature.Species != "Rex_Character_BP_C" {
		t.Errorf("Species = %q", item.CryopodCreature.Species)
	}
	if item.CryopodCreature.Level != 50 {
		t.Errorf("Level = %d, want 50", item.CryopodCreature.Level)
	}
}
