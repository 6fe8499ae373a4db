// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package container_test

import (
	"testing"

	"github.com/savekit/arksave/internal/container"
	"github.com/savekit/arksave/internal/nametable"
	"github.com/savekit/arksave/internal/props"
)

func obj(id int, className string, names ...string) *container.GameObject_t {
	refs := make([]nametable.Ref, len(names))
	for i, n := range names {
		refs[i] = nametable.Ref{Name: n}
	}
	return &container.GameObject_t{ID: id, ClassName: className, Names: refs}
}

func TestAddAssignsIDsAndIndexesByName(t *testing.T) {
	c := container.New()
	c.Add(obj(0, "Rex_Character_BP_C", "MyRex"))
	c.Add(obj(0, "DinoCharacterStatusComponent", "MyRex"))

	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
	if got := c.ByName("MyRex"); len(got) != 2 {
		t.Fatalf("ByName(MyRex) = %d entries, want 2", len(got))
	}
	if got := c.All()[1].ID; got != 1 {
		t.Errorf("second object ID = %d, want 1 (assigned by Add)", got)
	}
}

func TestCreaturesExcludesCorpseAndStatusComponent(t *testing.T) {
	c := container.New()
	c.Add(obj(1, "Rex_Character_BP_C", "A"))
	c.Add(obj(2, "Rex_Character_BP_Corpse_C", "B"))
	c.Add(obj(3, "DinoCharacterStatusComponent", "C"))

	got := c.Creatures()
	if len(got) != 1 || got[0].ClassName != "Rex_Character_BP_C" {
		t.Errorf("Creatures() = %+v", got)
	}
}

func TestBuildRelationshipsLinksComponentToParent(t *testing.T) {
	c := container.New()
	parent := obj(1, "Rex_Character_BP_C", "MyRex")
	status := obj(2, "DinoCharacterStatusComponent", "StatusComp", "MyRex")
	c.Add(parent)
	c.Add(status)

	c.BuildRelationships()

	if status.Parent != parent {
		t.Errorf("status.Parent = %v, want parent", status.Parent)
	}
	linked, ok := parent.Components["DinoCharacterStatusComponent"]
	if !ok || linked != status {
		t.Errorf("parent.Components[...] = %v, want status", linked)
	}
}

func TestBuildRelationshipsIsIdempotent(t *testing.T) {
	c := container.New()
	parent := obj(1, "Rex_Character_BP_C", "MyRex")
	status := obj(2, "DinoCharacterStatusComponent", "StatusComp", "MyRex")
	c.Add(parent)
	c.Add(status)

	c.BuildRelationships()
	c.BuildRelationships()

	if len(parent.Components) != 1 {
		t.Errorf("len(parent.Components) = %d, want 1 after rerun", len(parent.Components))
	}
}

func TestTamedWildSplit(t *testing.T) {
	c := container.New()
	tame := obj(1, "Rex_Character_BP_C", "TameRex")
	tameStatus := obj(2, "DinoCharacterStatusComponent", "StatusComp", "TameRex")
	tameStatus.Properties = append(tameStatus.Properties, &props.Property_t{
		Name: nametable.Ref{Name: "TamerString"},
		Type: props.TagStr,
		Value: props.StrValue("Alice"),
	})
	wild := obj(3, "Rex_Character_BP_C", "WildRex")

	c.Add(tame)
	c.Add(tameStatus)
	c.Add(wild)
	c.BuildRelationships()

	if got := c.Tamed(); len(got) != 1 || got[0] != tame {
		t.Errorf("Tamed() = %+v", got)
	}
	if got := c.Wild(); len(got) != 1 || got[0] != wild {
		t.Errorf("Wild() = %+v", got)
	}
}

func TestTruncateDropsTrailingObjectsAndIndices(t *testing.T) {
	c := container.New()
	c.Add(obj(1, "Rex_Character_BP_C", "A"))
	c.Add(obj(2, "Rex_Character_BP_C", "B"))
	c.Add(obj(3, "Rex_Character_BP_C", "C"))

	c.Truncate(2)

	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
	if _, ok := c.ByID(3); ok {
		t.Errorf("ByID(3) found after truncate to 2")
	}
	if got := c.ByName("C"); len(got) != 0 {
		t.Errorf("ByName(C) = %+v, want empty after truncate", got)
	}
}

func TestTruncateNoopWhenUnderCap(t *testing.T) {
	c := container.New()
	c.Add(obj(1, "Rex_Character_BP_C", "A"))
	c.Truncate(10)
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}
