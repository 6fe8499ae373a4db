// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package models

import "github.com/savekit/arksave/internal/container"

// Tribe_t is a tribe snapshot extracted from a PrimalTribeData object.
type Tribe_t struct {
	TribeID     int64
	TribeName   string
	OwnerID     int64
	MemberCount int
	Logs        []TribeLog_t
}

// ExtractTribe projects a decoded PrimalTribeData-class object into a
// Tribe_t. MembersPlayerDataID / MembersNameList are stored as one
// ArrayProperty each; member count is taken from whichever is present.
func ExtractTribe(o *container.GameObject_t) Tribe_t {
	memberCount := 0
	if p := o.Prop("MembersPlayerDataID"); p != nil {
		memberCount = arrayLen(p)
	} else if p := o.Prop("MembersNameList"); p != nil {
		memberCount = arrayLen(p)
	}

	return Tribe_t{
		TribeID:     intProp(o, "TribeID"),
		TribeName:   stringProp(o, "TribeName"),
		OwnerID:     intProp(o, "OwnerPlayerDataID"),
		MemberCount: memberCount,
		Logs:        ExtractTribeLogs(o),
	}
}
