// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package consensus

import (
	"encoding/binary"
	"fmt"

	"github.com/zaudit/ztxdecrypt/netparams"
)

// BranchID identifies the consensus rule set of a network upgrade.  It is
// encoded as a little-endian uint32 inside v5 transaction headers.
type BranchID uint32

// Consensus branch ids of the network upgrades.
const (
	Sprout     BranchID = 0x00000000
	Overwinter BranchID = 0x5ba81b19
	Sapling    BranchID = 0x76b809bb
	Blossom    BranchID = 0x2bb40e60
	Heartwood  BranchID = 0xf5b9230b
	Canopy     BranchID = 0xe9ff75a6
	Nu5        BranchID = 0xc2d6d0b4
	Nu6        BranchID = 0xc8e71055

	// Nu6_1 is never returned by ForHeight.  NU6.1 transactions use the
	// NU6 format and are parsed under Nu6 after Resolve rewrites their
	// header.
	Nu6_1 BranchID = 0x4dec4df0
)

// branchStrings maps branch ids back to upgrade names for pretty printing.
var branchStrings = map[BranchID]string{
	Sprout:     "Sprout",
	Overwinter: "Overwinter",
	Sapling:    "Sapling",
	Blossom:    "Blossom",
	Heartwood:  "Heartwood",
	Canopy:     "Canopy",
	Nu5:        "NU5",
	Nu6:        "NU6",
	Nu6_1:      "NU6.1",
}

// String returns the upgrade name followed by the hex branch id.
func (b BranchID) String() string {
	if s, ok := branchStrings[b]; ok {
		return fmt.Sprintf("%s (0x%08x)", s, uint32(b))
	}
	return fmt.Sprintf("Unknown BranchID (0x%08x)", uint32(b))
}

// Bytes returns the little-endian wire encoding of the branch id.
func (b BranchID) Bytes() [4]byte {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(b))
	return buf
}

// Ordinal returns the position of the branch in upgrade order, so that rule
// checks can be written as comparisons.  Unknown branch ids return -1.
func (b BranchID) Ordinal() int {
	for i, upgrade := range upgradeSchedule {
		if upgrade.branch == b {
			return i
		}
	}
	return -1
}

// AtLeast reports whether b activates at or after other.  Unknown branch ids
// never satisfy the check.
func (b BranchID) AtLeast(other BranchID) bool {
	ord, otherOrd := b.Ordinal(), other.Ordinal()
	return ord >= 0 && otherOrd >= 0 && ord >= otherOrd
}

// upgrade pairs a branch id with the accessor of its activation height.
type upgrade struct {
	branch     BranchID
	activation func(*netparams.Params) uint32
}

// upgradeSchedule lists the upgrades ForHeight knows about, oldest first.
var upgradeSchedule = []upgrade{
	{Sprout, func(*netparams.Params) uint32 { return 0 }},
	{Overwinter, func(p *netparams.Params) uint32 { return p.OverwinterHeight }},
	{Sapling, func(p *netparams.Params) uint32 { return p.SaplingHeight }},
	{Blossom, func(p *netparams.Params) uint32 { return p.BlossomHeight }},
	{Heartwood, func(p *netparams.Params) uint32 { return p.HeartwoodHeight }},
	{Canopy, func(p *netparams.Params) uint32 { return p.CanopyHeight }},
	{Nu5, func(p *netparams.Params) uint32 { return p.NU5Height }},
	{Nu6, func(p *netparams.Params) uint32 { return p.NU6Height }},
}

// ForHeight returns the branch id of the newest upgrade active at height on
// the given network.
func ForHeight(params *netparams.Params, height uint32) BranchID {
	for i := len(upgradeSchedule) - 1; i > 0; i-- {
		if height >= upgradeSchedule[i].activation(params) {
			return upgradeSchedule[i].branch
		}
	}

	return Sprout
}
