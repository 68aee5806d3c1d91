// Package visibility implements the show/hide policy for hexes and the
// maintenance of the explored and currently-visible coordinate sets.
package visibility

import (
	"fmt"

	"github.com/parchment-games/hexcrawl/pkg/hexgrid"
	"github.com/parchment-games/hexcrawl/pkg/hexmap"
)

// ViewMode distinguishes the GM view from the player view.
type ViewMode int

const (
	ViewGM ViewMode = iota
	ViewPlayer
)

// RevealMode governs whether previously-seen hexes stay shown.
type RevealMode string

const (
	// RevealPermanent keeps every explored hex shown.
	RevealPermanent RevealMode = "permanent"
	// RevealLineOfSight shows only hexes currently in sight range.
	RevealLineOfSight RevealMode = "lineOfSight"
)

// Verdict is the render-time decision for a single hex.
type Verdict struct {
	ShouldShow         bool `json:"shouldShow"`
	IsExplored         bool `json:"isExplored"`
	IsCurrentlyVisible bool `json:"isCurrentlyVisible"`
}

// Resolve applies the visibility decision table. It is total over both
// enums and both flags; an unrecognized enum value is a caller defect and
// panics.
func Resolve(view ViewMode, reveal RevealMode, explored, visibleNow bool) Verdict {
	switch view {
	case ViewGM:
		// The GM sees everything unconditionally.
		return Verdict{ShouldShow: true, IsExplored: explored, IsCurrentlyVisible: true}
	case ViewPlayer:
		v := Verdict{IsExplored: explored, IsCurrentlyVisible: visibleNow}
		switch reveal {
		case RevealPermanent:
			v.ShouldShow = explored
		case RevealLineOfSight:
			v.ShouldShow = visibleNow
		default:
			panic(fmt.Sprintf("visibility: unknown reveal mode %q", reveal))
		}
		return v
	}
	panic(fmt.Sprintf("visibility: unknown view mode %d", view))
}

// Recompute returns the visible set for the given player positions and
// sight distance: the union of all hexes within sight of each player.
// Zero players yields an empty set.
func Recompute(players []hexgrid.Axial, sightDistance int) hexmap.CoordSet {
	visible := make(hexmap.CoordSet)
	for _, p := range players {
		for _, h := range hexgrid.Range(p, sightDistance) {
			visible.Add(h)
		}
	}
	return visible
}

// State tracks the dual exploration/visibility sets for a campaign.
// Explored grows monotonically until an explicit reset; Visible is replaced
// wholesale on every update.
type State struct {
	Explored hexmap.CoordSet
	Visible  hexmap.CoordSet
}

// NewState returns an empty state.
func NewState() *State {
	return &State{
		Explored: make(hexmap.CoordSet),
		Visible:  make(hexmap.CoordSet),
	}
}

// Update recomputes the visible set from player positions and folds it into
// the explored set. The previous visible set is discarded, not merged.
func (s *State) Update(players []hexgrid.Axial, sightDistance int) {
	s.Visible = Recompute(players, sightDistance)
	s.Explored.Union(s.Visible)
}

// ResetExplored clears the explored set. Visible is left alone; the next
// Update rebuilds it anyway.
func (s *State) ResetExplored() {
	s.Explored = make(hexmap.CoordSet)
}

// RevealAll marks every hex of the rectangular map explored.
func (s *State) RevealAll(dims hexmap.Dimensions) {
	for row := 0; row < dims.Height; row++ {
		for col := 0; col < dims.Width; col++ {
			s.Explored.Add(hexgrid.FromRowCol(row, col))
		}
	}
}

// HideAll empties the visible set without touching exploration.
func (s *State) HideAll() {
	s.Visible = make(hexmap.CoordSet)
}
