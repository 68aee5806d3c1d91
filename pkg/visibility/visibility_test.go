package visibility

import (
	"testing"

	"github.com/parchment-games/hexcrawl/pkg/hexgrid"
	"github.com/parchment-games/hexcrawl/pkg/hexmap"
)

func TestResolveTableTotality(t *testing.T) {
	bools := []bool{false, true}
	for _, explored := range bools {
		for _, visibleNow := range bools {
			// GM shows everything and always reports currently visible.
			v := Resolve(ViewGM, RevealPermanent, explored, visibleNow)
			if !v.ShouldShow || !v.IsCurrentlyVisible {
				t.Errorf("GM permanent (%v,%v): got %+v", explored, visibleNow, v)
			}
			v = Resolve(ViewGM, RevealLineOfSight, explored, visibleNow)
			if !v.ShouldShow || !v.IsCurrentlyVisible {
				t.Errorf("GM lineOfSight (%v,%v): got %+v", explored, visibleNow, v)
			}

			// Player permanent shows explored hexes.
			v = Resolve(ViewPlayer, RevealPermanent, explored, visibleNow)
			if v.ShouldShow != explored {
				t.Errorf("player permanent (%v,%v): ShouldShow = %v", explored, visibleNow, v.ShouldShow)
			}
			if v.IsCurrentlyVisible != visibleNow || v.IsExplored != explored {
				t.Errorf("player permanent (%v,%v): flags not passed through: %+v", explored, visibleNow, v)
			}

			// Player line-of-sight shows only currently visible hexes.
			v = Resolve(ViewPlayer, RevealLineOfSight, explored, visibleNow)
			if v.ShouldShow != visibleNow {
				t.Errorf("player lineOfSight (%v,%v): ShouldShow = %v", explored, visibleNow, v.ShouldShow)
			}
			if v.IsCurrentlyVisible != visibleNow || v.IsExplored != explored {
				t.Errorf("player lineOfSight (%v,%v): flags not passed through: %+v", explored, visibleNow, v)
			}
		}
	}
}

func TestResolveSpecExamples(t *testing.T) {
	if v := Resolve(ViewPlayer, RevealPermanent, true, false); !v.ShouldShow {
		t.Errorf("explored hex should show in permanent mode: %+v", v)
	}
	if v := Resolve(ViewPlayer, RevealLineOfSight, true, false); v.ShouldShow {
		t.Errorf("out-of-sight hex should hide in line-of-sight mode: %+v", v)
	}
}

func TestResolveInvalidEnumPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for invalid reveal mode")
		}
	}()
	Resolve(ViewPlayer, RevealMode("fog"), true, true)
}

func TestRecomputeCardinality(t *testing.T) {
	visible := Recompute([]hexgrid.Axial{{Q: 0, R: 0}}, 2)
	if len(visible) != 19 {
		t.Fatalf("sight 2 from one player should cover 19 hexes, got %d", len(visible))
	}
	if len(Recompute(nil, 3)) != 0 {
		t.Fatalf("no players should mean no visible hexes")
	}
}

func TestRecomputeOverlappingPlayers(t *testing.T) {
	// adjacent players share hexes; the union must not double count
	visible := Recompute([]hexgrid.Axial{{Q: 0, R: 0}, {Q: 1, R: 0}}, 1)
	if len(visible) != 10 {
		t.Fatalf("two adjacent players at sight 1 should cover 10 hexes, got %d", len(visible))
	}
}

func TestStateUpdateMonotoneExplored(t *testing.T) {
	s := NewState()
	s.Update([]hexgrid.Axial{{Q: 0, R: 0}}, 2)
	if len(s.Visible) != 19 || len(s.Explored) != 19 {
		t.Fatalf("after first update: visible=%d explored=%d, want 19/19", len(s.Visible), len(s.Explored))
	}

	// moving the player replaces visible wholesale but explored only grows
	s.Update([]hexgrid.Axial{{Q: 3, R: 0}}, 2)
	if len(s.Visible) != 19 {
		t.Fatalf("visible should be recomputed to 19, got %d", len(s.Visible))
	}
	for h := range s.Visible {
		if hexgrid.Distance(hexgrid.Axial{Q: 3, R: 0}, h) > 2 {
			t.Fatalf("visible hex %v beyond sight of new position", h)
		}
	}
	origin := hexgrid.Axial{Q: -2, R: 0}
	if s.Visible.Contains(origin) {
		t.Fatalf("hex %v should have left the visible set", origin)
	}
	if !s.Explored.Contains(origin) {
		t.Fatalf("hex %v should remain explored after the player moved", origin)
	}
	if len(s.Explored) <= 19 {
		t.Fatalf("explored should have grown past 19, got %d", len(s.Explored))
	}
}

func TestStateUpdateZeroPlayers(t *testing.T) {
	s := NewState()
	s.Update([]hexgrid.Axial{{Q: 0, R: 0}}, 1)
	explored := len(s.Explored)
	s.Update(nil, 1)
	if len(s.Visible) != 0 {
		t.Fatalf("zero players should empty the visible set")
	}
	if len(s.Explored) != explored {
		t.Fatalf("explored must be untouched by a zero-player update")
	}
}

func TestResetAndRevealAll(t *testing.T) {
	s := NewState()
	s.Update([]hexgrid.Axial{{Q: 0, R: 0}}, 2)
	s.ResetExplored()
	if len(s.Explored) != 0 {
		t.Fatalf("reset should clear the explored set")
	}

	s.RevealAll(hexmap.Dimensions{Width: 4, Height: 5})
	if len(s.Explored) != 20 {
		t.Fatalf("reveal all on a 4x5 map should mark 20 hexes, got %d", len(s.Explored))
	}
	s.HideAll()
	if len(s.Visible) != 0 {
		t.Fatalf("hide all should empty the visible set")
	}
}
