package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/parchment-games/hexcrawl/internal/config"
	"github.com/parchment-games/hexcrawl/internal/network"
	"github.com/parchment-games/hexcrawl/internal/store"
	"github.com/parchment-games/hexcrawl/pkg/brush"
	"github.com/parchment-games/hexcrawl/pkg/floodfill"
	"github.com/parchment-games/hexcrawl/pkg/hexgrid"
	"github.com/parchment-games/hexcrawl/pkg/hexmap"
	"github.com/parchment-games/hexcrawl/pkg/logger"
	"github.com/parchment-games/hexcrawl/pkg/models"
	"github.com/parchment-games/hexcrawl/pkg/pattern"
	"github.com/parchment-games/hexcrawl/pkg/visibility"
)

// Session represents one campaign: the authoritative map state plus the
// members connected to it. All map mutations go through the pure engines;
// the session serializes writes under its lock and broadcasts the deltas.
type Session struct {
	ID        string
	CreatedAt time.Time

	// Member management
	members     map[string]*models.Member // memberID -> Member
	connections map[string]*Connection    // memberID -> Connection
	mu          sync.RWMutex

	// Campaign state
	dims       hexmap.Dimensions
	cells      hexmap.CellMap
	reveal     *visibility.State
	players    []hexgrid.Axial
	sight      int
	revealMode visibility.RevealMode
	clipboard  *pattern.Pattern

	snapshots *store.Store
	config    *config.Config
	log       *logrus.Entry
}

// NewSession creates a campaign session, restoring a saved snapshot when
// one exists.
func NewSession(id string, cfg *config.Config, snapshots *store.Store) (*Session, error) {
	s := &Session{
		ID:          id,
		CreatedAt:   time.Now(),
		members:     make(map[string]*models.Member),
		connections: make(map[string]*Connection),
		dims:        hexmap.Dimensions{Width: cfg.Map.Width, Height: cfg.Map.Height},
		cells:       make(hexmap.CellMap),
		reveal:      visibility.NewState(),
		sight:       cfg.Map.DefaultSightDistance,
		revealMode:  visibility.RevealMode(cfg.Map.DefaultRevealMode),
		snapshots:   snapshots,
		config:      cfg,
		log:         logger.Log.WithField("campaign", id),
	}

	snap, err := snapshots.Load(context.Background(), id)
	if err != nil {
		return nil, fmt.Errorf("failed to restore campaign %s: %w", id, err)
	}
	if snap != nil {
		s.restore(snap)
		s.log.WithField("cells", len(s.cells)).Info("Campaign restored from snapshot")
	} else {
		s.log.WithFields(logrus.Fields{
			"width":  s.dims.Width,
			"height": s.dims.Height,
		}).Info("Fresh campaign created")
	}
	return s, nil
}

func (s *Session) restore(snap *store.Snapshot) {
	if snap.Dimensions.Width > 0 && snap.Dimensions.Height > 0 {
		s.dims = snap.Dimensions
	}
	if snap.Cells != nil {
		s.cells = snap.Cells
	}
	if snap.Explored != nil {
		s.reveal.Explored = snap.Explored
	}
	if snap.Visible != nil {
		s.reveal.Visible = snap.Visible
	}
	s.players = snap.Players
	if snap.Sight > 0 {
		s.sight = snap.Sight
	}
	if mode, ok := network.ParseRevealMode(snap.RevealMode); ok {
		s.revealMode = mode
	}
}

// Persist writes the current state to the snapshot store.
func (s *Session) Persist(ctx context.Context) error {
	s.mu.RLock()
	snap := &store.Snapshot{
		Dimensions: s.dims,
		Cells:      s.cells.Clone(),
		Explored:   s.reveal.Explored.Clone(),
		Visible:    s.reveal.Visible.Clone(),
		Players:    append([]hexgrid.Axial(nil), s.players...),
		Sight:      s.sight,
		RevealMode: string(s.revealMode),
	}
	s.mu.RUnlock()
	return s.snapshots.Save(ctx, s.ID, snap)
}

// AddMember adds a member to the session
func (s *Session) AddMember(member *models.Member, conn *Connection) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.members) >= s.config.Session.MaxMembers {
		return fmt.Errorf("session is full")
	}
	s.members[member.ID] = member
	s.connections[member.ID] = conn

	s.log.WithFields(logrus.Fields{
		"member": member.Name,
		"role":   member.Role,
	}).Info("Member joined")
	return nil
}

// RemoveMember removes a member from the session
func (s *Session) RemoveMember(memberID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if member, exists := s.members[memberID]; exists {
		s.log.WithField("member", member.Name).Info("Member left")
		delete(s.members, memberID)
		delete(s.connections, memberID)
	}
}

// BroadcastMessage sends a message to all connected members
func (s *Session) BroadcastMessage(msg *network.ServerMessage) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, conn := range s.connections {
		conn.SendMessage(msg)
	}
}

// BroadcastExcept sends a message to all members except the given connection
func (s *Session) BroadcastExcept(exclude *Connection, msg *network.ServerMessage) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, conn := range s.connections {
		if conn != exclude {
			conn.SendMessage(msg)
		}
	}
}

// MapStateFor builds the full map state as the given member may see it.
// The GM gets everything; players get cells filtered through the
// visibility verdict with GM notes stripped.
func (s *Session) MapStateFor(member *models.Member) network.MapStatePayload {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state := network.MapStatePayload{
		Dimensions: s.dims,
		Explored:   s.reveal.Explored.Clone(),
		Visible:    s.reveal.Visible.Clone(),
		Players:    append([]hexgrid.Axial(nil), s.players...),
		Sight:      s.sight,
		RevealMode: string(s.revealMode),
		HexSize:    s.config.Map.HexSize,
	}

	if member.IsGM() {
		state.Cells = s.cells.Clone()
		return state
	}

	state.Cells = s.playerCells(s.cells)
	return state
}

// playerCells builds the player view of a set of cells: hexes outside the
// reveal verdict are dropped and GM notes are stripped. Caller holds the
// lock.
func (s *Session) playerCells(cells hexmap.CellMap) hexmap.CellMap {
	visible := make(hexmap.CellMap, len(cells))
	for coord, cell := range cells {
		verdict := visibility.Resolve(visibility.ViewPlayer, s.revealMode,
			s.reveal.Explored.Contains(coord), s.reveal.Visible.Contains(coord))
		if !verdict.ShouldShow {
			continue
		}
		cell.Explored = verdict.IsExplored
		cell.Visible = verdict.IsCurrentlyVisible
		cell.GMNotes = ""
		visible[coord] = cell
	}
	return visible
}

// BroadcastCells announces a cell delta through the same per-role filter
// as the full map state: the GM receives the raw delta, players only the
// hexes their reveal verdict allows, with GM notes stripped. Players whose
// filtered delta is empty receive nothing.
func (s *Session) BroadcastCells(changed hexmap.CellMap) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	filtered := s.playerCells(changed)
	for id, conn := range s.connections {
		if member := s.members[id]; member != nil && member.IsGM() {
			conn.SendMessage(&network.ServerMessage{
				Type:    network.MsgTypeCellsChanged,
				Payload: network.CellsChangedPayload{Cells: changed},
			})
			continue
		}
		if len(filtered) == 0 {
			continue
		}
		conn.SendMessage(&network.ServerMessage{
			Type:    network.MsgTypeCellsChanged,
			Payload: network.CellsChangedPayload{Cells: filtered},
		})
	}
}

// Paint merges content into every in-bounds hex under the brush stamp and
// returns the changed cells.
func (s *Session) Paint(center hexgrid.Axial, size int, shape brush.Shape, content hexmap.Content) (hexmap.CellMap, error) {
	if err := validateBrush(size, shape); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	changed := make(hexmap.CellMap)
	for _, coord := range brush.Stamp(center, size, shape) {
		if !s.dims.Contains(coord) {
			continue
		}
		cell := s.cells[coord]
		mergeContent(&cell.Content, content)
		s.cells[coord] = cell
		changed[coord] = cell
	}
	return changed, nil
}

// Erase clears painted content under the brush stamp, keeping exploration
// state, and returns the changed cells. When scoped is true only the
// given category's layer is cleared.
func (s *Session) Erase(center hexgrid.Axial, size int, shape brush.Shape, cat hexmap.Category, scoped bool) (hexmap.CellMap, error) {
	if err := validateBrush(size, shape); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	changed := make(hexmap.CellMap)
	for _, coord := range brush.Stamp(center, size, shape) {
		if !s.dims.Contains(coord) {
			continue
		}
		cell, exists := s.cells[coord]
		if !exists {
			continue
		}
		if scoped {
			cell.Content.Clear(cat)
		} else {
			cell.Content = hexmap.Content{}
		}
		s.cells[coord] = cell
		changed[coord] = cell
	}
	return changed, nil
}

// BrushPreview returns the in-bounds hexes a stamp would cover.
func (s *Session) BrushPreview(center hexgrid.Axial, size int, shape brush.Shape) ([]hexgrid.Axial, error) {
	if err := validateBrush(size, shape); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	stamp := brush.Stamp(center, size, shape)
	out := make([]hexgrid.Axial, 0, len(stamp))
	for _, coord := range stamp {
		if s.dims.Contains(coord) {
			out = append(out, coord)
		}
	}
	return out, nil
}

// FloodPreview returns the connected region under start and whether an
// apply would need explicit confirmation.
func (s *Session) FloodPreview(start hexgrid.Axial) ([]hexgrid.Axial, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	region := floodfill.Region(start, s.cells, floodfill.MatcherAt(s.cells, start), s.dims)
	return region, len(region) > s.config.Session.FloodFillConfirmThreshold
}

// FloodApply fills the connected region under start with content. Regions
// over the confirmation threshold are refused unless confirmed is set.
func (s *Session) FloodApply(start hexgrid.Axial, content hexmap.Content, confirmed bool) (hexmap.CellMap, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Freeze the matcher before any cell changes.
	matcher := floodfill.MatcherAt(s.cells, start)
	region := floodfill.Region(start, s.cells, matcher, s.dims)
	if len(region) == 0 {
		return hexmap.CellMap{}, nil
	}
	if len(region) > s.config.Session.FloodFillConfirmThreshold && !confirmed {
		return nil, fmt.Errorf("region of %d hexes needs confirmation", len(region))
	}

	changed := make(hexmap.CellMap, len(region))
	for _, coord := range region {
		cell := s.cells[coord]
		mergeContent(&cell.Content, content)
		s.cells[coord] = cell
		changed[coord] = cell
	}
	s.log.WithField("hexes", len(region)).Info("Flood fill applied")
	return changed, nil
}

// SetCellMeta updates the text fields of one cell.
func (s *Session) SetCellMeta(coord hexgrid.Axial, name, description, gmNotes string) (hexmap.CellMap, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.dims.Contains(coord) {
		return nil, fmt.Errorf("coordinate %s is outside the map", coord.Key())
	}
	cell := s.cells[coord]
	cell.Name = name
	cell.Description = description
	cell.GMNotes = gmNotes
	s.cells[coord] = cell
	return hexmap.CellMap{coord: cell}, nil
}

// MovePlayers replaces the tracked player positions and recomputes the
// reveal state.
func (s *Session) MovePlayers(positions []hexgrid.Axial) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.players = append([]hexgrid.Axial(nil), positions...)
	s.reveal.Update(s.players, s.sight)
}

// SetSight changes the sight distance and recomputes the reveal state.
func (s *Session) SetSight(distance int) error {
	if distance < 0 {
		return fmt.Errorf("sight distance must be non-negative")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sight = distance
	s.reveal.Update(s.players, s.sight)
	return nil
}

// SetRevealMode switches the reveal policy.
func (s *Session) SetRevealMode(mode visibility.RevealMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revealMode = mode
}

// RevealAll marks the whole map explored.
func (s *Session) RevealAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reveal.RevealAll(s.dims)
}

// ResetExplored clears the explored set and recomputes visibility.
func (s *Session) ResetExplored() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reveal.ResetExplored()
	s.reveal.Update(s.players, s.sight)
}

// CopyRegion captures the selected hexes into the clipboard and reports
// the clipboard state. An empty selection clears nothing; it just yields
// an empty pattern the caller can ignore.
func (s *Session) CopyRegion(selected []hexgrid.Axial, origin hexgrid.Axial) network.ClipboardStatePayload {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := pattern.Capture(selected, s.cells, origin)
	s.clipboard = &p
	s.log.WithFields(logrus.Fields{
		"selected": len(selected),
		"entries":  p.Len(),
	}).Debug("Region copied to clipboard")
	return network.NewClipboardState(&p)
}

// transformedClipboard applies the requested transforms to the clipboard
// pattern. Caller holds the lock.
func (s *Session) transformedClipboard(rotate int, mirror string, scale float64) (pattern.Pattern, error) {
	if s.clipboard == nil {
		return pattern.Pattern{}, fmt.Errorf("clipboard is empty")
	}
	p := *s.clipboard
	if rotate != 0 {
		if rotate < 0 || rotate > 360 || rotate%60 != 0 {
			return pattern.Pattern{}, fmt.Errorf("rotation must be a multiple of 60 in [0,360], got %d", rotate)
		}
		p = pattern.Rotate(p, rotate)
	}
	if mirror != "" {
		switch pattern.MirrorAxis(mirror) {
		case pattern.MirrorQ, pattern.MirrorR, pattern.MirrorBoth:
			p = pattern.Mirror(p, pattern.MirrorAxis(mirror))
		default:
			return pattern.Pattern{}, fmt.Errorf("unknown mirror axis %q", mirror)
		}
	}
	if scale != 0 && scale != 1 {
		if scale < 0 {
			return pattern.Pattern{}, fmt.Errorf("scale must be positive, got %v", scale)
		}
		p = pattern.Scale(p, scale)
	}
	return p, nil
}

// PastePreview returns the in-bounds hexes a paste would touch.
func (s *Session) PastePreview(target hexgrid.Axial, rotate int, mirror string, scale float64) ([]hexgrid.Axial, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, err := s.transformedClipboard(rotate, mirror, scale)
	if err != nil {
		return nil, err
	}
	return pattern.PreviewPaste(p, target, s.dims), nil
}

// Paste applies the clipboard pattern at target and returns the changed
// cells. Out-of-bounds placements are dropped.
func (s *Session) Paste(target hexgrid.Axial, rotate int, mirror string, scale float64) (hexmap.CellMap, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.transformedClipboard(rotate, mirror, scale)
	if err != nil {
		return nil, err
	}

	changed := make(hexmap.CellMap, p.Len())
	for _, placement := range pattern.Paste(p, target) {
		if !s.dims.Contains(placement.Coord) {
			continue
		}
		cell := s.cells[placement.Coord]
		cell.Content = placement.Content
		s.cells[placement.Coord] = cell
		changed[placement.Coord] = cell
	}
	return changed, nil
}

// VisibilityState reports the current reveal state for broadcasting.
func (s *Session) VisibilityState() network.VisibilityChangedPayload {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return network.VisibilityChangedPayload{
		Explored:   s.reveal.Explored.Clone(),
		Visible:    s.reveal.Visible.Clone(),
		Players:    append([]hexgrid.Axial(nil), s.players...),
		Sight:      s.sight,
		RevealMode: string(s.revealMode),
	}
}

// mergeContent overlays non-empty fields of src onto dst, so painting
// terrain does not wipe a landmark and vice versa.
func mergeContent(dst *hexmap.Content, src hexmap.Content) {
	if src.Terrain != "" {
		dst.Terrain = src.Terrain
	}
	if src.Landmark != "" {
		dst.Landmark = src.Landmark
	}
	if src.Name != "" {
		dst.Name = src.Name
	}
	if src.Description != "" {
		dst.Description = src.Description
	}
	if src.GMNotes != "" {
		dst.GMNotes = src.GMNotes
	}
}

// validateBrush rejects off-ladder sizes and unknown shapes before they
// reach the engine, which treats them as a programming error and panics.
func validateBrush(size int, shape brush.Shape) error {
	if !brush.ValidSize(size) {
		return fmt.Errorf("invalid brush size %d", size)
	}
	switch shape {
	case brush.Circle, brush.Square, brush.Diamond:
		return nil
	}
	return fmt.Errorf("invalid brush shape %q", shape)
}
