package network

import (
	"encoding/json"

	"github.com/parchment-games/hexcrawl/pkg/hexgrid"
	"github.com/parchment-games/hexcrawl/pkg/hexmap"
	"github.com/parchment-games/hexcrawl/pkg/pattern"
	"github.com/parchment-games/hexcrawl/pkg/visibility"
)

// Message types - Client → Server
const (
	MsgTypeJoin  = "join"
	MsgTypeLeave = "leave"
	MsgTypePing  = "ping"

	// Painting (GM only)
	MsgTypePaint        = "paint"
	MsgTypeErase        = "erase"
	MsgTypeBrushPreview = "brush_preview"
	MsgTypeFloodPreview = "flood_preview"
	MsgTypeFloodApply   = "flood_apply"
	MsgTypeSetCellMeta  = "set_cell_meta"

	// Reveal control (GM only)
	MsgTypeMovePlayers   = "move_players"
	MsgTypeSetSight      = "set_sight"
	MsgTypeSetRevealMode = "set_reveal_mode"
	MsgTypeRevealAll     = "reveal_all"
	MsgTypeResetExplored = "reset_explored"

	// Clipboard (GM only)
	MsgTypeCopyRegion   = "copy_region"
	MsgTypePaste        = "paste"
	MsgTypePastePreview = "paste_preview"
)

// Message types - Server → Client
const (
	MsgTypeWelcome           = "welcome"
	MsgTypeMemberJoined      = "member_joined"
	MsgTypeMemberLeft        = "member_left"
	MsgTypeMapState          = "map_state"
	MsgTypeCellsChanged      = "cells_changed"
	MsgTypeVisibilityChanged = "visibility_changed"
	MsgTypeFloodRegion       = "flood_region"
	MsgTypeBrushRegion       = "brush_region"
	MsgTypePasteRegion       = "paste_region"
	MsgTypeClipboardState    = "clipboard_state"
	MsgTypeError             = "error"
	MsgTypePong              = "pong"
)

// ClientMessage represents any message from client to server
type ClientMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ServerMessage represents any message from server to client
type ServerMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// --- Client Message Payloads ---

// PaintPayload applies a brush stamp of content to the map.
type PaintPayload struct {
	Center  hexgrid.Axial  `json:"center"`
	Size    int            `json:"size"`
	Shape   string         `json:"shape"`
	Content hexmap.Content `json:"content"`
}

// ErasePayload clears painted content under a brush stamp. An empty
// category clears every layer.
type ErasePayload struct {
	Center   hexgrid.Axial `json:"center"`
	Size     int           `json:"size"`
	Shape    string        `json:"shape"`
	Category string        `json:"category,omitempty"`
}

// BrushPreviewPayload requests the hexes a stamp would cover.
type BrushPreviewPayload struct {
	Center hexgrid.Axial `json:"center"`
	Size   int           `json:"size"`
	Shape  string        `json:"shape"`
}

// FloodPreviewPayload requests the connected region under a hex.
type FloodPreviewPayload struct {
	Start hexgrid.Axial `json:"start"`
}

// FloodApplyPayload fills the connected region under a hex with content.
// Confirmed must be set when the previewed region exceeded the server's
// confirmation threshold.
type FloodApplyPayload struct {
	Start     hexgrid.Axial  `json:"start"`
	Content   hexmap.Content `json:"content"`
	Confirmed bool           `json:"confirmed"`
}

// SetCellMetaPayload updates the text fields of a single cell.
type SetCellMetaPayload struct {
	Coord       hexgrid.Axial `json:"coord"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	GMNotes     string        `json:"gmNotes"`
}

// MovePlayersPayload replaces the tracked player positions.
type MovePlayersPayload struct {
	Positions []hexgrid.Axial `json:"positions"`
}

// SetSightPayload changes the sight distance.
type SetSightPayload struct {
	Distance int `json:"distance"`
}

// SetRevealModePayload switches between permanent and line-of-sight reveal.
type SetRevealModePayload struct {
	Mode string `json:"mode"`
}

// CopyRegionPayload captures a selected region into the clipboard.
type CopyRegionPayload struct {
	Selected []hexgrid.Axial `json:"selected"`
	Origin   hexgrid.Axial   `json:"origin"`
}

// PastePayload applies the clipboard pattern at a target origin, with
// optional transforms applied in rotate, mirror, scale order.
type PastePayload struct {
	Target hexgrid.Axial `json:"target"`
	Rotate int           `json:"rotate"`           // degrees, multiple of 60
	Mirror string        `json:"mirror,omitempty"` // "q", "r", "both" or empty
	Scale  float64       `json:"scale,omitempty"`  // 0 means 1
}

// --- Server Message Payloads ---

// WelcomePayload is sent to a client after a successful join.
type WelcomePayload struct {
	MemberID   string `json:"member_id"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	CampaignID string `json:"campaign_id"`
}

// MemberJoinedPayload notifies clients when a member joins.
type MemberJoinedPayload struct {
	MemberID string `json:"member_id"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// MemberLeftPayload notifies clients when a member leaves.
type MemberLeftPayload struct {
	MemberID string `json:"member_id"`
	Name     string `json:"name"`
}

// MapStatePayload carries the full campaign state, filtered per role.
type MapStatePayload struct {
	Dimensions hexmap.Dimensions `json:"dimensions"`
	Cells      hexmap.CellMap    `json:"cells"`
	Explored   hexmap.CoordSet   `json:"explored"`
	Visible    hexmap.CoordSet   `json:"visible"`
	Players    []hexgrid.Axial   `json:"players"`
	Sight      int               `json:"sight"`
	RevealMode string            `json:"reveal_mode"`
	HexSize    float64           `json:"hexSize"`
}

// CellsChangedPayload broadcasts the cells mutated by a paint, erase,
// flood apply or paste.
type CellsChangedPayload struct {
	Cells hexmap.CellMap `json:"cells"`
}

// VisibilityChangedPayload broadcasts the recomputed reveal state.
type VisibilityChangedPayload struct {
	Explored   hexmap.CoordSet `json:"explored"`
	Visible    hexmap.CoordSet `json:"visible"`
	Players    []hexgrid.Axial `json:"players"`
	Sight      int             `json:"sight"`
	RevealMode string          `json:"reveal_mode"`
}

// RegionPayload carries a coordinate set preview (flood, brush, paste).
type RegionPayload struct {
	Coords []hexgrid.Axial `json:"coords"`
	// NeedsConfirm is set on flood previews over the confirmation threshold.
	NeedsConfirm bool `json:"needs_confirm,omitempty"`
}

// ClipboardStatePayload reports what the clipboard holds. The pattern is
// opaque to clients except for its dimensions and entry count.
type ClipboardStatePayload struct {
	HasPattern bool `json:"has_pattern"`
	Width      int  `json:"width"`
	Height     int  `json:"height"`
	Entries    int  `json:"entries"`
}

// ErrorPayload contains error information
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewClipboardState builds the clipboard feedback payload from a pattern.
func NewClipboardState(p *pattern.Pattern) ClipboardStatePayload {
	if p == nil {
		return ClipboardStatePayload{}
	}
	return ClipboardStatePayload{
		HasPattern: true,
		Width:      p.Width,
		Height:     p.Height,
		Entries:    p.Len(),
	}
}

// ParseRevealMode validates a wire reveal-mode string.
func ParseRevealMode(s string) (visibility.RevealMode, bool) {
	switch visibility.RevealMode(s) {
	case visibility.RevealPermanent, visibility.RevealLineOfSight:
		return visibility.RevealMode(s), true
	}
	return "", false
}
