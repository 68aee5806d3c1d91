package models

import "time"

// Role distinguishes the game master from players at the table.
type Role string

const (
	RoleGM     Role = "gm"
	RolePlayer Role = "player"
)

// Member represents a connected participant of a campaign session.
type Member struct {
	// From JWT claims
	ID   string `json:"id"`
	Name string `json:"name"`
	Role Role   `json:"role"`

	// Connection state
	Connected   bool      `json:"connected"`
	ConnectedAt time.Time `json:"connected_at"`

	// Session state
	CampaignID string `json:"campaign_id"`
}

// IsGM reports whether the member may mutate the map.
func (m *Member) IsGM() bool {
	return m.Role == RoleGM
}
