// Package store persists campaign snapshots to Redis. The pure engines
// never touch storage; the session hands the store a full state value and
// gets one back.
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/parchment-games/hexcrawl/pkg/hexgrid"
	"github.com/parchment-games/hexcrawl/pkg/hexmap"
)

// Snapshot is the serialized campaign state.
type Snapshot struct {
	Dimensions hexmap.Dimensions `json:"dimensions"`
	Cells      hexmap.CellMap    `json:"cells"`
	Explored   hexmap.CoordSet   `json:"explored"`
	Visible    hexmap.CoordSet   `json:"visible"`
	Players    []hexgrid.Axial   `json:"players"`
	Sight      int               `json:"sight"`
	RevealMode string            `json:"reveal_mode"`
}

// Store reads and writes campaign snapshots.
type Store struct {
	redis  *redis.Client
	prefix string
}

// New creates a snapshot store using the given key prefix.
func New(redisClient *redis.Client, prefix string) *Store {
	return &Store{redis: redisClient, prefix: prefix}
}

// Save writes the snapshot for a campaign.
func (s *Store) Save(ctx context.Context, campaignID string, snap *Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := s.redis.Set(ctx, s.prefix+campaignID, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to store snapshot: %w", err)
	}
	return nil
}

// Load reads the snapshot for a campaign. A missing snapshot returns
// (nil, nil): a fresh campaign, not an error.
func (s *Store) Load(ctx context.Context, campaignID string) (*Snapshot, error) {
	data, err := s.redis.Get(ctx, s.prefix+campaignID).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &snap, nil
}

// Delete removes the snapshot for a campaign.
func (s *Store) Delete(ctx context.Context, campaignID string) error {
	if err := s.redis.Del(ctx, s.prefix+campaignID).Err(); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}
