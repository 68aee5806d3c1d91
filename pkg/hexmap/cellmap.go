package hexmap

import (
	"encoding/json"
	"fmt"

	"github.com/parchment-games/hexcrawl/pkg/hexgrid"
)

// CellMap is the keyed cell collection. In memory it keys on the axial
// struct directly; on the wire and in snapshots it uses the canonical
// "q,r" string encoding.
type CellMap map[hexgrid.Axial]Cell

// ContentAt returns the painted content at a coordinate. A missing cell
// reads as empty content — absence is a valid state, not an error.
func (m CellMap) ContentAt(a hexgrid.Axial) Content {
	return m[a].Content
}

// Clone returns a copy of the map. Engines treat their input as immutable;
// callers that need to mutate during a traversal snapshot first.
func (m CellMap) Clone() CellMap {
	out := make(CellMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// MarshalJSON encodes the map with "q,r" keys.
func (m CellMap) MarshalJSON() ([]byte, error) {
	out := make(map[string]Cell, len(m))
	for k, v := range m {
		out[k.Key()] = v
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a map with "q,r" keys.
func (m *CellMap) UnmarshalJSON(data []byte) error {
	var raw map[string]Cell
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(CellMap, len(raw))
	for k, v := range raw {
		coord, err := hexgrid.ParseKey(k)
		if err != nil {
			return fmt.Errorf("cell map key: %w", err)
		}
		out[coord] = v
	}
	*m = out
	return nil
}

// CoordSet is a set of hex coordinates, used for the explored and visible
// sets. Serialized as a JSON array of "q,r" keys.
type CoordSet map[hexgrid.Axial]struct{}

// NewCoordSet builds a set from a coordinate list.
func NewCoordSet(coords ...hexgrid.Axial) CoordSet {
	s := make(CoordSet, len(coords))
	for _, c := range coords {
		s[c] = struct{}{}
	}
	return s
}

// Contains reports set membership.
func (s CoordSet) Contains(a hexgrid.Axial) bool {
	_, ok := s[a]
	return ok
}

// Add inserts a coordinate.
func (s CoordSet) Add(a hexgrid.Axial) { s[a] = struct{}{} }

// Union inserts every coordinate from other.
func (s CoordSet) Union(other CoordSet) {
	for c := range other {
		s[c] = struct{}{}
	}
}

// Clone returns a copy of the set.
func (s CoordSet) Clone() CoordSet {
	out := make(CoordSet, len(s))
	for c := range s {
		out[c] = struct{}{}
	}
	return out
}

// MarshalJSON encodes the set as a sorted-free array of "q,r" keys.
func (s CoordSet) MarshalJSON() ([]byte, error) {
	keys := make([]string, 0, len(s))
	for c := range s {
		keys = append(keys, c.Key())
	}
	return json.Marshal(keys)
}

// UnmarshalJSON decodes an array of "q,r" keys.
func (s *CoordSet) UnmarshalJSON(data []byte) error {
	var keys []string
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	out := make(CoordSet, len(keys))
	for _, k := range keys {
		coord, err := hexgrid.ParseKey(k)
		if err != nil {
			return fmt.Errorf("coord set entry: %w", err)
		}
		out[coord] = struct{}{}
	}
	*s = out
	return nil
}
