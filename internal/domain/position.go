package domain

import (
	"fmt"
	"strings"
)

// Position is a finish-place label. The set is closed: a race records at
// most four places.
type Position string

const (
	PositionFirst  Position = "first"
	PositionSecond Position = "second"
	PositionThird  Position = "third"
	PositionFourth Position = "fourth"
)

// Positions lists all valid positions in finishing order.
var Positions = []Position{PositionFirst, PositionSecond, PositionThird, PositionFourth}

// ParsePosition normalises a raw position label to lowercase and validates
// it against the closed set.
func ParsePosition(s string) (Position, error) {
	p := Position(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Positions {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPosition, s)
}

// Snapshot maps positions to the lane occupying them for a single race.
type Snapshot map[Position]string

// ParseSnapshot validates and normalises a raw position→lane mapping.
func ParseSnapshot(raw map[string]string) (Snapshot, error) {
	if len(raw) == 0 {
		return nil, ErrEmptySubmission
	}
	snap := make(Snapshot, len(raw))
	for k, lane := range raw {
		p, err := ParsePosition(k)
		if err != nil {
			return nil, err
		}
		snap[p] = lane
	}
	return snap, nil
}

// Clone returns an independent copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := make(Snapshot, len(s))
	for p, lane := range s {
		out[p] = lane
	}
	return out
}
