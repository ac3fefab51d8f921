package pitch

import (
	"fmt"
	"strings"
)

// Direction is the way a team attacks along the X axis of the pitch
type Direction string

const (
	// AttackRight means the team's own goal is at X=0
	AttackRight Direction = "right"
	// AttackLeft means the team's own goal is at X=Length
	AttackLeft Direction = "left"
)

// ParseDirection converts a configuration string into a Direction
func ParseDirection(s string) (Direction, error) {

	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case AttackRight:
		return AttackRight, nil
	case AttackLeft:
		return AttackLeft, nil
	}

	return "", fmt.Errorf("invalid attacking direction %q, must be right or left", s)
}

// Forward returns the distance of the point from the team's own goal line
func (d Direction) Forward(p Point) float64 {

	if d == AttackLeft {
		return Length - p.X
	}

	return p.X
}

// Orient returns the point in a frame where the team always attacks right
func (d Direction) Orient(p Point) Point {

	if d == AttackLeft {
		return p.MirrorX()
	}

	return p
}

// Opposite returns the reverse direction
func (d Direction) Opposite() Direction {

	if d == AttackLeft {
		return AttackRight
	}

	return AttackLeft
}
