package team

import (
	"fmt"
	"strings"
)

// Team identifies one of the two sides in a match
type Team int

const (
	Team1 Team = iota
	Team2
)

// All lists both teams in key order
var All = [2]Team{Team1, Team2}

// String returns the JSON key used for the team
func (t Team) String() string {

	switch t {
	case Team1:
		return "team1"
	case Team2:
		return "team2"
	}

	return fmt.Sprintf("team(%d)", int(t))
}

// Other returns the opposing team
func (t Team) Other() Team {

	if t == Team1 {
		return Team2
	}

	return Team1
}

// Parse converts a team key such as "team1" into a Team
func Parse(s string) (Team, error) {

	switch strings.ToLower(strings.TrimSpace(s)) {
	case "team1", "home", "1":
		return Team1, nil
	case "team2", "away", "2":
		return Team2, nil
	}

	return 0, fmt.Errorf("unknown team %q", s)
}

// PerTeam holds one value per team and serialises with the fixed keys
// team1 and team2
type PerTeam[T any] struct {
	Team1 T `json:"team1"`
	Team2 T `json:"team2"`
}

// Get returns the value for a team
func (p *PerTeam[T]) Get(t Team) T {

	if t == Team2 {
		return p.Team2
	}

	return p.Team1
}

// Set assigns the value for a team
func (p *PerTeam[T]) Set(t Team, v T) {

	if t == Team2 {
		p.Team2 = v
		return
	}

	p.Team1 = v
}

// Ptr returns a pointer to the value held for a team
func (p *PerTeam[T]) Ptr(t Team) *T {

	if t == Team2 {
		return &p.Team2
	}

	return &p.Team1
}

// Map applies fn to both values
func Map[T, U any](p PerTeam[T], fn func(Team, T) U) PerTeam[U] {
	return PerTeam[U]{
		Team1: fn(Team1, p.Team1),
		Team2: fn(Team2, p.Team2),
	}
}
