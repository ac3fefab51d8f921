package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tactical "github.com/swdee/go-tactical"
	"github.com/swdee/go-tactical/formation"
)

func TestRadarInputLabelsSkippedTeams(t *testing.T) {

	a, err := tactical.NewAnalyzer(tactical.AnalyzerDefaultParams())
	require.NoError(t, err)

	var res tactical.FrameResult
	res.Frame = 9
	res.Teams.Team1 = tactical.TeamResult{
		Formation: formation.Formation{Label: "4-3-3", Confidence: 0.9},
	}
	res.Teams.Team2 = tactical.TeamResult{
		Formation: formation.Formation{Label: formation.NotAvailable},
		Skipped:   tactical.SkipPlayers,
	}

	in := radarInput(a, res)
	require.Len(t, in.Teams, 2)

	assert.Equal(t, 9, in.Frame)
	assert.Equal(t, "4-3-3", in.Teams[0].Formation)
	assert.Equal(t, 0.9, in.Teams[0].Confidence)
	assert.Equal(t, formation.NotAvailable, in.Teams[1].Formation)
	assert.Equal(t, "team2", in.Teams[1].Name)
}
