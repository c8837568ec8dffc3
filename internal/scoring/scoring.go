// Package scoring converts accumulated player statistics into fantasy
// points. Points are a pure projection of stats and weights; nothing in
// this package mutates league state.
package scoring

import (
	"math"
	"sort"

	"github.com/MarcusAnderfelt/worlds-fantasy/internal/league"
)

// PlayerPoints computes a player's fantasy points from raw stats,
// rounded to two decimals with cents rounding half-up. Weights may be
// negative (deaths usually are).
func PlayerPoints(p *league.Player, w league.ScoringWeights) float64 {
	raw := float64(p.Stats.Kills)*w.Kill +
		float64(p.Stats.Assists)*w.Assist +
		float64(p.Stats.Deaths)*w.Death +
		float64(p.Stats.CreepScore)*w.CreepScore
	return round2(raw)
}

// TeamPoints sums the points of every player on the team's roster.
// Roster entries that resolve to no player contribute nothing.
func TeamPoints(t *league.Team, lg *league.League) float64 {
	total := 0.0
	for _, id := range t.Roster {
		p := lg.PlayerByID(id)
		if p == nil {
			continue
		}
		total += PlayerPoints(p, lg.Weights)
	}
	return round2(total)
}

type TeamStanding struct {
	Rank   int     `json:"rank"`
	TeamID string  `json:"team_id"`
	Name   string  `json:"name"`
	Points float64 `json:"points"`
	Picks  int     `json:"picks"`
}

// Standings ranks teams by total points, highest first. Ties break on
// name so the table is stable across reads.
func Standings(lg *league.League) []TeamStanding {
	rows := make([]TeamStanding, 0, len(lg.Teams))
	for i := range lg.Teams {
		t := &lg.Teams[i]
		rows = append(rows, TeamStanding{
			TeamID: t.ID,
			Name:   t.Name,
			Points: TeamPoints(t, lg),
			Picks:  len(t.Roster),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Points != rows[j].Points {
			return rows[i].Points > rows[j].Points
		}
		return rows[i].Name < rows[j].Name
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}

// round2 matches the half-up rounding of the scoring rules: the cent
// boundary rounds toward positive infinity, so -1.005 becomes -1.00.
func round2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}
