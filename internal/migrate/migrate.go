// Package migrate normalizes arbitrary persisted snapshots into a
// structurally valid League. Migration is total: malformed input never
// propagates, it is repaired field by field with explicit defaults.
package migrate

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/rs/xid"

	"github.com/MarcusAnderfelt/worlds-fantasy/internal/league"
)

// Migrate turns a raw snapshot into a valid League. Absent or
// unparsable input yields the default league. Stored points and the
// roster-size claim are never trusted: points reset to zero and the
// roster size is forced back to the region count.
func Migrate(raw []byte) *league.League {
	var doc map[string]any
	if len(raw) == 0 || json.Unmarshal(raw, &doc) != nil || doc == nil {
		return league.NewDefault()
	}

	lg := &league.League{
		Name:       stringOr(doc["name"], "Worlds Fantasy League"),
		Teams:      migrateTeams(doc["teams"]),
		Weights:    migrateWeights(doc["weights"]),
		RosterSize: league.RequiredRosterSize(),
	}
	lg.Players = migratePlayers(doc["players"], lg)
	reconcileRosters(lg)
	lg.Draft = migrateDraft(doc["draft"], lg)
	return lg
}

// reconcileRosters drops roster entries that no longer resolve to a
// player owned by that team, removes duplicates, and caps each roster
// at the required size. Without this a snapshot could seat a player on
// a roster after the migrator cleared their ownership, and a later
// pick would put them on two rosters.
func reconcileRosters(lg *league.League) {
	for i := range lg.Teams {
		t := &lg.Teams[i]
		kept := make([]string, 0, len(t.Roster))
		seen := make(map[string]bool, len(t.Roster))
		for _, id := range t.Roster {
			if seen[id] {
				continue
			}
			p := lg.PlayerByID(id)
			if p == nil || p.OwnerID != t.ID {
				continue
			}
			seen[id] = true
			kept = append(kept, id)
		}
		if len(kept) > league.RequiredRosterSize() {
			kept = kept[:league.RequiredRosterSize()]
		}
		t.Roster = kept
	}
}

func migrateTeams(v any) []league.Team {
	items, _ := v.([]any)
	teams := make([]league.Team, 0, len(items))
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		teams = append(teams, league.Team{
			ID:     stringOr(m["id"], xid.New().String()),
			Name:   stringOr(m["name"], fmt.Sprintf("Team %d", i+1)),
			Roster: stringSlice(m["roster"]),
			Points: finiteOr(m["points"], 0),
		})
	}
	return teams
}

func migratePlayers(v any, lg *league.League) []league.Player {
	items, _ := v.([]any)
	players := make([]league.Player, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		p := league.Player{
			ID:       stringOr(m["id"], xid.New().String()),
			Name:     stringOr(m["name"], "Unknown Player"),
			Role:     league.Role(stringOr(m["role"], "")),
			Category: league.Category(stringOr(m["category"], "")),
			ProTeam:  stringOr(m["pro_team"], ""),
			Stats:    migrateStats(m["stats"]),
			Points:   0,
		}
		if !league.ValidRole(p.Role) {
			p.Role = league.DefaultRole
		}
		if !league.ValidCategory(p.Category) {
			p.Category = league.DefaultCategory
		}
		// Ownership survives only when it resolves to a migrated team.
		if owner := stringOr(m["owner_id"], ""); owner != "" && lg.TeamByID(owner) != nil {
			p.OwnerID = owner
		}
		players = append(players, p)
	}
	return players
}

func migrateStats(v any) league.PlayerStats {
	m, _ := v.(map[string]any)
	return league.PlayerStats{
		Kills:       intOr(m["kills"], 0),
		Deaths:      intOr(m["deaths"], 0),
		Assists:     intOr(m["assists"], 0),
		CreepScore:  intOr(m["creep_score"], 0),
		GamesPlayed: intOr(m["games_played"], 0),
	}
}

func migrateWeights(v any) league.ScoringWeights {
	m, _ := v.(map[string]any)
	if m == nil {
		return league.DefaultWeights()
	}
	def := league.DefaultWeights()
	return league.ScoringWeights{
		Kill:       finiteOr(m["kill"], def.Kill),
		Assist:     finiteOr(m["assist"], def.Assist),
		Death:      finiteOr(m["death"], def.Death),
		CreepScore: finiteOr(m["creep_score"], def.CreepScore),
	}
}

func migrateDraft(v any, lg *league.League) league.DraftState {
	m, _ := v.(map[string]any)
	d := league.DraftState{
		Started:     boolOr(m["started"], false),
		Finished:    boolOr(m["finished"], false),
		Order:       knownTeamIDs(stringSlice(m["order"]), lg),
		Round:       intOr(m["round"], 1),
		TotalRounds: intOr(m["total_rounds"], league.RequiredRosterSize()),
		PickIndex:   intOr(m["pick_index"], 0),
		Snake:       boolOr(m["snake"], true),
	}
	if d.Round < 1 {
		d.Round = 1
	}
	if d.TotalRounds < 1 {
		d.TotalRounds = league.RequiredRosterSize()
	}
	if d.PickIndex < 0 {
		d.PickIndex = 0
	}
	if len(d.Order) > 0 && d.PickIndex >= len(d.Order) {
		d.PickIndex = len(d.Order) - 1
	}
	return d
}

// knownTeamIDs drops order entries that do not resolve to a migrated
// team, so the pointer can never land on a phantom slot.
func knownTeamIDs(ids []string, lg *league.League) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if lg.TeamByID(id) != nil {
			out = append(out, id)
		}
	}
	return out
}

func stringOr(v any, def string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return def
}

func stringSlice(v any) []string {
	items, _ := v.([]any)
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func finiteOr(v any, def float64) float64 {
	f, ok := v.(float64)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return def
	}
	return f
}

func intOr(v any, def int) int {
	f, ok := v.(float64)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return def
	}
	return int(f)
}

func boolOr(v any, def bool) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	return def
}
