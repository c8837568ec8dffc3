package migrate

import (
	"testing"

	"github.com/MarcusAnderfelt/worlds-fantasy/internal/league"
)

// ---------------------------------------------------------------------------
// Absent / unparsable input
// ---------------------------------------------------------------------------

func TestMigrate_NilInputYieldsDefaultLeague(t *testing.T) {
	lg := Migrate(nil)

	if len(lg.Teams) != 2 {
		t.Errorf("Teams len = %d, want 2", len(lg.Teams))
	}
	if len(lg.Players) != 0 {
		t.Errorf("Players len = %d, want 0", len(lg.Players))
	}
	if lg.Draft.Started {
		t.Error("default league must not have a started draft")
	}
	if lg.RosterSize != 5 {
		t.Errorf("RosterSize = %d, want 5", lg.RosterSize)
	}
}

func TestMigrate_GarbageInputYieldsDefaultLeague(t *testing.T) {
	lg := Migrate([]byte(`{"teams": [`))

	if len(lg.Teams) != 2 || len(lg.Players) != 0 {
		t.Errorf("garbage input: teams=%d players=%d, want default 2/0", len(lg.Teams), len(lg.Players))
	}
}

func TestMigrate_NonObjectInputYieldsDefaultLeague(t *testing.T) {
	for _, raw := range []string{`null`, `42`, `"league"`, `[1,2,3]`} {
		lg := Migrate([]byte(raw))
		if len(lg.Teams) != 2 {
			t.Errorf("input %s: teams=%d, want default 2", raw, len(lg.Teams))
		}
	}
}

// ---------------------------------------------------------------------------
// Teams
// ---------------------------------------------------------------------------

func TestMigrate_TeamMissingFieldsGetDefaults(t *testing.T) {
	lg := Migrate([]byte(`{"teams": [{}]}`))

	if len(lg.Teams) != 1 {
		t.Fatalf("Teams len = %d, want 1", len(lg.Teams))
	}
	team := lg.Teams[0]
	if team.ID == "" {
		t.Error("missing id must get a fresh identity")
	}
	if team.Name != "Team 1" {
		t.Errorf("Name = %q, want positional default", team.Name)
	}
	if team.Roster == nil || len(team.Roster) != 0 {
		t.Errorf("Roster = %v, want empty sequence", team.Roster)
	}
}

func TestMigrate_MalformedRosterBecomesEmpty(t *testing.T) {
	for _, raw := range []string{
		`{"teams": [{"id": "t1", "roster": "not-a-list"}]}`,
		`{"teams": [{"id": "t1", "roster": 7}]}`,
		`{"teams": [{"id": "t1"}]}`,
	} {
		lg := Migrate([]byte(raw))
		if len(lg.Teams[0].Roster) != 0 {
			t.Errorf("input %s: roster = %v, want empty", raw, lg.Teams[0].Roster)
		}
	}
}

func TestMigrate_RosterKeepsOnlyStringEntries(t *testing.T) {
	raw := `{
		"teams": [{"id": "t1", "roster": ["a", 3, null, "b"]}],
		"players": [
			{"id": "a", "owner_id": "t1"},
			{"id": "b", "owner_id": "t1"}
		]
	}`
	lg := Migrate([]byte(raw))

	roster := lg.Teams[0].Roster
	if len(roster) != 2 || roster[0] != "a" || roster[1] != "b" {
		t.Errorf("roster = %v, want [a b]", roster)
	}
}

func TestMigrate_RosterDropsEntriesWithoutSurvivingOwnership(t *testing.T) {
	// "gone" resolves to no player; "freed" belonged to a team that did
	// not survive migration, so its ownership was cleared. Neither may
	// stay seated, or a later pick could put one player on two rosters.
	raw := `{
		"teams": [{"id": "t1", "roster": ["kept", "gone", "freed"]}],
		"players": [
			{"id": "kept", "owner_id": "t1"},
			{"id": "freed", "owner_id": "ghost-team"}
		]
	}`
	lg := Migrate([]byte(raw))

	roster := lg.Teams[0].Roster
	if len(roster) != 1 || roster[0] != "kept" {
		t.Errorf("roster = %v, want [kept]", roster)
	}
	if lg.Players[1].OwnerID != "" {
		t.Errorf("freed OwnerID = %q, want cleared", lg.Players[1].OwnerID)
	}
}

func TestMigrate_RosterDropsPlayersOwnedElsewhere(t *testing.T) {
	raw := `{
		"teams": [
			{"id": "t1", "roster": ["p1"]},
			{"id": "t2", "roster": ["p1"]}
		],
		"players": [{"id": "p1", "owner_id": "t2"}]
	}`
	lg := Migrate([]byte(raw))

	if len(lg.Teams[0].Roster) != 0 {
		t.Errorf("t1 roster = %v, want empty (p1 belongs to t2)", lg.Teams[0].Roster)
	}
	if len(lg.Teams[1].Roster) != 1 {
		t.Errorf("t2 roster = %v, want [p1]", lg.Teams[1].Roster)
	}
}

func TestMigrate_RosterDeduplicatedAndClampedToRequiredSize(t *testing.T) {
	roster := `["p1", "p1", "p2", "p3", "p4", "p5", "p6"]`
	players := `[
		{"id": "p1", "owner_id": "t1"},
		{"id": "p2", "owner_id": "t1"},
		{"id": "p3", "owner_id": "t1"},
		{"id": "p4", "owner_id": "t1"},
		{"id": "p5", "owner_id": "t1"},
		{"id": "p6", "owner_id": "t1"}
	]`
	lg := Migrate([]byte(`{"teams": [{"id": "t1", "roster": ` + roster + `}], "players": ` + players + `}`))

	got := lg.Teams[0].Roster
	if len(got) != league.RequiredRosterSize() {
		t.Fatalf("roster len = %d, want clamped to %d", len(got), league.RequiredRosterSize())
	}
	if got[0] != "p1" || got[1] != "p2" {
		t.Errorf("roster = %v, duplicate p1 should appear once", got)
	}
}

func TestMigrate_NonFiniteTeamPointsBecomeZero(t *testing.T) {
	lg := Migrate([]byte(`{"teams": [{"id": "t1", "points": "lots"}]}`))
	if lg.Teams[0].Points != 0 {
		t.Errorf("Points = %v, want 0", lg.Teams[0].Points)
	}
}

// ---------------------------------------------------------------------------
// Players
// ---------------------------------------------------------------------------

func TestMigrate_PlayerMissingFieldsGetDefaults(t *testing.T) {
	lg := Migrate([]byte(`{"players": [{}]}`))

	if len(lg.Players) != 1 {
		t.Fatalf("Players len = %d, want 1", len(lg.Players))
	}
	p := lg.Players[0]
	if p.ID == "" {
		t.Error("missing id must get a fresh identity")
	}
	if p.Name != "Unknown Player" {
		t.Errorf("Name = %q, want default", p.Name)
	}
	if p.Role != league.DefaultRole {
		t.Errorf("Role = %q, want default %q", p.Role, league.DefaultRole)
	}
	if p.Category != league.DefaultCategory {
		t.Errorf("Category = %q, want default %q", p.Category, league.DefaultCategory)
	}
}

func TestMigrate_InvalidRoleAndCategoryCoerced(t *testing.T) {
	lg := Migrate([]byte(`{"players": [{"id": "p1", "role": "Coach", "category": "LDL"}]}`))

	p := lg.Players[0]
	if p.Role != league.DefaultRole {
		t.Errorf("Role = %q, want coerced default", p.Role)
	}
	if p.Category != league.DefaultCategory {
		t.Errorf("Category = %q, want coerced default", p.Category)
	}
}

func TestMigrate_ValidRoleAndCategoryKept(t *testing.T) {
	lg := Migrate([]byte(`{"players": [{"id": "p1", "role": "Support", "category": "LPL"}]}`))

	p := lg.Players[0]
	if p.Role != league.RoleSupport || p.Category != league.CategoryLPL {
		t.Errorf("role/category = %q/%q, want Support/LPL", p.Role, p.Category)
	}
}

func TestMigrate_OwnershipKeptOnlyForKnownTeams(t *testing.T) {
	raw := `{
		"teams": [{"id": "t1"}],
		"players": [
			{"id": "p1", "owner_id": "t1"},
			{"id": "p2", "owner_id": "ghost"}
		]
	}`
	lg := Migrate([]byte(raw))

	if lg.Players[0].OwnerID != "t1" {
		t.Errorf("p1 OwnerID = %q, want t1", lg.Players[0].OwnerID)
	}
	if lg.Players[1].OwnerID != "" {
		t.Errorf("p2 OwnerID = %q, want cleared (unknown team)", lg.Players[1].OwnerID)
	}
}

func TestMigrate_StoredPlayerPointsAlwaysReset(t *testing.T) {
	lg := Migrate([]byte(`{"players": [{"id": "p1", "points": 123.4}]}`))
	if lg.Players[0].Points != 0 {
		t.Errorf("Points = %v, want 0 (stored points are never trusted)", lg.Players[0].Points)
	}
}

func TestMigrate_NonFiniteStatsBecomeZero(t *testing.T) {
	raw := `{"players": [{"id": "p1", "stats": {"kills": "many", "deaths": 3, "assists": null}}]}`
	lg := Migrate([]byte(raw))

	s := lg.Players[0].Stats
	if s.Kills != 0 || s.Assists != 0 {
		t.Errorf("kills=%d assists=%d, want 0/0 for malformed values", s.Kills, s.Assists)
	}
	if s.Deaths != 3 {
		t.Errorf("Deaths = %d, want 3 kept", s.Deaths)
	}
}

// ---------------------------------------------------------------------------
// Draft state & league-level fields
// ---------------------------------------------------------------------------

func TestMigrate_DraftDefaults(t *testing.T) {
	lg := Migrate([]byte(`{"draft": {}}`))

	d := lg.Draft
	if d.Round != 1 || d.PickIndex != 0 {
		t.Errorf("pointer = %d/%d, want 1/0", d.Round, d.PickIndex)
	}
	if !d.Snake {
		t.Error("snake must default to true")
	}
	if d.TotalRounds != league.RequiredRosterSize() {
		t.Errorf("TotalRounds = %d, want roster size", d.TotalRounds)
	}
}

func TestMigrate_SnakeFalseOnlyWhenExplicit(t *testing.T) {
	lg := Migrate([]byte(`{"draft": {"snake": false}}`))
	if lg.Draft.Snake {
		t.Error("explicit snake=false must be kept")
	}
}

func TestMigrate_OrderDropsUnknownTeams(t *testing.T) {
	raw := `{
		"teams": [{"id": "t1"}, {"id": "t2"}],
		"draft": {"order": ["t2", "ghost", "t1"]}
	}`
	lg := Migrate([]byte(raw))

	order := lg.Draft.Order
	if len(order) != 2 || order[0] != "t2" || order[1] != "t1" {
		t.Errorf("order = %v, want [t2 t1]", order)
	}
}

func TestMigrate_PointerClampedIntoOrder(t *testing.T) {
	raw := `{
		"teams": [{"id": "t1"}, {"id": "t2"}],
		"draft": {"order": ["t1", "t2"], "round": -4, "pick_index": 99}
	}`
	lg := Migrate([]byte(raw))

	if lg.Draft.Round != 1 {
		t.Errorf("Round = %d, want clamped to 1", lg.Draft.Round)
	}
	if lg.Draft.PickIndex != 1 {
		t.Errorf("PickIndex = %d, want clamped to last slot", lg.Draft.PickIndex)
	}
}

func TestMigrate_RosterSizeNeverTakenFromInput(t *testing.T) {
	lg := Migrate([]byte(`{"roster_size": 40}`))
	if lg.RosterSize != league.RequiredRosterSize() {
		t.Errorf("RosterSize = %d, want forced %d", lg.RosterSize, league.RequiredRosterSize())
	}
}

func TestMigrate_WeightsDefaultPerField(t *testing.T) {
	lg := Migrate([]byte(`{"weights": {"kill": 2.5, "death": "oops"}}`))

	def := league.DefaultWeights()
	if lg.Weights.Kill != 2.5 {
		t.Errorf("Kill = %v, want 2.5 kept", lg.Weights.Kill)
	}
	if lg.Weights.Death != def.Death {
		t.Errorf("Death = %v, want default %v", lg.Weights.Death, def.Death)
	}
	if lg.Weights.Assist != def.Assist {
		t.Errorf("Assist = %v, want default %v", lg.Weights.Assist, def.Assist)
	}
}

func TestMigrate_FreshIdentitiesAreUnique(t *testing.T) {
	lg := Migrate([]byte(`{"players": [{}, {}, {}]}`))

	seen := make(map[string]bool)
	for _, p := range lg.Players {
		if seen[p.ID] {
			t.Errorf("duplicate fresh id %q", p.ID)
		}
		seen[p.ID] = true
	}
}
