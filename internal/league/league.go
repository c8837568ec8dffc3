// Package league holds the core data model for a Worlds fantasy league:
// pro players, fantasy teams, draft state, and scoring weights. All state
// lives in a single League document that serializes to JSON.
package league

import (
	"fmt"

	"github.com/rs/xid"
)

// Category is the competitive region a pro player belongs to. A completed
// roster must cover every region exactly once.
type Category string

const (
	CategoryLCK Category = "LCK"
	CategoryLPL Category = "LPL"
	CategoryLEC Category = "LEC"
	CategoryLCS Category = "LCS"
	CategoryPCS Category = "PCS"
)

// DefaultCategory is applied when a snapshot carries an unknown region.
const DefaultCategory = CategoryLCK

// Categories returns the fixed region set in display order. The identity
// set never changes at runtime.
func Categories() []Category {
	return []Category{CategoryLCK, CategoryLPL, CategoryLEC, CategoryLCS, CategoryPCS}
}

func ValidCategory(c Category) bool {
	switch c {
	case CategoryLCK, CategoryLPL, CategoryLEC, CategoryLCS, CategoryPCS:
		return true
	}
	return false
}

// Role is the in-game position of a pro player. Rosters place no
// constraint on role distribution.
type Role string

const (
	RoleTop     Role = "Top"
	RoleJungle  Role = "Jungle"
	RoleMid     Role = "Mid"
	RoleADC     Role = "ADC"
	RoleSupport Role = "Support"
)

// DefaultRole is applied when a snapshot carries an unknown role.
const DefaultRole = RoleMid

func Roles() []Role {
	return []Role{RoleTop, RoleJungle, RoleMid, RoleADC, RoleSupport}
}

func ValidRole(r Role) bool {
	switch r {
	case RoleTop, RoleJungle, RoleMid, RoleADC, RoleSupport:
		return true
	}
	return false
}

// RequiredRosterSize is the number of picks a full roster needs. It is
// always the region count, never a configurable value.
func RequiredRosterSize() int {
	return len(Categories())
}

// PlayerStats accumulates raw in-game numbers. Stats are the source of
// truth for scoring; points are recomputed from them on every read.
type PlayerStats struct {
	Kills       int `json:"kills"`
	Deaths      int `json:"deaths"`
	Assists     int `json:"assists"`
	CreepScore  int `json:"creep_score"`
	GamesPlayed int `json:"games_played"`
}

type Player struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Role     Role        `json:"role"`
	Category Category    `json:"category"`
	ProTeam  string      `json:"pro_team,omitempty"`
	OwnerID  string      `json:"owner_id,omitempty"`
	Stats    PlayerStats `json:"stats"`
	// Points is kept in the document for older snapshots but is never
	// authoritative. The migrator zeroes it on load.
	Points float64 `json:"points"`
}

type Team struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	// Roster holds player IDs in pick order.
	Roster []string `json:"roster"`
	// Points mirrors the player field: present in the document,
	// recomputed from stats whenever it matters.
	Points float64 `json:"points"`
}

// DraftState tracks the turn pointer. The concrete order for a round is
// derived from Order, Round, and Snake rather than stored per round.
type DraftState struct {
	Started     bool     `json:"started"`
	Finished    bool     `json:"finished"`
	Order       []string `json:"order"`
	Round       int      `json:"round"`
	TotalRounds int      `json:"total_rounds"`
	PickIndex   int      `json:"pick_index"`
	Snake       bool     `json:"snake"`
}

type ScoringWeights struct {
	Kill       float64 `json:"kill"`
	Assist     float64 `json:"assist"`
	Death      float64 `json:"death"`
	CreepScore float64 `json:"creep_score"`
}

func DefaultWeights() ScoringWeights {
	return ScoringWeights{Kill: 3, Assist: 1.5, Death: -1, CreepScore: 0.01}
}

type League struct {
	Name       string         `json:"name"`
	Teams      []Team         `json:"teams"`
	Players    []Player       `json:"players"`
	Draft      DraftState     `json:"draft"`
	Weights    ScoringWeights `json:"weights"`
	RosterSize int            `json:"roster_size"`
}

// NewDefault builds the fallback league used when no snapshot exists:
// two empty teams, no players, draft not started.
func NewDefault() *League {
	return &League{
		Name: "Worlds Fantasy League",
		Teams: []Team{
			{ID: xid.New().String(), Name: "Team 1", Roster: []string{}},
			{ID: xid.New().String(), Name: "Team 2", Roster: []string{}},
		},
		Players: []Player{},
		Draft: DraftState{
			Round:       1,
			TotalRounds: RequiredRosterSize(),
			Snake:       true,
		},
		Weights:    DefaultWeights(),
		RosterSize: RequiredRosterSize(),
	}
}

// TeamByID returns a pointer into the Teams slice, or nil if the ID is
// unknown. Callers mutate through the pointer.
func (l *League) TeamByID(id string) *Team {
	for i := range l.Teams {
		if l.Teams[i].ID == id {
			return &l.Teams[i]
		}
	}
	return nil
}

// PlayerByID returns a pointer into the Players slice, or nil if the ID
// is unknown.
func (l *League) PlayerByID(id string) *Player {
	for i := range l.Players {
		if l.Players[i].ID == id {
			return &l.Players[i]
		}
	}
	return nil
}

// AllRostersFull reports whether every team has drafted a complete
// roster. An empty league counts as not full.
func (l *League) AllRostersFull() bool {
	if len(l.Teams) == 0 {
		return false
	}
	for i := range l.Teams {
		if len(l.Teams[i].Roster) < RequiredRosterSize() {
			return false
		}
	}
	return true
}

// DraftRunning reports whether a draft is in progress. Teams and players
// may only be added outside a running draft.
func (l *League) DraftRunning() bool {
	return l.Draft.Started && !l.Draft.Finished
}

// AddTeam appends a new team with a fresh identity. An empty name gets
// a positional default.
func (l *League) AddTeam(name string) *Team {
	if name == "" {
		name = fmt.Sprintf("Team %d", len(l.Teams)+1)
	}
	l.Teams = append(l.Teams, Team{ID: xid.New().String(), Name: name, Roster: []string{}})
	return &l.Teams[len(l.Teams)-1]
}

// AddPlayer appends a new undrafted player with a fresh identity.
// Invalid role or category values fall back to the defaults.
func (l *League) AddPlayer(name string, role Role, category Category, proTeam string) *Player {
	if name == "" {
		name = "Unknown Player"
	}
	if !ValidRole(role) {
		role = DefaultRole
	}
	if !ValidCategory(category) {
		category = DefaultCategory
	}
	l.Players = append(l.Players, Player{
		ID:       xid.New().String(),
		Name:     name,
		Role:     role,
		Category: category,
		ProTeam:  proTeam,
	})
	return &l.Players[len(l.Players)-1]
}
