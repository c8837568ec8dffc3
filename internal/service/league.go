// Package service owns the live league state. Every mutation goes
// through one LeagueService behind a mutex, is applied atomically, and
// is written back to the snapshot store before the call returns.
package service

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/MarcusAnderfelt/worlds-fantasy/internal/draft"
	"github.com/MarcusAnderfelt/worlds-fantasy/internal/league"
	"github.com/MarcusAnderfelt/worlds-fantasy/internal/migrate"
	"github.com/MarcusAnderfelt/worlds-fantasy/internal/scoring"
	"github.com/MarcusAnderfelt/worlds-fantasy/internal/store"
)

type LeagueService struct {
	mu     sync.Mutex
	lg     *league.League
	store  *store.SnapshotStore
	engine *draft.Engine
}

// NewLeagueService loads the persisted snapshot through the migrator.
// A missing or corrupt snapshot silently becomes the default league.
func NewLeagueService(st *store.SnapshotStore, engine *draft.Engine) *LeagueService {
	raw, _ := st.Load()
	return &LeagueService{
		lg:     migrate.Migrate(raw),
		store:  st,
		engine: engine,
	}
}

// persist writes the current state back. Called with the lock held.
func (s *LeagueService) persist() error {
	return s.store.Save(s.lg)
}

// Export emits the current league document verbatim.
func (s *LeagueService) Export() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return json.MarshalIndent(s.lg, "", "  ")
}

// Import replaces the current state with an externally supplied
// document. The document is never trusted directly; it goes through the
// migrator unconditionally.
func (s *LeagueService) Import(raw []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lg = migrate.Migrate(raw)
	return s.persist()
}

// Reset discards all state and persists a fresh default league.
func (s *LeagueService) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lg = league.NewDefault()
	return s.persist()
}

func (s *LeagueService) Standings() []scoring.TeamStanding {
	s.mu.Lock()
	defer s.mu.Unlock()
	return scoring.Standings(s.lg)
}

func (s *LeagueService) AddTeam(name string) (league.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lg.DraftRunning() {
		return league.Team{}, fmt.Errorf("cannot add teams while a draft is running")
	}
	t := *s.lg.AddTeam(name)
	return t, s.persist()
}

func (s *LeagueService) AddPlayer(name, role, category, proTeam string) (league.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lg.DraftRunning() {
		return league.Player{}, fmt.Errorf("cannot add players while a draft is running")
	}
	if role != "" && !league.ValidRole(league.Role(role)) {
		return league.Player{}, fmt.Errorf("unknown role %q", role)
	}
	if category != "" && !league.ValidCategory(league.Category(category)) {
		return league.Player{}, fmt.Errorf("unknown region %q", category)
	}
	p := *s.lg.AddPlayer(name, league.Role(role), league.Category(category), proTeam)
	return p, s.persist()
}

// RemovePlayer deletes an undrafted player. Owned players stay put;
// ownership only changes through draft transitions.
func (s *LeagueService) RemovePlayer(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lg.DraftRunning() {
		return fmt.Errorf("cannot remove players while a draft is running")
	}
	p := s.lg.PlayerByID(playerID)
	if p == nil {
		return fmt.Errorf("unknown player %q", playerID)
	}
	if p.OwnerID != "" {
		return fmt.Errorf("%s has been drafted; undo the pick first", p.Name)
	}
	for i := range s.lg.Players {
		if s.lg.Players[i].ID == playerID {
			s.lg.Players = append(s.lg.Players[:i], s.lg.Players[i+1:]...)
			break
		}
	}
	return s.persist()
}

func (s *LeagueService) StartDraft(snake bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lg.Draft.Snake = snake
	if err := s.engine.Start(s.lg); err != nil {
		return err
	}
	return s.persist()
}

func (s *LeagueService) RandomizeOrder() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.engine.RandomizeOrder(s.lg); err != nil {
		return err
	}
	return s.persist()
}

func (s *LeagueService) Pick(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.engine.Pick(s.lg, playerID); err != nil {
		return err
	}
	return s.persist()
}

func (s *LeagueService) Undo() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.Undo(s.lg)
	return s.persist()
}

// ClockInfo describes the current turn for display.
type ClockInfo struct {
	TeamID    string `json:"team_id,omitempty"`
	TeamName  string `json:"team_name,omitempty"`
	Round     int    `json:"round"`
	PickIndex int    `json:"pick_index"`
	Started   bool   `json:"started"`
	Finished  bool   `json:"finished"`
}

func (s *LeagueService) OnTheClock() ClockInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	info := ClockInfo{
		Round:     s.lg.Draft.Round,
		PickIndex: s.lg.Draft.PickIndex,
		Started:   s.lg.Draft.Started,
		Finished:  s.lg.Draft.Finished,
	}
	if t := draft.OnTheClock(s.lg); t != nil {
		info.TeamID = t.ID
		info.TeamName = t.Name
	}
	return info
}

// RecordStats appends one game's numbers to a player's running totals
// and bumps games-played. Unknown players are rejected without a state
// change; stats never move during a running draft.
func (s *LeagueService) RecordStats(playerID string, kills, deaths, assists, creepScore int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lg.DraftRunning() {
		return fmt.Errorf("cannot record stats while a draft is running")
	}
	p := s.lg.PlayerByID(playerID)
	if p == nil {
		return fmt.Errorf("unknown player %q", playerID)
	}
	p.Stats.Kills += kills
	p.Stats.Deaths += deaths
	p.Stats.Assists += assists
	p.Stats.CreepScore += creepScore
	p.Stats.GamesPlayed++
	return s.persist()
}

func (s *LeagueService) SetWeights(w league.ScoringWeights) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lg.Weights = w
	return s.persist()
}

// PlayerMatch is one fuzzy search hit, with points recomputed from the
// player's current stats.
type PlayerMatch struct {
	Player league.Player `json:"player"`
	Points float64       `json:"points"`
	Score  int           `json:"score"`
}

// SearchPlayers fuzzy-ranks players by name. An empty query returns
// every player in document order.
func (s *LeagueService) SearchPlayers(query string) []PlayerMatch {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]PlayerMatch, 0, len(s.lg.Players))
	for i := range s.lg.Players {
		p := s.lg.Players[i]
		if query == "" {
			out = append(out, PlayerMatch{Player: p, Points: scoring.PlayerPoints(&p, s.lg.Weights)})
			continue
		}
		rank := fuzzy.RankMatchNormalizedFold(query, p.Name)
		if rank < 0 {
			continue
		}
		out = append(out, PlayerMatch{
			Player: p,
			Points: scoring.PlayerPoints(&p, s.lg.Weights),
			Score:  rank,
		})
	}
	if query != "" {
		sort.Slice(out, func(i, j int) bool { return out[i].Score < out[j].Score })
	}
	return out
}
