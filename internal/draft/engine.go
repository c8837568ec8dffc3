// Package draft implements the turn-based allocation of pro players to
// fantasy rosters: the snake-order sequencer, the roster feasibility
// rule, and the start/pick/undo state machine.
package draft

import (
	"fmt"

	"github.com/MarcusAnderfelt/worlds-fantasy/internal/league"
)

// Rejection is returned when a draft operation is refused for a rule
// reason (draft not started, player owned, feasibility). The league is
// left untouched. Unknown identities are not rejections; those ops are
// silent no-ops.
type Rejection struct {
	Reason string
}

func (r *Rejection) Error() string {
	return r.Reason
}

func reject(format string, args ...any) *Rejection {
	return &Rejection{Reason: fmt.Sprintf(format, args...)}
}

// Engine drives the draft state machine over a League. It holds no
// draft state of its own; everything lives in the league document.
type Engine struct {
	shuffler Shuffler
}

func NewEngine(s Shuffler) *Engine {
	return &Engine{shuffler: s}
}

// Start begins the draft. The existing team order is kept if one is
// already set; otherwise a fresh shuffle fixes the base order for the
// whole draft.
func (e *Engine) Start(lg *league.League) error {
	if lg.Draft.Started {
		return reject("draft has already started")
	}
	if len(lg.Teams) == 0 {
		return reject("cannot start a draft with no teams")
	}
	if len(lg.Draft.Order) == 0 {
		lg.Draft.Order = e.shuffler.Shuffle(teamIDs(lg))
	}
	lg.Draft.Started = true
	lg.Draft.Finished = false
	lg.Draft.Round = 1
	lg.Draft.PickIndex = 0
	lg.Draft.TotalRounds = league.RequiredRosterSize()
	return nil
}

// RandomizeOrder re-shuffles the base order. Only legal before the
// draft starts; mid-draft the order is fixed so undo stays coherent.
func (e *Engine) RandomizeOrder(lg *league.League) error {
	if lg.Draft.Started {
		return reject("draft order is fixed once the draft has started")
	}
	lg.Draft.Order = e.shuffler.Shuffle(teamIDs(lg))
	return nil
}

// OnTheClock resolves the team whose turn it currently is, or nil when
// no draft is running or the pointer resolves to nothing.
func OnTheClock(lg *league.League) *league.Team {
	if !lg.Draft.Started || lg.Draft.Finished {
		return nil
	}
	order := OrderForRound(lg.Draft.Order, lg.Draft.Round, lg.Draft.Snake)
	if lg.Draft.PickIndex < 0 || lg.Draft.PickIndex >= len(order) {
		return nil
	}
	return lg.TeamByID(order[lg.Draft.PickIndex])
}

// Pick drafts the named player to the on-the-clock team and advances
// the pointer. Rule violations return a Rejection and leave the league
// unchanged. An unknown player ID or an unresolvable pointer is a
// silent no-op.
func (e *Engine) Pick(lg *league.League, playerID string) error {
	if !lg.Draft.Started {
		return reject("draft has not started")
	}
	if lg.Draft.Finished {
		return reject("draft is already finished")
	}
	team := OnTheClock(lg)
	if team == nil {
		return nil
	}
	player := lg.PlayerByID(playerID)
	if player == nil {
		return nil
	}
	if player.OwnerID != "" {
		owner := "another team"
		if t := lg.TeamByID(player.OwnerID); t != nil {
			owner = t.Name
		}
		return reject("%s is already on %s", player.Name, owner)
	}
	if reason := CheckPick(team, player, lg); reason != "" {
		return reject("%s", reason)
	}

	team.Roster = append(team.Roster, player.ID)
	player.OwnerID = team.ID
	e.advance(lg)
	return nil
}

// advance moves the pointer past the slot that just picked, finishing
// the draft once every roster is full.
func (e *Engine) advance(lg *league.League) {
	if lg.AllRostersFull() {
		lg.Draft.Finished = true
		return
	}
	if lg.Draft.PickIndex+1 >= len(lg.Draft.Order) {
		lg.Draft.Round++
		lg.Draft.PickIndex = 0
		return
	}
	lg.Draft.PickIndex++
}

// Undo reverses the most recent pick: the pointer walks back one slot,
// the team that held it loses its last roster entry, and that player's
// ownership clears. The final pick never advanced the pointer, so a
// finished draft undoes in place. Undoing at round 1 index 0, or into a
// slot whose team cannot be resolved or has an empty roster, is a no-op.
func (e *Engine) Undo(lg *league.League) {
	if !lg.Draft.Started {
		return
	}
	round, index := lg.Draft.Round, lg.Draft.PickIndex
	if !lg.Draft.Finished {
		if round == 1 && index == 0 {
			return
		}
		if index == 0 {
			round--
			index = len(lg.Draft.Order) - 1
		} else {
			index--
		}
	}

	order := OrderForRound(lg.Draft.Order, round, lg.Draft.Snake)
	if index < 0 || index >= len(order) {
		return
	}
	team := lg.TeamByID(order[index])
	if team == nil || len(team.Roster) == 0 {
		return
	}

	last := team.Roster[len(team.Roster)-1]
	team.Roster = team.Roster[:len(team.Roster)-1]
	if p := lg.PlayerByID(last); p != nil {
		p.OwnerID = ""
	}
	lg.Draft.Round = round
	lg.Draft.PickIndex = index
	lg.Draft.Finished = false
}

func teamIDs(lg *league.League) []string {
	ids := make([]string, 0, len(lg.Teams))
	for i := range lg.Teams {
		ids = append(ids, lg.Teams[i].ID)
	}
	return ids
}
