package draft

import (
	"fmt"
	"strings"

	"github.com/MarcusAnderfelt/worlds-fantasy/internal/league"
)

// CheckPick reports why adding candidate to the team's roster would
// break the coverage rule, or "" if the pick is legal. A pick is legal
// only while the team can still finish with one player from every
// region in its remaining slots. Ownership is not checked here; the
// engine rejects owned players before this runs.
func CheckPick(t *league.Team, candidate *league.Player, lg *league.League) string {
	required := league.RequiredRosterSize()
	if len(t.Roster) >= required {
		return fmt.Sprintf("%s already has a full roster", t.Name)
	}

	have := make(map[league.Category]bool, required)
	for _, id := range t.Roster {
		if p := lg.PlayerByID(id); p != nil {
			have[p.Category] = true
		}
	}
	have[candidate.Category] = true

	missing := make([]string, 0, required)
	for _, c := range league.Categories() {
		if !have[c] {
			missing = append(missing, string(c))
		}
	}

	slotsLeft := required - (len(t.Roster) + 1)
	if len(missing) > slotsLeft {
		return fmt.Sprintf("picking %s (%s) leaves %d slots for %d uncovered regions: %s",
			candidate.Name, candidate.Category, slotsLeft, len(missing), strings.Join(missing, ", "))
	}
	return ""
}
