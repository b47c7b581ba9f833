package brackets

import (
	"errors"
	"fmt"

	"github.com/quadrahub/chaveamento/models"
)

// ErrNotEnoughTeams is returned by Build for fewer than two teams.
var ErrNotEnoughTeams = errors.New("not enough teams to build a single elimination bracket (minimum 2)")

// NextPowerOfTwo returns the smallest power of two >= n. Inputs below 1
// yield 1; Build never passes those, this is only defensive.
func NextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// Build turns an ordered, deduplicated list of team names into a
// complete single-elimination bracket. The bracket is sized to the next
// power of two; the missing slots become byes appended after the real
// teams, in input order. Every bye is resolved before Build returns, so
// no match is left holding one team against an opponent that can never
// arrive.
func Build(teams []string) (models.Bracket, error) {
	if len(teams) < 2 {
		return nil, ErrNotEnoughTeams
	}

	target := NextPowerOfTwo(len(teams))
	numRounds := 0
	for s := target; s > 1; s >>= 1 {
		numRounds++
	}

	bracket := make(models.Bracket, numRounds)
	size := target / 2
	for r := 0; r < numRounds; r++ {
		round := make(models.Round, size)
		for i := range round {
			round[i] = &models.Match{}
		}
		bracket[r] = round
		size /= 2
	}

	// Round 0: pair slots (0,1), (2,3), ... Slots past the team list
	// stay nil and read as byes.
	for i := 0; i < target; i += 2 {
		m := bracket[0][i/2]
		if i < len(teams) {
			name := teams[i]
			m.TeamA = &name
		}
		if i+1 < len(teams) {
			name := teams[i+1]
			m.TeamB = &name
		}
	}

	AdvanceByes(bracket)
	return bracket, nil
}

// AdvanceByes scans every round in order and resolves each match whose
// one populated side faces a slot that can never be filled: the team is
// set as the match winner and written into its slot in the next round.
// The in-order scan is load-bearing: a bye winner written into round r+1
// can itself land next to another permanently empty slot (team counts
// like 5 leave a whole round-0 pair empty), and only a forward pass
// resolves that chain. Slots that merely await a pending result are
// never advanced. The pass is idempotent, so the resolver reuses it to
// restore bye-derived placements after downstream invalidation.
func AdvanceByes(b models.Bracket) {
	for r := range b {
		for i, m := range b[r] {
			var team string
			switch {
			case m.TeamA != nil && m.TeamB == nil && slotIsBye(b, r, i, 1):
				team = *m.TeamA
			case m.TeamB != nil && m.TeamA == nil && slotIsBye(b, r, i, 0):
				team = *m.TeamB
			default:
				continue
			}
			winner := team
			m.Winner = &winner
			if r+1 < len(b) {
				writeSlot(b, r+1, i/2, i%2, team)
			}
		}
	}
}

// slotIsBye reports whether side (0 = A, 1 = B) of match (r, i) is
// permanently absent: empty now and with no feeder subtree that could
// ever deliver a team. A round-0 empty slot is always a bye. A feeder
// index past the previous round's bounds counts as absent too, so an
// irregularly shaped bracket cannot send the recursion out of range.
func slotIsBye(b models.Bracket, r, i, side int) bool {
	m := b[r][i]
	if side == 0 && m.TeamA != nil {
		return false
	}
	if side == 1 && m.TeamB != nil {
		return false
	}
	if r == 0 {
		return true
	}
	feeder := 2*i + side
	if feeder >= len(b[r-1]) {
		return true
	}
	return slotIsBye(b, r-1, feeder, 0) && slotIsBye(b, r-1, feeder, 1)
}

// writeSlot places a team into the downstream slot fed by match i of
// the previous round: even match indexes feed side A, odd feed side B.
func writeSlot(b models.Bracket, r, i, side int, team string) {
	name := team
	m := b[r][i]
	if side == 0 {
		m.TeamA = &name
	} else {
		m.TeamB = &name
	}
}

// ValidShape reports whether the bracket has the structure Build
// produces: at least one round, match counts strictly halving down to
// a single-match final, and no nil matches. Snapshots arriving from
// outside are checked against this before adoption.
func ValidShape(b models.Bracket) bool {
	if len(b) == 0 || len(b[len(b)-1]) != 1 {
		return false
	}
	for r, round := range b {
		if r+1 < len(b) && len(round) != 2*len(b[r+1]) {
			return false
		}
		for _, m := range round {
			if m == nil {
				return false
			}
		}
	}
	return true
}

// RoundTitle maps a round position to its display name, counting
// backward from the final: Final, Semifinal, Quarterfinal, Round of 16.
// Anything earlier is named by ordinal position.
func RoundTitle(roundIdx, totalRounds int) string {
	switch totalRounds - roundIdx {
	case 1:
		return "Final"
	case 2:
		return "Semifinal"
	case 3:
		return "Quarterfinal"
	case 4:
		return "Round of 16"
	}
	return fmt.Sprintf("Round %d", roundIdx+1)
}
