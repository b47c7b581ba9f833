package brackets

import (
	"errors"

	"github.com/quadrahub/chaveamento/models"
)

// Validation failures for score submission. All of them leave the
// bracket untouched.
var (
	ErrMatchNotFound   = errors.New("match not found in bracket")
	ErrIncompleteMatch = errors.New("match does not have two teams yet")
	ErrInvalidScore    = errors.New("scores must be non-negative integers")
	ErrTiedScore       = errors.New("tied scores are not allowed in single elimination")
)

// RecordScore commits a result for the match at (roundIdx, matchIdx),
// propagates the winner into the next round and invalidates everything
// downstream that depended on the slot's previous value.
//
// Invalidation runs before the new winner is written: in the
// immediately next round only the specific slot this match feeds is
// cleared (team reference plus that match's scores and winner); every
// round after that is cleared entirely. Clearing whole rounds removes
// any possibility of a stale winner surviving deeper in the tree
// without tracing the exact path, at the cost of also wiping bye
// placements. The closing AdvanceByes pass restores those. Re-scoring
// an already-decided match therefore converges no matter how many times
// it is corrected.
func RecordScore(b models.Bracket, roundIdx, matchIdx, scoreA, scoreB int) error {
	if roundIdx < 0 || roundIdx >= len(b) {
		return ErrMatchNotFound
	}
	if matchIdx < 0 || matchIdx >= len(b[roundIdx]) {
		return ErrMatchNotFound
	}
	m := b[roundIdx][matchIdx]

	if m.TeamA == nil || m.TeamB == nil {
		return ErrIncompleteMatch
	}
	if scoreA < 0 || scoreB < 0 {
		return ErrInvalidScore
	}
	if scoreA == scoreB {
		return ErrTiedScore
	}

	a, bScore := scoreA, scoreB
	m.ScoreA = &a
	m.ScoreB = &bScore
	winner := *m.TeamA
	if scoreB > scoreA {
		winner = *m.TeamB
	}
	m.Winner = &winner

	if roundIdx == len(b)-1 {
		// Final: the winner is the champion, nothing downstream.
		return nil
	}

	nextMatch := b[roundIdx+1][matchIdx/2]
	if matchIdx%2 == 0 {
		nextMatch.TeamA = nil
	} else {
		nextMatch.TeamB = nil
	}
	nextMatch.ClearResult()

	for r := roundIdx + 2; r < len(b); r++ {
		for _, mm := range b[r] {
			mm.Clear()
		}
	}

	writeSlot(b, roundIdx+1, matchIdx/2, matchIdx%2, winner)
	AdvanceByes(b)
	return nil
}
