package brackets

import (
	"errors"
	"reflect"
	"testing"

	"github.com/quadrahub/chaveamento/models"
)

func TestRecordScoreValidation(t *testing.T) {
	cases := []struct {
		name     string
		roundIdx int
		matchIdx int
		scoreA   int
		scoreB   int
		want     error
	}{
		{"negative round", -1, 0, 1, 0, ErrMatchNotFound},
		{"round out of range", 5, 0, 1, 0, ErrMatchNotFound},
		{"negative match", 0, -1, 1, 0, ErrMatchNotFound},
		{"match out of range", 0, 2, 1, 0, ErrMatchNotFound},
		{"bye match is incomplete", 0, 1, 1, 0, ErrIncompleteMatch},
		{"incomplete before invalid score", 0, 1, -1, -1, ErrIncompleteMatch},
		{"negative score", 0, 0, -1, 2, ErrInvalidScore},
		{"invalid before tied", 0, 0, -1, -1, ErrInvalidScore},
		{"tied score", 0, 0, 5, 5, ErrTiedScore},
		{"tied at zero", 0, 0, 0, 0, ErrTiedScore},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			b := mustBuild(t, []string{"1A", "1B", "1C"})
			before := b.Clone()

			err := RecordScore(b, c.roundIdx, c.matchIdx, c.scoreA, c.scoreB)
			if !errors.Is(err, c.want) {
				t.Fatalf("RecordScore = %v; want %v", err, c.want)
			}
			if !reflect.DeepEqual(b, before) {
				t.Errorf("bracket mutated by rejected score")
			}
		})
	}
}

func TestRecordScorePropagatesWinner(t *testing.T) {
	b := mustBuild(t, teamNames(4))

	if err := RecordScore(b, 0, 0, 2, 1); err != nil {
		t.Fatal(err)
	}
	final := b.Final()
	if final.TeamA == nil || *final.TeamA != "Alpha" {
		t.Errorf("final teamA = %v; want Alpha", strOrNil(final.TeamA))
	}

	if err := RecordScore(b, 0, 1, 0, 3); err != nil {
		t.Fatal(err)
	}
	if final.TeamB == nil || *final.TeamB != "Delta" {
		t.Errorf("final teamB = %v; want Delta", strOrNil(final.TeamB))
	}

	if err := RecordScore(b, 1, 0, 4, 2); err != nil {
		t.Fatal(err)
	}
	if c := b.Champion(); c == nil || *c != "Alpha" {
		t.Errorf("champion = %v; want Alpha", strOrNil(c))
	}
}

func TestRecordScoreIdempotent(t *testing.T) {
	once := mustBuild(t, teamNames(4))
	twice := mustBuild(t, teamNames(4))

	if err := RecordScore(once, 0, 0, 2, 1); err != nil {
		t.Fatal(err)
	}
	if err := RecordScore(twice, 0, 0, 2, 1); err != nil {
		t.Fatal(err)
	}
	if err := RecordScore(twice, 0, 0, 2, 1); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("re-applying the same score changed the bracket")
	}
}

// TestRescoreInvalidatesDownstream is the correction cascade: after a
// full 4-team bracket is decided, flipping a semifinal result wipes the
// stale finalist and the final's result, but leaves the other finalist
// in place.
func TestRescoreInvalidatesDownstream(t *testing.T) {
	b := mustBuild(t, []string{"A", "B", "C", "D"})

	for _, s := range []struct{ r, m, a, bb int }{
		{0, 0, 2, 1}, // A beats B
		{0, 1, 1, 0}, // C beats D
		{1, 0, 3, 2}, // A beats C
	} {
		if err := RecordScore(b, s.r, s.m, s.a, s.bb); err != nil {
			t.Fatal(err)
		}
	}
	if c := b.Champion(); c == nil || *c != "A" {
		t.Fatalf("champion = %v; want A", strOrNil(c))
	}

	// Correction: B actually won the first semifinal.
	if err := RecordScore(b, 0, 0, 0, 1); err != nil {
		t.Fatal(err)
	}

	final := b.Final()
	if final.TeamA == nil || *final.TeamA != "B" {
		t.Errorf("final teamA = %v; want B", strOrNil(final.TeamA))
	}
	if final.TeamB == nil || *final.TeamB != "C" {
		t.Errorf("final teamB = %v; want C (untouched)", strOrNil(final.TeamB))
	}
	if final.ScoreA != nil || final.ScoreB != nil || final.Winner != nil {
		t.Errorf("final result not cleared: %+v", final)
	}
	if c := b.Champion(); c != nil {
		t.Errorf("champion = %q; want none after correction", *c)
	}
}

// TestRescoreClearsDeepRounds checks the whole-round invalidation two
// levels down: correcting a quarterfinal clears only its semifinal slot
// but empties the final entirely.
func TestRescoreClearsDeepRounds(t *testing.T) {
	b := mustBuild(t, teamNames(8))

	for m := 0; m < 4; m++ {
		if err := RecordScore(b, 0, m, 1, 0); err != nil {
			t.Fatal(err)
		}
	}
	if err := RecordScore(b, 1, 0, 2, 0); err != nil {
		t.Fatal(err)
	}
	if err := RecordScore(b, 1, 1, 0, 2); err != nil {
		t.Fatal(err)
	}
	if err := RecordScore(b, 2, 0, 1, 0); err != nil {
		t.Fatal(err)
	}
	if c := b.Champion(); c == nil || *c != "Alpha" {
		t.Fatalf("champion = %v; want Alpha", strOrNil(c))
	}

	// Correction in the second quarterfinal: Delta over Charlie.
	if err := RecordScore(b, 0, 1, 0, 2); err != nil {
		t.Fatal(err)
	}

	semi0 := b[1][0]
	if semi0.TeamA == nil || *semi0.TeamA != "Alpha" {
		t.Errorf("semifinal 0 teamA = %v; want Alpha (untouched)", strOrNil(semi0.TeamA))
	}
	if semi0.TeamB == nil || *semi0.TeamB != "Delta" {
		t.Errorf("semifinal 0 teamB = %v; want Delta", strOrNil(semi0.TeamB))
	}
	if semi0.Winner != nil {
		t.Errorf("semifinal 0 winner = %q; want cleared", *semi0.Winner)
	}

	semi1 := b[1][1]
	if semi1.Winner == nil || *semi1.Winner != "Golf" {
		t.Errorf("semifinal 1 winner = %v; want Golf (untouched)", strOrNil(semi1.Winner))
	}

	final := b.Final()
	if final.TeamA != nil || final.TeamB != nil || final.Winner != nil || final.ScoreA != nil {
		t.Errorf("final not fully cleared: %+v", final)
	}
}

// TestRescoreKeepsByePlacements: clearing later rounds wholesale must
// not lose a finalist who got there on byes alone.
func TestRescoreKeepsByePlacements(t *testing.T) {
	b := mustBuild(t, teamNames(5))

	if err := RecordScore(b, 0, 0, 2, 1); err != nil {
		t.Fatal(err)
	}
	if err := RecordScore(b, 0, 1, 1, 0); err != nil {
		t.Fatal(err)
	}
	if err := RecordScore(b, 1, 0, 3, 0); err != nil {
		t.Fatal(err)
	}

	final := b.Final()
	if final.TeamA == nil || *final.TeamA != "Alpha" || final.TeamB == nil || *final.TeamB != "Echo" {
		t.Fatalf("final = %v vs %v; want Alpha vs Echo", strOrNil(final.TeamA), strOrNil(final.TeamB))
	}

	// Correcting a first-round result clears the final, then the bye
	// chain must put Echo back.
	if err := RecordScore(b, 0, 0, 0, 1); err != nil {
		t.Fatal(err)
	}
	final = b.Final()
	if final.TeamB == nil || *final.TeamB != "Echo" {
		t.Errorf("final teamB = %v; want Echo restored", strOrNil(final.TeamB))
	}
	if final.TeamA != nil {
		t.Errorf("final teamA = %q; want pending", *final.TeamA)
	}
	semi0 := b[1][0]
	if semi0.TeamA == nil || *semi0.TeamA != "Bravo" {
		t.Errorf("semifinal teamA = %v; want Bravo", strOrNil(semi0.TeamA))
	}
	if semi0.TeamB == nil || *semi0.TeamB != "Charlie" {
		t.Errorf("semifinal teamB = %v; want Charlie (untouched)", strOrNil(semi0.TeamB))
	}
}

// TestRecordScoreAdvancesIntoBye: with six teams the third first-round
// winner lands against a permanently empty slot and must advance to the
// final without a played match.
func TestRecordScoreAdvancesIntoBye(t *testing.T) {
	b := mustBuild(t, teamNames(6))

	if err := RecordScore(b, 0, 2, 0, 4); err != nil {
		t.Fatal(err)
	}

	semi1 := b[1][1]
	if semi1.TeamA == nil || *semi1.TeamA != "Foxtrot" {
		t.Fatalf("semifinal 1 teamA = %v; want Foxtrot", strOrNil(semi1.TeamA))
	}
	if semi1.Winner == nil || *semi1.Winner != "Foxtrot" {
		t.Errorf("semifinal 1 winner = %v; want Foxtrot via bye", strOrNil(semi1.Winner))
	}
	final := b.Final()
	if final.TeamB == nil || *final.TeamB != "Foxtrot" {
		t.Errorf("final teamB = %v; want Foxtrot", strOrNil(final.TeamB))
	}
}

// TestRecordScoreIrregularRounds: a bracket whose rounds grow instead
// of halving (only reachable through hand-built state) must still give
// a definite outcome instead of running the bye recursion out of range.
func TestRecordScoreIrregularRounds(t *testing.T) {
	a, bName, z := "A", "B", "Z"
	bracket := models.Bracket{
		{&models.Match{TeamA: &a, TeamB: &bName}},
		{&models.Match{}, &models.Match{TeamA: &z}},
	}

	if err := RecordScore(bracket, 0, 0, 1, 0); err != nil {
		t.Fatalf("RecordScore: %v", err)
	}
	next := bracket[1][0]
	if next.TeamA == nil || *next.TeamA != "A" {
		t.Errorf("round 1 match 0 teamA = %v; want A", strOrNil(next.TeamA))
	}
}

// TestThreeTeamTournament walks a full tournament: two real matches,
// one bye, champion decided in the final.
func TestThreeTeamTournament(t *testing.T) {
	b := mustBuild(t, []string{"1A", "1B", "1C"})

	if err := RecordScore(b, 0, 0, 3, 1); err != nil {
		t.Fatal(err)
	}
	final := b.Final()
	if final.TeamA == nil || *final.TeamA != "1A" || final.TeamB == nil || *final.TeamB != "1C" {
		t.Fatalf("final = %v vs %v; want 1A vs 1C", strOrNil(final.TeamA), strOrNil(final.TeamB))
	}

	if err := RecordScore(b, 1, 0, 2, 4); err != nil {
		t.Fatal(err)
	}
	if c := b.Champion(); c == nil || *c != "1C" {
		t.Errorf("champion = %v; want 1C", strOrNil(c))
	}
}
