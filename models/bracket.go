package models

// Match is one slot in a single-elimination bracket. Team references,
// scores and the winner are all pointers so that unset values serialize
// as JSON null. In round 0 a nil team side is a bye; in later rounds a
// nil side is either pending (awaiting a result below) or permanently
// absent when its whole feeder subtree held no teams.
type Match struct {
	TeamA  *string `json:"teamA"`
	TeamB  *string `json:"teamB"`
	ScoreA *int    `json:"scoreA"`
	ScoreB *int    `json:"scoreB"`
	Winner *string `json:"winner"`
}

// Decided reports whether the match carries a committed result.
func (m *Match) Decided() bool {
	return m.Winner != nil
}

// Clear wipes teams, scores and winner.
func (m *Match) Clear() {
	m.TeamA = nil
	m.TeamB = nil
	m.ClearResult()
}

// ClearResult wipes scores and winner but keeps the team slots.
func (m *Match) ClearResult() {
	m.ScoreA = nil
	m.ScoreB = nil
	m.Winner = nil
}

// Round is an ordered sequence of matches.
type Round []*Match

// Bracket is an ordered sequence of rounds for one modality. Round
// sizes strictly halve down to the final; a nil Bracket means none has
// been generated yet.
type Bracket []Round

// Final returns the last round's only match, or nil when the bracket
// is empty.
func (b Bracket) Final() *Match {
	if len(b) == 0 {
		return nil
	}
	last := b[len(b)-1]
	if len(last) != 1 {
		return nil
	}
	return last[0]
}

// Champion returns the tournament winner once the final is decided.
func (b Bracket) Champion() *string {
	final := b.Final()
	if final == nil {
		return nil
	}
	return final.Winner
}

// Clone deep-copies the bracket. Used when handing state to callers
// that must not alias the service-owned structures.
func (b Bracket) Clone() Bracket {
	if b == nil {
		return nil
	}
	out := make(Bracket, len(b))
	for r, round := range b {
		out[r] = make(Round, len(round))
		for i, m := range round {
			cp := Match{
				TeamA:  cloneString(m.TeamA),
				TeamB:  cloneString(m.TeamB),
				ScoreA: cloneInt(m.ScoreA),
				ScoreB: cloneInt(m.ScoreB),
				Winner: cloneString(m.Winner),
			}
			out[r][i] = &cp
		}
	}
	return out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneInt(n *int) *int {
	if n == nil {
		return nil
	}
	v := *n
	return &v
}
