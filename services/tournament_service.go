package services

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/quadrahub/chaveamento/brackets"
	"github.com/quadrahub/chaveamento/models"
	"github.com/quadrahub/chaveamento/storage"
)

// DefaultMaxTeams caps registrations per modality unless configured
// otherwise.
const DefaultMaxTeams = 16

// RoundView is one bracket round with its display title, ready for the
// presentation collaborator.
type RoundView struct {
	Title   string       `json:"title"`
	Matches models.Round `json:"matches"`
}

// BracketView is the read-only rendering payload for one modality.
type BracketView struct {
	Rounds   []RoundView `json:"rounds"`
	Champion *string     `json:"champion"`
	Locked   bool        `json:"locked"`
}

// TournamentService owns the per-modality tournament state and its
// lock/reset state machine. Every operation runs to completion under a
// single lock, is validated before any mutation, and on success
// persists a snapshot and notifies the hub.
type TournamentService interface {
	Modality() models.Modality
	SetModality(ctx context.Context, m models.Modality) error

	Teams(m models.Modality) ([]string, error)
	AddTeam(ctx context.Context, m models.Modality, name string) error
	RemoveTeam(ctx context.Context, m models.Modality, name string) error

	GenerateBracket(ctx context.Context, m models.Modality) (models.Bracket, error)
	RecordScore(ctx context.Context, m models.Modality, roundIdx, matchIdx, scoreA, scoreB int) error
	ResetTournament(ctx context.Context, m models.Modality) error

	BracketView(m models.Modality) (*BracketView, error)
	Champion(m models.Modality) (*string, error)

	Snapshot() models.Snapshot
	Adopt(ctx context.Context, snap models.Snapshot) error
}

type tournamentService struct {
	mu       sync.Mutex
	state    models.Snapshot
	store    storage.SnapshotStore
	hub      *brackets.Hub
	logger   *slog.Logger
	maxTeams int
}

func NewTournamentService(
	initial models.Snapshot,
	store storage.SnapshotStore,
	hub *brackets.Hub,
	logger *slog.Logger,
	maxTeams int,
) TournamentService {
	if maxTeams <= 0 {
		maxTeams = DefaultMaxTeams
	}
	return &tournamentService{
		state:    normalize(initial),
		store:    store,
		hub:      hub,
		logger:   logger,
		maxTeams: maxTeams,
	}
}

// normalize guarantees every known modality has its per-modality maps
// populated, so operations never nil-check the containers.
func normalize(s models.Snapshot) models.Snapshot {
	if s.TeamsByModality == nil {
		s.TeamsByModality = make(map[models.Modality][]string)
	}
	if s.BracketByModality == nil {
		s.BracketByModality = make(map[models.Modality]models.Bracket)
	}
	if s.LockedByModality == nil {
		s.LockedByModality = make(map[models.Modality]bool)
	}
	for _, m := range models.Modalities() {
		if s.TeamsByModality[m] == nil {
			s.TeamsByModality[m] = []string{}
		}
	}
	if !s.Modality.Valid() {
		s.Modality = models.DefaultModality
	}
	s.Version = models.SnapshotVersion
	return s
}

func (s *tournamentService) Modality() models.Modality {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Modality
}

func (s *tournamentService) SetModality(ctx context.Context, m models.Modality) error {
	if !m.Valid() {
		return ErrUnknownModality
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Modality = m
	s.persist(ctx)
	return nil
}

func (s *tournamentService) Teams(m models.Modality) ([]string, error) {
	if !m.Valid() {
		return nil, ErrUnknownModality
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	teams := make([]string, len(s.state.TeamsByModality[m]))
	copy(teams, s.state.TeamsByModality[m])
	return teams, nil
}

func (s *tournamentService) AddTeam(ctx context.Context, m models.Modality, name string) error {
	if !m.Valid() {
		return ErrUnknownModality
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyTeamName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.LockedByModality[m] {
		return ErrBracketLocked
	}
	teams := s.state.TeamsByModality[m]
	if len(teams) >= s.maxTeams {
		return ErrTeamLimitExceeded
	}
	for _, t := range teams {
		if strings.EqualFold(t, name) {
			return ErrDuplicateTeam
		}
	}

	s.state.TeamsByModality[m] = append(teams, name)
	s.persist(ctx)
	s.notifyTeams(m)
	return nil
}

func (s *tournamentService) RemoveTeam(ctx context.Context, m models.Modality, name string) error {
	if !m.Valid() {
		return ErrUnknownModality
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.LockedByModality[m] {
		return ErrBracketLocked
	}
	teams := s.state.TeamsByModality[m]
	for i, t := range teams {
		if strings.EqualFold(t, name) {
			s.state.TeamsByModality[m] = append(teams[:i], teams[i+1:]...)
			s.persist(ctx)
			s.notifyTeams(m)
			return nil
		}
	}
	return ErrTeamNotFound
}

// GenerateBracket is the only Open -> Locked transition. The bracket is
// built from a snapshot of the team list at this moment; from here on
// the team list is immutable until ResetTournament.
func (s *tournamentService) GenerateBracket(ctx context.Context, m models.Modality) (models.Bracket, error) {
	if !m.Valid() {
		return nil, ErrUnknownModality
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.LockedByModality[m] {
		return nil, ErrBracketLocked
	}
	teams := s.state.TeamsByModality[m]
	if len(teams) < 2 {
		return nil, ErrInsufficientTeams
	}

	bracket, err := brackets.Build(teams)
	if err != nil {
		return nil, err
	}

	s.state.BracketByModality[m] = bracket
	s.state.LockedByModality[m] = true
	s.persist(ctx)
	s.notifyBracket(m)
	s.logger.Info("bracket generated",
		slog.String("modality", string(m)),
		slog.Int("teams", len(teams)),
		slog.Int("rounds", len(bracket)))
	return bracket.Clone(), nil
}

func (s *tournamentService) RecordScore(ctx context.Context, m models.Modality, roundIdx, matchIdx, scoreA, scoreB int) error {
	if !m.Valid() {
		return ErrUnknownModality
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	bracket := s.state.BracketByModality[m]
	if bracket == nil {
		return ErrNoBracket
	}
	if err := brackets.RecordScore(bracket, roundIdx, matchIdx, scoreA, scoreB); err != nil {
		return err
	}

	s.persist(ctx)
	s.notifyBracket(m)
	if champion := bracket.Champion(); champion != nil {
		s.logger.Info("champion decided",
			slog.String("modality", string(m)),
			slog.String("champion", *champion))
	}
	return nil
}

// ResetTournament is the only Locked -> Open transition. It discards
// the bracket and unlocks; the team list is intentionally left intact.
func (s *tournamentService) ResetTournament(ctx context.Context, m models.Modality) error {
	if !m.Valid() {
		return ErrUnknownModality
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.BracketByModality[m] = nil
	s.state.LockedByModality[m] = false
	s.persist(ctx)
	s.notifyBracket(m)
	s.logger.Info("tournament reset", slog.String("modality", string(m)))
	return nil
}

func (s *tournamentService) BracketView(m models.Modality) (*BracketView, error) {
	if !m.Valid() {
		return nil, ErrUnknownModality
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	view := &BracketView{Locked: s.state.LockedByModality[m]}
	bracket := s.state.BracketByModality[m].Clone()
	if bracket == nil {
		return view, nil
	}
	view.Champion = bracket.Champion()
	view.Rounds = make([]RoundView, len(bracket))
	for r, round := range bracket {
		view.Rounds[r] = RoundView{
			Title:   brackets.RoundTitle(r, len(bracket)),
			Matches: round,
		}
	}
	return view, nil
}

func (s *tournamentService) Champion(m models.Modality) (*string, error) {
	if !m.Valid() {
		return nil, ErrUnknownModality
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	bracket := s.state.BracketByModality[m]
	if bracket == nil {
		return nil, ErrNoBracket
	}
	return cloneChampion(bracket.Champion()), nil
}

func cloneChampion(c *string) *string {
	if c == nil {
		return nil
	}
	v := *c
	return &v
}

// Snapshot deep-copies the current state for export or backup.
func (s *tournamentService) Snapshot() models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *tournamentService) snapshotLocked() models.Snapshot {
	out := models.Snapshot{
		Modality:          s.state.Modality,
		TeamsByModality:   make(map[models.Modality][]string, len(s.state.TeamsByModality)),
		BracketByModality: make(map[models.Modality]models.Bracket, len(s.state.BracketByModality)),
		LockedByModality:  make(map[models.Modality]bool, len(s.state.LockedByModality)),
		Version:           s.state.Version,
	}
	for m, teams := range s.state.TeamsByModality {
		cp := make([]string, len(teams))
		copy(cp, teams)
		out.TeamsByModality[m] = cp
	}
	for m, b := range s.state.BracketByModality {
		out.BracketByModality[m] = b.Clone()
	}
	for m, locked := range s.state.LockedByModality {
		out.LockedByModality[m] = locked
	}
	return out
}

// Adopt replaces the whole state with an already-validated snapshot.
// The swap is all-or-nothing: the import path builds the candidate
// fully before calling this.
func (s *tournamentService) Adopt(ctx context.Context, snap models.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = normalize(snap)
	s.persist(ctx)
	for _, m := range models.Modalities() {
		s.notifyTeams(m)
		s.notifyBracket(m)
	}
	s.logger.Info("snapshot adopted", slog.String("modality", string(s.state.Modality)))
	return nil
}

// persist writes the current state to the snapshot store. Storage
// failures are logged, not propagated: the in-memory state is the
// source of truth and the next mutation retries the save.
func (s *tournamentService) persist(ctx context.Context) {
	if s.store == nil {
		return
	}
	if err := s.store.Save(ctx, s.snapshotLocked()); err != nil {
		s.logger.Error("failed to persist tournament snapshot", slog.Any("error", err))
	}
}

func (s *tournamentService) notifyTeams(m models.Modality) {
	if s.hub == nil {
		return
	}
	teams := make([]string, len(s.state.TeamsByModality[m]))
	copy(teams, s.state.TeamsByModality[m])
	s.hub.Broadcast(m, brackets.EventTeamsUpdated, teams)
}

func (s *tournamentService) notifyBracket(m models.Modality) {
	if s.hub == nil {
		return
	}
	s.hub.Broadcast(m, brackets.EventBracketUpdated, s.state.BracketByModality[m].Clone())
}
