package services

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quadrahub/chaveamento/models"
	"github.com/quadrahub/chaveamento/storage"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(t *testing.T, maxTeams int) TournamentService {
	t.Helper()
	store := storage.NewFileStore(filepath.Join(t.TempDir(), "tournament.json"))
	return NewTournamentService(models.EmptySnapshot(), store, nil, testLogger(), maxTeams)
}

func TestAddTeamValidation(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, 0)

	require.NoError(t, svc.AddTeam(ctx, models.ModalityFutsal, "Corinthians"))

	assert.ErrorIs(t, svc.AddTeam(ctx, "handball", "Flamengo"), ErrUnknownModality)
	assert.ErrorIs(t, svc.AddTeam(ctx, models.ModalityFutsal, "   "), ErrEmptyTeamName)
	assert.ErrorIs(t, svc.AddTeam(ctx, models.ModalityFutsal, "Corinthians"), ErrDuplicateTeam)
	assert.ErrorIs(t, svc.AddTeam(ctx, models.ModalityFutsal, "CORINTHIANS"), ErrDuplicateTeam)

	// Same name in the other modality is fine.
	assert.NoError(t, svc.AddTeam(ctx, models.ModalityVolei, "Corinthians"))

	teams, err := svc.Teams(models.ModalityFutsal)
	require.NoError(t, err)
	assert.Equal(t, []string{"Corinthians"}, teams)
}

func TestAddTeamTrimsName(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, 0)

	require.NoError(t, svc.AddTeam(ctx, models.ModalityFutsal, "  Santos  "))
	teams, err := svc.Teams(models.ModalityFutsal)
	require.NoError(t, err)
	assert.Equal(t, []string{"Santos"}, teams)
}

func TestAddTeamLimit(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, 2)

	require.NoError(t, svc.AddTeam(ctx, models.ModalityFutsal, "A"))
	require.NoError(t, svc.AddTeam(ctx, models.ModalityFutsal, "B"))
	assert.ErrorIs(t, svc.AddTeam(ctx, models.ModalityFutsal, "C"), ErrTeamLimitExceeded)
}

func TestRemoveTeam(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, 0)

	require.NoError(t, svc.AddTeam(ctx, models.ModalityFutsal, "Santos"))
	assert.ErrorIs(t, svc.RemoveTeam(ctx, models.ModalityFutsal, "Palmeiras"), ErrTeamNotFound)

	require.NoError(t, svc.RemoveTeam(ctx, models.ModalityFutsal, "SANTOS"))
	teams, err := svc.Teams(models.ModalityFutsal)
	require.NoError(t, err)
	assert.Empty(t, teams)
}

func TestLockStateMachine(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, 0)

	// Open: generating with too few teams fails and does not lock.
	_, err := svc.GenerateBracket(ctx, models.ModalityFutsal)
	assert.ErrorIs(t, err, ErrInsufficientTeams)
	require.NoError(t, svc.AddTeam(ctx, models.ModalityFutsal, "A"))
	_, err = svc.GenerateBracket(ctx, models.ModalityFutsal)
	assert.ErrorIs(t, err, ErrInsufficientTeams)

	// Open -> Locked.
	require.NoError(t, svc.AddTeam(ctx, models.ModalityFutsal, "B"))
	bracket, err := svc.GenerateBracket(ctx, models.ModalityFutsal)
	require.NoError(t, err)
	require.Len(t, bracket, 1)

	// Locked: team list immutable, no second generation.
	assert.ErrorIs(t, svc.AddTeam(ctx, models.ModalityFutsal, "C"), ErrBracketLocked)
	assert.ErrorIs(t, svc.RemoveTeam(ctx, models.ModalityFutsal, "A"), ErrBracketLocked)
	_, err = svc.GenerateBracket(ctx, models.ModalityFutsal)
	assert.ErrorIs(t, err, ErrBracketLocked)

	// The other modality has its own lock.
	require.NoError(t, svc.AddTeam(ctx, models.ModalityVolei, "X"))

	// Locked -> Open: bracket gone, teams intact.
	require.NoError(t, svc.ResetTournament(ctx, models.ModalityFutsal))
	teams, err := svc.Teams(models.ModalityFutsal)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, teams)
	require.NoError(t, svc.AddTeam(ctx, models.ModalityFutsal, "C"))

	view, err := svc.BracketView(models.ModalityFutsal)
	require.NoError(t, err)
	assert.False(t, view.Locked)
	assert.Empty(t, view.Rounds)
}

func TestRecordScoreRequiresBracket(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, 0)
	assert.ErrorIs(t, svc.RecordScore(ctx, models.ModalityFutsal, 0, 0, 1, 0), ErrNoBracket)

	_, err := svc.Champion(models.ModalityFutsal)
	assert.ErrorIs(t, err, ErrNoBracket)
}

func TestTournamentToChampion(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, 0)

	for _, team := range []string{"1A", "1B", "1C"} {
		require.NoError(t, svc.AddTeam(ctx, models.ModalityVolei, team))
	}
	_, err := svc.GenerateBracket(ctx, models.ModalityVolei)
	require.NoError(t, err)

	require.NoError(t, svc.RecordScore(ctx, models.ModalityVolei, 0, 0, 3, 1))
	require.NoError(t, svc.RecordScore(ctx, models.ModalityVolei, 1, 0, 2, 4))

	champion, err := svc.Champion(models.ModalityVolei)
	require.NoError(t, err)
	require.NotNil(t, champion)
	assert.Equal(t, "1C", *champion)

	view, err := svc.BracketView(models.ModalityVolei)
	require.NoError(t, err)
	require.Len(t, view.Rounds, 2)
	assert.Equal(t, "Semifinal", view.Rounds[0].Title)
	assert.Equal(t, "Final", view.Rounds[1].Title)
	assert.True(t, view.Locked)
	require.NotNil(t, view.Champion)
	assert.Equal(t, "1C", *view.Champion)
}

func TestStatePersistsAcrossRestart(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tournament.json")
	store := storage.NewFileStore(path)

	svc := NewTournamentService(models.EmptySnapshot(), store, nil, testLogger(), 0)
	require.NoError(t, svc.AddTeam(ctx, models.ModalityFutsal, "A"))
	require.NoError(t, svc.AddTeam(ctx, models.ModalityFutsal, "B"))
	_, err := svc.GenerateBracket(ctx, models.ModalityFutsal)
	require.NoError(t, err)

	loaded, err := store.Load(ctx)
	require.NoError(t, err)

	revived := NewTournamentService(loaded, store, nil, testLogger(), 0)
	teams, err := revived.Teams(models.ModalityFutsal)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, teams)

	view, err := revived.BracketView(models.ModalityFutsal)
	require.NoError(t, err)
	assert.True(t, view.Locked)
	require.Len(t, view.Rounds, 1)
}

func TestSetModality(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, 0)

	assert.Equal(t, models.ModalityFutsal, svc.Modality())
	assert.ErrorIs(t, svc.SetModality(ctx, "chess"), ErrUnknownModality)
	require.NoError(t, svc.SetModality(ctx, models.ModalityVolei))
	assert.Equal(t, models.ModalityVolei, svc.Modality())
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, 0)

	require.NoError(t, svc.AddTeam(ctx, models.ModalityFutsal, "A"))
	snap := svc.Snapshot()
	snap.TeamsByModality[models.ModalityFutsal][0] = "mutated"

	teams, err := svc.Teams(models.ModalityFutsal)
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, teams)
}
