package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/quadrahub/chaveamento/brackets"
	"github.com/quadrahub/chaveamento/models"
	"github.com/quadrahub/chaveamento/storage"
)

const backupContentType = "application/json"

// SnapshotService handles the portability surface: JSON export, JSON
// import with minimal validation, and optional off-site backups.
type SnapshotService interface {
	Export() models.Snapshot
	Import(ctx context.Context, raw []byte) (models.Snapshot, error)
	Backup(ctx context.Context) (string, error)
}

type snapshotService struct {
	tournaments TournamentService
	uploader    storage.FileUploader
	logger      *slog.Logger

	// Serializes the scheduler and the HTTP endpoint; guards the
	// retention bookkeeping below.
	backupMu    sync.Mutex
	lastStamped string
}

// NewSnapshotService wires export/import against the tournament state.
// uploader may be nil when off-site backups are not configured.
func NewSnapshotService(tournaments TournamentService, uploader storage.FileUploader, logger *slog.Logger) SnapshotService {
	return &snapshotService{
		tournaments: tournaments,
		uploader:    uploader,
		logger:      logger,
	}
}

func (s *snapshotService) Export() models.Snapshot {
	return s.tournaments.Snapshot()
}

// Import validates a candidate snapshot and adopts it wholesale. The
// payload must at least be a JSON object; beyond that, every field that
// is missing or malformed falls back to its empty default instead of
// rejecting the whole import. The adoption is atomic: the candidate is
// assembled completely before any state changes.
func (s *snapshotService) Import(ctx context.Context, raw []byte) (models.Snapshot, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return models.Snapshot{}, ErrMalformedImportData
	}

	candidate := models.EmptySnapshot()

	var modality models.Modality
	if rawField, ok := fields["modality"]; ok {
		if err := json.Unmarshal(rawField, &modality); err == nil && modality.Valid() {
			candidate.Modality = modality
		}
	}

	var teams map[models.Modality][]string
	if rawField, ok := fields["teamsByModality"]; ok {
		if err := json.Unmarshal(rawField, &teams); err == nil {
			for _, m := range models.Modalities() {
				if list := teams[m]; list != nil {
					candidate.TeamsByModality[m] = list
				}
			}
		}
	}

	var bracketsByModality map[models.Modality]models.Bracket
	if rawField, ok := fields["bracketByModality"]; ok {
		if err := json.Unmarshal(rawField, &bracketsByModality); err == nil {
			for _, m := range models.Modalities() {
				// A bracket whose rounds do not strictly halve would
				// break score propagation later, so it falls back to
				// none like any other malformed field.
				if b := bracketsByModality[m]; b != nil && brackets.ValidShape(b) {
					candidate.BracketByModality[m] = b
				}
			}
		}
	}

	var locked map[models.Modality]bool
	if rawField, ok := fields["lockedByModality"]; ok {
		if err := json.Unmarshal(rawField, &locked); err == nil {
			for _, m := range models.Modalities() {
				candidate.LockedByModality[m] = locked[m]
			}
		}
	}

	if err := s.tournaments.Adopt(ctx, candidate); err != nil {
		return models.Snapshot{}, err
	}
	return s.tournaments.Snapshot(), nil
}

// Backup pushes the current snapshot to the configured object storage,
// writing both a stable "latest" key and a timestamped copy in one
// concurrent fan-out. After a successful upload the previous
// timestamped copy is pruned, so the bucket holds "latest" plus the
// most recent stamped backup per process lifetime. Returns the
// timestamped key.
func (s *snapshotService) Backup(ctx context.Context) (string, error) {
	if s.uploader == nil {
		return "", ErrBackupNotConfigured
	}

	s.backupMu.Lock()
	defer s.backupMu.Unlock()

	snap := s.tournaments.Snapshot()
	payload, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("failed to marshal snapshot for backup: %w", err)
	}

	stampedKey := fmt.Sprintf("snapshots/%s.json", time.Now().UTC().Format("20060102T150405.000000000Z"))

	g, gCtx := errgroup.WithContext(ctx)
	for _, key := range []string{"snapshots/latest.json", stampedKey} {
		key := key
		g.Go(func() error {
			if _, err := s.uploader.Upload(gCtx, key, backupContentType, bytes.NewReader(payload)); err != nil {
				return fmt.Errorf("failed to upload snapshot backup %s: %w", key, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	// Pruning is best-effort: a leftover stamped copy costs storage,
	// not correctness.
	if prev := s.lastStamped; prev != "" && prev != stampedKey {
		if err := s.uploader.Delete(ctx, prev); err != nil {
			s.logger.Warn("failed to prune previous snapshot backup",
				slog.String("key", prev), slog.Any("error", err))
		}
	}
	s.lastStamped = stampedKey

	s.logger.Info("snapshot backup uploaded", slog.String("key", stampedKey))
	return stampedKey, nil
}
