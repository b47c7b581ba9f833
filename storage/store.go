package storage

import (
	"context"

	"github.com/quadrahub/chaveamento/models"
)

// SnapshotStore persists the full tournament snapshot. Load must
// tolerate absence (nothing ever saved) by returning the empty initial
// state, so a fresh deployment starts clean without special-casing.
type SnapshotStore interface {
	Load(ctx context.Context) (models.Snapshot, error)
	Save(ctx context.Context, snap models.Snapshot) error
}
