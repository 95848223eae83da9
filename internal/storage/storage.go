// internal/storage/storage.go
package storage

import (
	"context"

	"github.com/propscout/dealengine/internal/storage/models"
)

// Storage persists computed verdicts for history and analytics. The engine
// itself never touches it; the server layer saves best-effort after each
// verdict.
type Storage interface {
	SaveVerdict(ctx context.Context, record *models.VerdictRecord) error
	GetVerdict(ctx context.Context, id string) (*models.VerdictRecord, error)
	ListVerdicts(ctx context.Context, limit, offset int) ([]*models.VerdictRecord, error)

	RunMigrations() error
	Close() error
}
