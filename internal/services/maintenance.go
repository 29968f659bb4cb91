package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/songreaktor/functions/internal/models"
)

// ConfirmPhrase must be sent to run a destructive maintenance job.
const ConfirmPhrase = "YES"

// AvgStripper removes the legacy avg_score_percent field from studio uploads.
type AvgStripper interface {
	StripAvgScore(ctx context.Context, batchSize int) (int, error)
}

// MaintenanceService runs one-off data fixes.
type MaintenanceService struct {
	uploads   AvgStripper
	batchSize int
}

func NewMaintenanceService(uploads AvgStripper, batchSize int) *MaintenanceService {
	if batchSize <= 0 {
		batchSize = 300
	}
	return &MaintenanceService{uploads: uploads, batchSize: batchSize}
}

// RemoveAvgFromUploads strips avg_score_percent from every studio upload.
// The average lives on reaktions now. Without the confirm phrase nothing runs
// and ErrValidation is returned.
func (s *MaintenanceService) RemoveAvgFromUploads(ctx context.Context, confirm string) (*models.CleanupResponse, error) {
	if confirm != ConfirmPhrase {
		return nil, fmt.Errorf("%w: confirmation missing", models.ErrValidation)
	}
	n, err := s.uploads.StripAvgScore(ctx, s.batchSize)
	if err != nil {
		slog.Error("removeAvgFromUploads failed", "error", err, "removedSoFar", n)
		return nil, fmt.Errorf("%w: %v", models.ErrDependency, err)
	}
	slog.Info("Removed avg_score_percent from studio uploads.", "removedCount", n)
	return &models.CleanupResponse{OK: true, RemovedCount: n}, nil
}
