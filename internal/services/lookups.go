package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/songreaktor/functions/internal/models"
	"golang.org/x/sync/errgroup"
)

// ZipStore resolves ZIP codes.
type ZipStore interface {
	Get(ctx context.Context, zip string) (*models.ZipLookup, error)
}

// UserReaktions lists the orders a user has reacted to.
type UserReaktions interface {
	OrderNumbersByUser(ctx context.Context, email string) ([]string, error)
}

// UploadLister lists studio uploads.
type UploadLister interface {
	List(ctx context.Context, filter *models.StudioFilter) ([]map[string]interface{}, error)
}

// LookupService answers the read-only queries of the app.
type LookupService struct {
	zips      ZipStore
	reaktions UserReaktions
	uploads   UploadLister
}

func NewLookupService(zips ZipStore, reaktions UserReaktions, uploads UploadLister) *LookupService {
	return &LookupService{zips: zips, reaktions: reaktions, uploads: uploads}
}

// CityStateByZip resolves a ZIP code to its city and state.
func (s *LookupService) CityStateByZip(ctx context.Context, zip string) models.ZipResponse {
	zip = strings.TrimSpace(zip)
	if zip == "" {
		return models.ZipResponse{Message: "Missing ZIP code."}
	}
	z, err := s.zips.Get(ctx, zip)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ZipResponse{Message: "ZIP code not found."}
		}
		slog.Error("Error in getCityStateByZip", "error", err, "zip", zip)
		return models.ZipResponse{Message: "Server error."}
	}
	return models.ZipResponse{Success: true, City: z.City, State: z.State}
}

// StudioOrders returns the studio uploads the user has not reacted to yet.
// The two reads are independent and run concurrently.
func (s *LookupService) StudioOrders(ctx context.Context, email string, filter *models.StudioFilter) (*models.StudioOrdersResponse, error) {
	var (
		reacted []string
		uploads []map[string]interface{}
	)
	eg, gctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		reacted, err = s.reaktions.OrderNumbersByUser(gctx, email)
		return err
	})
	eg.Go(func() error {
		var err error
		uploads, err = s.uploads.List(gctx, filter)
		return err
	})
	if err := eg.Wait(); err != nil {
		slog.Error("Failed to load studio orders", "error", err, "email", email)
		return nil, fmt.Errorf("%w: %v", models.ErrDependency, err)
	}

	seen := make(map[string]struct{}, len(reacted))
	for _, o := range reacted {
		seen[o] = struct{}{}
	}
	items := make([]map[string]interface{}, 0, len(uploads))
	for _, u := range uploads {
		if _, ok := seen[models.OrderString(u["order_number"])]; ok {
			continue
		}
		items = append(items, u)
	}
	return &models.StudioOrdersResponse{Items: items}, nil
}
