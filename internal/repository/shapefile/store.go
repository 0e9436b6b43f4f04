// Package shapefile implements the spatial record store over two point
// shapefiles whose geometries are stored in EPSG:5179. Files are opened
// per operation and closed on every exit path; no index is kept between
// queries, the dataset is re-scanned each time.
package shapefile

import (
	"context"
	"fmt"
	"strings"

	shp "github.com/jonas-p/go-shp"
	"go.uber.org/zap"

	"github.com/facility-locator/internal/config"
	"github.com/facility-locator/internal/domain"
	"github.com/facility-locator/internal/domain/repository"
	"github.com/facility-locator/internal/pkg/errors"
	"github.com/facility-locator/internal/pkg/utils"
)

type store struct {
	cfg    *config.DatasetConfig
	logger *zap.Logger
}

func NewStore(cfg *config.DatasetConfig, logger *zap.Logger) repository.SpatialRepository {
	return &store{
		cfg:    cfg,
		logger: logger,
	}
}

func (s *store) path(dataset repository.Dataset) (string, error) {
	switch dataset {
	case repository.DatasetPlace:
		return s.cfg.MartPath, nil
	case repository.DatasetFacility:
		return s.cfg.FirestationPath, nil
	default:
		return "", fmt.Errorf("shapefile: unknown dataset %q", dataset)
	}
}

// scan streams the dataset's rows in storage order into fn. Returning
// false from fn stops the scan early.
func (s *store) scan(ctx context.Context, dataset repository.Dataset, fn func(name string, x, y float64) bool) error {
	path, err := s.path(dataset)
	if err != nil {
		return err
	}

	reader, err := shp.Open(path)
	if err != nil {
		s.logger.Error("Failed to open dataset",
			zap.String("dataset", string(dataset)),
			zap.String("path", path),
			zap.Error(err),
		)
		return errors.ErrDatasetError
	}
	defer reader.Close()

	nameIdx := -1
	for i, f := range reader.Fields() {
		name := strings.TrimRight(f.String(), "\x00")
		if strings.EqualFold(name, s.cfg.NameField) {
			nameIdx = i
			break
		}
	}
	if nameIdx < 0 {
		s.logger.Error("Dataset has no name attribute",
			zap.String("dataset", string(dataset)),
			zap.String("field", s.cfg.NameField),
		)
		return errors.ErrDatasetError
	}

	for reader.Next() {
		if err := ctx.Err(); err != nil {
			return err
		}

		_, shape := reader.Shape()
		point, ok := shape.(*shp.Point)
		if !ok {
			continue
		}

		name := strings.TrimSpace(strings.TrimRight(reader.Attribute(nameIdx), "\x00"))
		if !fn(name, point.X, point.Y) {
			break
		}
	}

	if err := reader.Err(); err != nil {
		s.logger.Error("Dataset scan failed",
			zap.String("dataset", string(dataset)),
			zap.Error(err),
		)
		return errors.ErrDatasetError
	}

	return nil
}

// FindByNameSubstring returns the first record whose name contains
// pattern, case-insensitive, in storage order.
func (s *store) FindByNameSubstring(ctx context.Context, dataset repository.Dataset, pattern string) (*domain.PlaceRecord, error) {
	needle := strings.ToLower(pattern)

	var found *domain.PlaceRecord
	err := s.scan(ctx, dataset, func(name string, x, y float64) bool {
		if !strings.Contains(strings.ToLower(name), needle) {
			return true
		}
		found = &domain.PlaceRecord{
			Name:  name,
			Point: domain.GeoPoint{X: x, Y: y, CRS: domain.CRSKorea2000},
		}
		return false
	})
	if err != nil {
		return nil, err
	}

	return found, nil
}

// NearestTo scans every record and returns the one minimizing planar
// Euclidean distance to ref. Linear scan is acceptable at the scale of a
// single administrative-region facility list; ties break to the first
// record in storage order.
func (s *store) NearestTo(ctx context.Context, dataset repository.Dataset, ref domain.GeoPoint) (*domain.FacilityRecord, float64, error) {
	if !ref.CRS.IsProjected() {
		return nil, 0, fmt.Errorf("shapefile: reference point must be in %s, got %s", domain.CRSKorea2000, ref.CRS)
	}

	var (
		best     *domain.FacilityRecord
		bestDist float64
	)

	err := s.scan(ctx, dataset, func(name string, x, y float64) bool {
		d := utils.PlanarDistance(ref.X, ref.Y, x, y)
		if best == nil || d < bestDist {
			best = &domain.FacilityRecord{
				Name:  name,
				Point: domain.GeoPoint{X: x, Y: y, CRS: domain.CRSKorea2000},
			}
			bestDist = d
		}
		return true
	})
	if err != nil {
		return nil, 0, err
	}

	if best == nil {
		return nil, 0, nil
	}

	return best, bestDist, nil
}
