package repository

import (
	"context"

	"github.com/facility-locator/internal/domain"
)

// Dataset selects one of the two backing point-geometry datasets.
type Dataset string

const (
	// DatasetPlace is the source-entity layer (retail outlets).
	DatasetPlace Dataset = "mart"

	// DatasetFacility is the target-facility layer (fire stations).
	DatasetFacility Dataset = "firestation"
)

// SpatialRepository defines read-only access to the point-geometry
// datasets. Both operations scan an immutable dataset snapshot; no
// mutation path exists.
type SpatialRepository interface {
	// FindByNameSubstring returns the first record whose name contains
	// pattern (case-insensitive), under the dataset's storage order.
	// Returns nil when no row matches.
	FindByNameSubstring(ctx context.Context, dataset Dataset, pattern string) (*domain.PlaceRecord, error)

	// NearestTo returns the record minimizing planar Euclidean distance
	// to ref in the dataset's projected CRS, together with that distance
	// in meters. Ties break to the first record in storage order.
	// Returns nil when the dataset has no rows.
	NearestTo(ctx context.Context, dataset Dataset, ref domain.GeoPoint) (*domain.FacilityRecord, float64, error)
}
