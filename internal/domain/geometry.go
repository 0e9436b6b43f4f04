package domain

import "fmt"

// CRS identifies a coordinate reference system by its EPSG code.
type CRS int

const (
	// CRSKorea2000 is the projected system the backing datasets are stored in
	// (Korea 2000 / Unified CS, planar, native unit meters).
	CRSKorea2000 CRS = 5179

	// CRSWGS84 is the geographic lon/lat system used in responses.
	CRSWGS84 CRS = 4326
)

func (c CRS) String() string {
	return fmt.Sprintf("EPSG:%d", int(c))
}

// IsProjected reports whether coordinates in this system are planar meters.
func (c CRS) IsProjected() bool {
	return c == CRSKorea2000
}

// GeoPoint is a coordinate pair tagged with its reference system.
// For a projected CRS, X is easting and Y is northing; for a geographic
// CRS, X is longitude and Y is latitude. Points in the projected CRS must
// be reprojected before being reported to a client.
type GeoPoint struct {
	X   float64 `json:"x"`
	Y   float64 `json:"y"`
	CRS CRS     `json:"crs"`
}

// PlaceRecord is one row of the source-entity dataset (retail outlets).
// Records are read-only snapshots loaded per query, never mutated.
type PlaceRecord struct {
	Name  string   `json:"name"`
	Point GeoPoint `json:"point"`
}

// FacilityRecord is one row of the target-facility dataset (fire stations).
type FacilityRecord struct {
	Name  string   `json:"name"`
	Point GeoPoint `json:"point"`
}

// ResolutionResult is the outcome of a successful query resolution,
// consumed immediately by response assembly.
type ResolutionResult struct {
	Place          PlaceRecord
	Facility       FacilityRecord
	DistanceMeters float64
}
