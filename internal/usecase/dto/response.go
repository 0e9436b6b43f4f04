package dto

import "github.com/twpayne/go-geom/encoding/geojson"

// ResolutionState names the terminal state the pipeline reached for a
// query. Every state except StateAssembled maps to a degraded response.
type ResolutionState string

const (
	StateAssembled        ResolutionState = "ASSEMBLED"
	StateNoName           ResolutionState = "NO_NAME"
	StatePlaceNotFound    ResolutionState = "PLACE_NOT_FOUND"
	StateFacilityNotFound ResolutionState = "FACILITY_NOT_FOUND"
	StateInternalError    ResolutionState = "INTERNAL_ERROR"
)

// FeatureCollection is the success payload: a GeoJSON FeatureCollection
// carrying exactly two point features (place first, facility second) in
// geographic coordinates, plus a human-readable summary.
type FeatureCollection struct {
	Type     string             `json:"type"`
	Features []*geojson.Feature `json:"features"`
	Summary  string             `json:"summary"`
}

// DegradedResponse is the payload for every expected failure mode. It is
// still delivered with HTTP success; only the message varies.
type DegradedResponse struct {
	AnswerText string `json:"answer_text"`
}

// AnalyzeResult is the pipeline outcome. Exactly one of Collection and
// Degraded is set, matching State.
type AnalyzeResult struct {
	State      ResolutionState
	Collection *FeatureCollection
	Degraded   *DegradedResponse
}
