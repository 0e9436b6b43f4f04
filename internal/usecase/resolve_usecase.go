package usecase

import (
	"context"
	"fmt"

	geom "github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"github.com/facility-locator/internal/domain"
	"github.com/facility-locator/internal/domain/repository"
	"github.com/facility-locator/internal/pkg/projection"
	"github.com/facility-locator/internal/pkg/utils"
	"github.com/facility-locator/internal/usecase/dto"
)

// User-facing messages for the degraded terminal states. Expected
// failures are answered with these, never with a transport-level error.
const (
	msgNoName         = "마트 이름을 인식할 수 없습니다."
	msgPlaceNotFound  = "'%s'을(를) 찾을 수 없습니다. 데이터를 확인해주세요."
	msgNoFacilityData = "소방서 데이터를 찾을 수 없습니다."
	msgInternalError  = "오류 발생: %s"
)

// ResolveUseCase runs a query through the linear pipeline
// extract -> place lookup -> nearest facility -> reproject -> assemble.
// Every failure mode terminates in a degraded response; nothing
// propagates to the caller as an error.
type ResolveUseCase struct {
	extractUC   *ExtractUseCase
	spatialRepo repository.SpatialRepository
	transformer *projection.Transformer
	logger      *zap.Logger
}

func NewResolveUseCase(
	extractUC *ExtractUseCase,
	spatialRepo repository.SpatialRepository,
	transformer *projection.Transformer,
	logger *zap.Logger,
) *ResolveUseCase {
	return &ResolveUseCase{
		extractUC:   extractUC,
		spatialRepo: spatialRepo,
		transformer: transformer,
		logger:      logger,
	}
}

// Analyze resolves raw query text into the nearest-facility answer.
func (uc *ResolveUseCase) Analyze(ctx context.Context, text string) *dto.AnalyzeResult {
	extraction := uc.extractUC.Extract(ctx, text)
	if extraction.Empty() {
		return degraded(dto.StateNoName, msgNoName)
	}

	place, err := uc.spatialRepo.FindByNameSubstring(ctx, repository.DatasetPlace, extraction.CandidateName)
	if err != nil {
		return uc.internalError("place lookup failed", err)
	}
	if place == nil {
		return degraded(dto.StatePlaceNotFound, fmt.Sprintf(msgPlaceNotFound, extraction.CandidateName))
	}

	uc.logger.Debug("Place found",
		zap.String("name", place.Name),
		zap.Float64("x", place.Point.X),
		zap.Float64("y", place.Point.Y),
	)

	facility, distance, err := uc.spatialRepo.NearestTo(ctx, repository.DatasetFacility, place.Point)
	if err != nil {
		return uc.internalError("nearest facility lookup failed", err)
	}
	if facility == nil {
		return degraded(dto.StateFacilityNotFound, msgNoFacilityData)
	}

	placeGeo, err := uc.transformer.ToGeographic(place.Point)
	if err != nil {
		return uc.internalError("place reprojection failed", err)
	}
	facilityGeo, err := uc.transformer.ToGeographic(facility.Point)
	if err != nil {
		return uc.internalError("facility reprojection failed", err)
	}

	result := domain.ResolutionResult{
		Place:          *place,
		Facility:       *facility,
		DistanceMeters: distance,
	}

	uc.logger.Info("Query resolved",
		zap.String("place", place.Name),
		zap.String("facility", facility.Name),
		zap.Float64("distance_m", distance),
		zap.String("extraction_source", string(extraction.Source)),
	)

	return &dto.AnalyzeResult{
		State:      dto.StateAssembled,
		Collection: assemble(result, placeGeo, facilityGeo),
	}
}

// assemble builds the two-feature GeoJSON collection (place first,
// facility second) with the fixed-format summary.
func assemble(res domain.ResolutionResult, placeGeo, facilityGeo domain.GeoPoint) *dto.FeatureCollection {
	return &dto.FeatureCollection{
		Type: "FeatureCollection",
		Features: []*geojson.Feature{
			{
				Geometry: geom.NewPointFlat(geom.XY, []float64{placeGeo.X, placeGeo.Y}),
				Properties: map[string]interface{}{
					"display_name": res.Place.Name,
					"type":         "place",
				},
			},
			{
				Geometry: geom.NewPointFlat(geom.XY, []float64{facilityGeo.X, facilityGeo.Y}),
				Properties: map[string]interface{}{
					"display_name": res.Facility.Name,
					"type":         "facility",
				},
			},
		},
		Summary: fmt.Sprintf("%s에서 가장 가까운 소방서는 %s입니다 (거리: %dm)",
			res.Place.Name, res.Facility.Name, utils.RoundMeters(res.DistanceMeters)),
	}
}

func degraded(state dto.ResolutionState, message string) *dto.AnalyzeResult {
	return &dto.AnalyzeResult{
		State:    state,
		Degraded: &dto.DegradedResponse{AnswerText: message},
	}
}

// internalError logs full diagnostic detail server-side and returns the
// generic envelope carrying only the error text.
func (uc *ResolveUseCase) internalError(msg string, err error) *dto.AnalyzeResult {
	uc.logger.Error(msg, zap.Error(err))
	return degraded(dto.StateInternalError, fmt.Sprintf(msgInternalError, err.Error()))
}
