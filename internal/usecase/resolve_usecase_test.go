package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	geom "github.com/twpayne/go-geom"
	"go.uber.org/zap"

	"github.com/facility-locator/internal/domain"
	"github.com/facility-locator/internal/domain/repository"
	"github.com/facility-locator/internal/pkg/projection"
	"github.com/facility-locator/internal/usecase"
	"github.com/facility-locator/internal/usecase/dto"
)

// MockSpatialRepository is a mock of SpatialRepository
type MockSpatialRepository struct {
	mock.Mock
}

func (m *MockSpatialRepository) FindByNameSubstring(ctx context.Context, dataset repository.Dataset, pattern string) (*domain.PlaceRecord, error) {
	args := m.Called(ctx, dataset, pattern)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PlaceRecord), args.Error(1)
}

func (m *MockSpatialRepository) NearestTo(ctx context.Context, dataset repository.Dataset, ref domain.GeoPoint) (*domain.FacilityRecord, float64, error) {
	args := m.Called(ctx, dataset, ref)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).(*domain.FacilityRecord), args.Get(1).(float64), args.Error(2)
}

func newResolveUseCase(spatial repository.SpatialRepository) *usecase.ResolveUseCase {
	logger := zap.NewNop()
	// No model and no cache: extraction runs on the pattern stages only.
	extractUC := usecase.NewExtractUseCase(nil, nil, logger, 0)
	return usecase.NewResolveUseCase(extractUC, spatial, projection.NewKorea2000(), logger)
}

func TestResolveUseCase_Analyze(t *testing.T) {
	ctx := context.Background()

	seoulStationMart := &domain.PlaceRecord{
		Name:  "롯데마트 서울역",
		Point: domain.GeoPoint{X: 953900, Y: 1952000, CRS: domain.CRSKorea2000},
	}
	seoulStationFire := &domain.FacilityRecord{
		Name:  "서울역소방서",
		Point: domain.GeoPoint{X: 954100, Y: 1952200, CRS: domain.CRSKorea2000},
	}

	t.Run("full resolution produces two geographic features and a summary", func(t *testing.T) {
		mockSpatial := &MockSpatialRepository{}
		mockSpatial.On("FindByNameSubstring", ctx, repository.DatasetPlace, "롯데마트 서울역").
			Return(seoulStationMart, nil)
		mockSpatial.On("NearestTo", ctx, repository.DatasetFacility, seoulStationMart.Point).
			Return(seoulStationFire, 312.7, nil)

		uc := newResolveUseCase(mockSpatial)
		res := uc.Analyze(ctx, "롯데마트 서울역점에서 가장 가까운 소방서")

		require.Equal(t, dto.StateAssembled, res.State)
		require.NotNil(t, res.Collection)
		assert.Nil(t, res.Degraded)

		assert.Equal(t, "FeatureCollection", res.Collection.Type)
		assert.Equal(t, "롯데마트 서울역에서 가장 가까운 소방서는 서울역소방서입니다 (거리: 313m)",
			res.Collection.Summary)

		require.Len(t, res.Collection.Features, 2)

		place := res.Collection.Features[0]
		assert.Equal(t, "롯데마트 서울역", place.Properties["display_name"])
		assert.Equal(t, "place", place.Properties["type"])

		facility := res.Collection.Features[1]
		assert.Equal(t, "서울역소방서", facility.Properties["display_name"])
		assert.Equal(t, "facility", facility.Properties["type"])

		// Both geometries are reprojected into lon/lat around Seoul.
		for _, f := range res.Collection.Features {
			pt, ok := f.Geometry.(*geom.Point)
			require.True(t, ok)
			assert.InDelta(t, 126.97, pt.X(), 0.1)
			assert.InDelta(t, 37.55, pt.Y(), 0.1)
		}
	})

	t.Run("summary distance uses standard rounding", func(t *testing.T) {
		for distance, want := range map[float64]string{
			482.4: "(거리: 482m)",
			482.6: "(거리: 483m)",
		} {
			mockSpatial := &MockSpatialRepository{}
			mockSpatial.On("FindByNameSubstring", ctx, repository.DatasetPlace, mock.Anything).
				Return(seoulStationMart, nil)
			mockSpatial.On("NearestTo", ctx, repository.DatasetFacility, mock.Anything).
				Return(seoulStationFire, distance, nil)

			uc := newResolveUseCase(mockSpatial)
			res := uc.Analyze(ctx, "롯데마트 서울역점")

			require.Equal(t, dto.StateAssembled, res.State)
			assert.Contains(t, res.Collection.Summary, want)
		}
	})

	t.Run("empty query short-circuits before any spatial lookup", func(t *testing.T) {
		mockSpatial := &MockSpatialRepository{}

		uc := newResolveUseCase(mockSpatial)
		res := uc.Analyze(ctx, "")

		require.Equal(t, dto.StateNoName, res.State)
		require.NotNil(t, res.Degraded)
		assert.Equal(t, "마트 이름을 인식할 수 없습니다.", res.Degraded.AnswerText)
		mockSpatial.AssertNotCalled(t, "FindByNameSubstring", mock.Anything, mock.Anything, mock.Anything)
		mockSpatial.AssertNotCalled(t, "NearestTo", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unmatched candidate is named in the degraded message", func(t *testing.T) {
		mockSpatial := &MockSpatialRepository{}
		mockSpatial.On("FindByNameSubstring", ctx, repository.DatasetPlace, "스타벅스").
			Return(nil, nil)

		uc := newResolveUseCase(mockSpatial)
		res := uc.Analyze(ctx, "스타벅스 근처 소방서")

		require.Equal(t, dto.StatePlaceNotFound, res.State)
		require.NotNil(t, res.Degraded)
		assert.Equal(t, "'스타벅스'을(를) 찾을 수 없습니다. 데이터를 확인해주세요.", res.Degraded.AnswerText)
	})

	t.Run("empty facility dataset reports missing facility data", func(t *testing.T) {
		mockSpatial := &MockSpatialRepository{}
		mockSpatial.On("FindByNameSubstring", ctx, repository.DatasetPlace, mock.Anything).
			Return(seoulStationMart, nil)
		mockSpatial.On("NearestTo", ctx, repository.DatasetFacility, mock.Anything).
			Return(nil, 0.0, nil)

		uc := newResolveUseCase(mockSpatial)
		res := uc.Analyze(ctx, "롯데마트 서울역점")

		require.Equal(t, dto.StateFacilityNotFound, res.State)
		require.NotNil(t, res.Degraded)
		assert.Equal(t, "소방서 데이터를 찾을 수 없습니다.", res.Degraded.AnswerText)
	})

	t.Run("unexpected errors become the generic envelope, not a failure", func(t *testing.T) {
		mockSpatial := &MockSpatialRepository{}
		mockSpatial.On("FindByNameSubstring", ctx, repository.DatasetPlace, mock.Anything).
			Return(nil, assert.AnError)

		uc := newResolveUseCase(mockSpatial)
		res := uc.Analyze(ctx, "롯데마트 서울역점")

		require.Equal(t, dto.StateInternalError, res.State)
		require.NotNil(t, res.Degraded)
		assert.Contains(t, res.Degraded.AnswerText, "오류 발생: ")
	})

	t.Run("resolution is deterministic for identical inputs", func(t *testing.T) {
		mockSpatial := &MockSpatialRepository{}
		mockSpatial.On("FindByNameSubstring", ctx, repository.DatasetPlace, mock.Anything).
			Return(seoulStationMart, nil)
		mockSpatial.On("NearestTo", ctx, repository.DatasetFacility, mock.Anything).
			Return(seoulStationFire, 312.7, nil)

		uc := newResolveUseCase(mockSpatial)
		first := uc.Analyze(ctx, "롯데마트 서울역점")
		second := uc.Analyze(ctx, "롯데마트 서울역점")

		assert.Equal(t, first.Collection.Summary, second.Collection.Summary)
		assert.Equal(t, first.Collection.Features[0].Geometry, second.Collection.Features[0].Geometry)
	})
}
