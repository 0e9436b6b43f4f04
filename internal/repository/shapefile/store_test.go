package shapefile

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	shp "github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/facility-locator/internal/config"
	"github.com/facility-locator/internal/domain"
	"github.com/facility-locator/internal/domain/repository"
)

type fixtureRow struct {
	name string
	x, y float64
}

func writeFixture(t *testing.T, path string, rows []fixtureRow) {
	t.Helper()

	w, err := shp.Create(path, shp.POINT)
	require.NoError(t, err)

	w.SetFields([]shp.Field{shp.StringField("NAM", 80)})

	for i, row := range rows {
		w.Write(&shp.Point{X: row.x, Y: row.y})
		w.WriteAttribute(i, 0, row.name)
	}

	w.Close()

	// The writer names the attribute table <base>dbf, without the dot
	// the reader pairs with the .shp. Rename so the fixture reads back.
	base := strings.TrimSuffix(path, ".shp")
	if _, err := os.Stat(base + "dbf"); err == nil {
		require.NoError(t, os.Rename(base+"dbf", base+".dbf"))
	}
}

func newTestStore(t *testing.T, martRows, fireRows []fixtureRow) repository.SpatialRepository {
	t.Helper()

	dir := t.TempDir()
	cfg := &config.DatasetConfig{
		MartPath:        filepath.Join(dir, "mart.shp"),
		FirestationPath: filepath.Join(dir, "firestation.shp"),
		NameField:       "nam",
	}

	writeFixture(t, cfg.MartPath, martRows)
	writeFixture(t, cfg.FirestationPath, fireRows)

	return NewStore(cfg, zap.NewNop())
}

func TestStore_FindByNameSubstring(t *testing.T) {
	store := newTestStore(t,
		[]fixtureRow{
			{"롯데마트 서울역", 953900, 1952000},
			{"롯데마트 용산", 954100, 1950500},
			{"이마트 용산", 954200, 1950600},
		},
		nil,
	)
	ctx := context.Background()

	t.Run("substring match returns first row in storage order", func(t *testing.T) {
		rec, err := store.FindByNameSubstring(ctx, repository.DatasetPlace, "롯데마트")
		require.NoError(t, err)
		require.NotNil(t, rec)
		assert.Equal(t, "롯데마트 서울역", rec.Name)
		assert.Equal(t, domain.CRSKorea2000, rec.Point.CRS)
	})

	t.Run("loaded coordinates equal the stored geometry", func(t *testing.T) {
		rec, err := store.FindByNameSubstring(ctx, repository.DatasetPlace, "이마트 용산")
		require.NoError(t, err)
		require.NotNil(t, rec)
		assert.InDelta(t, 954200, rec.Point.X, 1e-6)
		assert.InDelta(t, 1950600, rec.Point.Y, 1e-6)
	})

	t.Run("match is case-insensitive", func(t *testing.T) {
		store := newTestStore(t,
			[]fixtureRow{{"GS25 Myeongdong", 955000, 1953000}},
			nil,
		)
		rec, err := store.FindByNameSubstring(ctx, repository.DatasetPlace, "gs25")
		require.NoError(t, err)
		require.NotNil(t, rec)
		assert.Equal(t, "GS25 Myeongdong", rec.Name)
	})

	t.Run("no match returns nil without error", func(t *testing.T) {
		rec, err := store.FindByNameSubstring(ctx, repository.DatasetPlace, "홈플러스")
		require.NoError(t, err)
		assert.Nil(t, rec)
	})
}

func TestStore_NearestTo(t *testing.T) {
	ctx := context.Background()
	ref := domain.GeoPoint{X: 953900, Y: 1952000, CRS: domain.CRSKorea2000}

	t.Run("returns the minimum-distance record with its distance", func(t *testing.T) {
		store := newTestStore(t, nil, []fixtureRow{
			{"용산소방서", 955000, 1950000},
			{"서울역소방서", 954000, 1952050},
			{"중부소방서", 956000, 1953000},
		})

		rec, dist, err := store.NearestTo(ctx, repository.DatasetFacility, ref)
		require.NoError(t, err)
		require.NotNil(t, rec)
		assert.Equal(t, "서울역소방서", rec.Name)
		// sqrt(100^2 + 50^2)
		assert.InDelta(t, 111.803, dist, 0.001)
	})

	t.Run("deterministic across repeated calls", func(t *testing.T) {
		store := newTestStore(t, nil, []fixtureRow{
			{"A", 954000, 1952000},
			{"B", 953000, 1951000},
		})

		first, d1, err := store.NearestTo(ctx, repository.DatasetFacility, ref)
		require.NoError(t, err)
		second, d2, err := store.NearestTo(ctx, repository.DatasetFacility, ref)
		require.NoError(t, err)
		assert.Equal(t, first, second)
		assert.Equal(t, d1, d2)
	})

	t.Run("tie breaks to the first record in storage order", func(t *testing.T) {
		store := newTestStore(t, nil, []fixtureRow{
			{"north", 953900, 1952100},
			{"south", 953900, 1951900},
		})

		rec, dist, err := store.NearestTo(ctx, repository.DatasetFacility, ref)
		require.NoError(t, err)
		require.NotNil(t, rec)
		assert.Equal(t, "north", rec.Name)
		assert.InDelta(t, 100, dist, 1e-9)
	})

	t.Run("empty dataset returns nil without error", func(t *testing.T) {
		store := newTestStore(t, nil, nil)
		rec, _, err := store.NearestTo(ctx, repository.DatasetFacility, ref)
		require.NoError(t, err)
		assert.Nil(t, rec)
	})

	t.Run("rejects a geographic reference point", func(t *testing.T) {
		store := newTestStore(t, nil, nil)
		_, _, err := store.NearestTo(ctx, repository.DatasetFacility, domain.GeoPoint{X: 127.0, Y: 37.5, CRS: domain.CRSWGS84})
		assert.Error(t, err)
	})
}
