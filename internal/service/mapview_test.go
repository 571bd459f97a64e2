package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/placesmap/internal/domain/model"
)

func TestBuildMapModel_Defaults(t *testing.T) {
	t.Parallel()
	m := BuildMapModel(nil, nil)
	assert.Equal(t, [2]float64{40.416775, -3.703790}, m.Center)
	assert.Equal(t, 6, m.Zoom)
	assert.Empty(t, m.Markers)
	assert.Nil(t, m.Polyline)
}

func TestBuildMapModel_MarkerPerPlace(t *testing.T) {
	t.Parallel()
	places := []*model.Place{
		{ID: "a", Name: "Madrid", Lat: 40.41, Lng: -3.70},
		{ID: "b", Name: "Sevilla", Lat: 37.38, Lng: -5.98},
	}
	m := BuildMapModel(places, nil)
	require.Len(t, m.Markers, 2)
	assert.Equal(t, MapMarker{Lat: 40.41, Lng: -3.70, Popup: "Madrid"}, m.Markers[0])
	assert.Nil(t, m.Polyline)
}

func TestBuildMapModel_PolylinePointCount(t *testing.T) {
	t.Parallel()
	for _, n := range []int{1, 2, 57} {
		geometry := make([][2]float64, n)
		for i := range geometry {
			geometry[i] = [2]float64{40 + float64(i)/100, -3}
		}
		m := BuildMapModel(nil, geometry)
		require.NotNil(t, m.Polyline)
		assert.Len(t, m.Polyline.Points, n)
		assert.Equal(t, "blue", m.Polyline.Color)
		assert.Equal(t, 5, m.Polyline.Weight)
	}

	assert.Nil(t, BuildMapModel(nil, [][2]float64{}).Polyline)
}

func TestDashboardMap_UsesRouteGeometry(t *testing.T) {
	t.Parallel()
	st := &DashboardState{
		Places: []*model.Place{{Name: "A", Lat: 1, Lng: 2}},
		Route:  &model.RouteResult{Geometry: [][2]float64{{1, 2}, {3, 4}}},
	}
	m := DashboardMap(st)
	require.NotNil(t, m.Polyline)
	assert.Equal(t, [][2]float64{{1, 2}, {3, 4}}, m.Polyline.Points)

	b, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"polyline":{"points":[[1,2],[3,4]]`)
}
