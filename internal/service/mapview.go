package service

import "github.com/target/placesmap/internal/domain/model"

// Map defaults.
var DefaultMapCenter = [2]float64{40.416775, -3.703790}

const (
	DefaultMapZoom  = 6
	OSMTileURL      = "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"
	OSMAttribution  = `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors`
	routeLineColor  = "blue"
	routeLineWeight = 5
)

// MapMarker is a pin with a popup label.
type MapMarker struct {
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Popup string  `json:"popup"`
}

// MapPolyline is a styled line through Points ([lat, lng] pairs).
type MapPolyline struct {
	Points [][2]float64 `json:"points"`
	Color  string       `json:"color"`
	Weight int          `json:"weight"`
}

// MapModel is the serializable description the browser map script draws.
type MapModel struct {
	Center      [2]float64   `json:"center"`
	Zoom        int          `json:"zoom"`
	TileURL     string       `json:"tileUrl"`
	Attribution string       `json:"attribution"`
	Markers     []MapMarker  `json:"markers"`
	Polyline    *MapPolyline `json:"polyline,omitempty"`
}

// BuildMapModel describes the map for places and an optional route geometry:
// one marker per place and a single polyline when geometry is non-empty.
func BuildMapModel(places []*model.Place, geometry [][2]float64) MapModel {
	m := MapModel{
		Center:      DefaultMapCenter,
		Zoom:        DefaultMapZoom,
		TileURL:     OSMTileURL,
		Attribution: OSMAttribution,
		Markers:     make([]MapMarker, 0, len(places)),
	}
	for _, p := range places {
		if p == nil {
			continue
		}
		m.Markers = append(m.Markers, MapMarker{Lat: p.Lat, Lng: p.Lng, Popup: p.Name})
	}
	if len(geometry) > 0 {
		pts := make([][2]float64, len(geometry))
		copy(pts, geometry)
		m.Polyline = &MapPolyline{Points: pts, Color: routeLineColor, Weight: routeLineWeight}
	}
	return m
}

// DashboardMap builds the map for a dashboard state.
func DashboardMap(st *DashboardState) MapModel {
	var geometry [][2]float64
	if st.Route != nil {
		geometry = st.Route.Geometry
	}
	return BuildMapModel(st.Places, geometry)
}
