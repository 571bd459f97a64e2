package model

// RouteRequest asks for a driving route between two coordinates given in
// provider (lng, lat) order. Nil endpoints are treated as missing.
type RouteRequest struct {
	Start *LngLat `json:"start"`
	End   *LngLat `json:"end"`
}

// RouteResult is the outcome of a route computation. It is built fresh for
// each request and never persisted.
type RouteResult struct {
	// Geometry is the path as [lat, lng] pairs.
	Geometry [][2]float64 `json:"geometry"`
	// Distance in meters; nil when the provider omitted a summary.
	Distance *float64 `json:"distance"`
	// Duration in seconds; nil when the provider omitted a summary.
	Duration *float64 `json:"duration"`
}

// HasSummary reports whether both distance and duration are known.
func (r RouteResult) HasSummary() bool {
	return r.Distance != nil && r.Duration != nil
}

// ReprojectLine converts a provider (lng, lat) line into map (lat, lng) pairs.
// The result always has the same length as the input.
func ReprojectLine(line []LngLat) [][2]float64 {
	out := make([][2]float64, len(line))
	for i, c := range line {
		out[i] = [2]float64{c.Lat(), c.Lng()}
	}
	return out
}
