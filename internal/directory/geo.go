package directory

import (
	"strings"

	"github.com/alumnet-dev/alumnet/internal/models"
)

// Point is one alumnus placed on the map
type Point struct {
	Alumni models.Alumni
	Lon    float64
	Lat    float64
	Label  string
}

// Points keeps the alumni that have a usable location
func Points(list []models.Alumni) []Point {
	out := make([]Point, 0, len(list))
	for i := range list {
		lon, lat, ok := list[i].Point()
		if !ok {
			continue
		}
		label, _ := list[i].LocationLabel()
		out = append(out, Point{Alumni: list[i], Lon: lon, Lat: lat, Label: label})
	}
	return out
}

// Stats counts located alumni and the distinct countries and cities they are
// in. Used when the backend does not send its own summary.
func Stats(points []Point) models.MapStats {
	countries := make(map[string]struct{})
	cities := make(map[string]struct{})
	for _, p := range points {
		if c := strings.ToLower(strings.TrimSpace(p.Alumni.Country)); c != "" {
			countries[c] = struct{}{}
		}
		if c := strings.ToLower(strings.TrimSpace(p.Alumni.City)); c != "" {
			cities[c] = struct{}{}
		}
	}
	return models.MapStats{
		TotalAlumni:          len(points),
		CountriesRepresented: len(countries),
		CitiesRepresented:    len(cities),
	}
}

// Bounds is the smallest box containing every point
type Bounds struct {
	MinLon, MinLat, MaxLon, MaxLat float64
}

// BoundsOf returns the bounding box of points and false when there are none
func BoundsOf(points []Point) (Bounds, bool) {
	if len(points) == 0 {
		return Bounds{}, false
	}
	b := Bounds{MinLon: points[0].Lon, MaxLon: points[0].Lon, MinLat: points[0].Lat, MaxLat: points[0].Lat}
	for _, p := range points[1:] {
		b.MinLon = min(b.MinLon, p.Lon)
		b.MaxLon = max(b.MaxLon, p.Lon)
		b.MinLat = min(b.MinLat, p.Lat)
		b.MaxLat = max(b.MaxLat, p.Lat)
	}
	return b, true
}

// Summary picks the backend stats when they are present
func Summary(data *models.MapData) models.MapStats {
	if data.Stats != (models.MapStats{}) {
		return data.Stats
	}
	return Stats(Points(data.Alumni))
}
