package directory

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alumnet-dev/alumnet/internal/models"
)

func sample() []models.Alumni {
	return []models.Alumni{
		{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Department: "Mathematics", GraduationYear: 2012, CurrentCompany: "Analytical Engines", City: "London", Country: "UK", Coordinates: []float64{-0.12, 51.5}},
		{FirstName: "Grace", LastName: "Hopper", Email: "grace@navy.mil", Department: "Computer Science", GraduationYear: 2015, City: "Arlington", Country: "USA", Location: &models.Location{DisplayName: "Arlington, VA", Coordinates: []float64{-77.1, 38.9}}},
		{FirstName: "Alan", LastName: "Turing", Email: "alan@example.com", Department: "Mathematics", GraduationYear: 2015, City: "london", Country: "uk", Coordinates: []float64{-0.13, 51.51}},
		{FirstName: "Edsger", LastName: "Dijkstra", Email: "ewd@example.com", Department: "", GraduationYear: 2010},
	}
}

func emails(list []models.Alumni) []string {
	out := make([]string, 0, len(list))
	for _, a := range list {
		out = append(out, a.Email)
	}
	return out
}

func TestFilter(t *testing.T) {
	list := sample()

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"no filter", Filter{}, []string{"ada@example.com", "grace@navy.mil", "alan@example.com", "ewd@example.com"}},
		{"search name", Filter{Search: "HOP"}, []string{"grace@navy.mil"}},
		{"search company", Filter{Search: "engines"}, []string{"ada@example.com"}},
		{"search email", Filter{Search: "navy"}, []string{"grace@navy.mil"}},
		{"department", Filter{Department: "Mathematics"}, []string{"ada@example.com", "alan@example.com"}},
		{"year", Filter{Year: 2015}, []string{"grace@navy.mil", "alan@example.com"}},
		{"combined", Filter{Department: "Mathematics", Year: 2015, Search: "a"}, []string{"alan@example.com"}},
		{"department is exact", Filter{Department: "math"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, emails(tt.filter.Apply(list)))
		})
	}
}

func TestFacets(t *testing.T) {
	f := BuildFacets(sample())
	require.Equal(t, []string{"Computer Science", "Mathematics"}, f.Departments)
	require.Equal(t, []int{2015, 2012, 2010}, f.Years)
}

func TestPointsAndStats(t *testing.T) {
	points := Points(sample())
	require.Len(t, points, 3)
	require.Equal(t, "Arlington, VA", points[1].Label)
	require.Equal(t, -77.1, points[1].Lon)

	stats := Stats(points)
	require.Equal(t, models.MapStats{TotalAlumni: 3, CountriesRepresented: 2, CitiesRepresented: 2}, stats)

	b, ok := BoundsOf(points)
	require.True(t, ok)
	require.Equal(t, Bounds{MinLon: -77.1, MinLat: 38.9, MaxLon: -0.12, MaxLat: 51.51}, b)

	_, ok = BoundsOf(nil)
	require.False(t, ok)
}

func TestSummaryPrefersBackendStats(t *testing.T) {
	backend := models.MapStats{TotalAlumni: 10, CountriesRepresented: 4, CitiesRepresented: 7}
	require.Equal(t, backend, Summary(&models.MapData{Alumni: sample(), Stats: backend}))
	require.Equal(t, 3, Summary(&models.MapData{Alumni: sample()}).TotalAlumni)
}
