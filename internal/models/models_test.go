package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

const record = `{"_id":"01HX","firstName":"Ada","lastName":"Lovelace","email":"ada@example.com","isAdmin":false,"isApproved":true,"coordinates":[-0.12,51.5]}`

func TestExtractAlumniShapes(t *testing.T) {
	want := &Alumni{
		ID:          "01HX",
		FirstName:   "Ada",
		LastName:    "Lovelace",
		Email:       "ada@example.com",
		IsApproved:  true,
		Coordinates: []float64{-0.12, 51.5},
	}

	shapes := map[string]string{
		"alumni": `{"alumni":` + record + `}`,
		"user":   `{"user":` + record + `}`,
		"bare":   record,
	}

	for name, payload := range shapes {
		t.Run(name, func(t *testing.T) {
			got, err := ExtractAlumni([]byte(payload))
			require.NoError(t, err)
			require.Equal(t, want, got)
		})
	}
}

func TestExtractAlumniPriority(t *testing.T) {
	got, err := ExtractAlumni([]byte(`{"user":{"email":"user@example.com"},"alumni":{"email":"alumni@example.com"}}`))
	require.NoError(t, err)
	require.Equal(t, "alumni@example.com", got.Email)

	got, err = ExtractAlumni([]byte(`{"alumni":null,"user":{"email":"user@example.com"}}`))
	require.NoError(t, err)
	require.Equal(t, "user@example.com", got.Email)
}

func TestExtractAlumniEmpty(t *testing.T) {
	for _, payload := range []string{"", "  ", "null", "{}", "{ }", `{"alumni":null}`, `{"user":{}}`, `{"alumni":{},"user":null}`} {
		_, err := ExtractAlumni([]byte(payload))
		require.ErrorIs(t, err, ErrEmptyRecord, "payload %q", payload)
	}
}

func TestExtractAlumniInvalid(t *testing.T) {
	_, err := ExtractAlumni([]byte(`[1,2]`))
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrEmptyRecord)
}

func TestExtractUpdatedAlumni(t *testing.T) {
	got, err := ExtractUpdatedAlumni([]byte(`{"success":true,"data":` + record + `}`))
	require.NoError(t, err)
	require.Equal(t, "Ada", got.FirstName)

	// profile responses never use the data envelope
	got, err = ExtractAlumni([]byte(`{"data":` + record + `}`))
	require.NoError(t, err)
	require.Empty(t, got.Email)
}

func TestMissingFlagsDecodeFalse(t *testing.T) {
	got, err := ExtractAlumni([]byte(`{"email":"x@example.com"}`))
	require.NoError(t, err)
	require.False(t, got.IsAdmin)
	require.False(t, got.IsApproved)
}

func TestLocationForms(t *testing.T) {
	var a Alumni
	require.NoError(t, json.Unmarshal([]byte(`{"location":"Pune, India"}`), &a))
	require.Equal(t, "Pune, India", a.Location.DisplayName)

	require.NoError(t, json.Unmarshal([]byte(`{"location":{"type":"Point","display_name":"Berlin","coordinates":[13.4,52.5]}}`), &a))
	label, coords := a.LocationLabel()
	require.Equal(t, "Berlin", label)
	require.Equal(t, []float64{13.4, 52.5}, coords)
}

func TestLocationLabelFallback(t *testing.T) {
	a := Alumni{City: "Austin", Country: "USA", Coordinates: []float64{-97.7, 30.3}}
	label, coords := a.LocationLabel()
	require.Equal(t, "Austin, USA", label)
	require.Equal(t, []float64{-97.7, 30.3}, coords)

	a.City = ""
	label, _ = a.LocationLabel()
	require.Equal(t, "USA", label)
}

func TestPoint(t *testing.T) {
	lon, lat, ok := (&Alumni{Coordinates: []float64{2.35, 48.85}}).Point()
	require.True(t, ok)
	require.Equal(t, 2.35, lon)
	require.Equal(t, 48.85, lat)

	_, _, ok = (&Alumni{Coordinates: []float64{0, 48.85}}).Point()
	require.False(t, ok)
	_, _, ok = (&Alumni{}).Point()
	require.False(t, ok)
}

func TestCloneIsDeep(t *testing.T) {
	a := &Alumni{Coordinates: []float64{1, 2}, Location: &Location{Coordinates: []float64{3, 4}}}
	c := a.Clone()
	c.Coordinates[0] = 9
	c.Location.Coordinates[0] = 9
	require.Equal(t, 1.0, a.Coordinates[0])
	require.Equal(t, 3.0, a.Location.Coordinates[0])

	var nilAlumni *Alumni
	require.Nil(t, nilAlumni.Clone())
}

func TestStatusAndNames(t *testing.T) {
	a := &Alumni{FirstName: "grace", LastName: "hopper"}
	require.Equal(t, "grace hopper", a.FullName())
	require.Equal(t, "GH", a.Initials())
	require.Equal(t, "pending approval", a.Status())

	a.IsAdmin = true
	require.Equal(t, "admin (pending approval)", a.Status())
	a.IsApproved = true
	require.Equal(t, "admin", a.Status())
}
