package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyRecord is returned when a payload carries no alumni record
var ErrEmptyRecord = errors.New("response contains no alumni record")

// Location is the stored location of an alumnus. The backend sends either a
// plain display string or a GeoJSON-like object.
type Location struct {
	Type        string    `json:"type,omitempty"`
	DisplayName string    `json:"display_name,omitempty"`
	Coordinates []float64 `json:"coordinates,omitempty"` // [lon, lat]
}

// UnmarshalJSON accepts both the string and the object form
func (l *Location) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = Location{}
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("failed to decode location: %w", err)
		}
		*l = Location{DisplayName: s}
		return nil
	}

	type plain Location
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("failed to decode location: %w", err)
	}
	*l = Location(p)
	return nil
}

// IsZero reports whether no location information is present
func (l Location) IsZero() bool {
	return l.DisplayName == "" && len(l.Coordinates) == 0
}

// Alumni is the identity record held by the session and returned by the
// directory endpoints.
type Alumni struct {
	ID             string    `json:"_id,omitempty"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone,omitempty"`
	Department     string    `json:"department,omitempty"`
	GraduationYear int       `json:"graduationYear,omitempty"`
	RollNumber     string    `json:"rollNumber,omitempty"`
	CurrentCompany string    `json:"currentCompany,omitempty"`
	JobTitle       string    `json:"jobTitle,omitempty"`
	Country        string    `json:"country,omitempty"`
	City           string    `json:"city,omitempty"`
	FullAddress    string    `json:"fullAddress,omitempty"`
	Coordinates    []float64 `json:"coordinates,omitempty"` // [lon, lat]
	Location       *Location `json:"location,omitempty"`
	LinkedIn       string    `json:"linkedin,omitempty"`
	IsAdmin        bool      `json:"isAdmin"`
	IsApproved     bool      `json:"isApproved"`
}

// Clone returns a deep copy so callers never share slices with the session
func (a *Alumni) Clone() *Alumni {
	if a == nil {
		return nil
	}
	c := *a
	if a.Coordinates != nil {
		c.Coordinates = append([]float64(nil), a.Coordinates...)
	}
	if a.Location != nil {
		loc := *a.Location
		if loc.Coordinates != nil {
			loc.Coordinates = append([]float64(nil), a.Location.Coordinates...)
		}
		c.Location = &loc
	}
	return &c
}

// FullName joins first and last name
func (a *Alumni) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// Initials returns the upper-cased initials shown next to a map marker
func (a *Alumni) Initials() string {
	var b strings.Builder
	for _, name := range []string{a.FirstName, a.LastName} {
		if name != "" {
			b.WriteString(strings.ToUpper(string([]rune(name)[:1])))
		}
	}
	return b.String()
}

// Status is a human-readable account state
func (a *Alumni) Status() string {
	switch {
	case a.IsAdmin && a.IsApproved:
		return "admin"
	case a.IsAdmin:
		return "admin (pending approval)"
	case a.IsApproved:
		return "approved"
	default:
		return "pending approval"
	}
}

// LocationLabel resolves the display location and coordinates. An explicit
// location object wins, then the "city, country" pair.
func (a *Alumni) LocationLabel() (string, []float64) {
	coords := a.Coordinates
	label := ""
	if a.Location != nil {
		if len(a.Location.Coordinates) > 0 {
			coords = a.Location.Coordinates
		}
		label = a.Location.DisplayName
	}
	if label == "" {
		switch {
		case a.City != "" && a.Country != "":
			label = a.City + ", " + a.Country
		case a.City != "":
			label = a.City
		default:
			label = a.Country
		}
	}
	return label, coords
}

// Point returns the [lon, lat] pair used on the map and whether it is usable
func (a *Alumni) Point() (lon, lat float64, ok bool) {
	_, coords := a.LocationLabel()
	if len(coords) < 2 || coords[0] == 0 || coords[1] == 0 {
		return 0, 0, false
	}
	return coords[0], coords[1], true
}

// profileEnvelopes is the lookup order for the profile response shapes
var profileEnvelopes = []string{"alumni", "user"}

// updateEnvelopes additionally accepts the generic "data" wrapper
var updateEnvelopes = []string{"alumni", "user", "data"}

// ExtractAlumni normalizes a profile response. The record is taken from the
// "alumni" key, then the "user" key, then the bare payload.
func ExtractAlumni(raw []byte) (*Alumni, error) {
	return extract(raw, profileEnvelopes)
}

// ExtractUpdatedAlumni normalizes a profile update response, which may also
// wrap the record in "data".
func ExtractUpdatedAlumni(raw []byte) (*Alumni, error) {
	return extract(raw, updateEnvelopes)
}

func extract(raw []byte, envelopes []string) (*Alumni, error) {
	raw = bytes.TrimSpace(raw)
	if isEmptyJSON(raw) {
		return nil, ErrEmptyRecord
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	if len(fields) == 0 {
		return nil, ErrEmptyRecord
	}

	enveloped := false
	for _, key := range envelopes {
		v, ok := fields[key]
		if !ok {
			continue
		}
		enveloped = true
		if !isEmptyJSON(bytes.TrimSpace(v)) {
			return decodeRecord(v)
		}
	}

	// {"alumni": null} and friends carry no record
	if enveloped {
		return nil, ErrEmptyRecord
	}

	return decodeRecord(raw)
}

func decodeRecord(raw []byte) (*Alumni, error) {
	if isEmptyJSON(bytes.TrimSpace(raw)) {
		return nil, ErrEmptyRecord
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("failed to decode alumni record: %w", err)
	}
	if len(probe) == 0 {
		return nil, ErrEmptyRecord
	}
	var a Alumni
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("failed to decode alumni record: %w", err)
	}
	return &a, nil
}

func isEmptyJSON(raw []byte) bool {
	switch string(raw) {
	case "", "null", "{}", `""`, "false":
		return true
	}
	return false
}
