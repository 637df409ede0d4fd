package models

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse represents the login response. The session itself travels
// in the Set-Cookie header, never in the body.
type LoginResponse struct {
	Message string  `json:"message,omitempty"`
	Alumni  *Alumni `json:"alumni"`
}

// RegisterRequest is the full profile payload sent on registration
type RegisterRequest struct {
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Email          string    `json:"email"`
	Password       string    `json:"password"`
	Phone          string    `json:"phone"`
	Department     string    `json:"department"`
	GraduationYear int       `json:"graduationYear"`
	RollNumber     string    `json:"rollNumber"`
	CurrentCompany string    `json:"currentCompany"`
	JobTitle       string    `json:"jobTitle"`
	Country        string    `json:"country"`
	City           string    `json:"city"`
	FullAddress    string    `json:"fullAddress"`
	Coordinates    []float64 `json:"coordinates"`
	LinkedIn       string    `json:"linkedin"`
}

// RegisterResponse represents the registration response
type RegisterResponse struct {
	Message string  `json:"message,omitempty"`
	Alumni  *Alumni `json:"alumni"`
}

// ProfileUpdate carries the editable profile fields. Nil fields are left
// untouched by the backend.
type ProfileUpdate struct {
	FirstName      *string   `json:"firstName,omitempty"`
	LastName       *string   `json:"lastName,omitempty"`
	Phone          *string   `json:"phone,omitempty"`
	Department     *string   `json:"department,omitempty"`
	GraduationYear *int      `json:"graduationYear,omitempty"`
	CurrentCompany *string   `json:"currentCompany,omitempty"`
	JobTitle       *string   `json:"jobTitle,omitempty"`
	Country        *string   `json:"country,omitempty"`
	City           *string   `json:"city,omitempty"`
	FullAddress    *string   `json:"fullAddress,omitempty"`
	Coordinates    []float64 `json:"coordinates,omitempty"`
	Location       *string   `json:"location,omitempty"`
	LinkedIn       *string   `json:"linkedin,omitempty"`
}

// ChangePasswordRequest represents the change password request body
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ForgotPasswordRequest triggers OTP dispatch
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// VerifyOTPRequest confirms a one-time code
type VerifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// ResetPasswordRequest sets a new password using a verified code
type ResetPasswordRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}

// MessageResponse is the generic acknowledgement body
type MessageResponse struct {
	Success bool   `json:"success,omitempty"`
	Message string `json:"message,omitempty"`
}

// AlumniList is the directory listing response
type AlumniList struct {
	Alumni []Alumni `json:"alumni"`
}

// MapStats summarizes the map data set
type MapStats struct {
	TotalAlumni          int `json:"totalAlumni"`
	CountriesRepresented int `json:"countriesRepresented"`
	CitiesRepresented    int `json:"citiesRepresented"`
}

// MapData is the payload of the map endpoint
type MapData struct {
	Alumni []Alumni `json:"alumni"`
	Stats  MapStats `json:"stats"`
}

// MapResponse wraps MapData in the backend's "data" envelope
type MapResponse struct {
	Data MapData `json:"data"`
}
