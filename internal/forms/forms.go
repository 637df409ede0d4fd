// Package forms validates and sanitizes user input before it is sent to the
// backend. Invalid input is reported per field and never leaves the client.
package forms

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/alumnet-dev/alumnet/internal/models"
)

// FieldErrors maps a form field to the message shown next to it
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e[f])
	}
	return strings.Join(parts, "; ")
}

// Login is the alumni and admin sign-in form
type Login struct {
	Email    string `form:"email" validate:"required,email" msg:"Valid email is required"`
	Password string `form:"password" validate:"required" msg:"Password is required"`
}

// Account is step one of registration
type Account struct {
	FirstName       string `form:"firstName" validate:"required" msg:"First name required"`
	LastName        string `form:"lastName" validate:"required" msg:"Last name required"`
	Email           string `form:"email" validate:"required,email" msg:"Valid email required"`
	Password        string `form:"password" validate:"required,min=6" msg:"Minimum 6 characters"`
	ConfirmPassword string `form:"confirmPassword" validate:"eqfield=Password" msg:"Passwords don't match"`
}

// Profile is step two of registration
type Profile struct {
	Phone          string    `form:"phone"`
	Department     string    `form:"department" validate:"required" msg:"Department required"`
	GraduationYear int       `form:"graduationYear" validate:"required,gte=1900,lte=2100" msg:"Graduation year required"`
	RollNumber     string    `form:"rollNumber"`
	CurrentCompany string    `form:"currentCompany"`
	JobTitle       string    `form:"jobTitle"`
	Country        string    `form:"country"`
	City           string    `form:"city"`
	FullAddress    string    `form:"fullAddress"`
	Coordinates    []float64 `form:"coordinates" validate:"lonlat" msg:"Please select a location from suggestions."`
	LinkedIn       string    `form:"linkedin" validate:"omitempty,url" msg:"Enter a full URL"`
}

// Registration is the complete two-step registration form
type Registration struct {
	Account
	Profile
}

// ForgotPassword is the first step of the password reset
type ForgotPassword struct {
	Email string `form:"email" validate:"required,email" msg:"Valid email is required"`
}

// OTP is the one-time code step of the password reset
type OTP struct {
	Email string `form:"email" validate:"required,email" msg:"Valid email is required"`
	Code  string `form:"otp" validate:"required,min=4" msg:"Enter the code from your email"`
}

// ResetPassword is the final step of the password reset
type ResetPassword struct {
	Password        string `form:"password" validate:"required,min=8" msg:"Password must be at least 8 characters."`
	ConfirmPassword string `form:"confirm" validate:"eqfield=Password" msg:"Passwords do not match."`
}

// ChangePassword is the signed-in password change form
type ChangePassword struct {
	CurrentPassword string `form:"currentPassword" validate:"required" msg:"Current password is required"`
	NewPassword     string `form:"newPassword" validate:"required,min=6,nefield=CurrentPassword" msg:"New password must be at least 6 characters and differ from the current one"`
	ConfirmPassword string `form:"confirmPassword" validate:"eqfield=NewPassword" msg:"Passwords don't match"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report fields by their form name
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("form"); name != "" {
			return name
		}
		return f.Name
	})

	// [lon, lat] inside the valid ranges
	_ = v.RegisterValidation("lonlat", func(fl validator.FieldLevel) bool {
		coords, ok := fl.Field().Interface().([]float64)
		if !ok || len(coords) != 2 {
			return false
		}
		return coords[0] >= -180 && coords[0] <= 180 && coords[1] >= -90 && coords[1] <= 90
	})

	return v
}

// Validate checks form (a pointer to one of the form structs) after trimming
// its string fields. Emails are lower-cased.
func Validate(form any) error {
	sanitize(reflect.ValueOf(form))

	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate form: %w", err)
	}

	root := reflect.TypeOf(form)
	if root.Kind() == reflect.Pointer {
		root = root.Elem()
	}

	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		out[fe.Field()] = messageFor(root, fe)
	}
	return out
}

func messageFor(root reflect.Type, fe validator.FieldError) string {
	if f, ok := root.FieldByName(fe.StructField()); ok {
		if msg := f.Tag.Get("msg"); msg != "" {
			return msg
		}
	}
	return fmt.Sprintf("failed %s validation", fe.Tag())
}

func sanitize(v reflect.Value) {
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return
	}

	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		if !field.CanSet() {
			continue
		}
		switch field.Kind() {
		case reflect.Struct:
			sanitize(field.Addr())
		case reflect.String:
			if strings.Contains(strings.ToLower(t.Field(i).Name), "password") {
				continue
			}
			s := strings.TrimSpace(field.String())
			if t.Field(i).Tag.Get("form") == "email" {
				s = strings.ToLower(s)
			}
			field.SetString(s)
		}
	}
}

// Request builds the registration payload. Call Validate first.
func (r *Registration) Request() models.RegisterRequest {
	return models.RegisterRequest{
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		Email:          r.Email,
		Password:       r.Account.Password,
		Phone:          r.Phone,
		Department:     r.Department,
		GraduationYear: r.GraduationYear,
		RollNumber:     r.RollNumber,
		CurrentCompany: r.CurrentCompany,
		JobTitle:       r.JobTitle,
		Country:        r.Country,
		City:           r.City,
		FullAddress:    r.FullAddress,
		Coordinates:    append([]float64(nil), r.Coordinates...),
		LinkedIn:       r.LinkedIn,
	}
}

// ParseCoordinates reads a "lon,lat" pair
func ParseCoordinates(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return nil, fmt.Errorf("coordinates must be \"lon,lat\", got %q", s)
	}

	coords := make([]float64, 2)
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid coordinate %q: %w", p, err)
		}
		coords[i] = f
	}
	return coords, nil
}

// FormatCoordinates is the inverse of ParseCoordinates
func FormatCoordinates(coords []float64) string {
	if len(coords) < 2 {
		return ""
	}
	return strconv.FormatFloat(coords[0], 'f', -1, 64) + "," + strconv.FormatFloat(coords[1], 'f', -1, 64)
}
