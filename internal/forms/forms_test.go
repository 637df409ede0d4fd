package forms

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func fieldErrors(t *testing.T, err error) FieldErrors {
	t.Helper()
	var fe FieldErrors
	require.ErrorAs(t, err, &fe)
	return fe
}

func TestLogin(t *testing.T) {
	require.NoError(t, Validate(&Login{Email: "ada@example.com", Password: "x"}))

	fe := fieldErrors(t, Validate(&Login{Email: "not-an-email"}))
	require.Equal(t, FieldErrors{
		"email":    "Valid email is required",
		"password": "Password is required",
	}, fe)
}

func TestLoginSanitizes(t *testing.T) {
	form := &Login{Email: "  Ada@Example.COM ", Password: " keep spaces "}
	require.NoError(t, Validate(form))
	require.Equal(t, "ada@example.com", form.Email)
	require.Equal(t, " keep spaces ", form.Password)
}

func TestAccount(t *testing.T) {
	fe := fieldErrors(t, Validate(&Account{
		FirstName:       "  ",
		LastName:        "Lovelace",
		Email:           "ada@example.com",
		Password:        "abc",
		ConfirmPassword: "abd",
	}))
	require.Equal(t, "First name required", fe["firstName"])
	require.Equal(t, "Minimum 6 characters", fe["password"])
	require.Equal(t, "Passwords don't match", fe["confirmPassword"])
	require.NotContains(t, fe, "lastName")
}

func TestProfile(t *testing.T) {
	fe := fieldErrors(t, Validate(&Profile{}))
	require.Equal(t, "Department required", fe["department"])
	require.Equal(t, "Graduation year required", fe["graduationYear"])
	require.Equal(t, "Please select a location from suggestions.", fe["coordinates"])

	fe = fieldErrors(t, Validate(&Profile{Department: "CSE", GraduationYear: 2015, Coordinates: []float64{200, 10}}))
	require.Contains(t, fe, "coordinates")

	require.NoError(t, Validate(&Profile{Department: "CSE", GraduationYear: 2015, Coordinates: []float64{73.85, 18.52}}))
}

func TestRegistrationRequest(t *testing.T) {
	form := &Registration{
		Account: Account{
			FirstName:       " Ada ",
			LastName:        "Lovelace ",
			Email:           " ADA@example.com",
			Password:        "secret1",
			ConfirmPassword: "secret1",
		},
		Profile: Profile{
			Department:     " Computer Science ",
			GraduationYear: 2012,
			City:           " London",
			Coordinates:    []float64{-0.12, 51.5},
			LinkedIn:       "https://linkedin.com/in/ada",
		},
	}
	require.NoError(t, Validate(form))

	req := form.Request()
	require.Equal(t, "Ada", req.FirstName)
	require.Equal(t, "Lovelace", req.LastName)
	require.Equal(t, "ada@example.com", req.Email)
	require.Equal(t, "secret1", req.Password)
	require.Equal(t, "Computer Science", req.Department)
	require.Equal(t, "London", req.City)
	require.Equal(t, []float64{-0.12, 51.5}, req.Coordinates)
}

func TestRegistrationReportsBothSteps(t *testing.T) {
	fe := fieldErrors(t, Validate(&Registration{}))
	require.Contains(t, fe, "email")
	require.Contains(t, fe, "department")
	require.Contains(t, fe, "coordinates")
}

func TestResetPassword(t *testing.T) {
	fe := fieldErrors(t, Validate(&ResetPassword{Password: "short", ConfirmPassword: "short"}))
	require.Equal(t, FieldErrors{"password": "Password must be at least 8 characters."}, fe)

	fe = fieldErrors(t, Validate(&ResetPassword{Password: "longenough", ConfirmPassword: "different"}))
	require.Equal(t, FieldErrors{"confirm": "Passwords do not match."}, fe)

	require.NoError(t, Validate(&ResetPassword{Password: "longenough", ConfirmPassword: "longenough"}))
}

func TestOTP(t *testing.T) {
	require.Contains(t, fieldErrors(t, Validate(&OTP{Email: "a@example.com", Code: "123"})), "otp")
	form := &OTP{Email: "a@example.com", Code: " 1234 "}
	require.NoError(t, Validate(form))
	require.Equal(t, "1234", form.Code)
}

func TestChangePassword(t *testing.T) {
	fe := fieldErrors(t, Validate(&ChangePassword{CurrentPassword: "same123", NewPassword: "same123", ConfirmPassword: "same123"}))
	require.Contains(t, fe, "newPassword")
	require.NoError(t, Validate(&ChangePassword{CurrentPassword: "old1234", NewPassword: "new1234", ConfirmPassword: "new1234"}))
}

func TestFieldErrorsString(t *testing.T) {
	err := FieldErrors{"password": "b", "email": "a"}
	require.Equal(t, "email: a; password: b", err.Error())
}

func TestCoordinates(t *testing.T) {
	coords, err := ParseCoordinates(" 73.85 , 18.52")
	require.NoError(t, err)
	require.Equal(t, []float64{73.85, 18.52}, coords)
	require.Equal(t, "73.85,18.52", FormatCoordinates(coords))

	_, err = ParseCoordinates("73.85")
	require.Error(t, err)
	_, err = ParseCoordinates("a,b")
	require.Error(t, err)
	require.Empty(t, FormatCoordinates(nil))
}
