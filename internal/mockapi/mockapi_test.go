package mockapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/alumnet-dev/alumnet/internal/client"
	"github.com/alumnet-dev/alumnet/internal/config"
	"github.com/alumnet-dev/alumnet/internal/models"
)

const (
	adminEmail    = "admin@alumnet.test"
	adminPassword = "admin-password"
)

func testConfig() config.MockAPIConfig {
	return config.MockAPIConfig{
		JWTSecret:      "test-secret",
		TokenTTL:       time.Hour,
		AdminEmail:     adminEmail,
		AdminPassword:  adminPassword,
		AllowedOrigins: []string{"http://localhost:5173"},
	}
}

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	s, err := New(testConfig(), zerolog.Nop())
	require.NoError(t, err)

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts.URL + "/api"
}

func newClient(t *testing.T, baseURL string) *client.Client {
	t.Helper()
	c, err := client.New(baseURL)
	require.NoError(t, err)
	return c
}

func registration(email string) models.RegisterRequest {
	return models.RegisterRequest{
		FirstName:      "Ada",
		LastName:       "Lovelace",
		Email:          email,
		Password:       "secret123",
		Department:     "Computer Science",
		GraduationYear: 2015,
		Country:        "UK",
		City:           "London",
		Coordinates:    []float64{-0.12, 51.5},
	}
}

func TestNewRequiresSecret(t *testing.T) {
	cfg := testConfig()
	cfg.JWTSecret = ""
	_, err := New(cfg, zerolog.Nop())
	require.Error(t, err)
}

func TestTokens(t *testing.T) {
	tokens, err := NewTokens("secret", time.Minute)
	require.NoError(t, err)

	token, err := tokens.Generate("id-1", "ada@example.com", true)
	require.NoError(t, err)

	claims, err := tokens.Validate(token)
	require.NoError(t, err)
	require.Equal(t, "id-1", claims.AlumniID)
	require.True(t, claims.IsAdmin)

	other, _ := NewTokens("other", time.Minute)
	_, err = other.Validate(token)
	require.Error(t, err)

	tokens.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = tokens.Validate(token)
	require.Error(t, err, "expired token")
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "alumnet-api")
}

func TestRegisterSetsSession(t *testing.T) {
	_, url := newTestServer(t)
	c := newClient(t, url)
	ctx := context.Background()

	resp, err := c.Register(ctx, registration("Ada@Example.com"))
	require.NoError(t, err)
	require.Equal(t, "ada@example.com", resp.Alumni.Email)
	require.False(t, resp.Alumni.IsApproved)
	require.NotEmpty(t, resp.Alumni.ID)

	profile, err := c.Profile(ctx)
	require.NoError(t, err)
	require.Equal(t, resp.Alumni.ID, profile.ID)

	_, err = newClient(t, url).Register(ctx, registration("ada@example.com"))
	require.Equal(t, "Email already registered", client.Message(err, ""))
}

func TestRegisterValidation(t *testing.T) {
	_, url := newTestServer(t)
	c := newClient(t, url)

	req := registration("ada@example.com")
	req.Coordinates = []float64{1}
	_, err := c.Register(context.Background(), req)
	require.Equal(t, http.StatusBadRequest, client.StatusCode(err))

	req = registration("not-an-email")
	_, err = c.Register(context.Background(), req)
	require.Equal(t, http.StatusBadRequest, client.StatusCode(err))
}

func TestLoginAndLogout(t *testing.T) {
	_, url := newTestServer(t)
	c := newClient(t, url)
	ctx := context.Background()

	_, err := c.Login(ctx, adminEmail, "wrong")
	require.True(t, client.IsUnauthorized(err))
	require.Equal(t, "Invalid email or password", client.Message(err, ""))

	resp, err := c.Login(ctx, adminEmail, adminPassword)
	require.NoError(t, err)
	require.True(t, resp.Alumni.IsAdmin)

	_, err = c.Profile(ctx)
	require.NoError(t, err)

	require.NoError(t, c.Logout(ctx))
	_, err = c.Profile(ctx)
	require.True(t, client.IsUnauthorized(err))
}

func TestProfileWithoutCookie(t *testing.T) {
	_, url := newTestServer(t)
	_, err := newClient(t, url).Profile(context.Background())
	require.True(t, client.IsUnauthorized(err))
	require.Equal(t, "Not authenticated", client.Message(err, ""))
}

func TestDirectoryRequiresApproval(t *testing.T) {
	_, url := newTestServer(t)
	ctx := context.Background()

	pending := newClient(t, url)
	resp, err := pending.Register(ctx, registration("ada@example.com"))
	require.NoError(t, err)

	_, err = pending.ListAlumni(ctx)
	require.True(t, client.IsForbidden(err))

	_, err = pending.PendingAlumni(ctx)
	require.True(t, client.IsForbidden(err))

	admin := newClient(t, url)
	_, err = admin.Login(ctx, adminEmail, adminPassword)
	require.NoError(t, err)

	queue, err := admin.PendingAlumni(ctx)
	require.NoError(t, err)
	require.Len(t, queue, 1)
	require.Equal(t, resp.Alumni.ID, queue[0].ID)

	approved, err := admin.ApproveAlumni(ctx, resp.Alumni.ID)
	require.NoError(t, err)
	require.True(t, approved.IsApproved)

	list, err := pending.ListAlumni(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	data, err := pending.MapData(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, data.Stats.TotalAlumni, "admin has no coordinates")
	require.Equal(t, 1, data.Stats.CountriesRepresented)
	require.Equal(t, 1, data.Stats.CitiesRepresented)

	_, err = admin.ApproveAlumni(ctx, "missing")
	require.Equal(t, http.StatusNotFound, client.StatusCode(err))
}

func TestUpdateProfile(t *testing.T) {
	_, url := newTestServer(t)
	ctx := context.Background()

	ada := newClient(t, url)
	resp, err := ada.Register(ctx, registration("ada@example.com"))
	require.NoError(t, err)

	title := "  Engineer "
	updated, err := ada.UpdateProfile(ctx, resp.Alumni.ID, models.ProfileUpdate{JobTitle: &title})
	require.NoError(t, err)
	require.Equal(t, "Engineer", updated.JobTitle)
	require.Equal(t, "London", updated.City)

	grace := newClient(t, url)
	_, err = grace.Register(ctx, registration("grace@example.com"))
	require.NoError(t, err)

	_, err = grace.UpdateProfile(ctx, resp.Alumni.ID, models.ProfileUpdate{JobTitle: &title})
	require.True(t, client.IsForbidden(err))
}

func TestChangePassword(t *testing.T) {
	_, url := newTestServer(t)
	c := newClient(t, url)
	ctx := context.Background()

	_, err := c.Register(ctx, registration("ada@example.com"))
	require.NoError(t, err)

	err = c.ChangePassword(ctx, "wrong", "newsecret")
	require.Equal(t, "Current password is incorrect", client.Message(err, ""))

	require.NoError(t, c.ChangePassword(ctx, "secret123", "newsecret"))

	_, err = newClient(t, url).Login(ctx, "ada@example.com", "newsecret")
	require.NoError(t, err)
}

func TestPasswordReset(t *testing.T) {
	s, url := newTestServer(t)
	c := newClient(t, url)
	ctx := context.Background()

	_, err := c.ForgotPassword(ctx, "nobody@example.com")
	require.Equal(t, http.StatusNotFound, client.StatusCode(err))

	_, err = c.ForgotPassword(ctx, adminEmail)
	require.NoError(t, err)

	code, ok := s.Store().PendingOTP(adminEmail)
	require.True(t, ok)
	require.Len(t, code, 6)

	// reset before verification is rejected
	_, err = c.ResetPassword(ctx, adminEmail, code, "brand-new-pass")
	require.Equal(t, http.StatusBadRequest, client.StatusCode(err))

	_, err = c.VerifyOTP(ctx, adminEmail, "not-it")
	require.Equal(t, "Invalid or expired OTP", client.Message(err, ""))

	_, err = c.VerifyOTP(ctx, adminEmail, code)
	require.NoError(t, err)

	_, err = c.ResetPassword(ctx, adminEmail, code, "short")
	require.Equal(t, http.StatusBadRequest, client.StatusCode(err))

	_, err = c.ResetPassword(ctx, adminEmail, code, "brand-new-pass")
	require.NoError(t, err)

	_, ok = s.Store().PendingOTP(adminEmail)
	require.False(t, ok, "code is consumed")

	_, err = c.Login(ctx, adminEmail, "brand-new-pass")
	require.NoError(t, err)
}

func TestOTPExpires(t *testing.T) {
	store := NewStore()
	_, err := store.Create(models.Alumni{Email: "ada@example.com"}, "secret123")
	require.NoError(t, err)

	code, err := store.IssueOTP("ada@example.com")
	require.NoError(t, err)

	store.now = func() time.Time { return time.Now().Add(otpTTL + time.Minute) }
	require.ErrorIs(t, store.VerifyOTP("ada@example.com", code), ErrInvalidOTP)
	require.ErrorIs(t, store.VerifyOTP("grace@example.com", code), ErrOTPNotIssued)
}

func TestCORSAllowsCredentials(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/auth/profile", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	require.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORSDefaultsWithoutOrigins(t *testing.T) {
	cfg := testConfig()
	cfg.AllowedOrigins = nil
	s, err := New(cfg, zerolog.Nop())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodOptions, "/api/auth/profile", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	require.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestNewRejectsBadOrigin(t *testing.T) {
	cfg := testConfig()
	cfg.AllowedOrigins = []string{"localhost:5173"}
	_, err := New(cfg, zerolog.Nop())
	require.ErrorContains(t, err, "invalid CORS settings")
}

func TestStartStopsOnCancel(t *testing.T) {
	cfg := testConfig()
	cfg.Addr = "127.0.0.1:0"
	s, err := New(cfg, zerolog.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(15 * time.Second):
		t.Fatal("server did not stop")
	}
}
