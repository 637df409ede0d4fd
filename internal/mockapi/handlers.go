package mockapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/alumnet-dev/alumnet/internal/models"
)

// RegisterRequest represents a registration request
type RegisterRequest struct {
	FirstName      string    `json:"firstName" binding:"required"`
	LastName       string    `json:"lastName" binding:"required"`
	Email          string    `json:"email" binding:"required,email"`
	Password       string    `json:"password" binding:"required,min=6"`
	Phone          string    `json:"phone"`
	Department     string    `json:"department" binding:"required"`
	GraduationYear int       `json:"graduationYear" binding:"required,gte=1900,lte=2100"`
	RollNumber     string    `json:"rollNumber"`
	CurrentCompany string    `json:"currentCompany"`
	JobTitle       string    `json:"jobTitle"`
	Country        string    `json:"country"`
	City           string    `json:"city"`
	FullAddress    string    `json:"fullAddress"`
	Coordinates    []float64 `json:"coordinates" validate:"lonlat"`
	LinkedIn       string    `json:"linkedin" binding:"omitempty,url"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ChangePasswordRequest represents a password change by a signed-in account
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

// OTPRequest covers the three steps of the password reset flow
type OTPRequest struct {
	Email       string `json:"email" binding:"required,email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}

func (s *Server) issueSession(c *gin.Context, alumni *models.Alumni) bool {
	token, err := s.tokens.Generate(alumni.ID, alumni.Email, alumni.IsAdmin)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to generate token")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to generate token"})
		return false
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, int(s.config.TokenTTL.Seconds()), "/", "", s.config.SecureCookie, true)
	return true
}

func (s *Server) register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if err := s.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Coordinates must be a [longitude, latitude] pair"})
		return
	}

	alumni, err := s.store.Create(models.Alumni{
		FirstName:      strings.TrimSpace(req.FirstName),
		LastName:       strings.TrimSpace(req.LastName),
		Email:          req.Email,
		Phone:          req.Phone,
		Department:     req.Department,
		GraduationYear: req.GraduationYear,
		RollNumber:     req.RollNumber,
		CurrentCompany: req.CurrentCompany,
		JobTitle:       req.JobTitle,
		Country:        req.Country,
		City:           req.City,
		FullAddress:    req.FullAddress,
		Coordinates:    req.Coordinates,
		LinkedIn:       req.LinkedIn,
	}, req.Password)
	if errors.Is(err, ErrEmailTaken) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email already registered"})
		return
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to create alumni")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create account"})
		return
	}

	if !s.issueSession(c, alumni) {
		return
	}

	s.logger.Info().Str("alumni_id", alumni.ID).Str("email", alumni.Email).Msg("Alumni registered")

	c.JSON(http.StatusCreated, models.RegisterResponse{
		Message: "Registration successful. Your account is pending approval.",
		Alumni:  alumni,
	})
}

func (s *Server) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	alumni, err := s.store.Authenticate(req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
		return
	}

	if !s.issueSession(c, alumni) {
		return
	}

	c.JSON(http.StatusOK, models.LoginResponse{Message: "Login successful", Alumni: alumni})
}

func (s *Server) logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", s.config.SecureCookie, true)
	c.JSON(http.StatusOK, models.MessageResponse{Success: true, Message: "Logged out"})
}

func (s *Server) profile(c *gin.Context) {
	alumni, _ := GetSession(c)
	c.JSON(http.StatusOK, gin.H{"alumni": alumni})
}

func (s *Server) changePassword(c *gin.Context) {
	alumni, _ := GetSession(c)

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	if err := s.store.CheckPassword(alumni.ID, req.CurrentPassword); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Current password is incorrect"})
		return
	}
	if err := s.store.SetPassword(alumni.ID, req.NewPassword); err != nil {
		s.logger.Error().Err(err).Msg("Failed to change password")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to change password"})
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Success: true, Message: "Password changed successfully"})
}

func (s *Server) forgotPassword(c *gin.Context) {
	var req OTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	code, err := s.store.IssueOTP(req.Email)
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "No account found with this email"})
		return
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to issue OTP")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to send OTP"})
		return
	}

	// No mail transport in development; the code goes to the log
	s.logger.Info().Str("email", req.Email).Str("otp", code).Msg("Password reset OTP issued")

	c.JSON(http.StatusOK, models.MessageResponse{Success: true, Message: "OTP sent to your email"})
}

func (s *Server) verifyOTP(c *gin.Context) {
	var req OTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	if err := s.store.VerifyOTP(req.Email, req.OTP); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid or expired OTP"})
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Success: true, Message: "OTP verified"})
}

func (s *Server) resetPassword(c *gin.Context) {
	var req OTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if len(req.NewPassword) < 8 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Password must be at least 8 characters"})
		return
	}

	if err := s.store.ResetPassword(req.Email, req.OTP, req.NewPassword); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid or expired OTP"})
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Success: true, Message: "Password reset successfully"})
}

func (s *Server) listAlumni(c *gin.Context) {
	alumni := s.store.List(func(a *models.Alumni) bool { return a.IsApproved })
	c.JSON(http.StatusOK, models.AlumniList{Alumni: alumni})
}

func (s *Server) mapData(c *gin.Context) {
	alumni := s.store.List(func(a *models.Alumni) bool {
		_, _, ok := a.Point()
		return a.IsApproved && ok
	})

	countries := make(map[string]struct{})
	cities := make(map[string]struct{})
	for _, a := range alumni {
		if a.Country != "" {
			countries[strings.ToLower(a.Country)] = struct{}{}
		}
		if a.City != "" {
			cities[strings.ToLower(a.City)] = struct{}{}
		}
	}

	c.JSON(http.StatusOK, models.MapResponse{Data: models.MapData{
		Alumni: alumni,
		Stats: models.MapStats{
			TotalAlumni:          len(alumni),
			CountriesRepresented: len(countries),
			CitiesRepresented:    len(cities),
		},
	}})
}

func (s *Server) updateAlumni(c *gin.Context) {
	session, _ := GetSession(c)
	id := c.Param("id")

	if session.ID != id && !session.IsAdmin {
		c.JSON(http.StatusForbidden, gin.H{"message": "You can only update your own profile"})
		return
	}

	var req models.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if req.Coordinates != nil && len(req.Coordinates) != 2 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Coordinates must be a [longitude, latitude] pair"})
		return
	}

	updated, err := s.store.Update(id, func(a *models.Alumni) { applyUpdate(a, req) })
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Alumni not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": updated})
}

func applyUpdate(a *models.Alumni, u models.ProfileUpdate) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&a.FirstName, u.FirstName)
	set(&a.LastName, u.LastName)
	set(&a.Phone, u.Phone)
	set(&a.Department, u.Department)
	set(&a.CurrentCompany, u.CurrentCompany)
	set(&a.JobTitle, u.JobTitle)
	set(&a.Country, u.Country)
	set(&a.City, u.City)
	set(&a.FullAddress, u.FullAddress)
	set(&a.LinkedIn, u.LinkedIn)
	if u.GraduationYear != nil {
		a.GraduationYear = *u.GraduationYear
	}
	if u.Coordinates != nil {
		a.Coordinates = append([]float64(nil), u.Coordinates...)
	}
	if u.Location != nil {
		a.Location = &models.Location{DisplayName: strings.TrimSpace(*u.Location), Coordinates: a.Coordinates}
	}
}

func (s *Server) listPending(c *gin.Context) {
	pending := s.store.List(func(a *models.Alumni) bool { return !a.IsApproved })
	c.JSON(http.StatusOK, models.AlumniList{Alumni: pending})
}

func (s *Server) approveAlumni(c *gin.Context) {
	admin, _ := GetSession(c)

	alumni, err := s.store.Update(c.Param("id"), func(a *models.Alumni) { a.IsApproved = true })
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Alumni not found"})
		return
	}

	s.logger.Info().Str("alumni_id", alumni.ID).Str("approved_by", admin.Email).Msg("Alumni approved")

	c.JSON(http.StatusOK, gin.H{"message": "Alumni approved", "alumni": alumni})
}
