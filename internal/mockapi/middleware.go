package mockapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/alumnet-dev/alumnet/internal/models"
)

// CookieName is the HttpOnly cookie carrying the session token
const CookieName = "token"

var (
	ErrMissingCookie = errors.New("missing session cookie")
	ErrInvalidToken  = errors.New("invalid token")
)

func setSession(c *gin.Context, alumni *models.Alumni) {
	c.Set("session", alumni)
}

// GetSession returns the account attached by SessionMiddleware
func GetSession(c *gin.Context) (*models.Alumni, bool) {
	session, exists := c.Get("session")
	if !exists {
		return nil, false
	}

	alumni, ok := session.(*models.Alumni)
	return alumni, ok
}

func respondWithError(c *gin.Context, log zerolog.Logger, statusCode int, err error, message string) {
	log.Warn().Err(err).Msg(message)
	c.JSON(statusCode, gin.H{"success": false, "message": message})
	c.Abort()
}

// SessionMiddleware validates the session cookie and loads the account
func SessionMiddleware(store *Store, tokens *Tokens, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(CookieName)
		if err != nil || token == "" {
			respondWithError(c, log, http.StatusUnauthorized, ErrMissingCookie, "Not authenticated")
			return
		}

		claims, err := tokens.Validate(token)
		if err != nil {
			log.Debug().Err(err).Msg("Failed to validate session token")
			respondWithError(c, log, http.StatusUnauthorized, ErrInvalidToken, "Invalid or expired session")
			return
		}

		// Account may have been removed since the token was issued
		alumni, err := store.Get(claims.AlumniID)
		if err != nil {
			respondWithError(c, log, http.StatusUnauthorized, err, "Account not found")
			return
		}

		setSession(c, alumni)
		c.Next()
	}
}

// AdminOnlyMiddleware ensures the authenticated account is an admin
func AdminOnlyMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		alumni, exists := GetSession(c)
		if !exists {
			respondWithError(c, log, http.StatusUnauthorized, errors.New("no session"), "Not authenticated")
			return
		}

		if !alumni.IsAdmin {
			respondWithError(c, log, http.StatusForbidden, errors.New("not admin"), "Admin access required")
			return
		}

		c.Next()
	}
}

// ApprovedOnlyMiddleware keeps pending accounts out of the directory
func ApprovedOnlyMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		alumni, exists := GetSession(c)
		if !exists {
			respondWithError(c, log, http.StatusUnauthorized, errors.New("no session"), "Not authenticated")
			return
		}

		if !alumni.IsApproved && !alumni.IsAdmin {
			respondWithError(c, log, http.StatusForbidden, errors.New("not approved"), "Your account is pending approval")
			return
		}

		c.Next()
	}
}
