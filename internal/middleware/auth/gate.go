package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/undersea/storefront/internal/logging"
	"github.com/undersea/storefront/internal/models"
	"github.com/undersea/storefront/internal/repo"
)

const userIDKey = "userID"

// Gate resolves the caller from the bearer credential and, for admin
// routes, checks the role stored in usuarios. The role is never taken
// from the token itself.
type Gate struct {
	Users     repo.UserRepository
	JWTSecret []byte
}

func NewGate(users repo.UserRepository, jwtSecret []byte) *Gate {
	return &Gate{Users: users, JWTSecret: jwtSecret}
}

// UserID returns the principal set by RequireUser / RequireAdmin.
func UserID(c echo.Context) (string, error) {
	id, ok := c.Get(userIDKey).(string)
	if !ok || id == "" {
		return "", errors.New("no user in context")
	}
	return id, nil
}

func (g *Gate) RequireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := g.resolve(c)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Unauthorized", "details": err.Error()})
		}
		c.Set(userIDKey, userID)
		return next(c)
	}
}

func (g *Gate) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := g.resolve(c)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Unauthorized", "details": err.Error()})
		}

		user, err := g.Users.FindByID(c.Request().Context(), userID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			// The role could not be established at all, so this stays
			// a 401 rather than a 403.
			logging.FromContext(c.Request().Context()).Warn("role_lookup_failed", "user_id", userID, "error", err)
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Unauthorized"})
		}
		// A subject with no profile row has no role, which is the same
		// refusal as having the wrong one.
		if user == nil || user.Role != models.RoleAdmin {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "Forbidden"})
		}

		c.Set(userIDKey, userID)
		return next(c)
	}
}

func (g *Gate) resolve(c echo.Context) (string, error) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	token := strings.TrimSpace(header)
	if after, ok := cutPrefixFold(token, "bearer "); ok {
		token = strings.TrimSpace(after)
	}
	if token == "" {
		return "", errors.New("Missing Bearer token")
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return g.JWTSecret, nil
	})
	if err != nil || !parsed.Valid {
		return "", errors.New("Invalid token")
	}
	if claims.Subject == "" {
		return "", errors.New("No user in session")
	}
	return claims.Subject, nil
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
		return s[len(prefix):], true
	}
	return s, false
}
