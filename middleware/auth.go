package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/fooddrop/delivery-api/config"
	"github.com/fooddrop/delivery-api/models"
)

const principalKey = "principal"

// Principal is the authenticated caller, resolved once from the Bearer
// token at the boundary and passed into every operation that needs
// actor or ownership checks.
type Principal struct {
	ID   uint
	Role string // customer, admin, manager, driver
	Name string
}

// IsStaff reports whether the principal may use back-office endpoints.
func (p Principal) IsStaff() bool {
	return p.Role == "admin" || p.Role == "manager"
}

// ActorKind returns the actor kind recorded in order history entries.
func (p Principal) ActorKind() string {
	if p.Role == "driver" {
		return models.ActorDriver
	}
	return models.ActorUser
}

type tokenClaims struct {
	ID   uint   `json:"id"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// SignToken issues an HS256 JWT for the given identity.
func SignToken(cfg *config.Config, id uint, role string) (string, error) {
	if cfg.JWTSecret == "" {
		return "", errors.New("jwt secret is empty")
	}
	claims := tokenClaims{
		ID:   id,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(cfg.JWTExpire)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
}

func parseToken(tokenStr, secret string) (*tokenClaims, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	tok, err := jwt.ParseWithClaims(tokenStr, &tokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		if err == nil {
			err = errors.New("invalid token")
		}
		return nil, err
	}
	claims, ok := tok.Claims.(*tokenClaims)
	if !ok || claims.ID == 0 {
		return nil, errors.New("invalid claims")
	}
	return claims, nil
}

// RequireAuth validates the Bearer token, loads the user or driver
// record behind it and stores a Principal in the gin context.
func RequireAuth(cfg *config.Config, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			abortUnauthorized(c, "Authentication required")
			return
		}

		claims, err := parseToken(strings.TrimPrefix(header, "Bearer "), cfg.JWTSecret)
		if err != nil {
			abortUnauthorized(c, "Invalid token")
			return
		}

		var principal Principal
		if claims.Role == "driver" {
			var driver models.Driver
			if err := db.First(&driver, claims.ID).Error; err != nil {
				abortUnauthorized(c, "Account not found")
				return
			}
			principal = Principal{ID: driver.ID, Role: "driver", Name: driver.Name}
		} else {
			var user models.User
			if err := db.First(&user, claims.ID).Error; err != nil {
				abortUnauthorized(c, "Account not found")
				return
			}
			principal = Principal{ID: user.ID, Role: user.Role, Name: user.Name}
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// RequireRoles aborts with 403 unless the principal's role is listed.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		if !ok {
			abortUnauthorized(c, "Authentication required")
			return
		}
		for _, role := range roles {
			if principal.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"success": false,
			"message": "You do not have permission to access this resource",
		})
	}
}

// GetPrincipal extracts the authenticated principal from the gin context.
func GetPrincipal(c *gin.Context) (Principal, bool) {
	value, exists := c.Get(principalKey)
	if !exists {
		return Principal{}, false
	}
	principal, ok := value.(Principal)
	return principal, ok
}

// SetPrincipal stores a principal in the gin context. Exposed for tests.
func SetPrincipal(c *gin.Context, p Principal) {
	c.Set(principalKey, p)
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"message": message,
	})
}
