package api

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"kakeibo/internal/logging"
)

// localOwner is the fiber.Locals key holding the authenticated owner id.
const localOwner = "ownerID"

// IssueToken signs an HS256 token whose subject is ownerID.
func IssueToken(secret, ownerID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   ownerID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// parseToken validates raw and returns its subject.
func parseToken(secret, raw string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", errors.New("token has no subject")
	}
	return claims.Subject, nil
}

// AuthMiddleware requires a valid bearer token and stores its subject as
// the request owner.
func AuthMiddleware(secret string, logger logging.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Get(fiber.HeaderAuthorization)
		if token == "" {
			logger.Warn("Missing authorization token", logging.F("path", c.Path()))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "authorization token required",
			})
		}
		token = strings.TrimPrefix(token, "Bearer ")

		ownerID, err := parseToken(secret, token)
		if err != nil {
			logger.WithError(err).Warn("Invalid token", logging.F("path", c.Path()))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid or expired token",
			})
		}

		c.Locals(localOwner, ownerID)
		return c.Next()
	}
}

func ownerID(c *fiber.Ctx) (string, error) {
	id, ok := c.Locals(localOwner).(string)
	if !ok || id == "" {
		return "", fiber.ErrUnauthorized
	}
	return id, nil
}
