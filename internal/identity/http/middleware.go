package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/cipherapi/cipherapi/internal/errors"
	"github.com/cipherapi/cipherapi/internal/httputil"
	identityDomain "github.com/cipherapi/cipherapi/internal/identity/domain"
)

// AuthenticationMiddleware verifies the Bearer JWT and attaches the identity
// to the request context.
//
// The middleware:
//  1. Extracts the Bearer token from the Authorization header (case-insensitive)
//  2. Verifies the HS256 signature and standard time claims
//  3. Builds the immutable Identity from the verified claim set ("sub" must be a UUID)
//  4. Stores the identity in the request context for handlers and the
//     identity-scoped transaction manager
//
// Audience validation is intentionally disabled: tokens are issued by an
// external identity provider whose audience values vary per deployment.
//
// Any failure returns 401 Unauthorized before protected logic runs.
func AuthenticationMiddleware(jwtSecret string, logger *slog.Logger) gin.HandlerFunc {
	secret := []byte(jwtSecret)

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Debug("authentication failed: missing authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		// Parse Bearer token (case-insensitive)
		const bearerPrefix = "bearer "
		if len(authHeader) < len(bearerPrefix) ||
			!strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
			logger.Debug("authentication failed: malformed authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		tokenString := authHeader[len(bearerPrefix):]
		if tokenString == "" {
			logger.Debug("authentication failed: empty bearer token")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		claims := jwt.MapClaims{}
		_, err := jwt.ParseWithClaims(
			tokenString,
			claims,
			func(token *jwt.Token) (any, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, apperrors.Wrap(apperrors.ErrUnauthorized, "unexpected signing method")
				}
				return secret, nil
			},
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		)
		if err != nil {
			logger.Debug("authentication failed: token verification",
				slog.String("error", err.Error()))
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		identity, err := identityDomain.NewIdentity(claims)
		if err != nil {
			logger.Debug("authentication failed: invalid claims",
				slog.String("error", err.Error()))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		ctx := WithIdentity(c.Request.Context(), identity)
		c.Request = c.Request.WithContext(ctx)

		logger.Debug("authentication successful",
			slog.String("subject", identity.Subject.String()))

		c.Next()
	}
}
