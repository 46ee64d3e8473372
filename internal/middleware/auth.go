// Package middleware provides gin middlewares for request logging and
// teller authentication.
package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/go-teller/branch-bank/pkg/tokenpkg"
	"github.com/go-teller/branch-bank/pkg/web"
)

// Keys used to pass the bearer token and its verified payload.
const (
	AuthHeaderKey  = "authorization"
	AuthTypeBearer = "bearer"
	AuthPayloadKey = "authorization_payload"
)

var (
	// ErrAuthHeaderNotFound indicates a request without the authorization header.
	ErrAuthHeaderNotFound = errors.New("authorization header is not provided")
	// ErrBadAuthHeaderFormat indicates a malformed authorization header.
	ErrBadAuthHeaderFormat = errors.New("invalid authorization header format")
	// ErrUnsupportedAuthType indicates an authorization type other than bearer.
	ErrUnsupportedAuthType = errors.New("unsupported authorization type")
)

// AddAuthorization sets a bearer token header on the request.
func AddAuthorization(
	request *http.Request,
	tokenMaker tokenpkg.Maker,
	authType string,
	username string,
	duration time.Duration,
) error {
	accessToken, _, err := tokenMaker.CreateToken(username, duration)
	if err != nil {
		return err
	}

	authHeader := fmt.Sprintf("%s %s", authType, accessToken)
	request.Header.Set(AuthHeaderKey, authHeader)

	return nil
}

// AuthMiddleware verifies the bearer token and stores its payload in the
// gin context under AuthPayloadKey.
func AuthMiddleware(tokenMaker tokenpkg.Maker) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader(AuthHeaderKey)
		if len(authHeader) == 0 {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, web.Error(ErrAuthHeaderNotFound))

			return
		}

		fields := strings.Fields(authHeader)
		if len(fields) < 2 {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, web.Error(ErrBadAuthHeaderFormat))

			return
		}

		authType := strings.ToLower(fields[0])
		if authType != AuthTypeBearer {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, web.Error(ErrUnsupportedAuthType))

			return
		}

		accessToken := fields[1]

		payload, err := tokenMaker.VerifyToken(accessToken)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, web.Error(err))

			return
		}

		ctx.Set(AuthPayloadKey, payload)
		ctx.Next()
	}
}
