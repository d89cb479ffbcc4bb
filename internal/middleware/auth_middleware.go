package middleware

import (
	"errors"
	"fmt"
	autherrors "go-timeclock/internal/auth/errors"
	"go-timeclock/internal/shared/apperror"
	"go-timeclock/internal/shared/contextutil"
	"go-timeclock/internal/shared/response"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// Token claim names shared by the issuer and this middleware.
const (
	ClaimSubject    = "sub"
	ClaimCompanyID  = "company_id"
	ClaimEmployeeID = "employee_id"
	ClaimRole       = "role"
	ClaimName       = "name"
)

const AccessTokenCookie = "access_token"

func abortWith(c *gin.Context, err *apperror.AppError) {
	response.Error(c, err.HTTPStatus, err.Code, err.Message, nil)
	c.Abort()
}

// AuthMiddleware validates the HS256 bearer token (or access_token cookie)
// and copies the identity claims into the gin context.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !found {
			tokenString = ""
		}
		if tokenString == "" {
			if cookie, err := c.Cookie(AccessTokenCookie); err == nil {
				tokenString = cookie
			}
		}
		if tokenString == "" {
			abortWith(c, autherrors.ErrTokenMissing)
			return
		}

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			if errors.Is(err, jwt.ErrTokenExpired) {
				abortWith(c, autherrors.ErrTokenExpired)
				return
			}
			abortWith(c, autherrors.ErrInvalidToken)
			return
		}

		subject, _ := claims[ClaimSubject].(string)
		companyID, _ := claims[ClaimCompanyID].(string)
		role, _ := claims[ClaimRole].(string)
		if subject == "" || companyID == "" || role == "" {
			abortWith(c, autherrors.ErrInvalidToken)
			return
		}
		employeeID, _ := claims[ClaimEmployeeID].(string)
		name, _ := claims[ClaimName].(string)

		c.Set("user_id", subject)
		c.Set("company_id", companyID)
		c.Set("employee_id", employeeID)
		c.Set("role", role)
		c.Set("name", name)

		ctx := contextutil.WithUserID(c.Request.Context(), subject)
		reqLogger := contextutil.GetLogger(ctx, nil).With(zap.String("user_id", subject))
		ctx = contextutil.WithLogger(ctx, reqLogger)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
