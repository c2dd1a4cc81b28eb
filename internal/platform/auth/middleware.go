package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"LARS-backend/internal/platform/apperr"
)

const CtxUserIDKey = "user_id"

// RequireAuth: Authorization: Bearer <token> を検証して context に sub を詰める。
// roleのclaimはここでは見ない（storeが正）。
func RequireAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apperr.Body(apperr.CodeUnauthorized, "missing Authorization header"))
			return
		}

		parts := strings.SplitN(h, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apperr.Body(apperr.CodeUnauthorized, "invalid Authorization header"))
			return
		}

		tokenStr := strings.TrimSpace(parts[1])
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apperr.Body(apperr.CodeUnauthorized, "empty token"))
			return
		}

		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
			// alg 固定（none攻撃とか回避）
			if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || token == nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apperr.Body(apperr.CodeUnauthorized, "invalid token"))
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apperr.Body(apperr.CodeUnauthorized, "invalid claims"))
			return
		}

		subAny, ok := claims["sub"]
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apperr.Body(apperr.CodeUnauthorized, "missing sub"))
			return
		}
		sub, ok := subAny.(string)
		if !ok || sub == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apperr.Body(apperr.CodeUnauthorized, "invalid sub"))
			return
		}

		c.Set(CtxUserIDKey, sub)
		c.Next()
	}
}

// RequireRole: 許可するroleを限定する。roleはトークンではなくstoreから引き直す。
// 先に RequireAuth を通しておくこと。
func RequireRole(svc *Service, roles ...string) gin.HandlerFunc {
	roleSet := make(map[string]struct{})
	for _, r := range roles {
		if r == "" {
			continue
		}
		roleSet[r] = struct{}{}
	}

	return func(c *gin.Context) {
		sub := c.GetString(CtxUserIDKey)
		if sub == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apperr.Body(apperr.CodeUnauthorized, "missing identity"))
			return
		}

		role, err := svc.RoleFor(c.Request.Context(), sub)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, apperr.From(err))
			return
		}
		if role == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, apperr.Body(apperr.CodeForbidden, "account not found or disabled"))
			return
		}

		if _, allowed := roleSet[role]; !allowed {
			c.AbortWithStatusJSON(http.StatusForbidden, apperr.Body(apperr.CodeForbidden, "forbidden"))
			return
		}

		c.Next()
	}
}
