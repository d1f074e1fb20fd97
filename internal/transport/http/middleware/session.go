package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"discord-offices/internal/domain"
	"discord-offices/internal/session"
	resp "discord-offices/internal/transport/http/response"
)

const (
	KeyUser      = "user"
	KeySessionID = "session_id"
)

type UserLoader interface {
	Get(ctx context.Context, id string) (*domain.User, error)
}

type AdminRefresher interface {
	RefreshAdmin(ctx context.Context, userID string, fresh bool) (*domain.User, error)
}

// RequireSession cookie → 会话 → 用户，写入 c.Set(KeyUser)
func RequireSession(store session.Store, users UserLoader, cookieName string, l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(cookieName)
		if err != nil || sid == "" {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "missing session"))
			return
		}
		sess, err := store.Get(c.Request.Context(), sid)
		if err != nil {
			l.Error("load session failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeServerError, ""))
			return
		}
		if sess == nil {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "session expired"))
			return
		}
		u, err := users.Get(c.Request.Context(), sess.UserID)
		if err != nil {
			l.Error("load session user failed", zap.Error(err), zap.String("user_id", sess.UserID))
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeServerError, ""))
			return
		}
		if u == nil {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "unknown user"))
			return
		}
		c.Set(KeySessionID, sid)
		c.Set(KeyUser, u)
		c.Next()
	}
}

// RequireAdmin 每次请求重新确认管理员角色（角色查询本身有缓存）
func RequireAdmin(users AdminRefresher, l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := CurrentUser(c)
		if u == nil {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, ""))
			return
		}
		fresh, err := users.RefreshAdmin(c.Request.Context(), u.ID, false)
		if err != nil {
			l.Warn("admin recheck failed", zap.Error(err), zap.String("user_id", u.ID))
			fresh = u
		}
		if !fresh.IsAdmin {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeForbidden, "admin role required"))
			return
		}
		c.Set(KeyUser, fresh)
		c.Next()
	}
}

func CurrentUser(c *gin.Context) *domain.User {
	v, ok := c.Get(KeyUser)
	if !ok {
		return nil
	}
	u, _ := v.(*domain.User)
	return u
}
