package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"discord-offices/internal/core/auth"
	"discord-offices/internal/domain"
	"discord-offices/internal/service"
	"discord-offices/internal/session"
	httpez "discord-offices/internal/transport/http/ez"
	mdw "discord-offices/internal/transport/http/middleware"
)

// IdentityProvider OAuth 授权码登录
type IdentityProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*service.Profile, error)
}

type CookieOptions struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

type AuthHandler struct {
	idp      IdentityProvider
	states   *auth.JWTer
	users    *service.UserService
	offices  *service.OfficeDirectory
	sessions session.Store
	cookie   CookieOptions
	log      *zap.Logger
}

func NewAuthHandler(
	idp IdentityProvider,
	states *auth.JWTer,
	users *service.UserService,
	offices *service.OfficeDirectory,
	sessions session.Store,
	cookie CookieOptions,
	l *zap.Logger,
) *AuthHandler {
	if l == nil {
		l = zap.NewNop()
	}
	if cookie.Name == "" {
		cookie.Name = "session_id"
	}
	return &AuthHandler{
		idp: idp, states: states, users: users, offices: offices,
		sessions: sessions, cookie: cookie, log: l.Named("auth"),
	}
}

// Priority 登录接口先挂
func (h *AuthHandler) Priority() int { return 10 }

type loginIn struct {
	ReturnTo string `form:"returnTo" binding:"omitempty,max=512"`
}

type loginOut struct {
	URL string `json:"url"`
}

type callbackIn struct {
	Code  string `json:"code"  binding:"required"`
	State string `json:"state" binding:"required"`
}

type callbackOut struct {
	User     *domain.User `json:"user"`
	ReturnTo string       `json:"returnTo,omitempty"`
}

type meOut struct {
	User   *domain.User       `json:"user"`
	Office *domain.OfficeView `json:"office"`
}

func (h *AuthHandler) MountPublic(g *gin.RouterGroup) {
	ez := httpez.New(g, h.log)

	httpez.RegisterAction(ez, httpez.Action[loginIn, loginOut]{
		Method: http.MethodGet,
		Path:   "/auth/login",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *loginIn) (loginOut, error) {
			state, err := h.states.IssueState(in.ReturnTo)
			if err != nil {
				return loginOut{}, httpez.Internal("issue state failed", err)
			}
			return loginOut{URL: h.idp.AuthCodeURL(state)}, nil
		},
	})

	httpez.RegisterAction(ez, httpez.Action[callbackIn, callbackOut]{
		Method:  http.MethodPost,
		Path:    "/auth/callback",
		Binder:  httpez.BindJSON,
		Handler: h.callback,
	})
}

func (h *AuthHandler) MountAPI(g *gin.RouterGroup) {
	ez := httpez.New(g, h.log)

	httpez.RegisterAction(ez, httpez.Action[struct{}, gin.H]{
		Method: http.MethodPost,
		Path:   "/auth/logout",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			if sid := c.GetString(mdw.KeySessionID); sid != "" {
				if err := h.sessions.Delete(c.Request.Context(), sid); err != nil {
					return nil, httpez.Internal("delete session failed", err)
				}
			}
			h.setCookie(c, "", -1)
			return gin.H{}, nil
		},
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, meOut]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (meOut, error) {
			u := mdw.CurrentUser(c)
			office, err := h.offices.GetUserOffice(c.Request.Context(), u.ID)
			if err != nil {
				return meOut{}, err
			}
			return meOut{User: u, Office: office}, nil
		},
	})
}

func (h *AuthHandler) callback(c *gin.Context, in *callbackIn) (callbackOut, error) {
	claims, err := h.states.ParseState(in.State)
	if err != nil {
		return callbackOut{}, httpez.BadRequest("invalid or expired state")
	}
	profile, err := h.idp.Exchange(c.Request.Context(), in.Code)
	if err != nil {
		h.log.Warn("code exchange failed", zap.Error(err))
		return callbackOut{}, httpez.Unauthorized("discord login failed")
	}
	u, err := h.users.SyncFromIdentity(c.Request.Context(), *profile)
	if err != nil {
		return callbackOut{}, err
	}
	sid, err := h.sessions.Create(c.Request.Context(), session.Session{UserID: u.ID, CreatedAt: time.Now()})
	if err != nil {
		return callbackOut{}, httpez.Internal("create session failed", err)
	}
	h.setCookie(c, sid, int(h.cookie.TTL.Seconds()))
	h.log.Info("user logged in", zap.String("user_id", u.ID))
	return callbackOut{User: u, ReturnTo: claims.ReturnTo}, nil
}

func (h *AuthHandler) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, value, maxAge, "/", "", h.cookie.Secure, true)
}
