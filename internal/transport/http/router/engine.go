package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"discord-offices/internal/session"
	mdw "discord-offices/internal/transport/http/middleware"
)

type Users interface {
	mdw.UserLoader
	mdw.AdminRefresher
}

type Options struct {
	Logger       *zap.Logger
	Sessions     session.Store
	Users        Users
	CookieName   string
	AllowOrigins []string
	RPS          float64
	Burst        int
	Concurrency  int64
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.CookieName == "" {
		o.CookieName = "session_id"
	}
	if o.RPS <= 0 {
		o.RPS = 200
	}
	if o.Burst <= 0 {
		o.Burst = 400
	}
	if o.Concurrency <= 0 {
		o.Concurrency = 300
	}
	return o
}

func baseEngine(o Options, perIP bool) *gin.Engine {
	r := gin.New()
	limiter := mdw.RateLimit(rate.Limit(o.RPS), o.Burst)
	if perIP {
		limiter = mdw.RateLimitPerIP(rate.Limit(o.RPS), o.Burst)
	}
	r.Use(
		mdw.RequestID(),
		limiter,
		mdw.ConcurrencyLimit(o.Concurrency, 2*time.Second),
		mdw.MaxBodyBytes(1<<20),
		mdw.Timeout(10*time.Second, o.Logger),
		mdw.Recovery(o.Logger),
		mdw.Metrics(),
		mdw.AccessLog(o.Logger),
	)
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", mdw.MetricsHandler())
	return r
}

// NewAPIEngine 用户端：/api/v1
func NewAPIEngine(o Options, reg *Registry) *gin.Engine {
	o = o.withDefaults()
	r := baseEngine(o, true)
	if len(o.AllowOrigins) > 0 {
		cc := cors.DefaultConfig()
		cc.AllowOrigins = o.AllowOrigins
		cc.AllowCredentials = true
		cc.AllowMethods = append(cc.AllowMethods, http.MethodPatch)
		r.Use(cors.New(cc))
	}

	api := r.Group("/api/v1")
	reg.MountPublic(api)

	authed := api.Group("")
	authed.Use(mdw.RequireSession(o.Sessions, o.Users, o.CookieName, o.Logger))
	reg.MountAPI(authed)
	return r
}

// NewAdminEngine 管理端：/admin/v1，统一要求管理员角色
func NewAdminEngine(o Options, reg *Registry) *gin.Engine {
	o = o.withDefaults()
	r := baseEngine(o, false)

	admin := r.Group("/admin/v1")
	admin.Use(
		mdw.RequireSession(o.Sessions, o.Users, o.CookieName, o.Logger),
		mdw.RequireAdmin(o.Users, o.Logger),
	)
	reg.MountAdmin(admin)
	return r
}
