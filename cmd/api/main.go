package main

import (
	"context"
	"os"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"discord-offices/internal/app"
	"discord-offices/internal/core/auth"
	"discord-offices/internal/core/config"
	"discord-offices/internal/core/logger"
	"discord-offices/internal/core/server"
	"discord-offices/internal/identity"
	"discord-offices/internal/transport/http/handler"
	"discord-offices/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		panic(err)
	}
	log, cleanup := logger.New(logger.Options{
		Level:  cfg.Log.Level,
		JSON:   cfg.Log.JSON,
		Rotate: logger.FileRotate{Filename: cfg.Log.File, MaxSizeMB: 100, MaxBackups: 7, MaxAgeDays: 14, Compress: true},
	})
	defer cleanup()
	defer logger.RedirectStdLog(log, zapcore.InfoLevel)()
	gin.DefaultErrorWriter = logger.ToWriter(log, zapcore.ErrorLevel)

	ctx := context.Background()
	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal("bootstrap failed", zap.Error(err))
	}
	defer a.Close()

	// OAuth state
	states := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.StateTTLMin) * time.Minute,
	}
	idp := identity.NewProvider(cfg.Discord.ClientID, cfg.Discord.ClientSecret, cfg.Discord.RedirectURL)

	reg := router.NewRegistry(
		handler.NewAuthHandler(idp, states, a.Users, a.Offices, a.Sessions, handler.CookieOptions{
			Name:   cfg.Session.CookieName,
			TTL:    time.Duration(cfg.Session.TTLHours) * time.Hour,
			Secure: cfg.Session.Secure,
		}, log),
		handler.NewOfficeHandler(a.Offices, a.Users, log),
	)
	r := router.NewAPIEngine(a.RouterOptions(), reg)

	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	baseURL := server.BaseURL(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	log.Info("user api starting",
		zap.String("addr", addr),
		zap.String("health", baseURL+"/health"),
		zap.String("api_v1", baseURL+"/api/v1"),
	)
	if err := server.Run(ctx, srv, "user api", log); err != nil {
		log.Error("user api exited", zap.Error(err))
	}
}
