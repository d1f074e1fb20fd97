// Package app 两个入口共用的依赖装配
package app

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"discord-offices/internal/core/cache"
	"discord-offices/internal/core/config"
	"discord-offices/internal/core/database"
	"discord-offices/internal/domain"
	"discord-offices/internal/gateway/discord"
	"discord-offices/internal/identity"
	"discord-offices/internal/repo"
	"discord-offices/internal/service"
	"discord-offices/internal/session"
	"discord-offices/internal/transport/http/router"
)

type App struct {
	Cfg      *config.Config
	Log      *zap.Logger
	Store    domain.Store
	Redis    *redis.Client // 未配置时为 nil
	Sessions session.Store
	Users    *service.UserService
	Offices  *service.OfficeDirectory

	closers []func()
}

// New 按配置装配：db.driver=memory 不连数据库；redis.addr 为空用进程内会话；
// 没有 bot token 时不同步语音频道，管理员标记沿用库里的值
func New(ctx context.Context, cfg *config.Config, l *zap.Logger) (*App, error) {
	a := &App{Cfg: cfg, Log: l}

	store, err := a.openStore()
	if err != nil {
		return nil, err
	}
	a.Store = store

	ttl := time.Duration(cfg.Session.TTLHours) * time.Hour
	if cfg.Redis.Addr != "" {
		a.Redis = database.NewRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err := a.Redis.Ping(ctx).Err(); err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = a.Redis.Close() })
		a.Sessions = session.NewRedisStore(a.Redis, ttl)
		l.Info("redis connected", zap.String("addr", cfg.Redis.Addr))
	} else {
		a.Sessions = session.NewMemoryStore(ttl)
		l.Warn("redis not configured, sessions kept in process memory")
	}

	var (
		gateway domain.VoiceGateway
		roles   service.RoleChecker
	)
	if cfg.Discord.BotToken != "" {
		bot, err := discord.NewBotSession(cfg.Discord.BotToken)
		if err != nil {
			a.Close()
			return nil, err
		}
		gateway = discord.New(bot, cfg.Discord.GuildID)
		if cfg.Discord.AdminRoleID != "" {
			roles = identity.NewRoleChecker(
				identity.BotMembers(bot),
				cfg.Discord.GuildID,
				cfg.Discord.AdminRoleID,
				cache.New(a.Redis, cfg.App.Name+":"),
				time.Duration(cfg.Discord.RoleCacheSec)*time.Second,
			)
		}
	} else {
		l.Warn("discord bot token not configured, voice channel sync disabled")
	}

	a.Users = service.NewUserService(store, roles, l)
	a.Offices = service.NewOfficeDirectory(store, gateway, cfg.Discord.VoiceCategoryID, l)
	return a, nil
}

func (a *App) openStore() (domain.Store, error) {
	if a.Cfg.DB.Driver == "memory" {
		a.Log.Warn("using in-memory store, data is lost on restart")
		return repo.NewMemoryStore(), nil
	}
	db, err := database.NewGorm(database.Opts{
		Driver:             a.Cfg.DB.Driver,
		DSN:                a.Cfg.DB.DSN,
		Username:           a.Cfg.DB.Username,
		Password:           a.Cfg.DB.Password,
		MaxOpenConns:       a.Cfg.DB.MaxOpenConns,
		MaxIdleConns:       a.Cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: a.Cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           a.Cfg.DB.LogLevel,
		Logger:             a.Log,
	})
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	a.Log.Info("database connected", zap.String("driver", a.Cfg.DB.Driver))

	if a.Cfg.DB.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			a.Close()
			return nil, err
		}
		a.Log.Info("automigrate done")
	}
	return repo.NewGormStore(db), nil
}

// RouterOptions 两个引擎共用的中间件参数
func (a *App) RouterOptions() router.Options {
	return router.Options{
		Logger:       a.Log,
		Sessions:     a.Sessions,
		Users:        a.Users,
		CookieName:   a.Cfg.Session.CookieName,
		AllowOrigins: a.Cfg.App.HTTP.AllowOrigins,
		RPS:          a.Cfg.Limits.RPS,
		Burst:        a.Cfg.Limits.Burst,
		Concurrency:  a.Cfg.Limits.Concurrency,
	}
}

func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
