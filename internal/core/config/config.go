package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
	AllowOrigins    []string
}

type AdminHTTP struct {
	Host string
	Port int
}

type App struct {
	Name  string
	Env   string
	HTTP  HTTP
	Admin AdminHTTP
}

type Log struct {
	Level string
	JSON  bool
	File  string // 非空时写文件并切割
}

// JWT 仅用于签发 OAuth state
type JWT struct {
	Secret      string
	Issuer      string
	StateTTLMin int
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type DB struct {
	Driver             string // postgres | mysql | sqlite | memory
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

type Session struct {
	CookieName string
	TTLHours   int
	Secure     bool
}

type Discord struct {
	ClientID        string
	ClientSecret    string
	RedirectURL     string
	BotToken        string
	GuildID         string
	AdminRoleID     string
	VoiceCategoryID string
	RoleCacheSec    int
}

type Limits struct {
	RPS         float64
	Burst       int
	Concurrency int64
}

type Config struct {
	App     App
	Log     Log
	JWT     JWT
	DB      DB
	Redis   Redis `mapstructure:"redis"`
	Session Session
	Discord Discord
	Limits  Limits
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "discord-offices")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 8080)
	v.SetDefault("app.http.readtimeoutsec", 5)
	v.SetDefault("app.http.writetimeoutsec", 10)
	v.SetDefault("app.http.idletimeoutsec", 60)
	v.SetDefault("app.admin.host", "127.0.0.1")
	v.SetDefault("app.admin.port", 8081)
	v.SetDefault("log.level", "info")
	v.SetDefault("jwt.issuer", "discord-offices")
	v.SetDefault("jwt.statettlmin", 10)
	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.maxopenconns", 20)
	v.SetDefault("db.maxidleconns", 5)
	v.SetDefault("db.connmaxlifetimemin", 30)
	v.SetDefault("db.automigrate", true)
	v.SetDefault("session.cookiename", "session_id")
	v.SetDefault("session.ttlhours", 24*7)
	// 无默认值的键也要登记，AutomaticEnv 才能覆盖
	for _, k := range []string{
		"jwt.secret", "db.dsn", "db.username", "db.password", "redis.addr", "redis.password",
		"discord.clientid", "discord.clientsecret", "discord.redirecturl", "discord.bottoken",
		"discord.guildid", "discord.adminroleid", "discord.voicecategoryid", "log.file",
	} {
		v.SetDefault(k, "")
	}
	v.SetDefault("discord.rolecachesec", 60)
	v.SetDefault("limits.rps", 200)
	v.SetDefault("limits.burst", 400)
	v.SetDefault("limits.concurrency", 300)
}

// Load 读取 yaml，APP_ 前缀环境变量覆盖（APP_DISCORD_BOTTOKEN 等）
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, statErr := os.Stat(path); statErr == nil || !os.IsNotExist(statErr) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// 没有配置文件时只用默认值 + 环境变量
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
