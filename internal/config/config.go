package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultHost           = "0.0.0.0"
	defaultPort           = 1780
	defaultMaxConnections = 2000
	defaultRedisAddr      = "localhost:6379"

	defaultPackSize     = 15
	defaultRounds       = 3
	defaultMaxPlayers   = 8
	defaultSeed         = 50292030
	defaultGraceSeconds = 30
	defaultLobbyTimeout = 30

	defaultCatalogPath = "data/cube.txt"
	defaultTokenTTL    = 12

	defaultShutdownTimeout = 10
	defaultLogLevel        = "info"

	// 最大座位数
	maxSeats = 8
)

// Config 服务端配置
type Config struct {
	Server   ServerConfig   `yaml:"server" envPrefix:"SERVER_"`
	Redis    RedisConfig    `yaml:"redis" envPrefix:"REDIS_"`
	Draft    DraftConfig    `yaml:"draft" envPrefix:"DRAFT_"`
	Catalog  CatalogConfig  `yaml:"catalog" envPrefix:"CATALOG_"`
	Auth     AuthConfig     `yaml:"auth" envPrefix:"AUTH_"`
	Security SecurityConfig `yaml:"security" envPrefix:"SECURITY_"`
	Log      LogConfig      `yaml:"log" envPrefix:"LOG_"`
}

// ServerConfig HTTP/WebSocket 服务器配置
type ServerConfig struct {
	Host            string `yaml:"host" env:"HOST"`
	Port            int    `yaml:"port" env:"PORT"`
	MaxConnections  int    `yaml:"max_connections" env:"MAX_CONNECTIONS"`
	ShutdownTimeout int    `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"` // 优雅关闭超时（秒）
}

// RedisConfig Redis 配置，未启用时不保存会话快照
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled" env:"ENABLED"`
	Addr     string `yaml:"addr" env:"ADDR"`
	Password string `yaml:"password" env:"PASSWORD"`
	DB       int    `yaml:"db" env:"DB"`
}

// DraftConfig 选牌配置
type DraftConfig struct {
	PackSize     int    `yaml:"pack_size" env:"PACK_SIZE"`
	Rounds       int    `yaml:"rounds" env:"ROUNDS"`
	MaxPlayers   int    `yaml:"max_players" env:"MAX_PLAYERS"`
	Seed         uint64 `yaml:"seed" env:"SEED"`
	GraceSeconds int    `yaml:"grace_seconds" env:"GRACE_SECONDS"` // 断线宽限（秒）
	PrefillBots  *bool  `yaml:"prefill_bots" env:"PREFILL_BOTS"`
	LobbyTimeout int    `yaml:"lobby_timeout" env:"LOBBY_TIMEOUT"` // 无人大厅保留时长（分钟）
	FinishedTTL  int    `yaml:"finished_ttl" env:"FINISHED_TTL"`   // 已结束会话保留时长（分钟），0 表示一直保留
}

// CatalogConfig 卡表配置
type CatalogConfig struct {
	Path string `yaml:"path" env:"PATH"`
}

// AuthConfig 身份令牌配置
type AuthConfig struct {
	Secret   string `yaml:"secret" env:"SECRET"`
	TokenTTL int    `yaml:"token_ttl" env:"TOKEN_TTL"` // 小时
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	AllowedOrigins []string           `yaml:"allowed_origins" env:"ALLOWED_ORIGINS"`
	RateLimit      RateLimitConfig    `yaml:"rate_limit" envPrefix:"RATE_LIMIT_"`
	MessageLimit   MessageLimitConfig `yaml:"message_limit" envPrefix:"MESSAGE_LIMIT_"`
}

// RateLimitConfig 连接速率限制
type RateLimitConfig struct {
	MaxPerSecond int `yaml:"max_per_second" env:"MAX_PER_SECOND"`
	MaxPerMinute int `yaml:"max_per_minute" env:"MAX_PER_MINUTE"`
	BanDuration  int `yaml:"ban_duration" env:"BAN_DURATION"` // 秒
}

// MessageLimitConfig 消息速率限制
type MessageLimitConfig struct {
	MaxPerSecond int `yaml:"max_per_second" env:"MAX_PER_SECOND"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level       string `yaml:"level" env:"LEVEL"`
	Development bool   `yaml:"development" env:"DEVELOPMENT"`
}

// GraceDuration 返回断线宽限时长
func (c *DraftConfig) GraceDuration() time.Duration {
	return time.Duration(c.GraceSeconds) * time.Second
}

// LobbyTimeoutDuration 返回无人大厅保留时长
func (c *DraftConfig) LobbyTimeoutDuration() time.Duration {
	return time.Duration(c.LobbyTimeout) * time.Minute
}

// FinishedTTLDuration 返回已结束会话保留时长
func (c *DraftConfig) FinishedTTLDuration() time.Duration {
	return time.Duration(c.FinishedTTL) * time.Minute
}

// Prefill 是否在创建会话时用机器人占满座位
func (c *DraftConfig) Prefill() bool {
	return c.PrefillBots == nil || *c.PrefillBots
}

// TokenTTLDuration 返回令牌有效期
func (c *AuthConfig) TokenTTLDuration() time.Duration {
	return time.Duration(c.TokenTTL) * time.Hour
}

// BanDurationTime 返回封禁时长
func (c *RateLimitConfig) BanDurationTime() time.Duration {
	return time.Duration(c.BanDuration) * time.Second
}

// ShutdownTimeoutDuration 返回优雅关闭超时
func (c *ServerConfig) ShutdownTimeoutDuration() time.Duration {
	return time.Duration(c.ShutdownTimeout) * time.Second
}

// Load 加载配置文件，环境变量覆盖文件中的值
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadDotEnv 加载 .env 文件到进程环境，文件不存在时忽略
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// Default 返回默认配置（仍然应用环境变量）
func Default() *Config {
	var cfg Config
	_ = env.Parse(&cfg)
	cfg.applyDefaults()
	if cfg.Validate() != nil {
		cfg = Config{}
		cfg.applyDefaults()
	}
	return &cfg
}

// Validate 检查配置是否合法
func (c *Config) Validate() error {
	if c.Draft.MaxPlayers < 2 || c.Draft.MaxPlayers > maxSeats {
		return fmt.Errorf("draft.max_players must be between 2 and %d, got %d", maxSeats, c.Draft.MaxPlayers)
	}
	if c.Draft.PackSize < 1 {
		return fmt.Errorf("draft.pack_size must be positive, got %d", c.Draft.PackSize)
	}
	if c.Draft.Rounds < 1 {
		return fmt.Errorf("draft.rounds must be positive, got %d", c.Draft.Rounds)
	}
	if c.Draft.FinishedTTL < 0 {
		return fmt.Errorf("draft.finished_ttl must not be negative, got %d", c.Draft.FinishedTTL)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = defaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = defaultPort
	}
	if c.Server.MaxConnections == 0 {
		c.Server.MaxConnections = defaultMaxConnections
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = defaultShutdownTimeout
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = defaultRedisAddr
	}
	if c.Draft.PackSize == 0 {
		c.Draft.PackSize = defaultPackSize
	}
	if c.Draft.Rounds == 0 {
		c.Draft.Rounds = defaultRounds
	}
	if c.Draft.MaxPlayers == 0 {
		c.Draft.MaxPlayers = defaultMaxPlayers
	}
	if c.Draft.Seed == 0 {
		c.Draft.Seed = defaultSeed
	}
	if c.Draft.GraceSeconds == 0 {
		c.Draft.GraceSeconds = defaultGraceSeconds
	}
	if c.Draft.LobbyTimeout == 0 {
		c.Draft.LobbyTimeout = defaultLobbyTimeout
	}
	if c.Catalog.Path == "" {
		c.Catalog.Path = defaultCatalogPath
	}
	if c.Auth.TokenTTL == 0 {
		c.Auth.TokenTTL = defaultTokenTTL
	}
	if len(c.Security.AllowedOrigins) == 0 {
		c.Security.AllowedOrigins = []string{"*"}
	}
	if c.Security.RateLimit.MaxPerSecond == 0 {
		c.Security.RateLimit.MaxPerSecond = 10
	}
	if c.Security.RateLimit.MaxPerMinute == 0 {
		c.Security.RateLimit.MaxPerMinute = 60
	}
	if c.Security.RateLimit.BanDuration == 0 {
		c.Security.RateLimit.BanDuration = 60
	}
	if c.Security.MessageLimit.MaxPerSecond == 0 {
		c.Security.MessageLimit.MaxPerSecond = 20
	}
	if c.Log.Level == "" {
		c.Log.Level = defaultLogLevel
	}
}
