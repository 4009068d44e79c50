package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// LoadEnv 读取 .env（不存在就跳过），已有的环境变量优先
func LoadEnv(files ...string) {
	_ = godotenv.Load(files...)
}

type Config struct {
	Addr           string
	WebOrigins     []string
	BackendURL     string
	BackendTimeout time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	SessionTTL    time.Duration
	HandoffTTL    time.Duration
	SeenThrottle  time.Duration
	WorkspaceIdle time.Duration

	DBDriver    string
	DatabaseURL string

	TableIDMin     int
	TableIDMax     int
	UploadMaxBytes int64

	LogLevel string
}

// CookieSecure 前端走 https 时才给 Cookie 加 Secure
func (c Config) CookieSecure() bool {
	for _, o := range c.WebOrigins {
		if strings.HasPrefix(o, "https://") {
			return true
		}
	}
	return false
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("addr", ":3001")
	v.SetDefault("web_origin", "http://localhost:3000")
	v.SetDefault("backend_url", "http://localhost:5000/api")
	v.SetDefault("backend_timeout", "10s")
	v.SetDefault("redis_addr", "127.0.0.1:6379")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("session_ttl", "24h")
	v.SetDefault("handoff_ttl", "1m")
	v.SetDefault("seen_throttle", "1m")
	v.SetDefault("workspace_idle", "24h")
	v.SetDefault("db_driver", "sqlite")
	v.SetDefault("database_url", "seating_console.db")
	v.SetDefault("table_id_min", 1)
	v.SetDefault("table_id_max", 55)
	v.SetDefault("upload_max_bytes", 5<<20)
	v.SetDefault("log_level", "info")
}

// Load reads defaults, then the optional config file, then the environment.
// Flags bound to v by the caller win over all of them.
func Load(v *viper.Viper, file string) (Config, error) {
	setDefaults(v)
	v.AutomaticEnv()
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	cfg := Config{
		Addr:           v.GetString("addr"),
		WebOrigins:     splitCSV(v.GetString("web_origin")),
		BackendURL:     strings.TrimRight(v.GetString("backend_url"), "/"),
		BackendTimeout: v.GetDuration("backend_timeout"),
		RedisAddr:      v.GetString("redis_addr"),
		RedisPassword:  v.GetString("redis_password"),
		RedisDB:        v.GetInt("redis_db"),
		SessionTTL:     v.GetDuration("session_ttl"),
		HandoffTTL:     v.GetDuration("handoff_ttl"),
		SeenThrottle:   v.GetDuration("seen_throttle"),
		WorkspaceIdle:  v.GetDuration("workspace_idle"),
		DBDriver:       strings.ToLower(v.GetString("db_driver")),
		DatabaseURL:    v.GetString("database_url"),
		TableIDMin:     v.GetInt("table_id_min"),
		TableIDMax:     v.GetInt("table_id_max"),
		UploadMaxBytes: v.GetInt64("upload_max_bytes"),
		LogLevel:       v.GetString("log_level"),
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("addr is required"))
	}
	if u, err := url.Parse(c.BackendURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("backend_url %q must be an absolute url", c.BackendURL))
	}
	if len(c.WebOrigins) == 0 {
		errs = append(errs, errors.New("web_origin is required"))
	}
	if c.RedisAddr == "" {
		errs = append(errs, errors.New("redis_addr is required"))
	}
	for name, d := range map[string]time.Duration{
		"backend_timeout": c.BackendTimeout,
		"session_ttl":     c.SessionTTL,
		"handoff_ttl":     c.HandoffTTL,
		"workspace_idle":  c.WorkspaceIdle,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %s", name, d))
		}
	}
	// 工作区带着后端 cookie jar，比会话先回收等于悄悄登出
	if c.WorkspaceIdle > 0 && c.WorkspaceIdle < c.SessionTTL {
		errs = append(errs, fmt.Errorf("workspace_idle %s must not be shorter than session_ttl %s", c.WorkspaceIdle, c.SessionTTL))
	}
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("db_driver %q must be postgres or sqlite", c.DBDriver))
	}
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("database_url is required"))
	}
	if c.TableIDMin < 1 || c.TableIDMax < c.TableIDMin {
		errs = append(errs, fmt.Errorf("table id range %d-%d is invalid", c.TableIDMin, c.TableIDMax))
	}
	if c.UploadMaxBytes <= 0 {
		errs = append(errs, errors.New("upload_max_bytes must be positive"))
	}
	return errors.Join(errs...)
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
