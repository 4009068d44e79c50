package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"prom_seating_console/config"
	"prom_seating_console/dashboard"
	"prom_seating_console/db"
	"prom_seating_console/logger"
	"prom_seating_console/metrics"
	"prom_seating_console/session"
	"prom_seating_console/workspace"
)

// 简化别名，便于 handlers 调用
type Ctx = gin.Context
type H = gin.H

// App 聚合各依赖
type App struct {
	Router     *gin.Engine
	DB         *gorm.DB
	RDB        *redis.Client
	Config     config.Config
	Metrics    *metrics.Metrics
	Repo       *db.Repo
	Workspaces *workspace.Registry
	Log        *logger.Logger

	appSess  *session.AppSessionStore
	handoffs *session.HandoffStore
	stop     context.CancelFunc
}

func (a *App) AppSessions() *session.AppSessionStore { return a.appSess }
func (a *App) Handoffs() *session.HandoffStore       { return a.handoffs }

func New(cfg config.Config) (*App, error) {
	log := logger.New("app")

	// --- DB: 审计日志 ---
	dbConn, err := db.Connect(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	// --- Redis ---
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = db.Close(dbConn)
		return nil, fmt.Errorf("redis: %w", err)
	}

	m := metrics.New()
	repo := db.NewRepo(dbConn, log.With("db"))
	handoffs := session.NewHandoffStore(rdb, cfg.HandoffTTL)

	builder := workspace.Builder{
		BackendURL: cfg.BackendURL,
		Timeout:    cfg.BackendTimeout,
		Transport:  m.InstrumentTransport(http.DefaultTransport.(*http.Transport).Clone()),
		Handoffs:   handoffs,
		Recorder:   dashboard.Recorders{repo, m},
		Admin: dashboard.AdminOptions{
			Bounds:    dashboard.Bounds{Min: cfg.TableIDMin, Max: cfg.TableIDMax},
			MaxUpload: cfg.UploadMaxBytes,
		},
		Log: logger.New("console"),
	}
	registry := workspace.NewRegistry(builder.Build, cfg.WorkspaceIdle, m.Workspaces, log.With("workspace"))

	// 定期清理闲置工作区
	runCtx, stop := context.WithCancel(context.Background())
	go registry.Run(runCtx, cfg.WorkspaceIdle/4)

	// --- Gin ---
	r := gin.Default()
	useCORS(r, cfg.WebOrigins)

	return &App{
		Router:     r,
		DB:         dbConn,
		RDB:        rdb,
		Config:     cfg,
		Metrics:    m,
		Repo:       repo,
		Workspaces: registry,
		Log:        log,
		appSess:    session.NewAppSessionStore(rdb, cfg.SessionTTL),
		handoffs:   handoffs,
		stop:       stop,
	}, nil
}

func (a *App) Close() {
	a.stop()
	_ = a.RDB.Close()
	_ = db.Close(a.DB)
}
