// controllers/srv.go
package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"prom_seating_console/app"
	"prom_seating_console/backend"
	"prom_seating_console/config"
	"prom_seating_console/dashboard"
	"prom_seating_console/db"
	"prom_seating_console/logger"
	"prom_seating_console/session"
	"prom_seating_console/workspace"
)

type Srv struct {
	Repo       *db.Repo
	AppSess    *session.AppSessionStore
	Handoffs   *session.HandoffStore
	Workspaces *workspace.Registry
	Cfg        config.Config
	Log        *logger.Logger
}

func GetSrv(a *app.App) *Srv {
	return &Srv{
		Repo:       a.Repo,
		AppSess:    a.AppSessions(),
		Handoffs:   a.Handoffs(),
		Workspaces: a.Workspaces,
		Cfg:        a.Config,
		Log:        logger.New("http"),
	}
}

// --- helpers ---

// 取当前浏览器的工作区；中间件没挂上就是配置错误
func (s *Srv) workspace(c *gin.Context) (*workspace.Workspace, bool) {
	ws := app.CurrentWorkspace(c)
	if ws == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, app.H{"error": "no workspace"})
		return nil, false
	}
	return ws, true
}

// 会话失效：401 + 跳转目标（取走后清空）
func redirect(c *gin.Context, ws *workspace.Workspace, fallback dashboard.Destination) {
	dest := ws.Session.TakeRedirect()
	if dest == "" {
		dest = fallback
	}
	c.JSON(http.StatusUnauthorized, app.H{"redirect": dest})
}

// statusFor 把动作错误映射成 HTTP 状态；具体文案都在视图里
func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, dashboard.ErrBusy),
		errors.Is(err, dashboard.ErrTableFull),
		errors.Is(err, dashboard.ErrAlreadyUnassigned):
		return http.StatusConflict
	case errors.Is(err, dashboard.ErrUnknownStudent),
		errors.Is(err, dashboard.ErrUnknownTable),
		errors.Is(err, dashboard.ErrNoMove):
		return http.StatusNotFound
	case errors.Is(err, dashboard.ErrInvalidTarget),
		errors.Is(err, dashboard.ErrNoFile),
		errors.Is(err, dashboard.ErrNotSpreadsheet):
		return http.StatusUnprocessableEntity
	case errors.Is(err, dashboard.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	}
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode < 500 {
		return apiErr.StatusCode
	}
	return http.StatusBadGateway
}
