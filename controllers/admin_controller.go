package controllers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"prom_seating_console/app"
	"prom_seating_console/backend"
	"prom_seating_console/dashboard"
	"prom_seating_console/roster"
	"prom_seating_console/workspace"
)

type AdminController struct{ *Srv }

func NewAdminController(s *Srv) *AdminController { return &AdminController{Srv: s} }

type sortRequest struct {
	Column string `json:"column" binding:"required"`
}

type moveInputRequest struct {
	Input string `json:"input"`
}

func (ac *AdminController) render(c *gin.Context, ws *workspace.Workspace, err error) {
	if errors.Is(err, dashboard.ErrRedirected) {
		redirect(c, ws, dashboard.AdminPage.Login)
		return
	}
	view := ws.Admin.Snapshot()
	if view.Redirect != "" {
		redirect(c, ws, view.Redirect)
		return
	}
	c.JSON(statusFor(err), view)
}

func (ac *AdminController) act(fn func(c *gin.Context, ws *workspace.Workspace) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		ws, ok := ac.workspace(c)
		if !ok {
			return
		}
		ac.render(c, ws, fn(c, ws))
	}
}

func (ac *AdminController) Dashboard() gin.HandlerFunc {
	return ac.act(func(c *gin.Context, ws *workspace.Workspace) error {
		return ws.Admin.Mount(c.Request.Context())
	})
}

func (ac *AdminController) State() gin.HandlerFunc {
	return ac.act(func(*gin.Context, *workspace.Workspace) error { return nil })
}

func (ac *AdminController) Refresh() gin.HandlerFunc {
	return ac.act(func(c *gin.Context, ws *workspace.Workspace) error {
		return ws.Admin.RefreshAssignments(c.Request.Context())
	})
}

// Sort 点同一列切换方向，换列从升序开始
func (ac *AdminController) Sort(c *gin.Context) {
	var req sortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "column is required"})
		return
	}
	col, err := roster.ParseColumn(req.Column)
	if err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	ws, ok := ac.workspace(c)
	if !ok {
		return
	}
	ws.Admin.SortBy(col)
	ac.render(c, ws, nil)
}

func (ac *AdminController) OpenMove(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("studentId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "invalid student id"})
		return
	}
	ws, ok := ac.workspace(c)
	if !ok {
		return
	}
	ac.render(c, ws, ws.Admin.OpenMove(id))
}

func (ac *AdminController) SetMoveInput(c *gin.Context) {
	var req moveInputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	ws, ok := ac.workspace(c)
	if !ok {
		return
	}
	ac.render(c, ws, ws.Admin.SetMoveInput(req.Input))
}

func (ac *AdminController) ConfirmMove() gin.HandlerFunc {
	return ac.act(func(c *gin.Context, ws *workspace.Workspace) error {
		return ws.Admin.ConfirmMove(c.Request.Context())
	})
}

func (ac *AdminController) Unassign() gin.HandlerFunc {
	return ac.act(func(c *gin.Context, ws *workspace.Workspace) error {
		return ws.Admin.Unassign(c.Request.Context())
	})
}

func (ac *AdminController) CloseMove() gin.HandlerFunc {
	return ac.act(func(_ *gin.Context, ws *workspace.Workspace) error {
		return ws.Admin.CloseMove()
	})
}

// Upload 带文件就先暂存再上传；不带文件则上传已暂存的
func (ac *AdminController) Upload(c *gin.Context) {
	ws, ok := ac.workspace(c)
	if !ok {
		return
	}
	if fh, err := c.FormFile(backend.UploadField); err == nil {
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, app.H{"error": "cannot read upload"})
			return
		}
		// 多读一个字节，超限交给 ChooseFile 判断
		data, err := io.ReadAll(io.LimitReader(f, ac.Cfg.UploadMaxBytes+1))
		_ = f.Close()
		if err != nil {
			c.JSON(http.StatusBadRequest, app.H{"error": "cannot read upload"})
			return
		}
		if err := ws.Admin.ChooseFile(fh.Filename, data); err != nil {
			ac.render(c, ws, err)
			return
		}
	}
	ac.render(c, ws, ws.Admin.Upload(c.Request.Context()))
}

func (ac *AdminController) DismissFeedback() gin.HandlerFunc {
	return ac.act(func(_ *gin.Context, ws *workspace.Workspace) error {
		ws.Admin.DismissFeedback()
		return nil
	})
}
