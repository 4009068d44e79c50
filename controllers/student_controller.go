package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"prom_seating_console/app"
	"prom_seating_console/dashboard"
	"prom_seating_console/workspace"
)

type StudentController struct{ *Srv }

func NewStudentController(s *Srv) *StudentController { return &StudentController{Srv: s} }

type selectRequest struct {
	TableID int `json:"table_id" binding:"required,min=1"`
}

// render 返回当前视图；有待跳转则 401
func (sc *StudentController) render(c *gin.Context, ws *workspace.Workspace, err error) {
	if errors.Is(err, dashboard.ErrRedirected) {
		redirect(c, ws, dashboard.StudentPage.Login)
		return
	}
	view := ws.Student.Snapshot()
	if view.Redirect != "" {
		redirect(c, ws, view.Redirect)
		return
	}
	c.JSON(statusFor(err), view)
}

// 动作包装：取工作区，执行，渲染
func (sc *StudentController) act(fn func(c *gin.Context, ws *workspace.Workspace) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		ws, ok := sc.workspace(c)
		if !ok {
			return
		}
		sc.render(c, ws, fn(c, ws))
	}
}

func (sc *StudentController) Dashboard() gin.HandlerFunc {
	return sc.act(func(c *gin.Context, ws *workspace.Workspace) error {
		return ws.Student.Mount(c.Request.Context())
	})
}

func (sc *StudentController) State() gin.HandlerFunc {
	return sc.act(func(*gin.Context, *workspace.Workspace) error { return nil })
}

func (sc *StudentController) Refresh() gin.HandlerFunc {
	return sc.act(func(c *gin.Context, ws *workspace.Workspace) error {
		return ws.Student.RefreshTables(c.Request.Context())
	})
}

// ViewTable 查看某桌已入座学生
func (sc *StudentController) ViewTable(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, app.H{"error": "invalid table id"})
		return
	}
	ws, ok := sc.workspace(c)
	if !ok {
		return
	}
	sc.render(c, ws, ws.Student.ViewTable(c.Request.Context(), id))
}

func (sc *StudentController) CloseView() gin.HandlerFunc {
	return sc.act(func(_ *gin.Context, ws *workspace.Workspace) error {
		ws.Student.CloseView()
		return nil
	})
}

func (sc *StudentController) SelectTable(c *gin.Context) {
	var req selectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "table_id is required"})
		return
	}
	ws, ok := sc.workspace(c)
	if !ok {
		return
	}
	sc.render(c, ws, ws.Student.SelectTable(c.Request.Context(), req.TableID))
}

func (sc *StudentController) DismissNotice() gin.HandlerFunc {
	return sc.act(func(_ *gin.Context, ws *workspace.Workspace) error {
		ws.Student.DismissFeedback()
		return nil
	})
}

func (sc *StudentController) DismissError() gin.HandlerFunc {
	return sc.act(func(_ *gin.Context, ws *workspace.Workspace) error {
		ws.Student.DismissSelectError()
		return nil
	})
}
