package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"prom_seating_console/app"
	"prom_seating_console/dashboard"
	"prom_seating_console/db"
	"prom_seating_console/models"
)

type ActivityController struct{ *Srv }

func NewActivityController(s *Srv) *ActivityController { return &ActivityController{Srv: s} }

type activityQuery struct {
	Action  string `form:"action"`
	Outcome string `form:"outcome" binding:"omitempty,oneof=success rejected failed"`
	ActorID *int   `form:"actor_id"`
	Page    int    `form:"page" binding:"omitempty,min=1"`
	Size    int    `form:"size" binding:"omitempty,min=1,max=100"`
}

// List 控制台操作日志，仅管理员
func (ac *ActivityController) List(c *gin.Context) {
	ws, ok := ac.workspace(c)
	if !ok {
		return
	}
	// 需要已通过 dashboard 校验的管理员
	if p, ok := ws.Session.Principal(); !ok || p.Role != models.RoleAdmin {
		c.JSON(http.StatusUnauthorized, app.H{"redirect": dashboard.AdminPage.Login})
		return
	}

	var q activityQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	page, err := ac.Repo.ListActivity(c.Request.Context(), db.ActivityQuery{
		Action:  q.Action,
		Outcome: q.Outcome,
		ActorID: q.ActorID,
		Page:    q.Page,
		Size:    q.Size,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, page)
}
