package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"prom_seating_console/app"
	"prom_seating_console/backend"
	"prom_seating_console/dashboard"
	"prom_seating_console/models"
)

type AuthController struct{ *Srv }

func NewAuthController(s *Srv) *AuthController { return &AuthController{Srv: s} }

type studentLoginRequest struct {
	FirstName string `json:"FirstName" binding:"required"`
	LastName  string `json:"LastName" binding:"required"`
	Email     string `json:"Email" binding:"required"`
	OEN       string `json:"OEN" binding:"required"`
}

type adminLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (ac *AuthController) LoginStudent(c *gin.Context) {
	var req studentLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "Please fill in all fields."})
		return
	}
	ws, ok := ac.workspace(c)
	if !ok {
		return
	}
	res := ws.Login.Student(c.Request.Context(), backend.StudentLogin{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		OEN:       req.OEN,
	})
	ac.respondLogin(c, res)
}

func (ac *AuthController) LoginAdmin(c *gin.Context) {
	var req adminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "Please fill in all fields."})
		return
	}
	ws, ok := ac.workspace(c)
	if !ok {
		return
	}
	res := ws.Login.Admin(c.Request.Context(), backend.AdminLogin{Username: req.Username, Password: req.Password})
	ac.respondLogin(c, res)
}

func (ac *AuthController) respondLogin(c *gin.Context, res dashboard.LoginResult) {
	if res.Error != "" {
		c.JSON(http.StatusUnauthorized, app.H{"error": res.Error})
		return
	}
	c.JSON(http.StatusOK, res)
}

// Logout 后端登出 + 清本地状态 + 删会话 Cookie
func (ac *AuthController) Logout(c *gin.Context) {
	ws, ok := ac.workspace(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if p, ok := ws.Session.Principal(); ok && p.Role == models.RoleAdmin {
		ws.Admin.Logout(ctx)
	} else {
		ws.Student.Logout(ctx)
	}
	dest := ws.Session.TakeRedirect()

	sid := app.SessionID(c)
	ac.Handoffs.Discard(ctx, sid)
	if err := ac.AppSess.Delete(ctx, sid); err != nil {
		ac.Log.Warningf("delete session %s: %v", sid, err)
	}
	ac.Workspaces.Drop(sid)
	app.SetSessionCookie(c.Writer, "", -1, ac.Cfg.CookieSecure())

	c.JSON(http.StatusOK, app.H{"ok": true, "redirect": dest})
}
