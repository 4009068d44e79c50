package app

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"prom_seating_console/session"
	"prom_seating_console/workspace"
)

const AppSessionCookie = "seat_session"

const (
	ctxSessionID = "sessionID"
	ctxWorkspace = "workspace"
)

// SetSessionCookie 统一设置浏览器会话 Cookie；maxAge<0 表示删除
func SetSessionCookie(w http.ResponseWriter, id string, maxAge time.Duration, secure bool) {
	age := int(maxAge / time.Second)
	if maxAge < 0 {
		age = -1
	}
	http.SetCookie(w, &http.Cookie{
		Name:     AppSessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
		MaxAge:   age,
	})
}

// BrowserSession 给每个浏览器一个会话和工作区；没有或已过期就新建
func BrowserSession(a *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		id := ""
		if ck, err := c.Request.Cookie(AppSessionCookie); err == nil && ck.Value != "" {
			_, err := a.appSess.Get(ctx, ck.Value)
			switch {
			case err == nil:
				id = ck.Value
			case errors.Is(err, session.ErrNotFound):
				// 过期会话对应的工作区一起丢掉
				a.Workspaces.Drop(ck.Value)
			default:
				a.Log.Errorf("load session: %v", err)
				c.AbortWithStatusJSON(http.StatusServiceUnavailable, H{"error": "session store unavailable"})
				return
			}
		}
		if id == "" {
			id = uuid.NewString()
			if _, err := a.appSess.Create(ctx, id); err != nil {
				a.Log.Errorf("create session: %v", err)
				c.AbortWithStatusJSON(http.StatusServiceUnavailable, H{"error": "session store unavailable"})
				return
			}
			SetSessionCookie(c.Writer, id, a.appSess.TTL(), a.Config.CookieSecure())
		}

		ws, err := a.Workspaces.Get(id)
		if err != nil {
			a.Log.Errorf("workspace %s: %v", id, err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, H{"error": "workspace unavailable"})
			return
		}
		c.Set(ctxSessionID, id)
		c.Set(ctxWorkspace, ws)
		c.Next()
	}
}

func SessionID(c *gin.Context) string {
	return c.GetString(ctxSessionID)
}

func CurrentWorkspace(c *gin.Context) *workspace.Workspace {
	v, _ := c.Get(ctxWorkspace)
	ws, _ := v.(*workspace.Workspace)
	return ws
}
