// app/seenmw.go
package app

import (
	"time"

	"github.com/gin-gonic/gin"
)

// TouchSession 滑动续期，throttle 内只续一次
func TouchSession(a *App, throttle time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid := SessionID(c)
		if sid == "" || throttle <= 0 {
			c.Next()
			return
		}
		key := "seat:sess:seen:" + sid
		if ok, _ := a.RDB.SetNX(c, key, "1", throttle).Result(); ok {
			if err := a.appSess.Touch(c, sid); err != nil {
				a.Log.Debugf("touch session %s: %v", sid, err) // 忽略错误，不阻塞请求
			}
		}
		c.Next()
	}
}
