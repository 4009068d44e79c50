package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"prom_seating_console/app"
	"prom_seating_console/controllers"
)

func RegisterRoutes(r *gin.Engine, a *app.App) {
	// 控制器与依赖
	s := controllers.GetSrv(a)
	authCtl := controllers.NewAuthController(s)
	studentCtl := controllers.NewStudentController(s)
	adminCtl := controllers.NewAdminController(s)
	activityCtl := controllers.NewActivityController(s)

	// 上传在 handler 里按配置截断，这里只限制内存
	r.MaxMultipartMemory = a.Config.UploadMaxBytes

	// Health / metrics
	r.GET("/healthz", func(c *app.Ctx) { c.JSON(http.StatusOK, app.H{"ok": true}) })
	r.GET("/metrics", gin.WrapH(a.Metrics.Handler()))

	// 复用的中间件
	sessMW := app.BrowserSession(a)
	seenMW := app.TouchSession(a, a.Config.SeenThrottle)

	api := r.Group("/api", sessMW, seenMW)

	// ------------------------------
	// 登录 / 登出
	// ------------------------------
	api.POST("/login/student", authCtl.LoginStudent)
	api.POST("/login/admin", authCtl.LoginAdmin)
	api.POST("/logout", authCtl.Logout)

	// ------------------------------
	// 学生选桌
	// ------------------------------
	student := api.Group("/student")
	{
		student.GET("/dashboard", studentCtl.Dashboard())
		student.GET("/state", studentCtl.State())
		student.POST("/tables/refresh", studentCtl.Refresh())
		student.GET("/tables/:id", studentCtl.ViewTable)
		student.PUT("/table", studentCtl.SelectTable)
		student.DELETE("/view", studentCtl.CloseView())
		student.DELETE("/notice", studentCtl.DismissNotice())
		student.DELETE("/error", studentCtl.DismissError())
	}

	// ------------------------------
	// 管理员排座
	// ------------------------------
	admin := api.Group("/admin")
	{
		admin.GET("/dashboard", adminCtl.Dashboard())
		admin.GET("/state", adminCtl.State())
		admin.POST("/assignments/refresh", adminCtl.Refresh())
		admin.POST("/sort", adminCtl.Sort)

		admin.POST("/move/:studentId", adminCtl.OpenMove)
		admin.PUT("/move/input", adminCtl.SetMoveInput)
		admin.POST("/move/confirm", adminCtl.ConfirmMove())
		admin.POST("/move/unassign", adminCtl.Unassign())
		admin.DELETE("/move", adminCtl.CloseMove())

		admin.POST("/upload", adminCtl.Upload)
		admin.DELETE("/feedback", adminCtl.DismissFeedback())
		admin.GET("/activity", activityCtl.List)
	}
}
