package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/zaqqye/attendance_backend/internal/checkin"
	"github.com/zaqqye/attendance_backend/internal/config"
	"github.com/zaqqye/attendance_backend/internal/controllers"
	"github.com/zaqqye/attendance_backend/internal/i18n"
	"github.com/zaqqye/attendance_backend/internal/middleware"
	"github.com/zaqqye/attendance_backend/internal/models"
	"github.com/zaqqye/attendance_backend/internal/qr"
	"github.com/zaqqye/attendance_backend/internal/store"
	"github.com/zaqqye/attendance_backend/internal/ws"
)

type Deps struct {
	Store   *store.Store
	Config  *config.Config
	Hub     *ws.Hub
	CheckIn *checkin.Service
}

func Register(r *gin.Engine, d Deps) {
	cfg := d.Config
	fallback, ok := i18n.ParseTag(cfg.DefaultLocale)
	if !ok {
		fallback = i18n.Supported()[0]
	}
	r.Use(middleware.Locale(fallback))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authCtrl := &controllers.AuthController{
		Store:         d.Store,
		AccessSecret:  cfg.JWTSecret,
		RefreshSecret: cfg.RefreshJWTSecret,
		AccessTTL:     cfg.AccessTTL(),
		RefreshTTL:    cfg.RefreshTTL(),
	}
	userCtrl := &controllers.UserController{Store: d.Store}
	sessionCtrl := &controllers.SessionController{Store: d.Store, Hub: d.Hub}
	attendanceCtrl := &controllers.AttendanceController{Store: d.Store, CheckIn: d.CheckIn}
	settingsCtrl := &controllers.SettingsController{Store: d.Store}
	qrOpts := qr.DefaultOptions()
	if cfg.QRSize > 0 {
		qrOpts.Size = cfg.QRSize
	}
	qrCtrl := &controllers.QRController{Options: qrOpts}

	// Public
	public := r.Group("/api")
	{
		public.POST("/login", authCtrl.Login)
		public.POST("/auth/refresh", authCtrl.Refresh)
		public.POST("/attendance", attendanceCtrl.SubmitAttendance)
	}

	// Protected
	authMW := middleware.AuthMiddleware(d.Store, middleware.AuthConfig{JWTSecret: cfg.JWTSecret})
	api := r.Group("/api", authMW)
	{
		api.GET("/auth/me", authCtrl.Me)
		api.POST("/auth/logout", authCtrl.Logout)
		api.POST("/change-password", authCtrl.ChangePassword)

		staff := api.Group("", middleware.RequireRoles(models.RoleTeacher))
		{
			staff.POST("/sessions", sessionCtrl.CreateSession)
			staff.GET("/sessions", sessionCtrl.ListSessions)
			staff.GET("/sessions/:id", sessionCtrl.GetSession)
			staff.PUT("/sessions/:id", sessionCtrl.UpdateSession)
			staff.DELETE("/sessions/:id", sessionCtrl.DeleteSession)

			staff.GET("/attendance/session/:sessionId", attendanceCtrl.ListSessionAttendance)
			staff.GET("/attendance/session/:sessionId/export", attendanceCtrl.ExportSessionAttendance)
			staff.PUT("/attendance/:id", attendanceCtrl.EditLocation)

			staff.GET("/qrcode/:pin", qrCtrl.DataURL)
			staff.GET("/qrcode/:pin/png", qrCtrl.PNG)

			staff.GET("/settings", settingsCtrl.GetSettings)
			staff.GET("/stats", settingsCtrl.Stats)

			staff.GET("/ws/sessions/:id", sessionCtrl.Watch)
		}

		// Admin-only
		admin := api.Group("", middleware.RequireRoles(models.RoleAdmin))
		{
			admin.PUT("/settings", settingsCtrl.UpdateSettings)
			admin.POST("/users", userCtrl.CreateUser)
			admin.GET("/users", userCtrl.ListUsers)
		}
	}
}
