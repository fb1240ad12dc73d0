package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sankalp-edu/examhall-backend/internal/config"
	"github.com/sankalp-edu/examhall-backend/internal/handler"
	"github.com/sankalp-edu/examhall-backend/internal/middleware"
	"github.com/sankalp-edu/examhall-backend/internal/model"
	"github.com/sankalp-edu/examhall-backend/internal/response"
	"github.com/sankalp-edu/examhall-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth     *handler.AuthHandler
	Portal   *handler.PortalHandler
	Exam     *handler.ExamHandler
	Question *handler.QuestionHandler
	Student  *handler.StudentHandler
	WS       *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Exam payloads are large JSON; brotli pays for itself here.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for login routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/student/login", authLimiter.Middleware(), handlers.Auth.StudentLogin)
		auth.POST("/admin/login", authLimiter.Middleware(), handlers.Auth.AdminLogin)

		// Authenticated profile routes
		auth.POST("/student/logout", middleware.RequireStudentJWT(authService), handlers.Auth.StudentLogout)
		auth.GET("/student/me", middleware.RequireStudentJWT(authService), handlers.Auth.GetStudentProfile)
	}

	// ─── 2. Student Portal Group (JWT + Single Device) ─────────────────
	portal := router.Group("/api/v1/portal")
	portal.Use(
		middleware.RequireStudentJWT(authService),
		middleware.CheckSingleDeviceSession(authService),
	)
	{
		portal.GET("/exams", handlers.Portal.GetLobby)
		portal.POST("/exams/join", handlers.Portal.JoinExam)
		portal.GET("/exams/:examId", handlers.Portal.GetExam)
		portal.GET("/exams/:examId/paper", handlers.Portal.GetPaper)
		portal.GET("/exams/:examId/state", handlers.Portal.GetState)
		portal.GET("/exams/:examId/result", handlers.Portal.GetResult)
	}

	// ─── 3. WebSocket Group (Student WS Auth) ──────────────────────────
	// Browsers cannot set headers on WebSocket upgrades, so the token
	// rides in the query string and is validated by dedicated middleware.
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireStudentWSAuth(authService))
	{
		ws.GET("/portal/exams/:examId/attempt", handlers.WS.AttemptStream)
	}

	// ─── 4. Admin Group (JWT + RBAC) ───────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.RequireAdminJWT(authService))
	{
		// Exam authoring
		adminAPI.GET("/exams",
			middleware.RequirePermission(string(model.PermissionExamsRead)),
			handlers.Exam.List,
		)
		adminAPI.POST("/exams",
			middleware.RequirePermission(string(model.PermissionExamsWrite)),
			handlers.Exam.Create,
		)
		adminAPI.GET("/exams/:examId",
			middleware.RequirePermission(string(model.PermissionExamsRead)),
			handlers.Exam.Get,
		)
		adminAPI.PUT("/exams/:examId",
			middleware.RequirePermission(string(model.PermissionExamsWrite)),
			handlers.Exam.Update,
		)
		adminAPI.POST("/exams/:examId/publish",
			middleware.RequirePermission(string(model.PermissionExamsPublish)),
			handlers.Exam.Publish,
		)
		adminAPI.POST("/exams/:examId/refresh-cache",
			middleware.RequirePermission(string(model.PermissionExamsPublish)),
			handlers.Exam.RefreshCache,
		)
		adminAPI.GET("/exams/:examId/results",
			middleware.RequirePermission(string(model.PermissionResultsRead)),
			handlers.Exam.Results,
		)

		// Question authoring
		adminAPI.GET("/exams/:examId/questions",
			middleware.RequirePermission(string(model.PermissionExamsRead)),
			handlers.Question.List,
		)
		adminAPI.POST("/exams/:examId/questions",
			middleware.RequirePermission(string(model.PermissionExamsWrite)),
			handlers.Question.Add,
		)
		adminAPI.PUT("/exams/:examId/questions",
			middleware.RequirePermission(string(model.PermissionExamsWrite)),
			handlers.Question.ReplaceAll,
		)

		// Student management
		adminAPI.GET("/students",
			middleware.RequirePermission(string(model.PermissionStudentsWrite)),
			handlers.Student.List,
		)
		adminAPI.POST("/students",
			middleware.RequirePermission(string(model.PermissionStudentsWrite)),
			handlers.Student.Create,
		)
		adminAPI.POST("/students/:studentId/reset-session",
			middleware.RequirePermission(string(model.PermissionStudentsWrite)),
			handlers.Student.ResetSession,
		)
	}

	return router
}
