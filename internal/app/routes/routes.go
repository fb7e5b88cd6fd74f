package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/semesterhub/internal/app/controllers"
	"github.com/yigit/semesterhub/internal/app/models"
	"github.com/yigit/semesterhub/internal/middleware"
)

// Controllers groups every HTTP controller the router mounts
type Controllers struct {
	Auth          *controllers.AuthController
	Semester      *controllers.SemesterController
	Syllabus      *controllers.SyllabusController
	QuestionPaper *controllers.QuestionPaperController
	Resource      *controllers.ResourceController
	Home          *controllers.HomeController
	User          *controllers.UserController
	Chat          *controllers.ChatController
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c Controllers, authMiddleware *middleware.AuthMiddleware) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public routes; a valid token still populates the principal ---
	public := v1.Group("")
	public.Use(authMiddleware.OptionalAuth())
	{
		public.GET("/home", c.Home.Home)

		public.GET("/semesters", c.Semester.List)
		public.GET("/semesters/:id", c.Semester.Get)
		public.GET("/semesters/:id/resources", c.Semester.Resources)
		public.GET("/syllabus/:semesterId", c.Semester.Syllabi)
		public.GET("/papers/:semesterId", c.Semester.Papers)

		public.GET("/syllabi", c.Syllabus.List)
		public.GET("/syllabi/:id", c.Syllabus.Get)
		public.GET("/syllabi/:id/download", c.Syllabus.Download)

		public.GET("/question-papers", c.QuestionPaper.List)
		public.GET("/question-papers/:id", c.QuestionPaper.Get)
		public.GET("/question-papers/:id/download", c.QuestionPaper.Download)

		public.GET("/resources", c.Resource.List)
		public.GET("/resources/:id", c.Resource.Get)
		public.GET("/resources/:id/download", c.Resource.Download)

		public.POST("/chat", c.Chat.Ask)
		public.GET("/chat/models", c.Chat.Models)
		public.GET("/chat/health", c.Chat.Health)
		public.GET("/chat/ws", c.Chat.WebSocket)
	}

	// --- Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", c.Auth.Login)
		auth.GET("/me", authMiddleware.JWTAuth(), c.Auth.Me)
	}

	// --- Admin routes; services check the role again ---
	admin := v1.Group("")
	admin.Use(authMiddleware.JWTAuth(), authMiddleware.RoleRequired(models.RoleSuperAdmin))
	{
		admin.GET("/admin/dashboard", c.Home.Dashboard)

		admin.POST("/syllabi", c.Syllabus.Create)
		admin.PUT("/syllabi/:id", c.Syllabus.Update)
		admin.DELETE("/syllabi/:id", c.Syllabus.Delete)

		admin.POST("/question-papers", c.QuestionPaper.Create)
		admin.PUT("/question-papers/:id", c.QuestionPaper.Update)
		admin.DELETE("/question-papers/:id", c.QuestionPaper.Delete)

		admin.POST("/resources", c.Resource.Create)
		admin.PUT("/resources/:id", c.Resource.Update)
		admin.DELETE("/resources/:id", c.Resource.Delete)

		users := admin.Group("/users")
		{
			users.GET("", c.User.List)
			users.POST("", c.User.Create)
			users.GET("/:id", c.User.Get)
			users.PUT("/:id", c.User.Update)
			users.DELETE("/:id", c.User.Delete)
		}
	}
}
