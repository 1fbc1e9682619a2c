package api

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	authmw "github.com/trackboard/trackboard/internal/auth"
	"github.com/trackboard/trackboard/internal/database"
	pkgauth "github.com/trackboard/trackboard/pkg/auth"
)

// Handlers bundles everything the router wires up.
type Handlers struct {
	Core      *Handler
	Auth      *AuthHandler
	Org       *OrgHandler
	Agile     *AgileHandler
	Dashboard *DashboardHandler
	Search    *SearchHandler
	Token     *TokenHandler
	Webhook   *WebhookHandler
}

func SetupRouter(db *database.Database, jwtManager *pkgauth.JWTManager, h Handlers) *gin.Engine {
	router := gin.Default()

	router.Use(cors.Default())

	// Session endpoints are the only unauthenticated surface besides /health
	auth := router.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)
		auth.GET("/me", authmw.AuthMiddleware(db, jwtManager), h.Auth.Me)
	}

	api := router.Group("/api")
	api.Use(authmw.AuthMiddleware(db, jwtManager))
	{
		projects := api.Group("/projects")
		{
			projects.POST("", h.Core.CreateProject)
			projects.GET("", h.Core.ListProjects)
			projects.GET("/:id", h.Core.GetProject)
			projects.PUT("/:id", h.Core.UpdateProject)
			projects.DELETE("/:id", h.Core.DeleteProject)
			projects.GET("/:id/tasks", h.Core.ListProjectTasks)
			projects.POST("/:id/tasks", h.Core.CreateProjectTask)
		}

		tasks := api.Group("/tasks")
		{
			tasks.POST("", h.Core.CreateTask)
			tasks.GET("", h.Core.ListTasks)
			tasks.GET("/:id", h.Core.GetTask)
			tasks.PUT("/:id", h.Core.UpdateTask)
			tasks.DELETE("/:id", h.Core.DeleteTask)
			tasks.POST("/:id/comments", h.Core.AddComment)
			tasks.POST("/:id/attachments", h.Core.UploadAttachment)
			tasks.GET("/:id/attachments/:attachment_id", h.Core.DownloadAttachment)
			tasks.GET("/:id/dependencies", h.Core.GetTaskDependencies)
			tasks.POST("/:id/dependencies", h.Core.AddTaskDependency)
			tasks.DELETE("/:id/dependencies/:dep_id", h.Core.RemoveTaskDependency)
		}

		companies := api.Group("/companies")
		{
			companies.POST("", h.Org.CreateCompany)
			companies.GET("", h.Org.ListCompanies)
			companies.GET("/:id", h.Org.GetCompany)
			companies.PUT("/:id", h.Org.UpdateCompany)
			companies.DELETE("/:id", h.Org.DeleteCompany)
		}

		departments := api.Group("/departments")
		{
			departments.POST("", h.Org.CreateDepartment)
			departments.GET("", h.Org.ListDepartments)
			departments.GET("/:id", h.Org.GetDepartment)
			departments.PUT("/:id", h.Org.UpdateDepartment)
			departments.DELETE("/:id", h.Org.DeleteDepartment)
		}

		teams := api.Group("/teams")
		{
			teams.POST("", h.Org.CreateTeam)
			teams.GET("", h.Org.ListTeams)
			teams.GET("/:id", h.Org.GetTeam)
			teams.PUT("/:id", h.Org.UpdateTeam)
			teams.DELETE("/:id", h.Org.DeleteTeam)
		}

		users := api.Group("/users")
		{
			users.GET("", h.Org.ListUsers)
			users.GET("/:id", h.Org.GetUser)
		}

		sprints := api.Group("/sprints")
		{
			sprints.POST("", h.Agile.CreateSprint)
			sprints.GET("", h.Agile.ListSprints)
			sprints.GET("/:id", h.Agile.GetSprint)
			sprints.PUT("/:id", h.Agile.UpdateSprint)
			sprints.DELETE("/:id", h.Agile.DeleteSprint)
			sprints.GET("/:id/burndown", h.Agile.GetBurndown)
		}

		stories := api.Group("/stories")
		{
			stories.POST("", h.Agile.CreateStory)
			stories.GET("", h.Agile.ListStories)
			stories.GET("/:id", h.Agile.GetStory)
			stories.PUT("/:id", h.Agile.UpdateStory)
			stories.DELETE("/:id", h.Agile.DeleteStory)
		}

		webhooks := api.Group("/webhooks")
		{
			webhooks.POST("", h.Webhook.CreateWebhook)
			webhooks.GET("", h.Webhook.ListWebhooks)
			webhooks.GET("/:id", h.Webhook.GetWebhook)
			webhooks.PUT("/:id", h.Webhook.UpdateWebhook)
			webhooks.DELETE("/:id", h.Webhook.DeleteWebhook)
		}

		api.GET("/dashboard", h.Dashboard.GetDashboard)
		api.GET("/dashboard/stats", h.Dashboard.GetStats)
		api.GET("/analytics/velocity", h.Agile.GetVelocity)
		api.GET("/search", h.Search.GlobalSearch)
	}

	admin := router.Group("/admin")
	admin.Use(authmw.AuthMiddleware(db, jwtManager), authmw.AdminOnly())
	{
		admin.POST("/tokens", h.Token.CreateAPIToken)
		admin.GET("/tokens", h.Token.ListAPITokens)
		admin.GET("/tokens/:id", h.Token.GetAPIToken)
		admin.DELETE("/tokens/:id", h.Token.RevokeAPIToken)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
		})
	})

	router.GET("/info", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":    "Trackboard",
			"version": "1.0.0",
			"endpoints": gin.H{
				"api":    "/api",
				"auth":   "/auth",
				"admin":  "/admin",
				"health": "/health",
			},
		})
	})

	return router
}
