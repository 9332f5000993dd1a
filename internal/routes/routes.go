// Package routes declares every HTTP route of the application.
package routes

import (
	"html/template"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/yukikurage/taskboard/internal/authz"
	"github.com/yukikurage/taskboard/internal/constants"
	"github.com/yukikurage/taskboard/internal/handlers"
	"github.com/yukikurage/taskboard/internal/middleware"
	"github.com/yukikurage/taskboard/internal/models"
	"github.com/yukikurage/taskboard/internal/repository"
	"github.com/yukikurage/taskboard/internal/services"
	"github.com/yukikurage/taskboard/internal/web"
	"gorm.io/gorm"
)

// Deps are the external resources the router is built from.
type Deps struct {
	DB           *gorm.DB
	SessionStore sessions.Store
	// Redis is pinged by /health when set.
	Redis *redis.Client
	// Drafter enables /tasks/generate/ when set.
	Drafter services.TaskDrafter
	// Templates overrides the embedded templates.
	Templates *template.Template
	// Clock overrides the clock deciding which deadlines are past.
	Clock services.Clock
}

// NewRouter builds the gin engine with all middleware and routes.
func NewRouter(deps Deps) *gin.Engine {
	handlers.RegisterValidators()

	taskRepo := repository.NewTaskRepository(deps.DB)
	workerRepo := repository.NewWorkerRepository(deps.DB)
	projectRepo := repository.NewProjectRepository(deps.DB)
	taskTypeRepo := repository.NewLabelRepository[models.TaskType](deps.DB)
	positionRepo := repository.NewLabelRepository[models.Position](deps.DB)

	taskService := services.NewTaskService(taskRepo, workerRepo, projectRepo, taskTypeRepo, deps.Drafter)
	if deps.Clock != nil {
		taskService.SetClock(deps.Clock)
	}
	authService := services.NewAuthService(workerRepo, projectRepo, positionRepo)
	workerService := services.NewWorkerService(workerRepo, projectRepo, positionRepo)
	projectService := services.NewProjectService(projectRepo, workerRepo, taskRepo)
	adminService := services.NewAdminService(taskRepo, workerRepo)
	taskTypeService := services.NewLabelService(taskTypeRepo, func(name string) *models.TaskType {
		return &models.TaskType{Name: name}
	})
	positionService := services.NewLabelService(positionRepo, func(name string) *models.Position {
		return &models.Position{Name: name}
	})

	taskHandler := handlers.NewTaskHandler(taskService)
	workerHandler := handlers.NewWorkerHandler(workerService, authService)
	projectHandler := handlers.NewProjectHandler(projectService)
	authHandler := handlers.NewAuthHandler(authService)
	adminHandler := handlers.NewAdminHandler(adminService, workerService, authService)
	taskTypeAdmin := handlers.NewLabelAdminHandler(taskTypeService, "task-types", "Task types")
	positionAdmin := handlers.NewLabelAdminHandler(positionService, "positions", "Positions")
	projectAdmin := handlers.NewProjectAdminHandler(projectService)
	healthHandler := handlers.NewHealthHandler(deps.DB, deps.Redis)

	r := gin.New()
	r.Use(middleware.RequestLogger())
	r.Use(gin.Recovery())

	tmpl := deps.Templates
	if tmpl == nil {
		tmpl = web.MustTemplates()
	}
	r.SetHTMLTemplate(tmpl)

	r.GET("/health", healthHandler.Check)

	site := r.Group("/")
	site.Use(sessions.Sessions(constants.SessionCookieName, deps.SessionStore))

	// Public routes
	accounts := site.Group("/accounts")
	{
		accounts.GET("/login/", authHandler.LoginForm)
		accounts.POST("/login/", authHandler.Login)
		accounts.POST("/logout/", authHandler.Logout)
	}
	site.GET("/workers/create/", workerHandler.SignupForm)
	site.POST("/workers/create/", workerHandler.Signup)

	// Protected routes
	authed := site.Group("/")
	authed.Use(middleware.RequireAuth(workerRepo))
	{
		authed.GET("/", projectHandler.Dashboard)
		authed.GET("/projects/", projectHandler.ListProjects)
		authed.GET("/projects/:project_id/tasks/", taskHandler.ListTasks)

		authed.GET("/tasks/create/", taskHandler.CreateTaskForm)
		authed.POST("/tasks/create/", taskHandler.CreateTask)
		authed.GET("/tasks/generate/", taskHandler.GenerateTasksForm)
		authed.POST("/tasks/generate/", taskHandler.GenerateTasks)
		authed.POST("/tasks/:id/toggle/", taskHandler.ToggleTaskCompletion)

		task := authed.Group("/tasks/:id")
		task.Use(middleware.LoadTask(taskRepo))
		{
			task.GET("/", taskHandler.GetTask)

			owned := task.Group("/")
			owned.Use(middleware.RequireTaskPermission(authz.SameProject))
			owned.GET("/update/", taskHandler.UpdateTaskForm)
			owned.POST("/update/", taskHandler.UpdateTask)
			owned.GET("/delete/", taskHandler.DeleteTaskForm)
			owned.POST("/delete/", taskHandler.DeleteTask)
		}

		authed.GET("/workers/", workerHandler.ListWorkers)
		authed.GET("/workers/update/", workerHandler.UpdateProfileForm)
		authed.POST("/workers/update/", workerHandler.UpdateProfile)
		authed.GET("/workers/:id/", workerHandler.GetWorker)
	}

	// Staff routes
	admin := authed.Group("/admin")
	admin.Use(middleware.RequireStaff())
	{
		admin.GET("/", adminHandler.Index)

		admin.GET("/workers/", adminHandler.ListWorkers)
		admin.GET("/workers/add/", adminHandler.AddWorkerForm)
		admin.POST("/workers/add/", adminHandler.AddWorker)
		admin.GET("/workers/:id/", adminHandler.EditWorkerForm)
		admin.POST("/workers/:id/", adminHandler.EditWorker)

		admin.GET("/tasks/", adminHandler.ListTasks)
		admin.POST("/tasks/:id/delete/", adminHandler.DeleteTask)

		admin.GET("/projects/", projectAdmin.List)
		admin.GET("/projects/add/", projectAdmin.AddForm)
		admin.POST("/projects/add/", projectAdmin.Add)
		admin.GET("/projects/:id/", projectAdmin.EditForm)
		admin.POST("/projects/:id/", projectAdmin.Edit)

		mountLabelAdmin(admin.Group("/task-types"), taskTypeAdmin)
		mountLabelAdmin(admin.Group("/positions"), positionAdmin)
	}

	return r
}

type labelAdmin interface {
	List(c *gin.Context)
	AddForm(c *gin.Context)
	Add(c *gin.Context)
	EditForm(c *gin.Context)
	Edit(c *gin.Context)
	Delete(c *gin.Context)
}

func mountLabelAdmin(g *gin.RouterGroup, h labelAdmin) {
	g.GET("/", h.List)
	g.GET("/add/", h.AddForm)
	g.POST("/add/", h.Add)
	g.GET("/:id/", h.EditForm)
	g.POST("/:id/", h.Edit)
	g.POST("/:id/delete/", h.Delete)
}
