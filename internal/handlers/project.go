package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskboard/internal/dto"
	apierrors "github.com/yukikurage/taskboard/internal/errors"
	"github.com/yukikurage/taskboard/internal/logging"
	"github.com/yukikurage/taskboard/internal/services"
)

type ProjectHandler struct {
	projectService *services.ProjectService
}

func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
	}
}

// Dashboard shows the counts of the acting worker's project
func (h *ProjectHandler) Dashboard(c *gin.Context) {
	stats, err := h.projectService.Dashboard(currentWorker(c))
	if err != nil {
		logging.Logger.WithError(err).Error("Failed to build dashboard")
		apierrors.InternalError(c, "")
		return
	}

	render(c, http.StatusOK, "index.html", gin.H{"stats": stats}, stats)
}

// ListProjects lists all projects and marks the acting worker's one
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	projects, err := h.projectService.ListProjects()
	if err != nil {
		logging.Logger.WithError(err).Error("Failed to list projects")
		apierrors.InternalError(c, "")
		return
	}

	worker := currentWorker(c)
	response := dto.ProjectListResponse{
		Projects:     make([]dto.ProjectDTO, len(projects)),
		UsersProject: worker.ProjectID,
	}
	for i, project := range projects {
		response.Projects[i] = dto.ToProjectDTO(project)
	}

	render(c, http.StatusOK, "project_list.html", gin.H{
		"title":         "Projects",
		"projects":      projects,
		"users_project": worker.ProjectID,
	}, response)
}
