package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskboard/internal/dto"
	apierrors "github.com/yukikurage/taskboard/internal/errors"
	"github.com/yukikurage/taskboard/internal/logging"
	"github.com/yukikurage/taskboard/internal/services"
)

const projectAdminURL = "/admin/projects/"

// ProjectAdminHandler lets staff add and rename projects. Projects are never
// deleted from here since workers and tasks hang off them.
type ProjectAdminHandler struct {
	projectService *services.ProjectService
}

func NewProjectAdminHandler(projectService *services.ProjectService) *ProjectAdminHandler {
	return &ProjectAdminHandler{projectService: projectService}
}

func (h *ProjectAdminHandler) List(c *gin.Context) {
	projects, err := h.projectService.ListProjects()
	if err != nil {
		h.respondError(c, err)
		return
	}
	labels := make([]dto.LabelDTO, len(projects))
	for i, project := range projects {
		labels[i] = dto.LabelDTO{ID: project.ID, Name: project.Name}
	}
	render(c, http.StatusOK, "admin_label_list.html", gin.H{
		"title":  "Projects",
		"kind":   "projects",
		"labels": labels,
	}, gin.H{"projects": labels})
}

func (h *ProjectAdminHandler) formData(action, name string) gin.H {
	return gin.H{"title": "Projects", "kind": "projects", "action": action, "name": name, "errors": FormErrors{}}
}

func (h *ProjectAdminHandler) AddForm(c *gin.Context) {
	render(c, http.StatusOK, "admin_label_form.html", h.formData(projectAdminURL+"add/", ""), gin.H{"name": ""})
}

func (h *ProjectAdminHandler) Add(c *gin.Context) {
	name := c.PostForm("name")
	project, err := h.projectService.CreateProject(name)
	if err != nil {
		h.respondFormError(c, h.formData(projectAdminURL+"add/", name), err)
		return
	}
	logging.Logger.WithField("project_id", project.ID).WithField("staff_id", currentWorker(c).ID).Info("Project added")
	redirect(c, projectAdminURL)
}

func (h *ProjectAdminHandler) EditForm(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.NotFound(c, "Project not found")
		return
	}
	project, err := h.projectService.GetProject(id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	data := h.formData(fmt.Sprintf("%s%d/", projectAdminURL, id), project.Name)
	render(c, http.StatusOK, "admin_label_form.html", data, dto.ToProjectDTO(*project))
}

func (h *ProjectAdminHandler) Edit(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.NotFound(c, "Project not found")
		return
	}
	name := c.PostForm("name")
	if err := h.projectService.RenameProject(id, name); err != nil {
		h.respondFormError(c, h.formData(fmt.Sprintf("%s%d/", projectAdminURL, id), name), err)
		return
	}
	redirect(c, projectAdminURL)
}

func (h *ProjectAdminHandler) respondFormError(c *gin.Context, data gin.H, err error) {
	if errs, ok := serviceFormErrors(err); ok {
		renderForm(c, http.StatusBadRequest, "admin_label_form.html", data, errs)
		return
	}
	h.respondError(c, err)
}

func (h *ProjectAdminHandler) respondError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrProjectNotFound) {
		apierrors.NotFound(c, "Project not found")
		return
	}
	logging.Logger.WithError(err).Error("Project admin request failed")
	apierrors.InternalError(c, "")
}
