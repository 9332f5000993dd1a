package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskboard/internal/constants"
	"github.com/yukikurage/taskboard/internal/dto"
	apierrors "github.com/yukikurage/taskboard/internal/errors"
	"github.com/yukikurage/taskboard/internal/logging"
	"github.com/yukikurage/taskboard/internal/services"
	"github.com/yukikurage/taskboard/internal/utils"
)

// WorkerHandler serves the worker directory, registration and profile pages.
type WorkerHandler struct {
	workerService *services.WorkerService
	authService   *services.AuthService
}

// NewWorkerHandler creates a new WorkerHandler.
func NewWorkerHandler(workerService *services.WorkerService, authService *services.AuthService) *WorkerHandler {
	return &WorkerHandler{
		workerService: workerService,
		authService:   authService,
	}
}

// ProfileForm holds the fields a worker may edit on their own profile.
type ProfileForm struct {
	FirstName  string `form:"first_name" json:"first_name" binding:"max=150"`
	LastName   string `form:"last_name" json:"last_name" binding:"max=150"`
	Email      string `form:"email" json:"email" binding:"omitempty,email"`
	PositionID uint64 `form:"position_id" json:"position_id"`
	ProjectID  uint64 `form:"project_id" json:"project_id"`
}

func (f ProfileForm) input() services.ProfileInput {
	return services.ProfileInput{
		FirstName:  f.FirstName,
		LastName:   f.LastName,
		Email:      f.Email,
		PositionID: f.PositionID,
		ProjectID:  f.ProjectID,
	}
}

// SignupForm is the registration form.
type SignupForm struct {
	Username        string `form:"username" json:"username" binding:"required,max=150"`
	Password        string `form:"password" json:"password" binding:"required"`
	PasswordConfirm string `form:"password_confirm" json:"password_confirm" binding:"required"`
	ProfileForm
}

func workerURL(workerID uint64) string {
	return fmt.Sprintf("/workers/%d/", workerID)
}

// ListWorkers searches workers by first or last name
func (h *WorkerHandler) ListWorkers(c *gin.Context) {
	page, err := utils.GetPage(c)
	if err != nil {
		apierrors.NotFound(c, "Invalid page")
		return
	}

	list, err := h.workerService.ListWorkers(services.ListWorkersInput{
		Name: c.Query("name"),
		Page: page,
	})
	if err != nil {
		respondWorkerError(c, err)
		return
	}

	query := url.Values{}
	if list.Name != "" {
		query.Set("name", list.Name)
	}
	render(c, http.StatusOK, "worker_list.html", gin.H{
		"title": "Workers",
		"list":  list,
		"page":  list.Page,
		"query": query,
	}, dto.WorkerListResponse{
		Workers:    dto.ToWorkerDTOs(list.Workers),
		Name:       list.Name,
		NumWorkers: list.NumWorkers,
		Pagination: dto.ToPageDTO(list.Page),
	})
}

// GetWorker shows a worker with their position, project and tasks
func (h *WorkerHandler) GetWorker(c *gin.Context) {
	workerID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.NotFound(c, "Worker not found")
		return
	}

	worker, err := h.workerService.GetWorker(workerID)
	if err != nil {
		respondWorkerError(c, err)
		return
	}

	render(c, http.StatusOK, "worker_detail.html", gin.H{
		"title":   worker.FullName(),
		"profile": worker,
		"is_self": worker.ID == currentWorker(c).ID,
	}, dto.ToWorkerDTO(*worker))
}

// referenceChoices loads the position and project choices of worker forms
func referenceChoices(c *gin.Context, workerService *services.WorkerService, data gin.H) bool {
	positions, err := workerService.Positions()
	if err != nil {
		logging.Logger.WithError(err).Error("Failed to load positions")
		apierrors.InternalError(c, "")
		return false
	}
	projects, err := workerService.Projects()
	if err != nil {
		logging.Logger.WithError(err).Error("Failed to load projects")
		apierrors.InternalError(c, "")
		return false
	}
	data["positions"] = positions
	data["projects"] = projects
	if _, ok := data["errors"]; !ok {
		data["errors"] = FormErrors{}
	}
	return true
}

// SignupForm shows the registration form
func (h *WorkerHandler) SignupForm(c *gin.Context) {
	data := gin.H{"title": "Create an account", "signup": true, "action": "/workers/create/", "form": SignupForm{}}
	if !referenceChoices(c, h.workerService, data) {
		return
	}
	render(c, http.StatusOK, "worker_form.html", data, data["form"])
}

// Signup registers a worker and logs them in
func (h *WorkerHandler) Signup(c *gin.Context) {
	var form SignupForm
	bindErr := c.ShouldBind(&form)

	data := gin.H{"title": "Create an account", "signup": true, "action": "/workers/create/", "form": form}
	if !referenceChoices(c, h.workerService, data) {
		return
	}
	if bindErr != nil {
		renderForm(c, http.StatusBadRequest, "worker_form.html", data, bindingErrors(bindErr))
		return
	}

	worker, err := h.authService.Signup(services.SignupInput{
		Username:        form.Username,
		Password:        form.Password,
		PasswordConfirm: form.PasswordConfirm,
		FirstName:       form.FirstName,
		LastName:        form.LastName,
		Email:           form.Email,
		PositionID:      form.PositionID,
		ProjectID:       form.ProjectID,
	})
	if err != nil {
		if errs, ok := serviceFormErrors(err); ok {
			renderForm(c, http.StatusBadRequest, "worker_form.html", data, errs)
			return
		}
		logging.Logger.WithError(err).Error("Failed to register worker")
		apierrors.InternalError(c, "")
		return
	}

	session := sessions.Default(c)
	session.Set(constants.ContextKeyWorkerID, worker.ID)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	logging.Logger.WithField("worker_id", worker.ID).Info("Worker registered")
	redirect(c, "/")
}

// UpdateProfileForm shows the acting worker's profile form
func (h *WorkerHandler) UpdateProfileForm(c *gin.Context) {
	worker := currentWorker(c)
	form := ProfileForm{
		FirstName: worker.FirstName,
		LastName:  worker.LastName,
		Email:     worker.Email,
	}
	if worker.PositionID != nil {
		form.PositionID = *worker.PositionID
	}
	if worker.ProjectID != nil {
		form.ProjectID = *worker.ProjectID
	}

	data := gin.H{"title": "Edit profile", "action": "/workers/update/", "form": form}
	if !referenceChoices(c, h.workerService, data) {
		return
	}
	render(c, http.StatusOK, "worker_form.html", data, form)
}

// UpdateProfile saves the acting worker's profile
func (h *WorkerHandler) UpdateProfile(c *gin.Context) {
	worker := currentWorker(c)

	var form ProfileForm
	bindErr := c.ShouldBind(&form)

	data := gin.H{"title": "Edit profile", "action": "/workers/update/", "form": form}
	if !referenceChoices(c, h.workerService, data) {
		return
	}
	if bindErr != nil {
		renderForm(c, http.StatusBadRequest, "worker_form.html", data, bindingErrors(bindErr))
		return
	}

	if _, err := h.workerService.UpdateProfile(worker, form.input()); err != nil {
		if errs, ok := serviceFormErrors(err); ok {
			renderForm(c, http.StatusBadRequest, "worker_form.html", data, errs)
			return
		}
		respondWorkerError(c, err)
		return
	}

	redirect(c, workerURL(worker.ID))
}

func respondWorkerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrWorkerNotFound):
		apierrors.NotFound(c, "Worker not found")
	case errors.Is(err, utils.ErrInvalidPage):
		apierrors.NotFound(c, "Invalid page")
	default:
		logging.Logger.WithError(err).Error("Worker request failed")
		apierrors.InternalError(c, "")
	}
}
