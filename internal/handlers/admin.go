package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskboard/internal/dto"
	apierrors "github.com/yukikurage/taskboard/internal/errors"
	"github.com/yukikurage/taskboard/internal/logging"
	"github.com/yukikurage/taskboard/internal/repository"
	"github.com/yukikurage/taskboard/internal/services"
	"github.com/yukikurage/taskboard/internal/utils"
)

// AdminHandler serves the staff pages for workers and tasks. Routes must be
// guarded by RequireStaff.
type AdminHandler struct {
	adminService  *services.AdminService
	workerService *services.WorkerService
	authService   *services.AuthService
}

func NewAdminHandler(adminService *services.AdminService, workerService *services.WorkerService, authService *services.AuthService) *AdminHandler {
	return &AdminHandler{
		adminService:  adminService,
		workerService: workerService,
		authService:   authService,
	}
}

// AdminWorkerForm is the staff worker form. Password fields are used only
// when adding a worker.
type AdminWorkerForm struct {
	Username        string `form:"username" json:"username" binding:"required,max=150"`
	Password        string `form:"password" json:"password"`
	PasswordConfirm string `form:"password_confirm" json:"password_confirm"`
	IsStaff         bool   `form:"is_staff" json:"is_staff"`
	ProfileForm
}

func (h *AdminHandler) Index(c *gin.Context) {
	render(c, http.StatusOK, "admin_index.html", gin.H{"title": "Administration"}, gin.H{
		"models": []string{"workers", "tasks", "projects", "task-types", "positions"},
	})
}

// ListWorkers lists every worker with their position
func (h *AdminHandler) ListWorkers(c *gin.Context) {
	page, err := utils.GetPage(c)
	if err != nil {
		apierrors.NotFound(c, "Invalid page")
		return
	}

	workers, p, err := h.adminService.ListWorkers(page)
	if err != nil {
		respondWorkerError(c, err)
		return
	}

	render(c, http.StatusOK, "admin_worker_list.html", gin.H{
		"title":   "Workers",
		"workers": workers,
		"page":    p,
		"query":   url.Values{},
	}, gin.H{"workers": dto.ToWorkerDTOs(workers), "pagination": dto.ToPageDTO(p)})
}

// AddWorkerForm shows the staff form for a new worker
func (h *AdminHandler) AddWorkerForm(c *gin.Context) {
	data := gin.H{"title": "Add worker", "action": "/admin/workers/add/", "form": AdminWorkerForm{}}
	if !referenceChoices(c, h.workerService, data) {
		return
	}
	render(c, http.StatusOK, "admin_worker_form.html", data, data["form"])
}

// AddWorker creates a worker
func (h *AdminHandler) AddWorker(c *gin.Context) {
	var form AdminWorkerForm
	bindErr := c.ShouldBind(&form)

	data := gin.H{"title": "Add worker", "action": "/admin/workers/add/", "form": form}
	if !referenceChoices(c, h.workerService, data) {
		return
	}
	if bindErr != nil {
		renderForm(c, http.StatusBadRequest, "admin_worker_form.html", data, bindingErrors(bindErr))
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
		IsStaff:         form.IsStaff,
	})
	if err != nil {
		if errs, ok := serviceFormErrors(err); ok {
			renderForm(c, http.StatusBadRequest, "admin_worker_form.html", data, errs)
			return
		}
		logging.Logger.WithError(err).Error("Failed to add worker")
		apierrors.InternalError(c, "")
		return
	}

	logging.Logger.WithField("worker_id", worker.ID).WithField("staff_id", currentWorker(c).ID).Info("Worker added")
	redirect(c, "/admin/workers/")
}

// EditWorkerForm shows the staff form of an existing worker
func (h *AdminHandler) EditWorkerForm(c *gin.Context) {
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

	form := AdminWorkerForm{Username: worker.Username, IsStaff: worker.IsStaff}
	form.FirstName = worker.FirstName
	form.LastName = worker.LastName
	form.Email = worker.Email
	if worker.PositionID != nil {
		form.PositionID = *worker.PositionID
	}
	if worker.ProjectID != nil {
		form.ProjectID = *worker.ProjectID
	}

	data := gin.H{
		"title":  "Change worker",
		"action": fmt.Sprintf("/admin/workers/%d/", worker.ID),
		"form":   form,
		"edited": worker,
	}
	if !referenceChoices(c, h.workerService, data) {
		return
	}
	render(c, http.StatusOK, "admin_worker_form.html", data, dto.ToWorkerDTO(*worker))
}

// EditWorker saves a worker's username, staff flag and profile
func (h *AdminHandler) EditWorker(c *gin.Context) {
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

	var form AdminWorkerForm
	bindErr := c.ShouldBind(&form)

	data := gin.H{
		"title":  "Change worker",
		"action": fmt.Sprintf("/admin/workers/%d/", worker.ID),
		"form":   form,
		"edited": worker,
	}
	if !referenceChoices(c, h.workerService, data) {
		return
	}
	if bindErr != nil {
		renderForm(c, http.StatusBadRequest, "admin_worker_form.html", data, bindingErrors(bindErr))
		return
	}

	_, err = h.workerService.AdminUpdateWorker(worker.ID, services.AdminWorkerInput{
		Username:     form.Username,
		IsStaff:      form.IsStaff,
		ProfileInput: form.ProfileForm.input(),
	})
	if err != nil {
		if errs, ok := serviceFormErrors(err); ok {
			renderForm(c, http.StatusBadRequest, "admin_worker_form.html", data, errs)
			return
		}
		respondWorkerError(c, err)
		return
	}

	redirect(c, "/admin/workers/")
}

// ListTasks lists every task of every project
func (h *AdminHandler) ListTasks(c *gin.Context) {
	page, err := utils.GetPage(c)
	if err != nil {
		apierrors.NotFound(c, "Invalid page")
		return
	}

	tasks, p, err := h.adminService.ListTasks(page)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	render(c, http.StatusOK, "admin_task_list.html", gin.H{
		"title": "Tasks",
		"tasks": tasks,
		"page":  p,
		"query": url.Values{},
	}, gin.H{"tasks": dto.ToTaskDTOs(tasks), "pagination": dto.ToPageDTO(p)})
}

// DeleteTask deletes any task
func (h *AdminHandler) DeleteTask(c *gin.Context) {
	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.NotFound(c, "Task not found")
		return
	}

	if err := h.adminService.DeleteTask(taskID); err != nil {
		respondTaskError(c, err)
		return
	}

	logging.Logger.WithField("task_id", taskID).WithField("staff_id", currentWorker(c).ID).Info("Task deleted by staff")
	redirect(c, "/admin/tasks/")
}

// LabelAdminHandler serves the staff pages of one label table.
type LabelAdminHandler[T repository.Label] struct {
	service *services.LabelService[T]
	kind    string
	title   string
}

// NewLabelAdminHandler creates a LabelAdminHandler mounted under /admin/<kind>/.
func NewLabelAdminHandler[T repository.Label](service *services.LabelService[T], kind, title string) *LabelAdminHandler[T] {
	return &LabelAdminHandler[T]{service: service, kind: kind, title: title}
}

func (h *LabelAdminHandler[T]) listURL() string {
	return "/admin/" + h.kind + "/"
}

func toLabelDTOs[T repository.Label](labels []T) []dto.LabelDTO {
	dtos := make([]dto.LabelDTO, len(labels))
	for i, label := range labels {
		dtos[i] = dto.LabelDTO{ID: label.LabelID(), Name: label.LabelName()}
	}
	return dtos
}

func (h *LabelAdminHandler[T]) renderList(c *gin.Context, status int, message string) {
	labels, err := h.service.List()
	if err != nil {
		logging.Logger.WithError(err).Error("Failed to list labels")
		apierrors.InternalError(c, "")
		return
	}
	dtos := toLabelDTOs(labels)
	body := gin.H{"labels": dtos}
	if message != "" {
		body["error"] = message
	}
	render(c, status, "admin_label_list.html", gin.H{
		"title":     h.title,
		"kind":      h.kind,
		"labels":    dtos,
		"error":     message,
		"deletable": true,
	}, body)
}

func (h *LabelAdminHandler[T]) List(c *gin.Context) {
	h.renderList(c, http.StatusOK, "")
}

func (h *LabelAdminHandler[T]) formData(action, name string) gin.H {
	return gin.H{"title": h.title, "kind": h.kind, "action": action, "name": name, "errors": FormErrors{}}
}

func (h *LabelAdminHandler[T]) AddForm(c *gin.Context) {
	data := h.formData(h.listURL()+"add/", "")
	render(c, http.StatusOK, "admin_label_form.html", data, gin.H{"name": ""})
}

func (h *LabelAdminHandler[T]) Add(c *gin.Context) {
	name := c.PostForm("name")
	if _, err := h.service.Create(name); err != nil {
		h.respondFormError(c, h.formData(h.listURL()+"add/", name), err)
		return
	}
	redirect(c, h.listURL())
}

func (h *LabelAdminHandler[T]) EditForm(c *gin.Context) {
	id, ok := h.labelID(c)
	if !ok {
		return
	}
	label, err := h.service.Get(id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	name := (*label).LabelName()
	data := h.formData(fmt.Sprintf("%s%d/", h.listURL(), id), name)
	render(c, http.StatusOK, "admin_label_form.html", data, dto.LabelDTO{ID: id, Name: name})
}

func (h *LabelAdminHandler[T]) Edit(c *gin.Context) {
	id, ok := h.labelID(c)
	if !ok {
		return
	}
	name := c.PostForm("name")
	if err := h.service.Rename(id, name); err != nil {
		h.respondFormError(c, h.formData(fmt.Sprintf("%s%d/", h.listURL(), id), name), err)
		return
	}
	redirect(c, h.listURL())
}

func (h *LabelAdminHandler[T]) Delete(c *gin.Context) {
	id, ok := h.labelID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(id); err != nil {
		if errors.Is(err, services.ErrLabelInUse) {
			h.renderList(c, http.StatusConflict, capitalize(err.Error())+".")
			return
		}
		h.respondError(c, err)
		return
	}
	redirect(c, h.listURL())
}

func (h *LabelAdminHandler[T]) labelID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.NotFound(c, "Not found")
		return 0, false
	}
	return id, true
}

func (h *LabelAdminHandler[T]) respondFormError(c *gin.Context, data gin.H, err error) {
	if errs, ok := serviceFormErrors(err); ok {
		renderForm(c, http.StatusBadRequest, "admin_label_form.html", data, errs)
		return
	}
	h.respondError(c, err)
}

func (h *LabelAdminHandler[T]) respondError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrLabelNotFound) {
		apierrors.NotFound(c, "Not found")
		return
	}
	logging.Logger.WithError(err).WithField("kind", h.kind).Error("Label request failed")
	apierrors.InternalError(c, "")
}
