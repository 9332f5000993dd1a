package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskboard/internal/authz"
	"github.com/yukikurage/taskboard/internal/constants"
	"github.com/yukikurage/taskboard/internal/dto"
	apierrors "github.com/yukikurage/taskboard/internal/errors"
	"github.com/yukikurage/taskboard/internal/logging"
	"github.com/yukikurage/taskboard/internal/middleware"
	"github.com/yukikurage/taskboard/internal/models"
	"github.com/yukikurage/taskboard/internal/services"
	"github.com/yukikurage/taskboard/internal/utils"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// TaskForm is the task create/update form.
type TaskForm struct {
	Name        string   `form:"name" json:"name" binding:"required,max=255"`
	Description string   `form:"description" json:"description"`
	Deadline    string   `form:"deadline" json:"deadline" binding:"required,datetime=2006-01-02"`
	Priority    string   `form:"priority" json:"priority" binding:"omitempty,priority"`
	TaskTypeID  uint64   `form:"task_type_id" json:"task_type_id" binding:"required"`
	Assignees   []uint64 `form:"assignees" json:"assignees"`
}

func taskFormFrom(task *models.Task) TaskForm {
	return TaskForm{
		Name:        task.Name,
		Description: task.Description,
		Deadline:    task.Deadline.Format(constants.DateLayout),
		Priority:    string(task.Priority),
		TaskTypeID:  task.TaskTypeID,
		Assignees:   task.AssigneeIDs(),
	}
}

func (f TaskForm) input() (services.TaskInput, error) {
	deadline, err := time.Parse(constants.DateLayout, f.Deadline)
	if err != nil {
		return services.TaskInput{}, err
	}
	return services.TaskInput{
		Name:        f.Name,
		Description: f.Description,
		Deadline:    deadline,
		Priority:    models.TaskPriority(f.Priority),
		TaskTypeID:  f.TaskTypeID,
		AssigneeIDs: f.Assignees,
	}, nil
}

func projectTasksURL(projectID uint64) string {
	return fmt.Sprintf("/projects/%d/tasks/", projectID)
}

func taskURL(taskID uint64) string {
	return fmt.Sprintf("/tasks/%d/", taskID)
}

// ListTasks returns a page of a project's tasks narrowed by the "filters"
// query values
func (h *TaskHandler) ListTasks(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("project_id"), 10, 64)
	if err != nil {
		apierrors.NotFound(c, "Project not found")
		return
	}

	page, err := utils.GetPage(c)
	if err != nil {
		apierrors.NotFound(c, "Invalid page")
		return
	}

	list, err := h.taskService.ListProjectTasks(services.ListTasksInput{
		ProjectID: projectID,
		Filters:   services.ParseTaskFilters(c.QueryArray("filters")),
		Page:      page,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	filters := list.Filters.Values()
	if filters == nil {
		filters = []string{}
	}
	render(c, http.StatusOK, "task_list.html", gin.H{
		"title": list.Project.Name,
		"list":  list,
		"page":  list.Page,
		"query": url.Values{"filters": filters},
	}, dto.TaskListResponse{
		Project:    dto.ToProjectDTO(*list.Project),
		Filters:    filters,
		Tasks:      dto.ToTaskDTOs(list.Tasks),
		Pagination: dto.ToPageDTO(list.Page),
	})
}

// GetTask shows a task loaded by LoadTask
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, _ := middleware.CurrentTask(c)
	worker := currentWorker(c)
	previousURL := c.Request.Referer()

	render(c, http.StatusOK, "task_detail.html", gin.H{
		"title":        task.Name,
		"task":         task,
		"previous_url": previousURL,
		"can_toggle":   authz.Allowed(worker, task, authz.Assignee),
		"can_edit":     authz.Allowed(worker, task, authz.SameProject),
	}, dto.TaskDetailResponse{
		Task:        dto.ToTaskDTO(*task),
		PreviousURL: previousURL,
	})
}

// formData collects the choices shown on the task form
func (h *TaskHandler) formData(c *gin.Context, projectID *uint64, form TaskForm) (gin.H, bool) {
	taskTypes, err := h.taskService.TaskTypes()
	if err != nil {
		logging.Logger.WithError(err).Error("Failed to load task types")
		apierrors.InternalError(c, "")
		return nil, false
	}
	assignees, err := h.taskService.AssigneeChoices(projectID)
	if err != nil {
		logging.Logger.WithError(err).Error("Failed to load assignee choices")
		apierrors.InternalError(c, "")
		return nil, false
	}
	if form.Priority == "" {
		form.Priority = string(models.PriorityMedium)
	}
	return gin.H{
		"form":             form,
		"task_types":       taskTypes,
		"assignee_choices": assignees,
		"errors":           FormErrors{},
	}, true
}

// CreateTaskForm shows an empty task form. name, description and deadline
// query values pre-fill it.
func (h *TaskHandler) CreateTaskForm(c *gin.Context) {
	worker := currentWorker(c)
	data, ok := h.formData(c, worker.ProjectID, TaskForm{
		Name:        c.Query("name"),
		Description: c.Query("description"),
		Deadline:    c.Query("deadline"),
	})
	if !ok {
		return
	}
	data["title"] = "New task"
	data["action"] = "/tasks/create/"
	render(c, http.StatusOK, "task_form.html", data, data["form"])
}

// CreateTask creates a task in the acting worker's project
func (h *TaskHandler) CreateTask(c *gin.Context) {
	worker := currentWorker(c)

	var form TaskForm
	bindErr := c.ShouldBind(&form)

	data, ok := h.formData(c, worker.ProjectID, form)
	if !ok {
		return
	}
	data["title"] = "New task"
	data["action"] = "/tasks/create/"

	if bindErr != nil {
		renderForm(c, http.StatusBadRequest, "task_form.html", data, bindingErrors(bindErr))
		return
	}
	input, err := form.input()
	if err != nil {
		renderForm(c, http.StatusBadRequest, "task_form.html", data, FormErrors{"deadline": "Enter a valid date."})
		return
	}

	task, err := h.taskService.CreateTask(input, worker)
	if err != nil {
		if errors.Is(err, services.ErrNoProject) {
			renderForm(c, http.StatusBadRequest, "task_form.html", data, FormErrors{"form": capitalize(err.Error()) + "."})
			return
		}
		if errs, ok := serviceFormErrors(err); ok {
			renderForm(c, http.StatusBadRequest, "task_form.html", data, errs)
			return
		}
		respondTaskError(c, err)
		return
	}

	logging.Logger.WithField("task_id", task.ID).WithField("worker_id", worker.ID).Info("Task created")
	redirect(c, projectTasksURL(task.ProjectID))
}

// UpdateTaskForm shows the form of a task loaded by LoadTask
func (h *TaskHandler) UpdateTaskForm(c *gin.Context) {
	task, _ := middleware.CurrentTask(c)

	data, ok := h.formData(c, &task.ProjectID, taskFormFrom(task))
	if !ok {
		return
	}
	data["title"] = "Edit " + task.Name
	data["action"] = fmt.Sprintf("/tasks/%d/update/", task.ID)
	data["task"] = task
	render(c, http.StatusOK, "task_form.html", data, data["form"])
}

// UpdateTask updates a task of the acting worker's project
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	task, _ := middleware.CurrentTask(c)
	worker := currentWorker(c)

	var form TaskForm
	bindErr := c.ShouldBind(&form)

	data, ok := h.formData(c, &task.ProjectID, form)
	if !ok {
		return
	}
	data["title"] = "Edit " + task.Name
	data["action"] = fmt.Sprintf("/tasks/%d/update/", task.ID)
	data["task"] = task

	if bindErr != nil {
		renderForm(c, http.StatusBadRequest, "task_form.html", data, bindingErrors(bindErr))
		return
	}
	input, err := form.input()
	if err != nil {
		renderForm(c, http.StatusBadRequest, "task_form.html", data, FormErrors{"deadline": "Enter a valid date."})
		return
	}

	updated, err := h.taskService.UpdateTask(task, input, worker)
	if err != nil {
		if errs, ok := serviceFormErrors(err); ok {
			renderForm(c, http.StatusBadRequest, "task_form.html", data, errs)
			return
		}
		respondTaskError(c, err)
		return
	}

	redirect(c, projectTasksURL(updated.ProjectID))
}

// DeleteTaskForm asks for confirmation before deleting a task
func (h *TaskHandler) DeleteTaskForm(c *gin.Context) {
	task, _ := middleware.CurrentTask(c)
	render(c, http.StatusOK, "task_confirm_delete.html", gin.H{
		"title": "Delete " + task.Name,
		"task":  task,
	}, dto.ToTaskDTO(*task))
}

// DeleteTask deletes a task of the acting worker's project
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	task, _ := middleware.CurrentTask(c)
	worker := currentWorker(c)

	if err := h.taskService.DeleteTask(task, worker); err != nil {
		respondTaskError(c, err)
		return
	}

	logging.Logger.WithField("task_id", task.ID).WithField("worker_id", worker.ID).Info("Task deleted")
	redirect(c, projectTasksURL(task.ProjectID))
}

// ToggleTaskCompletion flips the completion flag of a task the acting worker
// is assigned to
func (h *TaskHandler) ToggleTaskCompletion(c *gin.Context) {
	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.NotFound(c, "Task not found")
		return
	}

	if _, err := h.taskService.ToggleCompletion(taskID, currentWorker(c)); err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			// Toggling an unknown task has no not-found page
			logging.Logger.WithField("task_id", taskID).Error("Toggle on missing task")
			apierrors.InternalError(c, "")
			return
		}
		respondTaskError(c, err)
		return
	}

	redirect(c, taskURL(taskID))
}

// draftView is a drafted task with the link to the pre-filled create form
type draftView struct {
	services.GeneratedTask
	URL string `json:"create_url"`
}

func newDraftView(task services.GeneratedTask) draftView {
	query := url.Values{"name": {task.Name}}
	if task.Description != "" {
		query.Set("description", task.Description)
	}
	if task.Deadline != nil {
		query.Set("deadline", task.Deadline.Format(constants.DateLayout))
	}
	return draftView{GeneratedTask: task, URL: "/tasks/create/?" + query.Encode()}
}

// GenerateTasksForm shows the drafting form
func (h *TaskHandler) GenerateTasksForm(c *gin.Context) {
	if !h.taskService.DraftingEnabled() {
		apierrors.ServiceUnavailable(c, services.ErrAIServiceNotConfigured.Error())
		return
	}
	render(c, http.StatusOK, "task_generate.html", gin.H{"title": "Draft tasks"}, gin.H{"drafts": []draftView{}})
}

// GenerateTasks drafts tasks from free text
func (h *TaskHandler) GenerateTasks(c *gin.Context) {
	if !h.taskService.DraftingEnabled() {
		apierrors.ServiceUnavailable(c, services.ErrAIServiceNotConfigured.Error())
		return
	}

	type GenerateTasksRequest struct {
		Text string `form:"text" json:"text" binding:"required"`
	}

	var req GenerateTasksRequest
	data := gin.H{"title": "Draft tasks"}
	if err := c.ShouldBind(&req); err != nil {
		data["error"] = "Enter some text to draft tasks from."
		render(c, http.StatusBadRequest, "task_generate.html", data, gin.H{"error": data["error"]})
		return
	}
	data["text"] = req.Text

	tasks, err := h.taskService.DraftTasks(c.Request.Context(), services.DraftTasksInput{Text: req.Text})
	if err != nil {
		status := http.StatusBadGateway
		message := "Failed to draft tasks. Try again later."
		if errors.Is(err, services.ErrAINoTasksGenerated) || errors.Is(err, services.ErrAINoValidTasks) {
			status = http.StatusUnprocessableEntity
			message = capitalize(err.Error()) + "."
		} else {
			logging.Logger.WithError(err).Error("Failed to draft tasks")
		}
		data["error"] = message
		render(c, status, "task_generate.html", data, gin.H{"error": message})
		return
	}

	drafts := make([]draftView, len(tasks))
	for i, task := range tasks {
		drafts[i] = newDraftView(task)
	}
	data["drafts"] = drafts
	render(c, http.StatusOK, "task_generate.html", data, gin.H{"drafts": drafts})
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskPermissionDenied):
		apierrors.NotPermitted(c)
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, "Project not found")
	case errors.Is(err, utils.ErrInvalidPage):
		apierrors.NotFound(c, "Invalid page")
	default:
		logging.Logger.WithError(err).Error("Task request failed")
		apierrors.InternalError(c, "")
	}
}
