package middleware

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/taskboard/internal/authz"
	"github.com/yukikurage/taskboard/internal/constants"
	apierrors "github.com/yukikurage/taskboard/internal/errors"
	"github.com/yukikurage/taskboard/internal/logging"
	"github.com/yukikurage/taskboard/internal/models"
	"github.com/yukikurage/taskboard/internal/repository"
	"gorm.io/gorm"
)

// TaskPreloads are the relations loaded with the task in the request context.
var TaskPreloads = []string{"TaskType", "Project", "Assignments", "Assignments.Worker"}

// LoadTask loads the task named by the :id route parameter into the context.
func LoadTask(taskRepo repository.TaskRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			apierrors.NotFound(c, "Task not found")
			return
		}

		task, err := taskRepo.FindByID(taskID, TaskPreloads...)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apierrors.NotFound(c, "Task not found")
				return
			}
			logging.Logger.WithError(err).WithField("task_id", taskID).Error("Failed to load task")
			apierrors.InternalError(c, "")
			return
		}

		c.Set(constants.ContextKeyTask, task)
		c.Next()
	}
}

// RequireTaskPermission rejects workers that do not satisfy rule for the task
// loaded by LoadTask. Rejections answer 405 "Unauthorized" for every method.
func RequireTaskPermission(rule authz.Rule) gin.HandlerFunc {
	return func(c *gin.Context) {
		worker, _ := CurrentWorker(c)
		task, _ := CurrentTask(c)

		if !authz.Allowed(worker, task, rule) {
			logging.Logger.WithFields(logrus.Fields{
				"rule":    rule.String(),
				"path":    c.Request.URL.Path,
				"request": c.GetString(constants.ContextKeyRequestID),
			}).Info("Task permission denied")
			apierrors.NotPermitted(c)
			return
		}

		c.Next()
	}
}

// CurrentTask returns the task set by LoadTask
func CurrentTask(c *gin.Context) (*models.Task, bool) {
	value, exists := c.Get(constants.ContextKeyTask)
	if !exists {
		return nil, false
	}
	task, ok := value.(*models.Task)
	return task, ok && task != nil
}
