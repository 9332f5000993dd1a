package middleware

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskboard/internal/authz"
	"github.com/yukikurage/taskboard/internal/constants"
	apierrors "github.com/yukikurage/taskboard/internal/errors"
	"github.com/yukikurage/taskboard/internal/logging"
	"github.com/yukikurage/taskboard/internal/models"
	"github.com/yukikurage/taskboard/internal/repository"
	"gorm.io/gorm"
)

// RequireAuth resolves the acting worker from the session and stores it in
// the request context. Anonymous requests are redirected to the login page.
func RequireAuth(workerRepo repository.WorkerRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		workerID, ok := GetSessionWorkerID(session)
		if !ok {
			redirectToLogin(c)
			return
		}

		worker, err := workerRepo.FindByID(workerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// The worker was removed while the session was alive
				session.Clear()
				_ = session.Save()
				redirectToLogin(c)
				return
			}
			logging.Logger.WithError(err).Error("Failed to load session worker")
			apierrors.InternalError(c, "")
			return
		}

		c.Set(constants.ContextKeyWorkerID, worker.ID)
		c.Set(constants.ContextKeyWorker, worker)
		c.Next()
	}
}

// RequireStaff allows only staff workers. It must run after RequireAuth.
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		worker, ok := CurrentWorker(c)
		if !ok {
			redirectToLogin(c)
			return
		}
		if !authz.IsStaff(worker) {
			apierrors.Forbidden(c, "Staff access required")
			return
		}
		c.Next()
	}
}

// GetSessionWorkerID reads the logged-in worker id from the session
func GetSessionWorkerID(session sessions.Session) (uint64, bool) {
	switch v := session.Get(constants.ContextKeyWorkerID).(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	case int64:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}

// CurrentWorker returns the acting worker set by RequireAuth
func CurrentWorker(c *gin.Context) (*models.Worker, bool) {
	value, exists := c.Get(constants.ContextKeyWorker)
	if !exists {
		return nil, false
	}
	worker, ok := value.(*models.Worker)
	return worker, ok && worker != nil
}

// LoginURL builds the login URL that returns to next after signing in.
func LoginURL(next string) string {
	if next == "" {
		return constants.LoginPath
	}
	return constants.LoginPath + "?" + url.Values{"next": {next}}.Encode()
}

func redirectToLogin(c *gin.Context) {
	c.Redirect(http.StatusFound, LoginURL(c.Request.URL.RequestURI()))
	c.Abort()
}
