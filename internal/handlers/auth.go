package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskboard/internal/constants"
	"github.com/yukikurage/taskboard/internal/dto"
	apierrors "github.com/yukikurage/taskboard/internal/errors"
	"github.com/yukikurage/taskboard/internal/logging"
	"github.com/yukikurage/taskboard/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// safeNext returns next when it is a local path, "/" otherwise.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}

// LoginForm shows the login page.
func (h *AuthHandler) LoginForm(c *gin.Context) {
	render(c, http.StatusOK, "login.html", gin.H{
		"title": "Log in",
		"next":  c.Query("next"),
	}, gin.H{"next": c.Query("next")})
}

// Login authenticates a worker and initializes the session.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Username string `form:"username" json:"username" binding:"required"`
		Password string `form:"password" json:"password" binding:"required"`
		Next     string `form:"next" json:"next"`
	}

	var req LoginRequest
	bindErr := c.ShouldBind(&req)
	data := gin.H{"title": "Log in", "next": req.Next, "username": req.Username}
	if bindErr != nil {
		data["error"] = "Enter a username and password."
		render(c, http.StatusBadRequest, "login.html", data, apierrors.NewAPIError(apierrors.ErrCodeInvalidInput, "Enter a username and password"))
		return
	}

	worker, err := h.authService.Login(services.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			data["error"] = "Please enter a correct username and password."
			render(c, http.StatusUnauthorized, "login.html", data, apierrors.NewAPIError(apierrors.ErrCodeInvalidCredentials, err.Error()))
			return
		}
		logging.Logger.WithError(err).Error("Login failed")
		apierrors.InternalError(c, "")
		return
	}

	session := sessions.Default(c)
	session.Set(constants.ContextKeyWorkerID, worker.ID)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	if apierrors.WantsJSON(c) {
		c.JSON(http.StatusOK, dto.ToWorkerDTO(*worker))
		return
	}
	redirect(c, safeNext(req.Next))
}

// Logout removes the authentication session.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to logout")
		return
	}

	redirect(c, constants.LoginPath)
}
