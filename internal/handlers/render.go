package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	apierrors "github.com/yukikurage/taskboard/internal/errors"
	"github.com/yukikurage/taskboard/internal/middleware"
	"github.com/yukikurage/taskboard/internal/models"
	"github.com/yukikurage/taskboard/internal/services"
)

// FormErrors maps a form field name to the message shown next to it. The
// "form" key holds errors that belong to no single field.
type FormErrors map[string]string

var registerOnce sync.Once

// RegisterValidators adds the custom binding tags to gin's validator and makes
// validation errors report form field names. It is safe to call more than
// once and panics if a tag cannot be registered.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			panic("handlers: gin validator is not go-playground/validator")
		}
		if err := registerValidators(v); err != nil {
			panic(fmt.Sprintf("handlers: %v", err))
		}
	})
}

func registerValidators(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("priority", func(fl validator.FieldLevel) bool {
		return models.TaskPriority(fl.Field().String()).Valid()
	}); err != nil {
		return fmt.Errorf("failed to register priority validator: %w", err)
	}
	return nil
}

// render writes the named template, or jsonBody when the client asks for JSON.
// The acting worker, when there is one, is added to the template data.
func render(c *gin.Context, status int, name string, data gin.H, jsonBody any) {
	if apierrors.WantsJSON(c) {
		c.JSON(status, jsonBody)
		return
	}
	if data == nil {
		data = gin.H{}
	}
	if worker, ok := middleware.CurrentWorker(c); ok {
		data["worker"] = worker
	}
	c.HTML(status, name, data)
}

// renderForm re-renders a form page with its errors. JSON clients get the
// error map.
func renderForm(c *gin.Context, status int, name string, data gin.H, errs FormErrors) {
	data["errors"] = errs
	render(c, status, name, data, gin.H{"errors": errs})
}

// bindingErrors turns a binding failure into per-field messages.
func bindingErrors(err error) FormErrors {
	errs := FormErrors{}
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		errs["form"] = "Invalid form data."
		return errs
	}
	for _, fe := range validationErrs {
		if _, seen := errs[fe.Field()]; seen {
			continue
		}
		errs[fe.Field()] = validationMessage(fe)
	}
	return errs
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "datetime":
		return "Enter a valid date."
	case "email":
		return "Enter a valid email address."
	case "priority":
		return "Select a valid priority."
	case "max":
		return "Ensure this value has at most " + fe.Param() + " characters."
	default:
		return "Enter a valid value."
	}
}

// serviceFormErrors extracts the field error of a service failure. ok is false
// when err is not a validation failure.
func serviceFormErrors(err error) (FormErrors, bool) {
	var fieldErr *services.FieldError
	if errors.As(err, &fieldErr) {
		return FormErrors{fieldErr.Field: capitalize(fieldErr.Err.Error()) + "."}, true
	}
	return nil, false
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
}

// currentWorker returns the acting worker. Routes using it run behind
// RequireAuth, so a missing worker is a wiring error.
func currentWorker(c *gin.Context) *models.Worker {
	worker, ok := middleware.CurrentWorker(c)
	if !ok {
		panic("handlers: acting worker missing from context")
	}
	return worker
}
