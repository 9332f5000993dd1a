// Package web holds the HTML templates rendered by the handlers.
package web

import (
	"embed"
	"html/template"
	"net/url"
	"strconv"
	"time"

	"github.com/yukikurage/taskboard/internal/constants"
	"github.com/yukikurage/taskboard/internal/models"
)

//go:embed templates/*.html
var files embed.FS

// Funcs are the helpers available to every template.
var Funcs = template.FuncMap{
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format(constants.DateLayout)
	},
	"dateptr": func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format(constants.DateLayout)
	},
	"deref": func(id *uint64) uint64 {
		if id == nil {
			return 0
		}
		return *id
	},
	"contains": func(ids []uint64, id uint64) bool {
		for _, v := range ids {
			if v == id {
				return true
			}
		}
		return false
	},
	"pageQuery": PageQuery,
	"priorities": func() []models.TaskPriority {
		return models.Priorities
	},
}

// PageQuery returns "?<query>" with page set, keeping the other parameters.
func PageQuery(query url.Values, page int) string {
	q := url.Values{}
	for k, v := range query {
		q[k] = v
	}
	q.Set("page", strconv.Itoa(page))
	return "?" + q.Encode()
}

// Templates parses the embedded templates.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(Funcs).ParseFS(files, "templates/*.html")
}

// MustTemplates is like Templates but panics on error.
func MustTemplates() *template.Template {
	return template.Must(Templates())
}
