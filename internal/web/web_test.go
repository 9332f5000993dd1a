package web

import (
	"bytes"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/taskboard/internal/models"
)

func TestTemplatesParse(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)

	for _, name := range []string{
		"index.html", "login.html", "error.html", "project_list.html",
		"task_list.html", "task_detail.html", "task_form.html",
		"task_confirm_delete.html", "task_generate.html",
		"worker_list.html", "worker_detail.html", "worker_form.html",
		"admin_index.html", "admin_worker_list.html", "admin_worker_form.html",
		"admin_task_list.html", "admin_label_list.html", "admin_label_form.html",
	} {
		assert.NotNil(t, tmpl.Lookup(name), name)
	}
}

func TestPageQuery(t *testing.T) {
	query := url.Values{"filters": {"urgent", "done"}, "page": {"3"}}

	assert.Equal(t, "?filters=urgent&filters=done&page=2", PageQuery(query, 2))
	assert.Equal(t, []string{"3"}, query["page"])
}

func TestProjectListMarksOwnProject(t *testing.T) {
	tmpl := MustTemplates()
	own := uint64(2)

	var buf bytes.Buffer
	require.NoError(t, tmpl.ExecuteTemplate(&buf, "project_list.html", map[string]any{
		"projects":      []models.Project{{ID: 1, Name: "Alpha"}, {ID: 2, Name: "Beta"}},
		"users_project": &own,
	}))

	assert.Contains(t, buf.String(), "Beta</a> (your project)")
	assert.NotContains(t, buf.String(), "Alpha</a> (your project)")
}

func TestDateFunc(t *testing.T) {
	date := Funcs["date"].(func(time.Time) string)
	assert.Equal(t, "2026-04-01", date(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "", date(time.Time{}))
}
