package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/taskboard/internal/dto"
	"github.com/yukikurage/taskboard/internal/models"
	"github.com/yukikurage/taskboard/internal/services"
	"github.com/yukikurage/taskboard/internal/testutil"
	"gorm.io/gorm"
)

type stubDrafter struct{}

func (stubDrafter) DraftTasks(_ context.Context, _ string) ([]services.GeneratedTask, error) {
	deadline := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)
	return []services.GeneratedTask{{Name: "Write release notes", Deadline: &deadline}}, nil
}

// RouterTestSuite drives the whole application through HTTP
type RouterTestSuite struct {
	suite.Suite
	db     *gorm.DB
	fx     *testutil.Fixtures
	router *gin.Engine
	today  time.Time

	alpha *models.Project
	beta  *models.Project
	ana   *models.Worker
	bob   *models.Worker
	eve   *models.Worker
	staff *models.Worker
	bug   *models.TaskType
}

// SetupTest runs before each test
func (suite *RouterTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.db = testutil.NewDB(suite.T())
	suite.fx = testutil.NewFixtures(suite.T(), suite.db)
	suite.today = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	suite.router = suite.newRouter(stubDrafter{})

	suite.alpha = suite.fx.Project("Alpha")
	suite.beta = suite.fx.Project("Beta")
	suite.ana = suite.fx.Worker("ana", "Ana", "Smith", suite.alpha)
	suite.bob = suite.fx.Worker("bob", "Bob", "Lee", suite.alpha)
	suite.eve = suite.fx.Worker("eve", "Juliana", "Ruiz", suite.beta)
	suite.staff = suite.fx.Staff("root")
	suite.bug = suite.fx.TaskType("Bug")
}

func (suite *RouterTestSuite) newRouter(drafter services.TaskDrafter) *gin.Engine {
	return NewRouter(Deps{
		DB:           suite.db,
		SessionStore: cookie.NewStore([]byte("test-secret")),
		Drafter:      drafter,
		Clock:        func() time.Time { return suite.today.Add(10 * time.Hour) },
	})
}

type session struct {
	suite   *RouterTestSuite
	router  *gin.Engine
	cookies []*http.Cookie
}

// login signs worker in through the login form
func (suite *RouterTestSuite) login(worker *models.Worker) *session {
	s := &session{suite: suite, router: suite.router}
	w := s.post("/accounts/login/", url.Values{"username": {worker.Username}, "password": {testutil.Password}})
	suite.Require().Equal(http.StatusFound, w.Code)
	suite.Require().NotEmpty(s.cookies)
	return s
}

func (suite *RouterTestSuite) anonymous() *session {
	return &session{suite: suite, router: suite.router}
}

func (s *session) do(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range s.cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	if cookies := w.Result().Cookies(); len(cookies) > 0 {
		s.cookies = cookies
	}
	return w
}

func (s *session) get(path string) *httptest.ResponseRecorder {
	return s.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (s *session) getJSON(path string, out any) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Accept", "application/json")
	w := s.do(req)
	if out != nil && w.Code == http.StatusOK {
		s.suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), out))
	}
	return w
}

func (s *session) post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return s.do(req)
}

func tasksPath(project *models.Project) string {
	return "/projects/" + strconv.FormatUint(project.ID, 10) + "/tasks/"
}

func taskPath(task *models.Task, suffix string) string {
	return "/tasks/" + strconv.FormatUint(task.ID, 10) + "/" + suffix
}

func taskNames(tasks []dto.TaskDTO) []string {
	names := make([]string, len(tasks))
	for i, t := range tasks {
		names[i] = t.Name
	}
	return names
}

func (suite *RouterTestSuite) TestAnonymousIsRedirectedToLogin() {
	w := suite.anonymous().get(tasksPath(suite.alpha))

	suite.Equal(http.StatusFound, w.Code)
	suite.Equal("/accounts/login/?next="+url.QueryEscape(tasksPath(suite.alpha)), w.Header().Get("Location"))
}

func (suite *RouterTestSuite) TestLogin() {
	s := suite.anonymous()

	w := s.post("/accounts/login/", url.Values{"username": {"ana"}, "password": {"wrong-password"}})
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Contains(w.Body.String(), "Please enter a correct username and password.")

	w = s.post("/accounts/login/", url.Values{"username": {"ana"}, "password": {testutil.Password}, "next": {"/projects/"}})
	suite.Equal(http.StatusFound, w.Code)
	suite.Equal("/projects/", w.Header().Get("Location"))
	suite.Equal(http.StatusOK, s.get("/projects/").Code)

	w = s.post("/accounts/login/", url.Values{"username": {"ana"}, "password": {testutil.Password}, "next": {"//evil.example"}})
	suite.Equal("/", w.Header().Get("Location"))

	w = s.post("/accounts/logout/", url.Values{})
	suite.Equal(http.StatusFound, w.Code)
	suite.Equal(http.StatusFound, s.get("/projects/").Code)
}

func (suite *RouterTestSuite) TestTaskListFilters() {
	suite.fx.Task(testutil.TaskSpec{Name: "T1", Project: suite.alpha, Deadline: suite.today.AddDate(0, 0, -1), Priority: models.PriorityUrgent})
	suite.fx.Task(testutil.TaskSpec{Name: "T2", Project: suite.alpha, Deadline: suite.today.AddDate(0, 0, 1), Done: true})
	suite.fx.Task(testutil.TaskSpec{Name: "B1", Project: suite.beta, Deadline: suite.today.AddDate(0, 0, -1), Priority: models.PriorityUrgent})
	s := suite.login(suite.ana)

	cases := map[string][]string{
		"?filters=past_dl&filters=urgent": {"T1"},
		"?filters=done":                   {"T2"},
		"":                                {"T1"},
	}
	for query, want := range cases {
		var resp dto.TaskListResponse
		w := s.getJSON(tasksPath(suite.alpha)+query, &resp)
		suite.Equal(http.StatusOK, w.Code, query)
		suite.Equal(want, taskNames(resp.Tasks), query)
		suite.Equal(suite.alpha.ID, resp.Project.ID)
	}

	w := s.get(tasksPath(suite.alpha) + "?filters=urgent")
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "T1")
	suite.NotContains(w.Body.String(), "B1")
}

func (suite *RouterTestSuite) TestTaskListPagination() {
	for i := 0; i < 6; i++ {
		suite.fx.Task(testutil.TaskSpec{Name: "T" + strconv.Itoa(i), Project: suite.alpha, Deadline: suite.today.AddDate(0, 0, i)})
	}
	s := suite.login(suite.ana)

	var resp dto.TaskListResponse
	suite.Equal(http.StatusOK, s.getJSON(tasksPath(suite.alpha)+"?page=last", &resp).Code)
	suite.Equal([]string{"T5"}, taskNames(resp.Tasks))
	suite.Equal(2, resp.Pagination.TotalPages)

	suite.Equal(http.StatusNotFound, s.getJSON(tasksPath(suite.alpha)+"?page=3", nil).Code)
	suite.Equal(http.StatusNotFound, s.getJSON(tasksPath(suite.alpha)+"?page=abc", nil).Code)
	suite.Equal(http.StatusNotFound, s.getJSON("/projects/999/tasks/", nil).Code)

	w := s.get(tasksPath(suite.alpha))
	suite.Contains(w.Body.String(), "Page 1 of 2")
}

func (suite *RouterTestSuite) TestTaskDetail() {
	task := suite.fx.Task(testutil.TaskSpec{Name: "Ship", Project: suite.alpha, TaskType: suite.bug, Assignees: []*models.Worker{suite.ana}})
	s := suite.login(suite.bob)

	req := httptest.NewRequest(http.MethodGet, taskPath(task, ""), nil)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Referer", "/projects/")
	w := s.do(req)
	suite.Require().Equal(http.StatusOK, w.Code)

	var resp dto.TaskDetailResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("Ship", resp.Task.Name)
	suite.Equal("Bug", resp.Task.TaskType.Name)
	suite.Equal("/projects/", resp.PreviousURL)
	suite.Require().Len(resp.Task.Assignees, 1)
	suite.Equal("Ana Smith", resp.Task.Assignees[0].FullName)

	html := s.get(taskPath(task, "")).Body.String()
	suite.Contains(html, "Ship")
	suite.Contains(html, "Ana Smith")
	suite.NotContains(html, "Mark as done")

	suite.Equal(http.StatusNotFound, s.getJSON("/tasks/999/", nil).Code)
}

func (suite *RouterTestSuite) TestToggleCompletion() {
	task := suite.fx.Task(testutil.TaskSpec{Name: "T", Project: suite.alpha, Assignees: []*models.Worker{suite.ana}})

	w := suite.login(suite.bob).post(taskPath(task, "toggle/"), url.Values{})
	suite.Equal(http.StatusMethodNotAllowed, w.Code)
	suite.Equal("Unauthorized", w.Body.String())
	suite.False(suite.fx.Reload(task).IsCompleted)

	ana := suite.login(suite.ana)
	w = ana.post(taskPath(task, "toggle/"), url.Values{})
	suite.Equal(http.StatusFound, w.Code)
	suite.Equal(taskPath(task, ""), w.Header().Get("Location"))
	suite.True(suite.fx.Reload(task).IsCompleted)

	ana.post(taskPath(task, "toggle/"), url.Values{})
	suite.False(suite.fx.Reload(task).IsCompleted)

	suite.Equal(http.StatusInternalServerError, ana.post("/tasks/999/toggle/", url.Values{}).Code)
}

func (suite *RouterTestSuite) validTaskForm(name string) url.Values {
	return url.Values{
		"name":         {name},
		"description":  {"details"},
		"deadline":     {"2026-03-15"},
		"priority":     {"High"},
		"task_type_id": {strconv.FormatUint(suite.bug.ID, 10)},
		"assignees":    {strconv.FormatUint(suite.ana.ID, 10), strconv.FormatUint(suite.bob.ID, 10)},
	}
}

func (suite *RouterTestSuite) TestCreateTask() {
	s := suite.login(suite.ana)

	form := s.get("/tasks/create/?name=Prefilled&deadline=2026-03-12")
	suite.Equal(http.StatusOK, form.Code)
	suite.Contains(form.Body.String(), `value="Prefilled"`)
	suite.Contains(form.Body.String(), "Bob Lee")
	suite.NotContains(form.Body.String(), "Juliana Ruiz")

	w := s.post("/tasks/create/", suite.validTaskForm("Write docs"))
	suite.Equal(http.StatusFound, w.Code)
	suite.Equal(tasksPath(suite.alpha), w.Header().Get("Location"))

	var task models.Task
	suite.Require().NoError(suite.db.Preload("Assignments").Where("name = ?", "Write docs").First(&task).Error)
	suite.Equal(suite.alpha.ID, task.ProjectID)
	suite.Equal(models.PriorityHigh, task.Priority)
	suite.ElementsMatch([]uint64{suite.ana.ID, suite.bob.ID}, task.AssigneeIDs())
}

func (suite *RouterTestSuite) TestCreateTaskValidation() {
	s := suite.login(suite.ana)

	missing := suite.validTaskForm("")
	w := s.post("/tasks/create/", missing)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "This field is required.")

	badPriority := suite.validTaskForm("x")
	badPriority.Set("priority", "Someday")
	suite.Equal(http.StatusBadRequest, s.post("/tasks/create/", badPriority).Code)

	outsider := suite.validTaskForm("x")
	outsider.Set("assignees", strconv.FormatUint(suite.eve.ID, 10))
	w = s.post("/tasks/create/", outsider)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "not members of the task")

	loner := suite.fx.Worker("loner", "Lo", "Ner", nil)
	w = suite.login(loner).post("/tasks/create/", url.Values{
		"name": {"x"}, "deadline": {"2026-03-15"}, "task_type_id": {strconv.FormatUint(suite.bug.ID, 10)},
	})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "You must belong to a project")

	var count int64
	suite.db.Model(&models.Task{}).Count(&count)
	suite.Zero(count)
}

func (suite *RouterTestSuite) TestUpdateTaskAcrossProjects() {
	task := suite.fx.Task(testutil.TaskSpec{Name: "T", Project: suite.alpha})
	eve := suite.login(suite.eve)

	suite.Equal(http.StatusMethodNotAllowed, eve.get(taskPath(task, "update/")).Code)
	w := eve.post(taskPath(task, "update/"), suite.validTaskForm("Hijacked"))
	suite.Equal(http.StatusMethodNotAllowed, w.Code)
	suite.Equal("Unauthorized", w.Body.String())
	suite.Equal("T", suite.fx.Reload(task).Name)

	bob := suite.login(suite.bob)
	suite.Equal(http.StatusOK, bob.get(taskPath(task, "update/")).Code)
	w = bob.post(taskPath(task, "update/"), suite.validTaskForm("Renamed"))
	suite.Equal(http.StatusFound, w.Code)
	suite.Equal(tasksPath(suite.alpha), w.Header().Get("Location"))
	suite.Equal("Renamed", suite.fx.Reload(task).Name)
}

func (suite *RouterTestSuite) TestDeleteTaskAcrossProjects() {
	task := suite.fx.Task(testutil.TaskSpec{Name: "T", Project: suite.alpha, Assignees: []*models.Worker{suite.ana}})
	eve := suite.login(suite.eve)

	suite.Equal(http.StatusMethodNotAllowed, eve.get(taskPath(task, "delete/")).Code)
	suite.Equal(http.StatusMethodNotAllowed, eve.post(taskPath(task, "delete/"), url.Values{}).Code)
	suite.Equal("T", suite.fx.Reload(task).Name)

	ana := suite.login(suite.ana)
	suite.Contains(ana.get(taskPath(task, "delete/")).Body.String(), "Are you sure")
	w := ana.post(taskPath(task, "delete/"), url.Values{})
	suite.Equal(http.StatusFound, w.Code)
	suite.Equal(tasksPath(suite.alpha), w.Header().Get("Location"))
	suite.Equal(http.StatusNotFound, ana.getJSON(taskPath(task, ""), nil).Code)

	var assignments int64
	suite.db.Model(&models.TaskAssignment{}).Where("task_id = ?", task.ID).Count(&assignments)
	suite.Zero(assignments)
}

func (suite *RouterTestSuite) TestWorkerSearch() {
	s := suite.login(suite.ana)

	var resp dto.WorkerListResponse
	suite.Equal(http.StatusOK, s.getJSON("/workers/?name=ana", &resp).Code)

	names := make([]string, len(resp.Workers))
	for i, w := range resp.Workers {
		names[i] = w.FirstName + " " + w.LastName
	}
	suite.ElementsMatch([]string{"Ana Smith", "Juliana Ruiz"}, names)
	suite.EqualValues(4, resp.NumWorkers)

	html := s.get("/workers/?name=ana").Body.String()
	suite.Contains(html, "4 workers in total.")
	suite.NotContains(html, "Bob")
}

func (suite *RouterTestSuite) TestWorkerDetail() {
	suite.fx.Task(testutil.TaskSpec{Name: "Assigned", Project: suite.alpha, Assignees: []*models.Worker{suite.bob}})
	s := suite.login(suite.ana)

	var resp dto.WorkerDTO
	suite.Equal(http.StatusOK, s.getJSON("/workers/"+strconv.FormatUint(suite.bob.ID, 10)+"/", &resp).Code)
	suite.Equal("Alpha", resp.Project.Name)
	suite.Require().Len(resp.Tasks, 1)
	suite.Equal("Assigned", resp.Tasks[0].Name)

	suite.Equal(http.StatusNotFound, s.getJSON("/workers/999/", nil).Code)
}

func (suite *RouterTestSuite) TestSignupAndProfileUpdate() {
	position := suite.fx.Position("Developer")
	s := suite.anonymous()

	suite.Equal(http.StatusOK, s.get("/workers/create/").Code)
	w := s.post("/workers/create/", url.Values{
		"username":         {"newbie"},
		"password":         {"longenough"},
		"password_confirm": {"longenough"},
		"first_name":       {"New"},
		"last_name":        {"Bie"},
		"project_id":       {strconv.FormatUint(suite.beta.ID, 10)},
	})
	suite.Require().Equal(http.StatusFound, w.Code)
	suite.Equal("/", w.Header().Get("Location"))

	var stats services.DashboardStats
	suite.Equal(http.StatusOK, s.getJSON("/", &stats).Code)
	suite.EqualValues(2, stats.WorkersAmount)

	w = s.post("/workers/update/", url.Values{
		"first_name":  {"Newer"},
		"email":       {"newbie@example.com"},
		"position_id": {strconv.FormatUint(position.ID, 10)},
	})
	suite.Require().Equal(http.StatusFound, w.Code)

	var worker models.Worker
	suite.Require().NoError(suite.db.Where("username = ?", "newbie").First(&worker).Error)
	suite.Equal("/workers/"+strconv.FormatUint(worker.ID, 10)+"/", w.Header().Get("Location"))
	suite.Equal("Newer", worker.FirstName)
	suite.Nil(worker.ProjectID)
	suite.Require().NotNil(worker.PositionID)
	suite.Equal(position.ID, *worker.PositionID)

	w = s.post("/workers/update/", url.Values{"email": {"not-an-email"}})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "Enter a valid email address.")
}

func (suite *RouterTestSuite) TestSignupValidation() {
	w := suite.anonymous().post("/workers/create/", url.Values{
		"username":         {"ana"},
		"password":         {"longenough"},
		"password_confirm": {"longenough"},
	})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "A worker with that username already exists.")
}

func (suite *RouterTestSuite) TestProjectsAndDashboard() {
	suite.fx.Task(testutil.TaskSpec{Name: "open", Project: suite.alpha})
	suite.fx.Task(testutil.TaskSpec{Name: "done", Project: suite.alpha, Done: true})
	s := suite.login(suite.ana)

	var projects dto.ProjectListResponse
	suite.Equal(http.StatusOK, s.getJSON("/projects/", &projects).Code)
	suite.Len(projects.Projects, 2)
	suite.Require().NotNil(projects.UsersProject)
	suite.Equal(suite.alpha.ID, *projects.UsersProject)

	var stats services.DashboardStats
	suite.Equal(http.StatusOK, s.getJSON("/", &stats).Code)
	suite.Equal(services.DashboardStats{WorkersAmount: 2, TasksTotalAmount: 2, TasksDone: 1}, stats)

	suite.Contains(s.get("/").Body.String(), "Completed tasks: 1")
}

func (suite *RouterTestSuite) TestAdminAccess() {
	suite.Equal(http.StatusFound, suite.anonymous().get("/admin/").Code)
	suite.Equal(http.StatusForbidden, suite.login(suite.ana).get("/admin/").Code)

	staff := suite.login(suite.staff)
	suite.Equal(http.StatusOK, staff.get("/admin/").Code)
	suite.Equal(http.StatusOK, staff.get("/admin/workers/").Code)
	suite.Equal(http.StatusOK, staff.get("/admin/tasks/").Code)
}

func (suite *RouterTestSuite) TestAdminManagesLabelsAndTasks() {
	staff := suite.login(suite.staff)

	w := staff.post("/admin/task-types/add/", url.Values{"name": {"Feature"}})
	suite.Equal(http.StatusFound, w.Code)
	suite.Equal("/admin/task-types/", w.Header().Get("Location"))

	w = staff.post("/admin/task-types/add/", url.Values{"name": {"Feature"}})
	suite.Equal(http.StatusBadRequest, w.Code)

	task := suite.fx.Task(testutil.TaskSpec{Name: "T", Project: suite.alpha, TaskType: suite.bug})
	w = staff.post("/admin/task-types/"+strconv.FormatUint(suite.bug.ID, 10)+"/delete/", url.Values{})
	suite.Equal(http.StatusConflict, w.Code)

	w = staff.post("/admin/tasks/"+strconv.FormatUint(task.ID, 10)+"/delete/", url.Values{})
	suite.Equal(http.StatusFound, w.Code)
	suite.Equal(http.StatusNotFound, staff.getJSON(taskPath(task, ""), nil).Code)

	w = staff.post("/admin/positions/add/", url.Values{"name": {"Designer"}})
	suite.Equal(http.StatusFound, w.Code)
	suite.Contains(staff.get("/admin/positions/").Body.String(), "Designer")
}

func (suite *RouterTestSuite) TestAdminProjects() {
	staff := suite.login(suite.staff)

	w := staff.post("/admin/projects/add/", url.Values{"name": {"Gamma"}})
	suite.Require().Equal(http.StatusFound, w.Code)
	suite.Equal("/admin/projects/", w.Header().Get("Location"))
	suite.Equal(http.StatusBadRequest, staff.post("/admin/projects/add/", url.Values{"name": {""}}).Code)

	path := "/admin/projects/" + strconv.FormatUint(suite.beta.ID, 10) + "/"
	suite.Equal(http.StatusOK, staff.get(path).Code)
	suite.Equal(http.StatusFound, staff.post(path, url.Values{"name": {"Beta renamed"}}).Code)
	suite.Equal(http.StatusNotFound, staff.post("/admin/projects/999/", url.Values{"name": {"X"}}).Code)

	html := staff.get("/admin/projects/").Body.String()
	suite.Contains(html, "Gamma")
	suite.Contains(html, "Beta renamed")
	suite.NotContains(html, "/delete/")
}

func (suite *RouterTestSuite) TestAdminWorkers() {
	position := suite.fx.Position("QA")
	staff := suite.login(suite.staff)

	w := staff.post("/admin/workers/add/", url.Values{
		"username":         {"added"},
		"password":         {"longenough"},
		"password_confirm": {"longenough"},
		"first_name":       {"Ad"},
		"last_name":        {"Ded"},
		"position_id":      {strconv.FormatUint(position.ID, 10)},
	})
	suite.Require().Equal(http.StatusFound, w.Code)

	html := staff.get("/admin/workers/").Body.String()
	suite.Contains(html, "added")
	suite.Contains(html, "QA")

	w = staff.post("/admin/workers/"+strconv.FormatUint(suite.bob.ID, 10)+"/", url.Values{
		"username":   {"bob"},
		"is_staff":   {"true"},
		"project_id": {strconv.FormatUint(suite.beta.ID, 10)},
	})
	suite.Require().Equal(http.StatusFound, w.Code)

	var bob models.Worker
	suite.Require().NoError(suite.db.First(&bob, suite.bob.ID).Error)
	suite.True(bob.IsStaff)
	suite.Equal(suite.beta.ID, *bob.ProjectID)
}

func (suite *RouterTestSuite) TestGenerateTasks() {
	s := suite.login(suite.ana)

	suite.Equal(http.StatusOK, s.get("/tasks/generate/").Code)
	w := s.post("/tasks/generate/", url.Values{"text": {"write the release notes by the 20th"}})
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "Write release notes")
	suite.Contains(w.Body.String(), "deadline=2026-03-20")

	suite.Equal(http.StatusBadRequest, s.post("/tasks/generate/", url.Values{}).Code)

	suite.router = suite.newRouter(nil)
	s = suite.login(suite.ana)
	suite.Equal(http.StatusServiceUnavailable, s.get("/tasks/generate/").Code)
}

func (suite *RouterTestSuite) TestHealth() {
	var body map[string]any
	w := suite.anonymous().getJSON("/health", &body)
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("ok", body["status"])
}

// TestRouterTestSuite runs the test suite
func TestRouterTestSuite(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}
