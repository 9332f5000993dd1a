package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/taskboard/internal/models"
	"github.com/yukikurage/taskboard/internal/repository"
	"github.com/yukikurage/taskboard/internal/testutil"
	"github.com/yukikurage/taskboard/internal/utils"
	"gorm.io/gorm"
)

type fakeDrafter struct {
	tasks []GeneratedTask
	err   error
	text  string
}

func (f *fakeDrafter) DraftTasks(_ context.Context, text string) ([]GeneratedTask, error) {
	f.text = text
	return f.tasks, f.err
}

// TaskServiceTestSuite defines the test suite for TaskService
type TaskServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	fx      *testutil.Fixtures
	drafter *fakeDrafter
	service *TaskService
	today   time.Time

	alpha *models.Project
	beta  *models.Project
	ana   *models.Worker
	bob   *models.Worker
	eve   *models.Worker
	bug   *models.TaskType
}

// SetupTest runs before each test
func (suite *TaskServiceTestSuite) SetupTest() {
	suite.db = testutil.NewDB(suite.T())
	suite.fx = testutil.NewFixtures(suite.T(), suite.db)
	suite.drafter = &fakeDrafter{}
	suite.service = NewTaskService(
		repository.NewTaskRepository(suite.db),
		repository.NewWorkerRepository(suite.db),
		repository.NewProjectRepository(suite.db),
		repository.NewLabelRepository[models.TaskType](suite.db),
		suite.drafter,
	)
	suite.today = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	suite.service.SetClock(func() time.Time { return suite.today.Add(15 * time.Hour) })

	suite.alpha = suite.fx.Project("Alpha")
	suite.beta = suite.fx.Project("Beta")
	suite.ana = suite.fx.Worker("ana", "Ana", "Smith", suite.alpha)
	suite.bob = suite.fx.Worker("bob", "Bob", "Jones", suite.alpha)
	suite.eve = suite.fx.Worker("eve", "Eve", "Stone", suite.beta)
	suite.bug = suite.fx.TaskType("Bug")
}

func (suite *TaskServiceTestSuite) names(tasks []models.Task) []string {
	names := make([]string, len(tasks))
	for i, task := range tasks {
		names[i] = task.Name
	}
	return names
}

func (suite *TaskServiceTestSuite) TestToday_UsesClockAtMidnight() {
	suite.Equal(suite.today, suite.service.Today())
}

func (suite *TaskServiceTestSuite) TestToday_UsesUTCDateOfNonUTCClock() {
	pacific := time.FixedZone("PST", -8*60*60)
	// 2026-03-11 04:00 UTC
	suite.service.SetClock(func() time.Time { return time.Date(2026, 3, 10, 20, 0, 0, 0, pacific) })
	suite.Equal(time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC), suite.service.Today())

	suite.fx.Task(testutil.TaskSpec{Name: "Due yesterday", Project: suite.alpha, Deadline: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)})
	list, err := suite.service.ListProjectTasks(ListTasksInput{
		ProjectID: suite.alpha.ID,
		Filters:   TaskFilters{PastDeadline: true},
		Page:      1,
	})
	suite.Require().NoError(err)
	suite.Equal([]string{"Due yesterday"}, suite.names(list.Tasks))
}

func (suite *TaskServiceTestSuite) TestListProjectTasks_Filters() {
	suite.fx.Task(testutil.TaskSpec{Name: "T1", Project: suite.alpha, Deadline: suite.today.AddDate(0, 0, -1), Priority: models.PriorityUrgent})
	suite.fx.Task(testutil.TaskSpec{Name: "T2", Project: suite.alpha, Deadline: suite.today.AddDate(0, 0, 1), Priority: models.PriorityLow})
	suite.fx.Task(testutil.TaskSpec{Name: "T3", Project: suite.alpha, Deadline: suite.today.AddDate(0, 0, -5), Done: true})
	suite.fx.Task(testutil.TaskSpec{Name: "B1", Project: suite.beta, Deadline: suite.today.AddDate(0, 0, -1), Priority: models.PriorityUrgent})

	cases := []struct {
		name    string
		filters TaskFilters
		want    []string
	}{
		{"no filters lists open tasks", TaskFilters{}, []string{"T1", "T2"}},
		{"past deadline", TaskFilters{PastDeadline: true}, []string{"T1"}},
		{"urgent", TaskFilters{Urgent: true}, []string{"T1"}},
		{"past deadline and urgent", TaskFilters{PastDeadline: true, Urgent: true}, []string{"T1"}},
		{"done", TaskFilters{Done: true}, []string{"T3"}},
		{"done and urgent", TaskFilters{Done: true, Urgent: true}, []string{}},
	}

	for _, tc := range cases {
		suite.Run(tc.name, func() {
			list, err := suite.service.ListProjectTasks(ListTasksInput{ProjectID: suite.alpha.ID, Filters: tc.filters, Page: 1})
			suite.Require().NoError(err)
			suite.Equal(tc.want, suite.names(list.Tasks))
			suite.Equal(suite.alpha.ID, list.Project.ID)
		})
	}
}

func (suite *TaskServiceTestSuite) TestListProjectTasks_DonePartitionsTasks() {
	for i := 0; i < 4; i++ {
		suite.fx.Task(testutil.TaskSpec{Name: "open", Project: suite.alpha})
	}
	for i := 0; i < 3; i++ {
		suite.fx.Task(testutil.TaskSpec{Name: "closed", Project: suite.alpha, Done: true})
	}

	open, err := suite.service.ListProjectTasks(ListTasksInput{ProjectID: suite.alpha.ID, Page: 1})
	suite.Require().NoError(err)
	done, err := suite.service.ListProjectTasks(ListTasksInput{ProjectID: suite.alpha.ID, Filters: TaskFilters{Done: true}, Page: 1})
	suite.Require().NoError(err)

	suite.EqualValues(4, open.Page.Total)
	suite.EqualValues(3, done.Page.Total)
	for _, task := range open.Tasks {
		suite.False(task.IsCompleted)
	}
	for _, task := range done.Tasks {
		suite.True(task.IsCompleted)
	}
}

func (suite *TaskServiceTestSuite) TestListProjectTasks_Pagination() {
	for i := 0; i < 7; i++ {
		suite.fx.Task(testutil.TaskSpec{Name: "T", Project: suite.alpha, Deadline: suite.today.AddDate(0, 0, i)})
	}

	first, err := suite.service.ListProjectTasks(ListTasksInput{ProjectID: suite.alpha.ID, Page: 1})
	suite.Require().NoError(err)
	suite.Len(first.Tasks, 5)
	suite.Equal(2, first.Page.TotalPages)
	suite.True(first.Page.HasNext())

	last, err := suite.service.ListProjectTasks(ListTasksInput{ProjectID: suite.alpha.ID, Page: utils.LastPage})
	suite.Require().NoError(err)
	suite.Len(last.Tasks, 2)
	suite.Equal(2, last.Page.Number)

	_, err = suite.service.ListProjectTasks(ListTasksInput{ProjectID: suite.alpha.ID, Page: 3})
	suite.ErrorIs(err, utils.ErrInvalidPage)
}

func (suite *TaskServiceTestSuite) TestListProjectTasks_UnknownProject() {
	_, err := suite.service.ListProjectTasks(ListTasksInput{ProjectID: 999, Page: 1})
	suite.ErrorIs(err, ErrProjectNotFound)
}

func (suite *TaskServiceTestSuite) TestCreateTask_BindsActorProject() {
	task, err := suite.service.CreateTask(TaskInput{
		Name:        "  Write docs ",
		Deadline:    suite.today.AddDate(0, 0, 3),
		TaskTypeID:  suite.bug.ID,
		AssigneeIDs: []uint64{suite.ana.ID, suite.bob.ID, suite.ana.ID},
	}, suite.ana)
	suite.Require().NoError(err)

	suite.Equal("Write docs", task.Name)
	suite.Equal(suite.alpha.ID, task.ProjectID)
	suite.Equal(models.PriorityMedium, task.Priority)
	suite.False(task.IsCompleted)
	suite.ElementsMatch([]uint64{suite.ana.ID, suite.bob.ID}, task.AssigneeIDs())
}

func (suite *TaskServiceTestSuite) TestCreateTask_Validation() {
	valid := TaskInput{Name: "Ok", Deadline: suite.today, TaskTypeID: suite.bug.ID}

	cases := []struct {
		name  string
		edit  func(in *TaskInput)
		field string
		err   error
	}{
		{"blank name", func(in *TaskInput) { in.Name = " " }, "name", ErrNameRequired},
		{"missing deadline", func(in *TaskInput) { in.Deadline = time.Time{} }, "deadline", ErrDeadlineRequired},
		{"bad priority", func(in *TaskInput) { in.Priority = "Someday" }, "priority", ErrInvalidPriority},
		{"unknown task type", func(in *TaskInput) { in.TaskTypeID = 999 }, "task_type_id", ErrTaskTypeNotFound},
		{"assignee from another project", func(in *TaskInput) { in.AssigneeIDs = []uint64{suite.eve.ID} }, "assignees", ErrInvalidTaskAssignee},
	}

	for _, tc := range cases {
		suite.Run(tc.name, func() {
			input := valid
			tc.edit(&input)
			_, err := suite.service.CreateTask(input, suite.ana)
			suite.ErrorIs(err, tc.err)

			var fieldErr *FieldError
			suite.Require().True(errors.As(err, &fieldErr))
			suite.Equal(tc.field, fieldErr.Field)
		})
	}
}

func (suite *TaskServiceTestSuite) TestCreateTask_RequiresProject() {
	loner := suite.fx.Worker("loner", "Lo", "Ner", nil)
	_, err := suite.service.CreateTask(TaskInput{Name: "x", Deadline: suite.today, TaskTypeID: suite.bug.ID}, loner)
	suite.ErrorIs(err, ErrNoProject)
}

func (suite *TaskServiceTestSuite) TestUpdateTask_SameProjectOnly() {
	task := suite.fx.Task(testutil.TaskSpec{Name: "T", Project: suite.alpha, Assignees: []*models.Worker{suite.ana}})
	input := TaskInput{
		Name:        "Renamed",
		Deadline:    suite.today.AddDate(0, 0, 2),
		Priority:    models.PriorityHigh,
		TaskTypeID:  suite.bug.ID,
		AssigneeIDs: []uint64{suite.bob.ID},
	}

	_, err := suite.service.UpdateTask(task, input, suite.eve)
	suite.ErrorIs(err, ErrTaskPermissionDenied)
	suite.Equal("T", suite.fx.Reload(task).Name)

	updated, err := suite.service.UpdateTask(task, input, suite.bob)
	suite.Require().NoError(err)
	suite.Equal("Renamed", updated.Name)
	suite.Equal(models.PriorityHigh, updated.Priority)
	suite.Equal([]uint64{suite.bob.ID}, updated.AssigneeIDs())
}

func (suite *TaskServiceTestSuite) TestDeleteTask_SameProjectOnly() {
	task := suite.fx.Task(testutil.TaskSpec{Name: "T", Project: suite.alpha})

	suite.ErrorIs(suite.service.DeleteTask(task, suite.eve), ErrTaskPermissionDenied)
	_, err := suite.service.GetTask(task.ID)
	suite.Require().NoError(err)

	suite.Require().NoError(suite.service.DeleteTask(task, suite.ana))
	_, err = suite.service.GetTask(task.ID)
	suite.ErrorIs(err, ErrTaskNotFound)
}

func (suite *TaskServiceTestSuite) TestToggleCompletion_AssigneesOnly() {
	task := suite.fx.Task(testutil.TaskSpec{Name: "T", Project: suite.alpha, Assignees: []*models.Worker{suite.ana}})

	_, err := suite.service.ToggleCompletion(task.ID, suite.bob)
	suite.ErrorIs(err, ErrTaskPermissionDenied)
	suite.False(suite.fx.Reload(task).IsCompleted)

	toggled, err := suite.service.ToggleCompletion(task.ID, suite.ana)
	suite.Require().NoError(err)
	suite.True(toggled.IsCompleted)
	suite.True(suite.fx.Reload(task).IsCompleted)

	toggled, err = suite.service.ToggleCompletion(task.ID, suite.ana)
	suite.Require().NoError(err)
	suite.False(toggled.IsCompleted)
}

func (suite *TaskServiceTestSuite) TestToggleCompletion_MissingTask() {
	_, err := suite.service.ToggleCompletion(999, suite.ana)
	suite.ErrorIs(err, ErrTaskNotFound)
}

func (suite *TaskServiceTestSuite) TestAssigneeChoices() {
	workers, err := suite.service.AssigneeChoices(&suite.alpha.ID)
	suite.Require().NoError(err)
	suite.Len(workers, 2)

	workers, err = suite.service.AssigneeChoices(nil)
	suite.Require().NoError(err)
	suite.Empty(workers)
}

func (suite *TaskServiceTestSuite) TestDraftTasks() {
	past := suite.today.AddDate(0, 0, -1)
	future := suite.today.AddDate(0, 0, 4)
	suite.drafter.tasks = []GeneratedTask{
		{Name: "Plan sprint", Deadline: &future},
		{Name: "  "},
		{Name: "Fix build", Deadline: &past},
	}

	tasks, err := suite.service.DraftTasks(context.Background(), DraftTasksInput{Text: "plan the sprint and fix the build"})
	suite.Require().NoError(err)
	suite.Equal("plan the sprint and fix the build", suite.drafter.text)
	suite.Require().Len(tasks, 2)
	suite.Equal(future, *tasks[0].Deadline)
	suite.Nil(tasks[1].Deadline)
}

func (suite *TaskServiceTestSuite) TestDraftTasks_Errors() {
	suite.drafter.tasks = nil
	_, err := suite.service.DraftTasks(context.Background(), DraftTasksInput{Text: "x"})
	suite.ErrorIs(err, ErrAINoTasksGenerated)

	suite.drafter.tasks = []GeneratedTask{{Name: ""}}
	_, err = suite.service.DraftTasks(context.Background(), DraftTasksInput{Text: "x"})
	suite.ErrorIs(err, ErrAINoValidTasks)

	boom := errors.New("boom")
	suite.drafter.err = boom
	_, err = suite.service.DraftTasks(context.Background(), DraftTasksInput{Text: "x"})
	suite.ErrorIs(err, boom)

	unconfigured := NewTaskService(nil, nil, nil, nil, nil)
	_, err = unconfigured.DraftTasks(context.Background(), DraftTasksInput{Text: "x"})
	suite.ErrorIs(err, ErrAIServiceNotConfigured)
}

func (suite *TaskServiceTestSuite) TestParseTaskFilters() {
	f := ParseTaskFilters([]string{"urgent", "bogus", "done"})
	suite.Equal(TaskFilters{Urgent: true, Done: true}, f)
	suite.Equal([]string{"urgent", "done"}, f.Values())
}

// TestTaskServiceTestSuite runs the test suite
func TestTaskServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TaskServiceTestSuite))
}
