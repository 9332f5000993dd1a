package constants

// Session and context keys
const (
	SessionCookieName   = "taskboard_session"
	ContextKeyWorkerID  = "worker_id"
	ContextKeyWorker    = "worker"
	ContextKeyTask      = "task"
	ContextKeyProject   = "project"
	ContextKeyRequestID = "request_id"
	HeaderRequestID     = "X-Request-ID"
)

// Pagination
const (
	TaskPageSize   = 5
	WorkerPageSize = 10
	AdminPageSize  = 50
	MinPage        = 1
)

// Task list filter flags
const (
	FilterPastDeadline = "past_dl"
	FilterUrgent       = "urgent"
	FilterDone         = "done"
)

const (
	MinPasswordLength   = 8
	MaxAIGeneratedTasks = 20
	DateLayout          = "2006-01-02"
	LoginPath           = "/accounts/login/"
)
