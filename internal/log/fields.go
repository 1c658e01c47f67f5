package log

// Common field names for structured logging
const (
	FieldComponent     = "component"
	FieldRequestID     = "request_id"
	FieldClientIP      = "client_ip"
	FieldMethod        = "method"
	FieldPath          = "path"
	FieldStatusCode    = "status_code"
	FieldDuration      = "duration_ms"
	FieldUserAgent     = "user_agent"
	FieldError         = "error"
	FieldOperation     = "operation"
	FieldUserID        = "user_id"
	FieldExpenseID     = "expense_id"
	FieldGoalID        = "goal_id"
	FieldSlug          = "slug"
	FieldCategory      = "category"
	FieldPaymentMethod = "payment_method"
	FieldAmountCents   = "amount_cents"
	FieldTranscript    = "transcript"
	FieldQuestionID    = "question_id"
	FieldBackend       = "backend"
)

// Components defines standard component names
const (
	ComponentApp         = "app"
	ComponentHTTP        = "http"
	ComponentAuth        = "auth"
	ComponentExpense     = "expense"
	ComponentGoal        = "goal"
	ComponentInterpreter = "interpreter"
	ComponentStorage     = "storage"
	ComponentASR         = "asr"
	ComponentAMQP        = "amqp"
	ComponentWorker      = "worker"
	ComponentAnalytics   = "analytics"
	ComponentSession     = "session"
)

// Operations defines standard operation names
const (
	OpCreate     = "create"
	OpRead       = "read"
	OpUpdate     = "update"
	OpDelete     = "delete"
	OpList       = "list"
	OpParse      = "parse"
	OpTranscribe = "transcribe"
	OpLogin      = "login"
	OpSignup     = "signup"
	OpShutdown   = "shutdown"
	OpStartup    = "startup"
)
