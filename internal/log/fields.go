package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldSavedAt    = "saved_at"
	FieldSavePath   = "save_path"
	FieldCategories = "categories"
	FieldSalaryRows = "salary_rows"
	FieldActionKind = "action_kind"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentSession = "session"
	ComponentStorage = "storage"
	ComponentHistory = "history"
	ComponentAMQP    = "amqp"
)

// Operations defines standard operation names
const (
	OpLoad     = "load"
	OpSave     = "save"
	OpRestore  = "restore"
	OpApply    = "apply"
	OpArchive  = "archive"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
