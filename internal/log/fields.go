package log

// Common field names for structured logging.
const (
	FieldComponent = "component"
	FieldError     = "error"
	FieldAction    = "action"
	FieldKey       = "key"
	FieldBackend   = "backend"
	FieldCurrency  = "currency"
	FieldPath      = "path"
	FieldMethod    = "method"
	FieldStatus    = "status_code"
	FieldDuration  = "duration_ms"
)

// Components defines standard component names.
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentStore     = "store"
	ComponentStorage   = "storage"
	ComponentCurrency  = "currency"
	ComponentAMQP      = "amqp"
	ComponentWorker    = "worker"
	ComponentRecurring = "recurring"
)
