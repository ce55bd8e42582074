package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldRequestID = "request_id"
	FieldRecordID  = "record_id"
	FieldCategory  = "category"
	FieldBackend   = "backend"
	FieldError     = "error"
	FieldPath      = "path"
)
