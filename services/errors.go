package services

// ServiceError is an orchestration-boundary failure carrying the HTTP status
// the controller should respond with. Details holds upstream diagnostics
// (e.g. the gateway's error body) when available.
type ServiceError struct {
	StatusCode int
	Message    string
	Details    string
}

func (e *ServiceError) Error() string {
	return e.Message
}
