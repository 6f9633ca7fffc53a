package services

// Service errors
var (
	ErrInsufficientPool = &ServiceError{Message: "not enough movies in the pool to start a vote session"}
	ErrUnknownSession   = &ServiceError{Message: "vote session not found"}
	ErrNoActiveSession  = &ServiceError{Message: "no active voting session"}
)

// ServiceError represents a service-level error
type ServiceError struct {
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}
