package dto

import "time"

// ErrorResponse is the JSON body returned when the proxy itself fails
// (panic, unknown route, handler error). Upstream failures never produce it:
// those are answered with an empty object.
type ErrorResponse struct {
	Message      string    `json:"message" example:"route not found"`
	ErrorDetails string    `json:"error,omitempty" example:"no route for GET /foo"`
	Timestamp    time.Time `json:"timestamp" example:"2025-01-02T15:04:05Z"`
}

// Error implements the error interface so the response can travel through c.Error.
func (e ErrorResponse) Error() string {
	if e.ErrorDetails == "" {
		return e.Message
	}
	return e.Message + ": " + e.ErrorDetails
}

// NewErrorResponse builds an ErrorResponse stamped with the current UTC time.
// err may be nil.
func NewErrorResponse(message string, err error) ErrorResponse {
	resp := ErrorResponse{
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
	if err != nil {
		resp.ErrorDetails = err.Error()
	}
	return resp
}
