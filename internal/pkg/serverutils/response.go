package serverutils

// ApiResponse is the standard JSON envelope for every endpoint.
type ApiResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func SuccessResponse(message string, data interface{}) ApiResponse {
	return ApiResponse{
		Success: true,
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(message string) ApiResponse {
	return ApiResponse{
		Success: false,
		Message: message,
	}
}

// ApiError carries an HTTP status with a client-safe message.
type ApiError struct {
	Code    int
	Message string
}

func (e *ApiError) Error() string {
	return e.Message
}

func NewApiError(code int, message string) *ApiError {
	return &ApiError{Code: code, Message: message}
}
