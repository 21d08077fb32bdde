package models

// OperationResult is the envelope returned by every mutating operation.
type OperationResult struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func Succeeded(message string, data interface{}) OperationResult {
	return OperationResult{Success: true, Message: message, Data: data}
}

func Failed(message string) OperationResult {
	return OperationResult{Success: false, Message: message}
}
