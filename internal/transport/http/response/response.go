package response

import (
	"time"
)

// Envelope 成功响应统一外壳（data 保证非 null）
type Envelope struct {
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

func Success(message string, data any) Envelope {
	if data == nil {
		data = struct{}{}
	}
	return Envelope{
		Status:    "SUCCESS",
		Message:   message,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// ErrorBody 失败响应；errors 按字段聚合多条消息
type ErrorBody struct {
	Code      int                 `json:"code"`
	Message   string              `json:"message"`
	Path      string              `json:"path"`
	Timestamp time.Time           `json:"timestamp"`
	Errors    map[string][]string `json:"errors"`
}

func Failure(code int, message, path string, errs map[string][]string) ErrorBody {
	if errs == nil {
		errs = map[string][]string{}
	}
	return ErrorBody{
		Code:      code,
		Message:   message,
		Path:      path,
		Timestamp: time.Now().UTC(),
		Errors:    errs,
	}
}
