package domain

import "fmt"

// NotFoundError 按 id 等字段找不到资源；boundary 映射为 404
type NotFoundError struct {
	Resource string
	Field    string
	Value    any
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found with %s: '%v'", e.Resource, e.Field, e.Value)
}

// DuplicateError 唯一性冲突（目前只有 email）；boundary 映射为 409
type DuplicateError struct {
	Field   string
	Message string
}

func (e DuplicateError) Error() string { return e.Message }

func UserNotFound(id uint64) NotFoundError {
	return NotFoundError{Resource: "User", Field: "id", Value: id}
}

func DuplicateEmail() DuplicateError {
	return DuplicateError{Field: "email", Message: "email already exists"}
}
