/**
 * 模型:错误定义
 * @author: sun977
 * @date: 2025.08.29
 * @description: 系统错误常量与带分类的业务错误 AppError
 * @func:
 * 	1.AppError 业务错误，Kind 决定HTTP状态码
 * 	2.各类预定义错误
 * 	3.ValidationError 参数验证错误
 */
package system

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind 错误分类
type ErrorKind int

const (
	KindInternal     ErrorKind = iota // 内部错误
	KindUnauthorized                  // 未认证/认证失败
	KindForbidden                     // 无权限
	KindNotFound                      // 资源不存在
	KindMalformed                     // 令牌或数据格式错误
	KindBadRequest                    // 请求参数错误
	KindConflict                      // 资源冲突(重复)
)

// AppError 业务错误
// Message 为对外提示，Detail 仅在调试模式下返回
type AppError struct {
	Kind    ErrorKind
	Message string
	Detail  string
	Err     error
}

// Error 实现error接口
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap 支持 errors.Is / errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 同类且同提示的 AppError 视为相同错误
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

// StatusCode 错误分类对应的HTTP状态码
func (e *AppError) StatusCode() int {
	switch e.Kind {
	case KindUnauthorized, KindMalformed:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindBadRequest, KindConflict:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// WithDetail 返回附带调试信息的副本
func (e *AppError) WithDetail(detail string) *AppError {
	cp := *e
	cp.Detail = detail
	return &cp
}

// WithErr 返回包装底层错误的副本
func (e *AppError) WithErr(err error) *AppError {
	cp := *e
	cp.Err = err
	return &cp
}

// NewAppError 创建业务错误
func NewAppError(kind ErrorKind, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

// Unauthorized 认证失败
func Unauthorized(message string) *AppError {
	return NewAppError(KindUnauthorized, message)
}

// Forbidden 无权限
func Forbidden(message string) *AppError {
	return NewAppError(KindForbidden, message)
}

// NotFound 资源不存在
func NotFound(message string) *AppError {
	return NewAppError(KindNotFound, message)
}

// BadRequest 请求参数错误
func BadRequest(message string) *AppError {
	return NewAppError(KindBadRequest, message)
}

// Conflict 资源冲突
func Conflict(message string) *AppError {
	return NewAppError(KindConflict, message)
}

// Internal 内部错误，err 为底层原因
func Internal(message string, err error) *AppError {
	return &AppError{Kind: KindInternal, Message: message, Err: err}
}

// AsAppError 提取 AppError，非业务错误统一视为内部错误
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("operation failed", err)
}

// 认证相关错误
var (
	ErrMissingToken       = Unauthorized("Missing authentication token")
	ErrInvalidToken       = NewAppError(KindMalformed, "Invalid token")
	ErrTokenExpired       = Unauthorized("Login has expired")
	ErrAuthFailed         = Unauthorized("Authentication failed")
	ErrInvalidCredentials = Unauthorized("Incorrect username or password")
	ErrRefreshUserInvalid = Unauthorized("User does not exist or has been disabled")
	ErrRefreshTokenFailed = Unauthorized("Token is invalid or expired")
)

// 权限相关错误
var (
	ErrNotBoundRole     = Forbidden("The user is not bound to a role")
	ErrPermissionDenied = Forbidden("Permission denied")
)

// 用户相关错误
var (
	ErrUserNotFound             = NotFound("User not found")
	ErrEmailAlreadyExists       = Conflict("The user with this email already exists in the system.")
	ErrUsernameAlreadyExists    = Conflict("The user with this username already exists in the system.")
	ErrOldPasswordIncorrect     = BadRequest("Old password verification failed!")
	ErrPasswordUnchanged        = BadRequest("New password cannot be the same as the old password")
	ErrCannotDeleteSelf         = BadRequest("Cannot delete the current user")
	ErrRoleNotFound             = NotFound("Role not found")
	ErrRoleAlreadyExists        = Conflict("The role already exists")
	ErrMenuNotFound             = NotFound("Menu not found")
	ErrMenuHasChildren          = BadRequest("Cannot delete a menu with submenus")
	ErrApiNotFound              = NotFound("Api not found")
	ErrDeptNotFound             = NotFound("Department not found")
	ErrDeptAlreadyExists        = Conflict("The department already exists")
	ErrParentDeptNotFound       = NotFound("Parent department does not exist")
	ErrDeptInvalidParent        = BadRequest("A department cannot be moved under itself or its descendants")
	ErrDeptHasChildren          = BadRequest("Cannot delete a department with sub-departments")
	ErrFileEmpty                = BadRequest("File cannot be empty")
	ErrFileTooLarge             = BadRequest("File size exceeds the limit")
	ErrFileTypeNotAllowed       = BadRequest("File type is not allowed")
	ErrInvalidFileName          = BadRequest("Invalid file name")
	ErrSensitiveContentDetected = BadRequest("SENSITIVE_CONTENT_DETECTED")
)

// ValidationError 验证错误结构体
type ValidationError struct {
	Field   string `json:"field"`   // 字段名
	Message string `json:"message"` // 错误消息
}

// NewValidationError 创建验证错误
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// Error 实现error接口
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// IsValidationError 检查是否为验证错误
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
