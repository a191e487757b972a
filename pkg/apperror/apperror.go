package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind 定义了业务错误的分类。
// 核心服务只抛出这些分类，由HTTP层统一翻译为状态码。
type Kind int

const (
	// KindValidation 表示请求输入缺失或格式错误，调用方修正输入后可重试。
	KindValidation Kind = iota + 1
	// KindNotFound 表示引用的实体ID不存在。
	KindNotFound
	// KindInvalidState 表示实体存在，但其当前状态不允许请求的转换。
	// 收到此错误说明调用方看到的是过期的状态。
	KindInvalidState
	// KindConflict 表示违反了唯一性或防重复规则，相同输入重试无意义。
	KindConflict
	// KindResourceExhausted 表示某个有限资源（超级赞额度、待审上限）已耗尽。
	KindResourceExhausted
	// KindUnauthorized 表示缺少有效的身份。
	KindUnauthorized
	// KindForbidden 表示身份有效但角色或账户状态不满足前置条件。
	KindForbidden
	// KindStorage 表示存储层事务因基础设施原因失败，事务已整体回滚。
	KindStorage
)

// Error 是所有业务错误的载体。它携带分类、面向调用方的消息和底层原因。
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New 创建一个指定分类的业务错误。
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap 创建一个包裹底层错误的业务错误，保留错误链。
func Wrap(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// Validation 等一组构造函数是各分类的便捷入口。

func Validation(format string, args ...interface{}) *Error {
	return New(KindValidation, format, args...)
}

func NotFound(format string, args ...interface{}) *Error {
	return New(KindNotFound, format, args...)
}

func InvalidState(format string, args ...interface{}) *Error {
	return New(KindInvalidState, format, args...)
}

func Conflict(format string, args ...interface{}) *Error {
	return New(KindConflict, format, args...)
}

func ResourceExhausted(format string, args ...interface{}) *Error {
	return New(KindResourceExhausted, format, args...)
}

func Unauthorized(format string, args ...interface{}) *Error {
	return New(KindUnauthorized, format, args...)
}

func Forbidden(format string, args ...interface{}) *Error {
	return New(KindForbidden, format, args...)
}

func Storage(err error, format string, args ...interface{}) *Error {
	return Wrap(KindStorage, err, format, args...)
}

// KindOf 返回错误链中第一个业务错误的分类。
// 未分类的错误一律视为存储层错误。
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindStorage
}

// Is 判断错误链中是否存在指定分类的业务错误。
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// HTTPStatus 将业务错误分类映射为HTTP状态码。
// 冲突类（重复提交、状态过期）统一使用409，额度类统一使用429。
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidState, KindConflict:
		return http.StatusConflict
	case KindResourceExhausted:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
