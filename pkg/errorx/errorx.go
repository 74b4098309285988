package errorx

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// CodeError 带业务错误码的自定义错误
// 实现了 error 接口，支持 %w 包装底层错误，且能被 errors.Is/errors.As 识别
type CodeError struct {
	Code  int    // 业务错误码
	Msg   string // 错误消息
	cause error  // 被包装的底层错误
}

// Error 实现 Go 标准 error 接口
// 当存在底层错误时，返回格式为 "消息: 底层错误"；否则仅返回消息
func (e *CodeError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.cause)
	}
	return e.Msg
}

// Unwrap 实现 errors.Unwrap 接口，支持 errors.Is/errors.As 向下追溯
func (e *CodeError) Unwrap() error {
	return e.cause
}

// New 创建一个新的 CodeError
func New(code int, msg string) *CodeError {
	return &CodeError{
		Code: code,
		Msg:  msg,
	}
}

// Newf 创建一个带格式化消息的 CodeError
func Newf(code int, format string, args ...any) *CodeError {
	return &CodeError{
		Code: code,
		Msg:  fmt.Sprintf(format, args...),
	}
}

// Wrap 包装底层错误，添加业务错误码和消息
// 用法: errorx.Wrap(err, CodeNotFound, "房间不存在")
func Wrap(err error, code int, msg string) *CodeError {
	return &CodeError{
		Code:  code,
		Msg:   msg,
		cause: err,
	}
}

// Wrapf 包装底层错误，支持格式化消息
// 用法: errorx.Wrapf(err, CodeNotFound, "房间 %s 不存在", roomId)
func Wrapf(err error, code int, format string, args ...any) *CodeError {
	return &CodeError{
		Code:  code,
		Msg:   fmt.Sprintf(format, args...),
		cause: err,
	}
}

// GetCode 从错误中提取业务错误码，如果不是 CodeError 则返回默认码
func GetCode(err error) int {
	var codeErr *CodeError
	if errors.As(err, &codeErr) {
		return codeErr.Code
	}
	return CodeServerBusy // 默认返回服务繁忙
}

// 业务状态码常量定义
const (
	CodeSuccess             = 1000 // 成功
	CodeInvalidParam        = 1001 // 请求参数错误（含空消息体、空昵称、非法展示模式）
	CodeUserExist           = 1002 // 用户已存在
	CodeUserNotExist        = 1003 // 用户不存在
	CodeInvalidPassword     = 1004 // 密码错误
	CodeServerBusy          = 1005 // 服务繁忙
	CodeUnauthorized        = 1006 // 未授权/认证失败
	CodeForbidden           = 1007 // 无权访问该资源
	CodeNotFound            = 1008 // 资源不存在
	CodeConflict            = 1009 // 唯一约束冲突（创建路径内部消化，不对外暴露）
	CodeDBError             = 1010 // 数据库错误
	CodeCacheError          = 1011 // 缓存错误
	CodePreferenceImmutable = 1012 // 昵称已设置，不可修改
)

// 预定义常用错误实例
// 这些实例既可直接返回，也可用于 errors.Is 比较
var (
	ErrInvalidParam        = New(CodeInvalidParam, "请求参数错误")
	ErrServerBusy          = New(CodeServerBusy, "服务繁忙")
	ErrNotAuthenticated    = New(CodeUnauthorized, "未登录或登录已过期")
	ErrPreferenceImmutable = New(CodePreferenceImmutable, "昵称只能设置一次，不可修改")
)

// IsNotFound 检查错误是否为"未找到"类型（包括 gorm.ErrRecordNotFound）
func IsNotFound(err error) bool {
	var codeErr *CodeError
	if errors.As(err, &codeErr) && codeErr.Code == CodeNotFound {
		return true
	}
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsConflict 检查错误是否为唯一约束冲突（包括 gorm.ErrDuplicatedKey）
// 创建路径依赖它做"创建失败则读取已有行"的幂等处理
func IsConflict(err error) bool {
	var codeErr *CodeError
	if errors.As(err, &codeErr) && codeErr.Code == CodeConflict {
		return true
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
