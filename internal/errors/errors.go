package errors

import (
	"fmt"

	"github.com/weiwangfds/pastefile/internal/i18n"
)

// ErrorCode 错误码类型
type ErrorCode int

// 定义错误码常量
const (
	// 通用错误码 (1000-1999)
	ErrSuccess        ErrorCode = 0    // 成功
	ErrInternalServer ErrorCode = 1000 // 服务器内部错误
	ErrInvalidParams  ErrorCode = 1001 // 参数错误
	ErrNotFound       ErrorCode = 1004 // 资源未找到

	// 文件相关错误码 (2000-2999)
	ErrEmptyUpload          ErrorCode = 2000 // 上传内容为空
	ErrInvalidDimensions    ErrorCode = 2001 // 图片尺寸参数无效
	ErrUnsupportedMediaKind ErrorCode = 2002 // 文件类型不支持该操作
	ErrStorageNameCollision ErrorCode = 2003 // 存储文件名冲突
	ErrFileNotFound         ErrorCode = 2004 // 文件未找到
	ErrInvalidToken         ErrorCode = 2005 // 短链接无效
	ErrFileUploadFailed     ErrorCode = 2006 // 文件上传失败
	ErrFileReadFailed       ErrorCode = 2007 // 文件读取失败
	ErrFileWriteFailed      ErrorCode = 2008 // 文件写入失败
	ErrFileSizeTooLarge     ErrorCode = 2009 // 文件大小超限

	// 镜像相关错误码 (3000-3999)
	ErrMirrorConfigNotFound       ErrorCode = 3000 // 镜像配置未找到
	ErrMirrorConfigInvalid        ErrorCode = 3001 // 镜像配置无效
	ErrMirrorConnectionFailed     ErrorCode = 3002 // 镜像存储连接失败
	ErrMirrorProviderNotSupported ErrorCode = 3003 // 镜像存储提供商不支持

	// 数据库相关错误码 (4000-4999)
	ErrDatabaseQuery       ErrorCode = 4001 // 数据库查询错误
	ErrDatabaseInsert      ErrorCode = 4002 // 数据库插入错误
	ErrRecordNotFound      ErrorCode = 4006 // 记录未找到
	ErrRecordAlreadyExists ErrorCode = 4007 // 记录已存在
)

// AppError 应用错误结构体
// @Description 应用程序统一错误格式
type AppError struct {
	// 错误码
	Code ErrorCode `json:"code"`
	// 错误消息
	Message string `json:"message"`
	// 详细错误信息
	Details string `json:"details,omitempty"`
	// 原始错误
	OriginalError error `json:"-"`
}

// Error 实现error接口
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%d] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// WithDetails 添加详细错误信息
func (e *AppError) WithDetails(details string) *AppError {
	return &AppError{
		Code:          e.Code,
		Message:       e.Message,
		Details:       details,
		OriginalError: e.OriginalError,
	}
}

// New 创建新的应用错误
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装原始错误
func Wrap(code ErrorCode, message string, err error) *AppError {
	appErr := &AppError{
		Code:          code,
		Message:       message,
		OriginalError: err,
	}
	if err != nil {
		appErr.Details = err.Error()
	}
	return appErr
}

// NewCode 根据错误码创建应用错误，消息取自i18n
func NewCode(code ErrorCode) *AppError {
	return New(code, GetErrorMessage(code))
}

// WrapCode 根据错误码包装原始错误，消息取自i18n
func WrapCode(code ErrorCode, err error) *AppError {
	return Wrap(code, GetErrorMessage(code), err)
}

// IsAppError 判断是否为应用错误
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// GetAppError 获取应用错误
func GetAppError(err error) (*AppError, bool) {
	appErr, ok := err.(*AppError)
	return appErr, ok
}

// IsCode 判断错误是否为指定错误码的应用错误
func IsCode(err error, code ErrorCode) bool {
	appErr, ok := GetAppError(err)
	return ok && appErr.Code == code
}

// 预定义的常用错误
var (
	// 通用错误
	ErrInternalServerError = NewCode(ErrInternalServer)
	ErrInvalidParameters   = NewCode(ErrInvalidParams)
	ErrResourceNotFound    = NewCode(ErrNotFound)

	// 文件相关错误
	ErrEmptyUploadError          = NewCode(ErrEmptyUpload)
	ErrInvalidDimensionsError    = NewCode(ErrInvalidDimensions)
	ErrUnsupportedMediaKindError = NewCode(ErrUnsupportedMediaKind)
	ErrStorageNameCollisionError = NewCode(ErrStorageNameCollision)
	ErrFileNotFoundError         = NewCode(ErrFileNotFound)
	ErrInvalidTokenError         = NewCode(ErrInvalidToken)
	ErrFileUploadFailedError     = NewCode(ErrFileUploadFailed)
	ErrFileReadFailedError       = NewCode(ErrFileReadFailed)
	ErrFileWriteFailedError      = NewCode(ErrFileWriteFailed)
	ErrFileSizeTooLargeError     = NewCode(ErrFileSizeTooLarge)

	// 镜像相关错误
	ErrMirrorConfigNotFoundError       = NewCode(ErrMirrorConfigNotFound)
	ErrMirrorConfigInvalidError        = NewCode(ErrMirrorConfigInvalid)
	ErrMirrorConnectionFailedError     = NewCode(ErrMirrorConnectionFailed)
	ErrMirrorProviderNotSupportedError = NewCode(ErrMirrorProviderNotSupported)
)

// 错误码到i18n键的映射
var errorCodeToKeyMap = map[ErrorCode]string{
	ErrSuccess:        "success",
	ErrInternalServer: "internal_server_error",
	ErrInvalidParams:  "invalid_params",
	ErrNotFound:       "not_found",

	ErrEmptyUpload:          "empty_upload",
	ErrInvalidDimensions:    "invalid_dimensions",
	ErrUnsupportedMediaKind: "unsupported_media_kind",
	ErrStorageNameCollision: "storage_name_collision",
	ErrFileNotFound:         "file_not_found",
	ErrInvalidToken:         "invalid_token",
	ErrFileUploadFailed:     "file_upload_failed",
	ErrFileReadFailed:       "file_read_failed",
	ErrFileWriteFailed:      "file_write_failed",
	ErrFileSizeTooLarge:     "file_size_too_large",

	ErrMirrorConfigNotFound:       "mirror_config_not_found",
	ErrMirrorConfigInvalid:        "mirror_config_invalid",
	ErrMirrorConnectionFailed:     "mirror_connection_failed",
	ErrMirrorProviderNotSupported: "mirror_provider_not_supported",

	ErrDatabaseQuery:       "database_query",
	ErrDatabaseInsert:      "database_insert",
	ErrRecordNotFound:      "record_not_found",
	ErrRecordAlreadyExists: "record_already_exists",
}

// GetErrorMessage 根据错误码获取错误消息（使用默认语言）
func GetErrorMessage(code ErrorCode) string {
	return GetErrorMessageWithLang(code, i18n.GetInstance().GetDefaultLanguage())
}

// GetErrorMessageWithLang 根据错误码和语言获取错误消息
func GetErrorMessageWithLang(code ErrorCode, lang string) string {
	key, exists := errorCodeToKeyMap[code]
	if !exists {
		key = "unknown_error"
	}
	return i18n.GetInstance().Translate(key, lang)
}
