// Package i18n 提供国际化支持
// 负责管理应用程序的语言包和翻译功能
package i18n

import (
	"sync"

	"github.com/go-playground/locales/en_US"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/weiwangfds/pastefile/internal/logger"
)

// 支持的语言
const (
	LangZhCN = "zh-CN"
	LangEnUS = "en-US"
)

var (
	instance *I18n
	once     sync.Once

	// 语言包存储
	translations = map[string]map[string]string{
		LangZhCN: {
			"success":               "成功",
			"internal_server_error": "服务器内部错误",
			"invalid_params":        "参数错误",
			"not_found":             "资源未找到",

			"empty_upload":           "上传内容为空",
			"invalid_dimensions":     "图片尺寸参数无效",
			"unsupported_media_kind": "该文件类型不支持此操作",
			"storage_name_collision": "存储文件名冲突",
			"file_not_found":         "文件未找到",
			"invalid_token":          "短链接无效",
			"file_upload_failed":     "文件上传失败",
			"file_read_failed":       "文件读取失败",
			"file_write_failed":      "文件写入失败",
			"file_size_too_large":    "文件大小超限",

			"mirror_config_not_found":       "镜像配置未找到",
			"mirror_config_invalid":         "镜像配置无效",
			"mirror_connection_failed":      "镜像存储连接失败",
			"mirror_provider_not_supported": "镜像存储提供商不支持",

			"database_query":        "数据库查询错误",
			"database_insert":       "数据库插入错误",
			"record_not_found":      "记录未找到",
			"record_already_exists": "记录已存在",

			"unknown_error": "未知错误",
		},
		LangEnUS: {
			"success":               "Success",
			"internal_server_error": "Internal Server Error",
			"invalid_params":        "Invalid Parameters",
			"not_found":             "Resource Not Found",

			"empty_upload":           "Empty Upload",
			"invalid_dimensions":     "Invalid Image Dimensions",
			"unsupported_media_kind": "Operation Not Supported For This Media Kind",
			"storage_name_collision": "Storage Name Collision",
			"file_not_found":         "File Not Found",
			"invalid_token":          "Invalid Short Token",
			"file_upload_failed":     "File Upload Failed",
			"file_read_failed":       "File Read Failed",
			"file_write_failed":      "File Write Failed",
			"file_size_too_large":    "File Size Too Large",

			"mirror_config_not_found":       "Mirror Config Not Found",
			"mirror_config_invalid":         "Mirror Config Invalid",
			"mirror_connection_failed":      "Mirror Connection Failed",
			"mirror_provider_not_supported": "Mirror Provider Not Supported",

			"database_query":        "Database Query Error",
			"database_insert":       "Database Insert Error",
			"record_not_found":      "Record Not Found",
			"record_already_exists": "Record Already Exists",

			"unknown_error": "Unknown Error",
		},
	}
)

// I18n 国际化管理器
type I18n struct {
	translators map[string]ut.Translator
	defaultLang string
}

// GetInstance 获取I18n单例
func GetInstance() *I18n {
	once.Do(func() {
		instance = &I18n{
			translators: make(map[string]ut.Translator),
			defaultLang: LangZhCN,
		}
		instance.initTranslators()
	})
	return instance
}

// initTranslators 初始化翻译器
func (i *I18n) initTranslators() {
	zhCN := zh.New()
	enUS := en_US.New()
	uni := ut.New(zhCN, enUS, zhCN)

	// 注册支持的语言 - 使用locale库的标识符
	langMappings := map[string]string{
		LangZhCN: "zh",
		LangEnUS: "en_US",
	}

	for ourLang, localeLang := range langMappings {
		trans, found := uni.GetTranslator(localeLang)
		if !found {
			logger.Errorf("初始化翻译器失败: %s (locale: %s)", ourLang, localeLang)
			continue
		}
		i.translators[ourLang] = trans
	}
}

// Translate 根据键和语言获取翻译
func (i *I18n) Translate(key, lang string) string {
	if translation, found := translations[lang][key]; found {
		return translation
	}

	// 如果当前语言没有找到，尝试在默认语言中查找
	if lang != i.defaultLang {
		if translation, found := translations[i.defaultLang][key]; found {
			return translation
		}
	}

	logger.Warnf("未找到翻译: %s, 语言: %s", key, lang)
	return key
}

// GetDefaultLanguage 获取默认语言
func (i *I18n) GetDefaultLanguage() string {
	return i.defaultLang
}

// IsSupportedLanguage 检查语言是否支持
func (i *I18n) IsSupportedLanguage(lang string) bool {
	_, exists := i.translators[lang]
	return exists
}
