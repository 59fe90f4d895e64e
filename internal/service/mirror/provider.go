// Package service 提供已发布文件向云端对象存储的镜像复制
// 镜像严格处于上传关键路径之外：本地发布成功后异步复制，
// 失败只记录镜像日志，永远不影响上传方
package service

import (
	"io"

	"github.com/weiwangfds/pastefile/internal/database"
	apperrors "github.com/weiwangfds/pastefile/internal/errors"
)

// Provider 镜像存储提供商接口
type Provider interface {
	// UploadObject 上传对象到镜像存储
	UploadObject(objectKey string, reader io.Reader, contentType string) error

	// DeleteObject 删除镜像存储中的对象
	DeleteObject(objectKey string) error

	// ObjectExists 检查对象是否存在
	ObjectExists(objectKey string) (bool, error)

	// TestConnection 测试连接
	TestConnection() error
}

// NewProvider 根据镜像配置创建提供商实例
func NewProvider(cfg *database.MirrorConfig) (Provider, error) {
	switch cfg.Provider {
	case "aliyun":
		return newAliyunProvider(cfg)
	case "tencent":
		return newTencentProvider(cfg)
	case "qiniu":
		return newQiniuProvider(cfg)
	default:
		return nil, apperrors.ErrMirrorProviderNotSupportedError.WithDetails(cfg.Provider)
	}
}
