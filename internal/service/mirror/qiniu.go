package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/qiniu/go-sdk/v7/auth/qbox"
	"github.com/qiniu/go-sdk/v7/storage"
	"github.com/weiwangfds/pastefile/internal/database"
)

// qiniuProvider 七牛云Kodo提供商实现
type qiniuProvider struct {
	mac        *qbox.Mac
	bucketName string
	region     *storage.Region
	config     *database.MirrorConfig
}

// newQiniuProvider 创建七牛云Kodo提供商实例
func newQiniuProvider(cfg *database.MirrorConfig) (*qiniuProvider, error) {
	mac := qbox.NewMac(cfg.AccessKey, cfg.SecretKey)

	// 获取区域信息
	region, err := storage.GetRegion(cfg.AccessKey, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to get qiniu region: %w", err)
	}

	return &qiniuProvider{
		mac:        mac,
		bucketName: cfg.Bucket,
		region:     region,
		config:     cfg,
	}, nil
}

// UploadObject 上传对象到七牛云Kodo
func (p *qiniuProvider) UploadObject(objectKey string, reader io.Reader, contentType string) error {
	putPolicy := storage.PutPolicy{
		Scope: fmt.Sprintf("%s:%s", p.bucketName, objectKey),
	}
	upToken := putPolicy.UploadToken(p.mac)

	cfg := storage.Config{
		Region:        p.region,
		UseHTTPS:      true,
		UseCdnDomains: false,
	}

	formUploader := storage.NewFormUploader(&cfg)
	ret := storage.PutRet{}

	putExtra := storage.PutExtra{}
	if contentType != "" {
		putExtra.MimeType = contentType
	}

	if err := formUploader.Put(context.Background(), &ret, upToken, objectKey, reader, -1, &putExtra); err != nil {
		return fmt.Errorf("failed to upload object to qiniu kodo: %w", err)
	}
	return nil
}

// DeleteObject 删除七牛云Kodo对象
func (p *qiniuProvider) DeleteObject(objectKey string) error {
	bucketManager := storage.NewBucketManager(p.mac, &storage.Config{
		Region: p.region,
	})

	if err := bucketManager.Delete(p.bucketName, objectKey); err != nil {
		return fmt.Errorf("failed to delete object from qiniu kodo: %w", err)
	}
	return nil
}

// ObjectExists 检查对象是否存在
func (p *qiniuProvider) ObjectExists(objectKey string) (bool, error) {
	bucketManager := storage.NewBucketManager(p.mac, &storage.Config{
		Region: p.region,
	})

	_, err := bucketManager.Stat(p.bucketName, objectKey)
	if err != nil {
		if strings.Contains(err.Error(), "no such file or directory") {
			return false, nil
		}
		return false, fmt.Errorf("failed to check object existence in qiniu kodo: %w", err)
	}
	return true, nil
}

// TestConnection 测试连接
func (p *qiniuProvider) TestConnection() error {
	bucketManager := storage.NewBucketManager(p.mac, &storage.Config{
		Region: p.region,
	})

	// 尝试列出存储桶中的文件（限制为1个）
	_, _, _, _, err := bucketManager.ListFiles(p.bucketName, "", "", "", 1)
	if err != nil {
		return fmt.Errorf("failed to test qiniu kodo connection: %w", err)
	}
	return nil
}
