package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/tencentyun/cos-go-sdk-v5"
	"github.com/weiwangfds/pastefile/internal/database"
)

// tencentProvider 腾讯云COS提供商实现
type tencentProvider struct {
	client *cos.Client
	config *database.MirrorConfig
}

// newTencentProvider 创建腾讯云COS提供商实例
func newTencentProvider(cfg *database.MirrorConfig) (*tencentProvider, error) {
	bucketURL := fmt.Sprintf("https://%s.cos.%s.myqcloud.com", cfg.Bucket, cfg.Region)
	if cfg.Endpoint != "" {
		bucketURL = cfg.Endpoint
	}

	u, err := url.Parse(bucketURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bucket URL: %w", err)
	}

	client := cos.NewClient(&cos.BaseURL{BucketURL: u}, &http.Client{
		Transport: &cos.AuthorizationTransport{
			SecretID:  cfg.AccessKey,
			SecretKey: cfg.SecretKey,
		},
	})

	return &tencentProvider{
		client: client,
		config: cfg,
	}, nil
}

// UploadObject 上传对象到腾讯云COS
func (p *tencentProvider) UploadObject(objectKey string, reader io.Reader, contentType string) error {
	options := &cos.ObjectPutOptions{}
	if contentType != "" {
		options.ObjectPutHeaderOptions = &cos.ObjectPutHeaderOptions{
			ContentType: contentType,
		}
	}

	if _, err := p.client.Object.Put(context.Background(), objectKey, reader, options); err != nil {
		return fmt.Errorf("failed to upload object to tencent cos: %w", err)
	}
	return nil
}

// DeleteObject 删除腾讯云COS对象
func (p *tencentProvider) DeleteObject(objectKey string) error {
	if _, err := p.client.Object.Delete(context.Background(), objectKey); err != nil {
		return fmt.Errorf("failed to delete object from tencent cos: %w", err)
	}
	return nil
}

// ObjectExists 检查对象是否存在
func (p *tencentProvider) ObjectExists(objectKey string) (bool, error) {
	_, err := p.client.Object.Head(context.Background(), objectKey, nil)
	if err != nil {
		if cos.IsNotFoundError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check object existence in tencent cos: %w", err)
	}
	return true, nil
}

// TestConnection 测试连接
func (p *tencentProvider) TestConnection() error {
	if _, err := p.client.Bucket.Head(context.Background()); err != nil {
		return fmt.Errorf("failed to test tencent cos connection: %w", err)
	}
	return nil
}
