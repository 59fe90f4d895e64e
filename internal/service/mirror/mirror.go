package service

import (
	"errors"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/weiwangfds/pastefile/internal/database"
	apperrors "github.com/weiwangfds/pastefile/internal/errors"
	"github.com/weiwangfds/pastefile/internal/logger"
	"gorm.io/gorm"
)

// MirrorService 云镜像服务接口
// 管理镜像配置并在文件发布后异步复制到激活的云端存储
type MirrorService interface {
	// CreateConfig 创建镜像配置
	CreateConfig(cfg *database.MirrorConfig) error

	// ListConfigs 获取全部镜像配置
	ListConfigs() ([]database.MirrorConfig, error)

	// ActivateConfig 激活指定镜像配置，同时取消其它配置的激活状态
	ActivateConfig(id uint) error

	// TestConfig 测试指定镜像配置的连通性
	TestConfig(id uint) error

	// GetActiveConfig 获取当前激活的镜像配置
	GetActiveConfig() (*database.MirrorConfig, error)

	// NotifyUploaded 文件发布成功后的异步镜像入口
	NotifyUploaded(file *database.UploadedFile, storagePath string)

	// NotifyDeleted 文件删除后的异步镜像清理入口
	NotifyDeleted(file *database.UploadedFile)
}

// mirrorService 云镜像服务实现
type mirrorService struct {
	db          *gorm.DB
	newProvider func(cfg *database.MirrorConfig) (Provider, error)
}

// NewMirrorService 创建云镜像服务实例
func NewMirrorService(db *gorm.DB) MirrorService {
	return &mirrorService{
		db:          db,
		newProvider: NewProvider,
	}
}

// CreateConfig 创建镜像配置
func (s *mirrorService) CreateConfig(cfg *database.MirrorConfig) error {
	if cfg.Name == "" || cfg.Provider == "" || cfg.Bucket == "" || cfg.AccessKey == "" || cfg.SecretKey == "" {
		return apperrors.ErrMirrorConfigInvalidError
	}
	switch cfg.Provider {
	case "aliyun", "tencent", "qiniu":
	default:
		return apperrors.ErrMirrorProviderNotSupportedError.WithDetails(cfg.Provider)
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "files"
	}

	if err := s.db.Create(cfg).Error; err != nil {
		return apperrors.WrapCode(apperrors.ErrDatabaseInsert, err)
	}
	return nil
}

// ListConfigs 获取全部镜像配置
func (s *mirrorService) ListConfigs() ([]database.MirrorConfig, error) {
	var configs []database.MirrorConfig
	if err := s.db.Order("created_at DESC").Find(&configs).Error; err != nil {
		return nil, apperrors.WrapCode(apperrors.ErrDatabaseQuery, err)
	}
	return configs, nil
}

// ActivateConfig 激活指定镜像配置
// 系统中最多一个激活配置，激活操作在事务中完成
func (s *mirrorService) ActivateConfig(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var cfg database.MirrorConfig
		if err := tx.First(&cfg, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrMirrorConfigNotFoundError
			}
			return apperrors.WrapCode(apperrors.ErrDatabaseQuery, err)
		}

		if err := tx.Model(&database.MirrorConfig{}).Where("is_active = ?", true).
			Update("is_active", false).Error; err != nil {
			return apperrors.WrapCode(apperrors.ErrDatabaseQuery, err)
		}

		if err := tx.Model(&cfg).Update("is_active", true).Error; err != nil {
			return apperrors.WrapCode(apperrors.ErrDatabaseQuery, err)
		}
		return nil
	})
}

// TestConfig 测试指定镜像配置的连通性
func (s *mirrorService) TestConfig(id uint) error {
	var cfg database.MirrorConfig
	if err := s.db.First(&cfg, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrMirrorConfigNotFoundError
		}
		return apperrors.WrapCode(apperrors.ErrDatabaseQuery, err)
	}

	provider, err := s.newProvider(&cfg)
	if err != nil {
		return err
	}
	if err := provider.TestConnection(); err != nil {
		return apperrors.WrapCode(apperrors.ErrMirrorConnectionFailed, err)
	}
	return nil
}

// GetActiveConfig 获取当前激活的镜像配置
func (s *mirrorService) GetActiveConfig() (*database.MirrorConfig, error) {
	var cfg database.MirrorConfig
	if err := s.db.Where("is_active = ?", true).First(&cfg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrMirrorConfigNotFoundError
		}
		return nil, apperrors.WrapCode(apperrors.ErrDatabaseQuery, err)
	}
	return &cfg, nil
}

// NotifyUploaded 文件发布成功后异步镜像到云端
// 没有激活配置时直接返回；镜像结果写入镜像日志，不回传给上传方
func (s *mirrorService) NotifyUploaded(file *database.UploadedFile, storagePath string) {
	go s.mirrorFile(file, storagePath)
}

// NotifyDeleted 文件删除后异步移除云端副本
// 和上传镜像一样处于删除关键路径之外，失败只记录镜像日志
func (s *mirrorService) NotifyDeleted(file *database.UploadedFile) {
	go s.removeMirrored(file)
}

// mirrorFile 执行单个文件的镜像复制
// 对象键已存在时跳过上传：内容寻址对象不可变，重复通知是幂等的
func (s *mirrorService) mirrorFile(file *database.UploadedFile, storagePath string) {
	cfg, provider, ok := s.activeProvider()
	if !ok {
		return
	}

	objectKey := cfg.Prefix + "/" + file.FileHash
	start := time.Now()

	if exists, err := provider.ObjectExists(objectKey); err == nil && exists {
		s.writeLog(file.FileHash, cfg, objectKey, "skipped", file.Size, start, nil)
		return
	}

	mirrorErr := s.uploadObject(provider, objectKey, storagePath, file.MimeType)
	status := "success"
	if mirrorErr != nil {
		status = "failed"
		logger.WithFields(logrus.Fields{
			"file_hash":  file.FileHash,
			"object_key": objectKey,
			"provider":   cfg.Provider,
		}).Errorf("文件镜像失败: %v", mirrorErr)
	}
	s.writeLog(file.FileHash, cfg, objectKey, status, file.Size, start, mirrorErr)
}

// removeMirrored 移除已删除文件的云端副本
func (s *mirrorService) removeMirrored(file *database.UploadedFile) {
	cfg, provider, ok := s.activeProvider()
	if !ok {
		return
	}

	objectKey := cfg.Prefix + "/" + file.FileHash
	start := time.Now()

	deleteErr := provider.DeleteObject(objectKey)
	status := "deleted"
	if deleteErr != nil {
		status = "failed"
		logger.WithFields(logrus.Fields{
			"file_hash":  file.FileHash,
			"object_key": objectKey,
			"provider":   cfg.Provider,
		}).Errorf("移除镜像副本失败: %v", deleteErr)
	}
	s.writeLog(file.FileHash, cfg, objectKey, status, file.Size, start, deleteErr)
}

// activeProvider 获取激活配置及其提供商实例
// 没有激活配置时返回ok=false，镜像操作静默跳过
func (s *mirrorService) activeProvider() (*database.MirrorConfig, Provider, bool) {
	cfg, err := s.GetActiveConfig()
	if err != nil {
		if !apperrors.IsCode(err, apperrors.ErrMirrorConfigNotFound) {
			logger.Errorf("获取激活镜像配置失败: %v", err)
		}
		return nil, nil, false
	}

	provider, err := s.newProvider(cfg)
	if err != nil {
		logger.Errorf("创建镜像提供商实例失败: %v", err)
		return nil, nil, false
	}
	return cfg, provider, true
}

// uploadObject 打开本地文件并上传到镜像存储
func (s *mirrorService) uploadObject(provider Provider, objectKey, storagePath, contentType string) error {
	f, err := os.Open(storagePath)
	if err != nil {
		return err
	}
	defer f.Close()

	return provider.UploadObject(objectKey, f, contentType)
}

// writeLog 写入一条镜像日志
func (s *mirrorService) writeLog(fileHash string, cfg *database.MirrorConfig, objectKey, status string, fileSize int64, start time.Time, opErr error) {
	log := &database.MirrorLog{
		FileHash:       fileHash,
		MirrorConfigID: cfg.ID,
		Status:         status,
		ObjectKey:      objectKey,
		FileSize:       fileSize,
		Duration:       time.Since(start).Milliseconds(),
	}
	if opErr != nil {
		log.ErrorMsg = opErr.Error()
	}

	if err := s.db.Create(log).Error; err != nil {
		logger.Errorf("写入镜像日志失败: %v", err)
	}
}
