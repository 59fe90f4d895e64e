// Package service 提供内容寻址文件存储的核心业务逻辑
// 上传文件按内容MD5去重，磁盘文件名随机分配且永不复用，
// 记录先落盘后入库，数据库唯一索引是并发写入竞争的唯一裁决者
package service

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/weiwangfds/pastefile/config"
	"github.com/weiwangfds/pastefile/internal/database"
	apperrors "github.com/weiwangfds/pastefile/internal/errors"
	"github.com/weiwangfds/pastefile/internal/hashutil"
	"github.com/weiwangfds/pastefile/internal/logger"
	"github.com/weiwangfds/pastefile/internal/mediatype"
	"github.com/weiwangfds/pastefile/internal/namegen"
	"github.com/weiwangfds/pastefile/internal/shortid"
	"gorm.io/gorm"
)

// MirrorNotifier 云镜像通知接口
// 文件发布成功后由文件服务调用，实现方异步复制文件到云端存储；
// 文件删除后通知实现方移除云端副本
type MirrorNotifier interface {
	// NotifyUploaded 通知有新文件发布
	NotifyUploaded(file *database.UploadedFile, storagePath string)

	// NotifyDeleted 通知文件已被删除
	NotifyDeleted(file *database.UploadedFile)
}

// FileService 文件服务接口
// 提供内容寻址的文件上传、缩放派生、按hash/短链接解析和软删除功能
type FileService interface {
	// Upload 上传文件
	// 参数:
	//   fileName - 原始文件名
	//   mimeType - 客户端声明的媒体类型
	//   fileData - 文件数据流
	// 返回:
	//   *database.UploadedFile - 文件元数据记录
	//   error - 错误信息
	// 功能:
	//   - 计算内容MD5，相同内容直接返回已有记录，不产生新文件和新记录
	//   - 随机分配存储文件名，先写文件后写记录
	//   - 并发上传相同内容时由数据库唯一索引裁决，落败方清理自己的文件
	Upload(fileName, mimeType string, fileData io.Reader) (*database.UploadedFile, error)

	// UploadResized 基于已有图片对象生成指定尺寸的派生图
	// 参数:
	//   source - 源文件记录，媒体种类必须为图片
	//   width - 目标宽度，必须为正整数
	//   height - 目标高度，必须为正整数
	// 返回:
	//   *database.UploadedFile - 派生图的独立文件记录
	//   error - 错误信息
	// 注意:
	//   - 派生图是独立对象，有自己的ID、存储文件名和摘要，不关联源对象
	//   - 派生图同样参与内容去重
	UploadResized(source *database.UploadedFile, width, height int) (*database.UploadedFile, error)

	// GetByHash 根据存储文件名（公开hash路径段）获取文件记录
	// 已软删除的记录视为不存在
	GetByHash(hash string) (*database.UploadedFile, error)

	// GetByToken 根据短链接token获取文件记录
	// token解码失败返回ErrInvalidToken，ID无对应记录返回ErrFileNotFound
	GetByToken(token string) (*database.UploadedFile, error)

	// Delete 根据存储文件名软删除文件记录
	// 只翻转删除标记，不移除磁盘文件
	Delete(hash string) error

	// ListFiles 获取文件列表（分页）
	ListFiles(page, pageSize int) ([]database.UploadedFile, int64, error)

	// StoragePath 返回文件记录对应的磁盘路径
	StoragePath(file *database.UploadedFile) string

	// URLs 构造文件的四个公开访问URL
	URLs(file *database.UploadedFile, baseURL string) (FileURLs, error)

	// SetMirrorNotifier 设置云镜像通知器
	SetMirrorNotifier(notifier MirrorNotifier)
}

// fileService 文件服务实现
type fileService struct {
	db       *gorm.DB
	config   config.FileConfig
	notifier MirrorNotifier
}

// NewFileService 创建文件服务实例
// 参数:
//   - db: 数据库连接
//   - cfg: 文件存储配置
// 返回:
//   - FileService: 文件服务接口
func NewFileService(db *gorm.DB, cfg config.FileConfig) FileService {
	return &fileService{
		db:     db,
		config: cfg,
	}
}

// Upload 上传文件到本地存储
func (s *fileService) Upload(fileName, mimeType string, fileData io.Reader) (*database.UploadedFile, error) {
	if fileData == nil {
		return nil, apperrors.ErrEmptyUploadError
	}

	// 写入临时文件，同时流式计算摘要
	tempFile, err := os.CreateTemp(s.config.StoragePath, "upload_*")
	if err != nil {
		return nil, apperrors.WrapCode(apperrors.ErrFileWriteFailed, err)
	}
	tempPath := tempFile.Name()

	written, err := io.Copy(tempFile, fileData)
	closeErr := tempFile.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tempPath)
		return nil, apperrors.WrapCode(apperrors.ErrFileWriteFailed, err)
	}

	if written == 0 {
		os.Remove(tempPath)
		return nil, apperrors.ErrEmptyUploadError
	}
	if s.config.MaxFileSize > 0 && written > s.config.MaxFileSize {
		os.Remove(tempPath)
		return nil, apperrors.ErrFileSizeTooLargeError.WithDetails(
			fmt.Sprintf("file size %d exceeds maximum allowed size %d", written, s.config.MaxFileSize))
	}

	// 对已写入的文件计算内容摘要
	digest, err := s.digestFile(tempPath)
	if err != nil {
		os.Remove(tempPath)
		return nil, err
	}

	return s.publish(fileName, mimeType, tempPath, digest)
}

// digestFile 计算磁盘文件的内容摘要
func (s *fileService) digestFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", apperrors.WrapCode(apperrors.ErrFileReadFailed, err)
	}
	defer f.Close()

	digest, err := hashutil.FileMD5(f)
	if err != nil {
		return "", apperrors.WrapCode(apperrors.ErrFileReadFailed, err)
	}
	return digest, nil
}

// UploadResized 生成缩放派生图
func (s *fileService) UploadResized(source *database.UploadedFile, width, height int) (*database.UploadedFile, error) {
	// 前置校验在任何文件操作之前完成
	if mediatype.Classify(source.MimeType) != mediatype.KindImage {
		return nil, apperrors.ErrUnsupportedMediaKindError.WithDetails(
			fmt.Sprintf("resize requested on mime type %s", source.MimeType))
	}
	if width <= 0 || height <= 0 {
		return nil, apperrors.ErrInvalidDimensionsError.WithDetails(
			fmt.Sprintf("width=%d height=%d", width, height))
	}

	derived, err := deriveResized(s.StoragePath(source), width, height)
	if err != nil {
		return nil, err
	}

	// 派生图走同一条发布路径，与普通上传一样参与内容去重
	return s.Upload(source.FileName, source.MimeType, derived)
}

// publish 将临时文件发布为正式存储对象
// 先查重，未命中则移动到正式路径并插入记录。
// 插入遇到唯一索引冲突说明有并发写入者已经发布了同内容记录，
// 删除自己的文件后改为返回胜者的记录。
func (s *fileService) publish(fileName, mimeType, tempPath, digest string) (*database.UploadedFile, error) {
	// 去重快速路径：内容已存在则丢弃刚写入的文件
	var existing database.UploadedFile
	err := s.db.Where("file_md5 = ?", digest).First(&existing).Error
	if err == nil {
		os.Remove(tempPath)
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		os.Remove(tempPath)
		return nil, apperrors.WrapCode(apperrors.ErrDatabaseQuery, err)
	}

	storageName := namegen.Allocate(fileName)
	storagePath := filepath.Join(s.config.StoragePath, storageName)
	if err := os.Rename(tempPath, storagePath); err != nil {
		os.Remove(tempPath)
		return nil, apperrors.WrapCode(apperrors.ErrFileWriteFailed, err)
	}

	// 文件大小以落盘结果为准
	info, err := os.Stat(storagePath)
	if err != nil {
		os.Remove(storagePath)
		return nil, apperrors.WrapCode(apperrors.ErrFileReadFailed, err)
	}

	record := &database.UploadedFile{
		FileName:   fileName,
		FileHash:   storageName,
		FileMD5:    digest,
		MimeType:   mimeType,
		Size:       info.Size(),
		UploadedAt: time.Now().UTC(),
	}

	if err := s.db.Create(record).Error; err == nil {
		s.notifyMirror(record, storagePath)
		return record, nil
	} else if !database.IsUniqueViolation(err) {
		os.Remove(storagePath)
		return nil, apperrors.WrapCode(apperrors.ErrDatabaseInsert, err)
	}

	// 唯一索引冲突：要么并发写入者抢先发布了同内容记录，要么存储文件名撞车
	winner, derr := s.adoptDigestWinner(digest, storagePath)
	if derr == nil {
		return winner, nil
	}
	if !apperrors.IsCode(derr, apperrors.ErrRecordNotFound) {
		return nil, derr
	}

	// 摘要没有冲突方，冲突出在存储文件名上：重新分配一次后重试
	return s.retryWithFreshName(record, storagePath)
}

// adoptDigestWinner 按摘要采纳并发竞争的胜者记录
// 自己的文件是重复内容，删除后返回胜者。软删除的同摘要记录会被恢复，
// 保证同一内容始终至多一条未删除记录。
func (s *fileService) adoptDigestWinner(digest, ownPath string) (*database.UploadedFile, error) {
	var winner database.UploadedFile
	err := s.db.Unscoped().Where("file_md5 = ?", digest).First(&winner).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewCode(apperrors.ErrRecordNotFound)
	}
	if err != nil {
		os.Remove(ownPath)
		return nil, apperrors.WrapCode(apperrors.ErrDatabaseQuery, err)
	}

	// 胜者的磁盘文件可能已被旁路删除（监控服务随之软删除了记录）。
	// 这种情况下刚写入的同内容文件顶替到胜者的存储路径，而不是丢弃，
	// 否则恢复出的记录会指向不存在的文件
	winnerPath := filepath.Join(s.config.StoragePath, winner.FileHash)
	if _, statErr := os.Stat(winnerPath); os.IsNotExist(statErr) {
		if err := os.Rename(ownPath, winnerPath); err != nil {
			os.Remove(ownPath)
			return nil, apperrors.WrapCode(apperrors.ErrFileWriteFailed, err)
		}
	} else {
		os.Remove(ownPath)
	}

	if winner.DeletedAt.Valid {
		if err := s.db.Unscoped().Model(&winner).Update("deleted_at", nil).Error; err != nil {
			return nil, apperrors.WrapCode(apperrors.ErrDatabaseInsert, err)
		}
		winner.DeletedAt = gorm.DeletedAt{}
		// 恢复的对象重新进入镜像队列，删除时镜像侧的副本已被移除
		s.notifyMirror(&winner, winnerPath)
	}
	return &winner, nil
}

// retryWithFreshName 存储文件名撞车时重新分配一次并重试插入
// 128位随机名撞车本身已是极小概率事件，重试仍失败则放弃
func (s *fileService) retryWithFreshName(record *database.UploadedFile, oldPath string) (*database.UploadedFile, error) {
	freshName := namegen.Allocate(record.FileName)
	freshPath := filepath.Join(s.config.StoragePath, freshName)
	if err := os.Rename(oldPath, freshPath); err != nil {
		os.Remove(oldPath)
		return nil, apperrors.WrapCode(apperrors.ErrFileWriteFailed, err)
	}

	record.ID = 0
	record.FileHash = freshName
	if err := s.db.Create(record).Error; err != nil {
		os.Remove(freshPath)
		if database.IsUniqueViolation(err) {
			logger.WithFields(logrus.Fields{
				"file_hash": freshName,
			}).Error("存储文件名二次冲突")
			return nil, apperrors.ErrStorageNameCollisionError
		}
		return nil, apperrors.WrapCode(apperrors.ErrDatabaseInsert, err)
	}

	s.notifyMirror(record, freshPath)
	return record, nil
}

// GetByHash 根据存储文件名获取文件记录
func (s *fileService) GetByHash(hash string) (*database.UploadedFile, error) {
	var record database.UploadedFile
	if err := s.db.Where("file_hash = ?", hash).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrFileNotFoundError.WithDetails(hash)
		}
		return nil, apperrors.WrapCode(apperrors.ErrDatabaseQuery, err)
	}
	return &record, nil
}

// GetByToken 根据短链接token获取文件记录
func (s *fileService) GetByToken(token string) (*database.UploadedFile, error) {
	id, err := shortid.Decode(token)
	if err != nil {
		return nil, err
	}

	var record database.UploadedFile
	if err := s.db.First(&record, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrFileNotFoundError.WithDetails(token)
		}
		return nil, apperrors.WrapCode(apperrors.ErrDatabaseQuery, err)
	}
	return &record, nil
}

// Delete 软删除文件记录
func (s *fileService) Delete(hash string) error {
	record, err := s.GetByHash(hash)
	if err != nil {
		return err
	}
	if err := s.db.Delete(record).Error; err != nil {
		return apperrors.WrapCode(apperrors.ErrDatabaseQuery, err)
	}

	if s.notifier != nil {
		s.notifier.NotifyDeleted(record)
	}
	return nil
}

// ListFiles 获取文件列表（分页）
func (s *fileService) ListFiles(page, pageSize int) ([]database.UploadedFile, int64, error) {
	var files []database.UploadedFile
	var total int64

	if err := s.db.Model(&database.UploadedFile{}).Count(&total).Error; err != nil {
		return nil, 0, apperrors.WrapCode(apperrors.ErrDatabaseQuery, err)
	}

	offset := (page - 1) * pageSize
	if err := s.db.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&files).Error; err != nil {
		return nil, 0, apperrors.WrapCode(apperrors.ErrDatabaseQuery, err)
	}

	return files, total, nil
}

// StoragePath 返回文件记录对应的磁盘路径
func (s *fileService) StoragePath(file *database.UploadedFile) string {
	return filepath.Join(s.config.StoragePath, file.FileHash)
}

// SetMirrorNotifier 设置云镜像通知器
func (s *fileService) SetMirrorNotifier(notifier MirrorNotifier) {
	s.notifier = notifier
}

// notifyMirror 文件发布成功后通知镜像服务
// 异步路径，镜像失败不影响上传结果
func (s *fileService) notifyMirror(record *database.UploadedFile, storagePath string) {
	if s.notifier != nil {
		s.notifier.NotifyUploaded(record, storagePath)
	}
}
