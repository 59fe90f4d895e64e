// Package service 提供存储目录完整性监控
// 通过fsnotify监听存储目录，发现文件被旁路删除时软删除对应记录，
// 避免元数据继续指向不存在的文件
package service

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"github.com/weiwangfds/pastefile/internal/database"
	"github.com/weiwangfds/pastefile/internal/logger"
	"gorm.io/gorm"
)

// WatcherService 存储目录监控服务接口
type WatcherService interface {
	// Start 启动监控，ctx取消时停止
	Start(ctx context.Context) error

	// Stop 停止监控
	Stop() error
}

// watcherService 存储目录监控服务实现
type watcherService struct {
	db          *gorm.DB
	storagePath string
	watcher     *fsnotify.Watcher
	stopOnce    sync.Once
	done        chan struct{}
}

// NewWatcherService 创建存储目录监控服务实例
// 参数:
//   - db: 数据库连接
//   - storagePath: 被监控的存储目录
func NewWatcherService(db *gorm.DB, storagePath string) WatcherService {
	return &watcherService{
		db:          db,
		storagePath: storagePath,
		done:        make(chan struct{}),
	}
}

// Start 启动监控
func (s *watcherService) Start(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	s.watcher = watcher

	if err := watcher.Add(s.storagePath); err != nil {
		// 启动失败时watcher必须归零，否则Stop会永远等待从未运行的事件循环
		watcher.Close()
		s.watcher = nil
		return err
	}

	go s.run(ctx)

	logger.Infof("存储目录监控已启动: %s", s.storagePath)
	return nil
}

// run 事件处理循环
func (s *watcherService) run(ctx context.Context) {
	defer close(s.done)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			// 只关心文件被移走或删除
			if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				s.handleRemoved(event.Name)
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			logger.Errorf("存储目录监控错误: %v", err)
		}
	}
}

// handleRemoved 处理文件被旁路删除
// 对应记录存在时软删除，使其不再被解析到
func (s *watcherService) handleRemoved(path string) {
	storageName := filepath.Base(path)

	var record database.UploadedFile
	if err := s.db.Where("file_hash = ?", storageName).First(&record).Error; err != nil {
		// 临时文件或已删除的记录，忽略
		return
	}

	logger.WithFields(logrus.Fields{
		"file_hash": storageName,
		"id":        record.ID,
	}).Warn("存储文件被旁路删除，软删除对应记录")

	if err := s.db.Delete(&record).Error; err != nil {
		logger.Errorf("软删除记录失败: %v", err)
	}
}

// Stop 停止监控
func (s *watcherService) Stop() error {
	var err error
	s.stopOnce.Do(func() {
		if s.watcher != nil {
			err = s.watcher.Close()
			<-s.done
		}
	})
	return err
}
