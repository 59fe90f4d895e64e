// 存储目录监控服务的单元测试
// 覆盖旁路删除的软删除处理和启动失败后的停止行为
package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weiwangfds/pastefile/internal/database"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB 设置内存SQLite测试数据库
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)

	// 内存SQLite每个连接是独立的数据库，必须固定为单连接
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db))
	return db
}

// insertFile 插入一条文件记录并写入对应的磁盘文件
func insertFile(t *testing.T, db *gorm.DB, storagePath, storageName string) *database.UploadedFile {
	require.NoError(t, os.WriteFile(filepath.Join(storagePath, storageName), []byte("watched"), 0644))

	record := &database.UploadedFile{
		FileName:   "watched.txt",
		FileHash:   storageName,
		FileMD5:    "digest-" + storageName,
		MimeType:   "text/plain",
		Size:       7,
		UploadedAt: time.Now().UTC(),
	}
	require.NoError(t, db.Create(record).Error)
	return record
}

// TestWatcherSoftDeletesRemovedFile 测试文件被旁路删除后记录被软删除
func TestWatcherSoftDeletesRemovedFile(t *testing.T) {
	db := setupTestDB(t)
	storagePath := t.TempDir()

	record := insertFile(t, db, storagePath, "abc123.txt")
	keeper := insertFile(t, db, storagePath, "keep456.txt")

	svc := NewWatcherService(db, storagePath)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, svc.Start(ctx))
	defer svc.Stop()

	require.NoError(t, os.Remove(filepath.Join(storagePath, record.FileHash)))

	// 事件处理是异步的，轮询等待记录从默认查询范围中消失
	require.Eventually(t, func() bool {
		var got database.UploadedFile
		err := db.Where("file_hash = ?", record.FileHash).First(&got).Error
		return errors.Is(err, gorm.ErrRecordNotFound)
	}, 3*time.Second, 20*time.Millisecond)

	// 软删除：记录仍在表中，带删除标记
	var deleted database.UploadedFile
	require.NoError(t, db.Unscoped().Where("file_hash = ?", record.FileHash).First(&deleted).Error)
	assert.True(t, deleted.DeletedAt.Valid)

	// 未被触碰的文件记录不受影响
	var untouched database.UploadedFile
	require.NoError(t, db.Where("file_hash = ?", keeper.FileHash).First(&untouched).Error)
	assert.Equal(t, keeper.ID, untouched.ID)
}

// TestWatcherIgnoresUnknownFiles 测试删除无记录的文件不产生任何变更
func TestWatcherIgnoresUnknownFiles(t *testing.T) {
	db := setupTestDB(t)
	storagePath := t.TempDir()

	keeper := insertFile(t, db, storagePath, "keep789.txt")

	orphan := filepath.Join(storagePath, "upload_orphan")
	require.NoError(t, os.WriteFile(orphan, []byte("temp"), 0644))

	svc := NewWatcherService(db, storagePath)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, svc.Start(ctx))
	defer svc.Stop()

	require.NoError(t, os.Remove(orphan))

	// 给事件循环留出处理时间，之后记录必须原样存在
	time.Sleep(200 * time.Millisecond)
	var got database.UploadedFile
	require.NoError(t, db.Where("file_hash = ?", keeper.FileHash).First(&got).Error)
	assert.False(t, got.DeletedAt.Valid)
}

// TestStopAfterFailedStart 测试启动失败后Stop立即返回
func TestStopAfterFailedStart(t *testing.T) {
	db := setupTestDB(t)

	svc := NewWatcherService(db, filepath.Join(t.TempDir(), "does-not-exist"))
	require.Error(t, svc.Start(context.Background()))

	// Stop不能因为事件循环从未启动而永久阻塞
	stopped := make(chan error, 1)
	go func() {
		stopped <- svc.Stop()
	}()

	select {
	case err := <-stopped:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return after failed Start")
	}
}

// TestStopWithoutStart 测试从未启动时Stop直接返回
func TestStopWithoutStart(t *testing.T) {
	svc := NewWatcherService(setupTestDB(t), t.TempDir())
	assert.NoError(t, svc.Stop())
}
