// Package database 定义了文件相关的数据库模型
package database

import (
	"time"

	"gorm.io/gorm"
)

// UploadedFile 上传文件元数据模型
// 一条记录对应存储目录中的一个文件，内容寻址：
// FileMD5是去重键，FileHash是对外的随机存储文件名，二者均有唯一索引
type UploadedFile struct {
	ID         uint           `gorm:"primarykey" json:"id"`                          // 主键ID，自增，短链接编码的输入
	FileName   string         `gorm:"not null;size:5000" json:"file_name"`           // 原始文件名，仅用于展示和下载附件名
	FileHash   string         `gorm:"uniqueIndex;not null;size:128" json:"file_hash"` // 随机存储文件名（含扩展名），即磁盘文件名和公开hash路径段
	FileMD5    string         `gorm:"uniqueIndex;not null;size:128" json:"file_md5"`  // 文件内容MD5摘要，去重键
	MimeType   string         `gorm:"not null;size:256" json:"mime_type"`            // 客户端声明的媒体类型
	Size       int64          `gorm:"not null;default:0" json:"size"`                // 文件字节数，落盘后stat获得，不信任客户端
	UploadedAt time.Time      `gorm:"not null" json:"uploaded_at"`                   // 上传时间，构造时设置，之后不再变更
	CreatedAt  time.Time      `json:"created_at"`                                    // 记录创建时间
	UpdatedAt  time.Time      `json:"updated_at"`                                    // 记录最后更新时间
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`                                // 软删除时间戳，默认查询范围排除已删除记录
}

// TableName 指定UploadedFile模型对应的数据库表名
func (UploadedFile) TableName() string {
	return "uploaded_files"
}
