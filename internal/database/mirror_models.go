// Package database 定义了云镜像相关的数据库模型
// 包含镜像配置和镜像日志等数据模型
package database

import (
	"time"

	"gorm.io/gorm"
)

// MirrorConfig 云端对象存储镜像配置模型
// 用于管理不同云服务商的镜像配置信息，支持阿里云、腾讯云、七牛云
// 系统中最多有一个激活配置，新上传的文件会异步复制到激活的镜像存储
type MirrorConfig struct {
	ID        uint           `gorm:"primarykey" json:"id"`                          // 主键ID，自增
	Name      string         `gorm:"not null;size:100" json:"name"`                 // 配置名称，用于标识不同的镜像配置
	Provider  string         `gorm:"not null;size:20" json:"provider"`              // 服务提供商：aliyun（阿里云）、tencent（腾讯云）、qiniu（七牛云）
	Region    string         `gorm:"not null;size:50" json:"region"`                // 服务区域，如：cn-hangzhou、ap-beijing等
	Bucket    string         `gorm:"not null;size:100" json:"bucket"`               // 存储桶名称
	AccessKey string         `gorm:"not null;size:100" json:"access_key"`           // 访问密钥ID，用于API认证
	SecretKey string         `gorm:"not null;size:200" json:"secret_key,omitempty"` // 访问密钥Secret，敏感信息，API响应时不返回
	Endpoint  string         `gorm:"size:200" json:"endpoint"`                      // 自定义服务端点URL，可选配置
	IsActive  bool           `gorm:"default:false" json:"is_active"`                // 是否为当前激活使用的配置
	Prefix    string         `gorm:"size:200;default:'files'" json:"prefix"`        // 镜像存储中的对象键前缀，默认为"files"
	CreatedAt time.Time      `json:"created_at"`                                    // 配置创建时间
	UpdatedAt time.Time      `json:"updated_at"`                                    // 配置最后修改时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                                // 软删除时间戳，支持逻辑删除
}

// TableName 指定MirrorConfig模型对应的数据库表名
func (MirrorConfig) TableName() string {
	return "mirror_configs"
}

// MirrorLog 文件镜像日志模型
// 记录文件向云端镜像复制的操作历史，用于追踪镜像状态和错误排查
type MirrorLog struct {
	ID             uint           `gorm:"primarykey" json:"id"`                                     // 主键ID，自增
	FileHash       string         `gorm:"not null;size:128" json:"file_hash"`                       // 关联文件的存储文件名
	MirrorConfigID uint           `gorm:"not null" json:"mirror_config_id"`                         // 关联的镜像配置ID
	MirrorConfig   MirrorConfig   `gorm:"foreignKey:MirrorConfigID" json:"mirror_config,omitempty"` // 关联的镜像配置对象
	Status         string         `gorm:"not null;size:20" json:"status"`                           // 镜像状态：success（复制成功）、skipped（对象已存在）、deleted（副本已移除）、failed（操作失败）
	ObjectKey      string         `gorm:"size:500" json:"object_key"`                               // 文件在镜像存储中的完整对象键
	ErrorMsg       string         `gorm:"type:text" json:"error_msg"`                               // 镜像失败时的详细错误信息
	FileSize       int64          `json:"file_size"`                                                // 镜像文件的大小，单位为字节
	Duration       int64          `json:"duration"`                                                 // 镜像操作耗时，单位为毫秒
	CreatedAt      time.Time      `json:"created_at"`                                               // 日志创建时间
	UpdatedAt      time.Time      `json:"updated_at"`                                               // 日志最后更新时间
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`                                           // 软删除时间戳
}

// TableName 指定MirrorLog模型对应的数据库表名
func (MirrorLog) TableName() string {
	return "mirror_logs"
}
