// Package config 提供应用程序配置管理
// 基于viper实现，支持配置文件、环境变量和默认值三级覆盖
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config 应用程序配置结构体
// 聚合服务器、数据库、存储、日志和镜像等各模块配置
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`   // 服务器配置
	Database DatabaseConfig `mapstructure:"database"` // 数据库配置
	File     FileConfig     `mapstructure:"file"`     // 文件存储配置
	Log      LogConfig      `mapstructure:"log"`      // 日志配置
	Mirror   MirrorConfig   `mapstructure:"mirror"`   // 云镜像配置
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port         int    `mapstructure:"port"`          // HTTP监听端口
	ReadTimeout  int    `mapstructure:"read_timeout"`  // 读超时，单位秒
	WriteTimeout int    `mapstructure:"write_timeout"` // 写超时，单位秒
	BaseURL      string `mapstructure:"base_url"`      // 对外基础URL，用于拼接文件访问链接（可为空，表示使用请求Host）
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`            // 数据库驱动，目前支持sqlite
	DSN             string `mapstructure:"dsn"`               // 数据库连接字符串
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`    // 最大空闲连接数
	MaxOpenConns    int    `mapstructure:"max_open_conns"`    // 最大打开连接数
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // 连接最大生命周期，单位秒
}

// FileConfig 文件存储配置
type FileConfig struct {
	StoragePath string `mapstructure:"storage_path"` // 文件存储根目录，需预先存在或可创建
	MaxFileSize int64  `mapstructure:"max_file_size"` // 单文件最大字节数
}

// LogConfig 日志配置
type LogConfig struct {
	Level    string `mapstructure:"level"`     // 日志级别 (debug, info, warn, error)
	Format   string `mapstructure:"format"`    // 日志格式 (json, text)
	Output   string `mapstructure:"output"`    // 输出方式 (console, file, both)
	FilePath string `mapstructure:"file_path"` // 日志文件路径
}

// MirrorConfig 云镜像配置
type MirrorConfig struct {
	Enabled bool `mapstructure:"enabled"` // 是否启用云端镜像同步
}

// Load 加载配置
// 读取顺序：默认值 -> 配置文件(config.yaml) -> 环境变量(PASTEFILE_前缀)
// 返回值:
//   - *Config: 配置实例
//   - error: 加载错误
func Load() (*Config, error) {
	v := viper.New()

	// 默认值
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30)
	v.SetDefault("server.write_timeout", 30)
	v.SetDefault("server.base_url", "")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "data.sqlite3")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", 3600)
	v.SetDefault("file.storage_path", "/tmp/permdir")
	v.SetDefault("file.max_file_size", 64*1024*1024)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.output", "console")
	v.SetDefault("log.file_path", "logs/pastefile.log")
	v.SetDefault("mirror.enabled", false)

	// 配置文件
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if err := v.ReadInConfig(); err != nil {
		// 配置文件不存在时使用默认值，其它错误（如格式错误）直接返回
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// 环境变量覆盖，如 PASTEFILE_FILE_STORAGE_PATH
	v.SetEnvPrefix("PASTEFILE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
