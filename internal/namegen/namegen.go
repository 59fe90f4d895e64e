// Package namegen 提供存储文件名分配
// 存储文件名与用户上传的文件名解耦，磁盘上只出现随机名
package namegen

import (
	"strings"

	"github.com/google/uuid"
)

// Allocate 为上传文件分配随机存储文件名
// 随机部分为128位UUID的32位十六进制表示，保留原文件名最后一个'.'之后的扩展名。
// 不做存在性检查，碰撞概率视为可忽略，数据库唯一索引兜底。
// 参数:
//   - originalName: 客户端上传的原始文件名
// 返回:
//   - string: "{32位十六进制}.{扩展名}"，原文件名无扩展名时以'.'结尾
func Allocate(originalName string) string {
	ext := ""
	if idx := strings.LastIndex(originalName, "."); idx >= 0 {
		ext = originalName[idx+1:]
	}
	random := strings.ReplaceAll(uuid.New().String(), "-", "")
	return random + "." + ext
}
