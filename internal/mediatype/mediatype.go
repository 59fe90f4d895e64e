// Package mediatype 提供声明MIME类型到粗粒度媒体种类的映射
// 静态成员表判定，纯函数，任何输入都有确定结果
package mediatype

// Kind 媒体种类
type Kind string

// 媒体种类常量
const (
	KindImage  Kind = "image"
	KindAudio  Kind = "audio"
	KindVideo  Kind = "video"
	KindPDF    Kind = "pdf"
	KindBinary Kind = "binary"
)

// pdfMime PDF类型精确匹配
const pdfMime = "application/pdf"

// audioMimes 可接受的音频MIME类型
var audioMimes = map[string]bool{
	"audio/x-aac": true,
	"audio/mp4":   true,
	"audio/ogg":   true,
	"audio/mpeg":  true,
	"audio/x-m4a": true,
	"audio/mp3":   true,
}

// imageMimes 可接受的图片MIME类型
var imageMimes = map[string]bool{
	"image/x-icon":  true,
	"image/svg+xml": true,
	"image/jpeg":    true,
	"image/gif":     true,
	"image/png":     true,
	"image/webp":    true,
}

// videoMimes 可接受的视频MIME类型
var videoMimes = map[string]bool{
	"video/x-msvideo":  true,
	"video/quicktime":  true,
	"video/mpeg":       true,
	"video/h264":       true,
	"video/mp4":        true,
	"video/ogg":        true,
	"video/webm":       true,
}

// Classify 将MIME类型映射为媒体种类
// 按图片、音频、视频、PDF的优先级查表，均不匹配时归为binary
func Classify(mimeType string) Kind {
	switch {
	case imageMimes[mimeType]:
		return KindImage
	case audioMimes[mimeType]:
		return KindAudio
	case videoMimes[mimeType]:
		return KindVideo
	case mimeType == pdfMime:
		return KindPDF
	default:
		return KindBinary
	}
}

// IsImage 判断MIME类型是否为可接受的图片类型
func IsImage(mimeType string) bool {
	return imageMimes[mimeType]
}
