package mediatype

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestClassify 测试MIME类型分类
func TestClassify(t *testing.T) {
	t.Run("图片类型", func(t *testing.T) {
		for _, mime := range []string{
			"image/x-icon", "image/svg+xml", "image/jpeg",
			"image/gif", "image/png", "image/webp",
		} {
			assert.Equal(t, KindImage, Classify(mime), mime)
		}
	})

	t.Run("音频类型", func(t *testing.T) {
		for _, mime := range []string{
			"audio/x-aac", "audio/mp4", "audio/ogg",
			"audio/mpeg", "audio/x-m4a", "audio/mp3",
		} {
			assert.Equal(t, KindAudio, Classify(mime), mime)
		}
	})

	t.Run("视频类型", func(t *testing.T) {
		for _, mime := range []string{
			"video/x-msvideo", "video/quicktime", "video/mpeg",
			"video/h264", "video/mp4", "video/ogg", "video/webm",
		} {
			assert.Equal(t, KindVideo, Classify(mime), mime)
		}
	})

	t.Run("PDF类型", func(t *testing.T) {
		assert.Equal(t, KindPDF, Classify("application/pdf"))
	})

	t.Run("其它类型归为binary", func(t *testing.T) {
		for _, mime := range []string{
			"application/octet-stream", "text/plain", "image/tiff",
			"application/pdf ", "", "video/unknown",
		} {
			assert.Equal(t, KindBinary, Classify(mime), "%q", mime)
		}
	})
}

// TestIsImage 测试图片类型判断
func TestIsImage(t *testing.T) {
	assert.True(t, IsImage("image/png"))
	assert.False(t, IsImage("application/pdf"))
	assert.False(t, IsImage("image/tiff"))
}
