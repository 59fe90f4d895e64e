package hashutil

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFileMD5 测试文件MD5计算
func TestFileMD5(t *testing.T) {
	t.Run("空内容", func(t *testing.T) {
		digest, err := FileMD5(bytes.NewReader(nil))
		require.NoError(t, err)
		sum := md5.Sum(nil)
		assert.Equal(t, hex.EncodeToString(sum[:]), digest)
	})

	t.Run("小于分块大小的内容", func(t *testing.T) {
		data := []byte("hello pastefile")
		digest, err := FileMD5(bytes.NewReader(data))
		require.NoError(t, err)
		sum := md5.Sum(data)
		assert.Equal(t, hex.EncodeToString(sum[:]), digest)
	})

	t.Run("跨越多个分块的内容", func(t *testing.T) {
		data := bytes.Repeat([]byte("0123456789abcdef"), 4096) // 64KiB
		digest, err := FileMD5(bytes.NewReader(data))
		require.NoError(t, err)
		sum := md5.Sum(data)
		assert.Equal(t, hex.EncodeToString(sum[:]), digest)
	})

	t.Run("结果与读取器类型无关", func(t *testing.T) {
		data := strings.Repeat("内容寻址", 10000)
		d1, err := FileMD5(strings.NewReader(data))
		require.NoError(t, err)
		d2, err := FileMD5(bytes.NewBufferString(data))
		require.NoError(t, err)
		assert.Equal(t, d1, d2)
	})
}
