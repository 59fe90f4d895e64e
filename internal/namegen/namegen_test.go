package namegen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAllocate 测试存储文件名分配
func TestAllocate(t *testing.T) {
	t.Run("保留扩展名", func(t *testing.T) {
		name := Allocate("photo.jpg")
		assert.True(t, strings.HasSuffix(name, ".jpg"), "name=%s", name)
		assert.Len(t, name, 32+len(".jpg"))
	})

	t.Run("多个点取最后一段", func(t *testing.T) {
		name := Allocate("a.b.jpg")
		assert.True(t, strings.HasSuffix(name, ".jpg"))
		assert.NotContains(t, name[:len(name)-4], ".")
	})

	t.Run("无扩展名以点结尾", func(t *testing.T) {
		name := Allocate("noext")
		assert.True(t, strings.HasSuffix(name, "."))
		assert.Len(t, name, 33)
	})

	t.Run("随机部分为十六进制", func(t *testing.T) {
		name := Allocate("x.png")
		random := strings.TrimSuffix(name, ".png")
		require.Len(t, random, 32)
		for _, ch := range random {
			assert.Contains(t, "0123456789abcdef", string(ch))
		}
	})

	t.Run("每次分配结果不同", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 100; i++ {
			name := Allocate("same.txt")
			require.False(t, seen[name], "重复分配: %s", name)
			seen[name] = true
		}
	})
}
