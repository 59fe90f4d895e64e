package shortid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/weiwangfds/pastefile/internal/errors"
)

// TestEncodeDecode 测试编码解码往返
func TestEncodeDecode(t *testing.T) {
	t.Run("往返一致", func(t *testing.T) {
		ids := []uint64{1, 2, 3, 10, 61, 62, 1000, 99999, 123456789, MaxID}
		for _, id := range ids {
			token, err := Encode(id)
			require.NoError(t, err)
			require.NotEmpty(t, token)

			decoded, err := Decode(token)
			require.NoError(t, err)
			assert.Equal(t, id, decoded, "id=%d token=%s", id, token)
		}
	})

	t.Run("单射性", func(t *testing.T) {
		seen := make(map[string]uint64)
		for id := uint64(1); id <= 5000; id++ {
			token, err := Encode(id)
			require.NoError(t, err)
			prev, dup := seen[token]
			require.False(t, dup, "token %s 同时对应 %d 和 %d", token, prev, id)
			seen[token] = id
		}
	})

	t.Run("相邻ID的token不相邻", func(t *testing.T) {
		// 模乘变换打散了顺序ID，token不应该暴露递增规律
		t1, err := Encode(1)
		require.NoError(t, err)
		t2, err := Encode(2)
		require.NoError(t, err)
		assert.NotEqual(t, t1, t2)
	})
}

// TestEncodeRange 测试编码范围校验
func TestEncodeRange(t *testing.T) {
	_, err := Encode(0)
	assert.Error(t, err)

	_, err = Encode(MaxID + 1)
	assert.Error(t, err)
}

// TestDecodeInvalid 测试非法token解码
func TestDecodeInvalid(t *testing.T) {
	cases := []string{
		"",
		"0",          // 不在字母表中
		"1",          // 不在字母表中
		"hello world", // 含空格
		"个",          // 非ASCII
		"zzzzzzzzzzzz", // 超出模数范围
		"!!@#",
	}
	for _, token := range cases {
		_, err := Decode(token)
		require.Error(t, err, "token=%q", token)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrInvalidToken), "token=%q err=%v", token, err)
	}
}

// TestDecodeNonCanonical 测试非规范形式的token被拒绝
func TestDecodeNonCanonical(t *testing.T) {
	token, err := Encode(42)
	require.NoError(t, err)

	// 前导零位变体与原token解出同一数值，但不是Encode的输出
	padded := string(alphabet[0]) + token
	_, err = Decode(padded)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrInvalidToken))
}
