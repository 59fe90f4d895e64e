// Package shortid 提供数据库ID与短链接token之间的可逆编码
// 采用模乘双射变换而非哈希：token可以精确解码回ID，无需查表，也不存在碰撞
package shortid

import (
	"strings"

	apperrors "github.com/weiwangfds/pastefile/internal/errors"
)

const (
	// alphabet 编码字母表，去掉了易混淆字符 0/1/l/o/I/O
	alphabet = "23456789abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ"

	// multiplier 模2^32下的乘法因子（奇数，因此在模2^32下可逆，变换为双射）
	multiplier uint64 = 0x9E3779B1
	// inverse multiplier在模2^32下的乘法逆元，multiplier*inverse ≡ 1 (mod 2^32)
	inverse uint64 = 0x0E8B2F51

	modulus uint64 = 1 << 32
)

// MaxID 支持编码的最大ID，超出需要更宽的模数
const MaxID = modulus - 1

// Encode 将正整数ID编码为短token
// 对ID施加模乘变换后按字母表进制输出。变换是双射，不同ID永远得到不同token。
// 参数:
//   - id: 记录ID，必须在(0, MaxID]范围内
// 返回:
//   - string: 短token
//   - error: ID超出范围时返回参数错误
func Encode(id uint64) (string, error) {
	if id == 0 || id > MaxID {
		return "", apperrors.ErrInvalidParameters.WithDetails("id out of encodable range")
	}

	m := (id * multiplier) % modulus

	base := uint64(len(alphabet))
	var sb []byte
	for m > 0 {
		sb = append(sb, alphabet[m%base])
		m /= base
	}
	// 反转为高位在前
	for i, j := 0, len(sb)-1; i < j; i, j = i+1, j-1 {
		sb[i], sb[j] = sb[j], sb[i]
	}
	return string(sb), nil
}

// Decode 将短token解码回ID
// 逐字符按字母表进制解析后施加逆变换。任何不是Encode输出的token
// （非法字符、空串、超范围、非规范形式）都返回ErrInvalidToken。
// 参数:
//   - token: 短token
// 返回:
//   - uint64: 记录ID
//   - error: token无效时返回ErrInvalidToken
func Decode(token string) (uint64, error) {
	if token == "" {
		return 0, apperrors.ErrInvalidTokenError
	}

	base := uint64(len(alphabet))
	var m uint64
	for _, ch := range token {
		idx := strings.IndexRune(alphabet, ch)
		if idx < 0 {
			return 0, apperrors.ErrInvalidTokenError
		}
		m = m*base + uint64(idx)
		if m >= modulus {
			return 0, apperrors.ErrInvalidTokenError
		}
	}

	id := (m * inverse) % modulus
	if id == 0 {
		return 0, apperrors.ErrInvalidTokenError
	}

	// 规范性校验：带前导零位等变体不是Encode的输出，一律拒绝
	canonical, err := Encode(id)
	if err != nil || canonical != token {
		return 0, apperrors.ErrInvalidTokenError
	}

	return id, nil
}
