// Package hashutil 提供文件内容摘要计算
// 摘要作为内容寻址的去重键使用
package hashutil

import (
	"crypto/md5"
	"encoding/hex"
	"io"
)

// chunkSize 分块读取大小，8KiB
const chunkSize = 8 * 1024

// FileMD5 分块计算读取流的MD5摘要
// 流式读取直到EOF，结果只取决于字节内容，与内部分块大小无关。
// 不关闭传入的reader，其生命周期由调用方负责。
// 参数:
//   - r: 已打开的可读流
// 返回:
//   - string: 十六进制摘要
//   - error: 读取错误
func FileMD5(r io.Reader) (string, error) {
	h := md5.New()
	buf := make([]byte, chunkSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
