// 图片派生：裁剪填充后缩放到精确尺寸，按源格式重新编码
package service

import (
	"bytes"
	"io"

	"github.com/disintegration/imaging"
	apperrors "github.com/weiwangfds/pastefile/internal/errors"
)

// deriveResized 基于源图片生成目标尺寸的派生图
// 先按目标长宽比裁剪填满（不加边框），再缩放到精确的(width, height)，
// 最后按源文件的格式重新编码。不修改也不删除源图片。
// 参数:
//   - sourcePath: 源图片磁盘路径
//   - width: 目标宽度
//   - height: 目标高度
// 返回:
//   - io.Reader: 编码后的派生图数据
//   - error: 解码、编码失败时返回错误
func deriveResized(sourcePath string, width, height int) (io.Reader, error) {
	img, err := imaging.Open(sourcePath)
	if err != nil {
		return nil, apperrors.WrapCode(apperrors.ErrFileReadFailed, err)
	}

	resized := imaging.Fill(img, width, height, imaging.Center, imaging.Lanczos)

	// 按源文件扩展名确定重编码格式
	format, err := imaging.FormatFromFilename(sourcePath)
	if err != nil {
		return nil, apperrors.WrapCode(apperrors.ErrUnsupportedMediaKind, err)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, format); err != nil {
		return nil, apperrors.WrapCode(apperrors.ErrFileWriteFailed, err)
	}
	return &buf, nil
}
