// 公开访问URL构造：下载、内联、短链接、预览四条路径
package service

import (
	"github.com/weiwangfds/pastefile/internal/database"
	"github.com/weiwangfds/pastefile/internal/shortid"
)

// FileURLs 文件的四个公开访问URL
type FileURLs struct {
	// Download 附件下载URL（/d/{hash}）
	Download string `json:"url_d"`
	// Inline 内联展示URL（/i/{hash}）
	Inline string `json:"url_i"`
	// Short 短链接URL（/s/{token}）
	Short string `json:"url_s"`
	// Preview 预览页URL（/p/{hash}）
	Preview string `json:"url_p"`
}

// URLs 构造文件的公开访问URL
// 纯函数：由记录和baseURL拼接得出，不访问存储
func (s *fileService) URLs(file *database.UploadedFile, baseURL string) (FileURLs, error) {
	token, err := shortid.Encode(uint64(file.ID))
	if err != nil {
		return FileURLs{}, err
	}
	return FileURLs{
		Download: baseURL + "/d/" + file.FileHash,
		Inline:   baseURL + "/i/" + file.FileHash,
		Short:    baseURL + "/s/" + token,
		Preview:  baseURL + "/p/" + file.FileHash,
	}, nil
}
