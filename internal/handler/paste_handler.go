package handler

import (
	"net/http"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"
	"github.com/weiwangfds/pastefile/config"
	"github.com/weiwangfds/pastefile/internal/database"
	apperrors "github.com/weiwangfds/pastefile/internal/errors"
	"github.com/weiwangfds/pastefile/internal/mediatype"
	"github.com/weiwangfds/pastefile/internal/response"
	fileservice "github.com/weiwangfds/pastefile/internal/service/file"
)

// PasteHandler 文件上传与访问处理器
// @Description 内容寻址文件托管相关的HTTP处理器
type PasteHandler struct {
	fileService fileservice.FileService
	serverCfg   config.ServerConfig
}

// NewPasteHandler 创建文件处理器实例
func NewPasteHandler(fileService fileservice.FileService, serverCfg config.ServerConfig) *PasteHandler {
	return &PasteHandler{
		fileService: fileService,
		serverCfg:   serverCfg,
	}
}

// Upload 上传文件
// @Summary 上传文件
// @Description 上传单个文件，内容相同的文件会去重返回已有对象；
// @Description 携带w、h参数且文件为图片时，存储并返回缩放派生图
// @Tags 文件托管
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "要上传的文件"
// @Param w formData int false "目标宽度"
// @Param h formData int false "目标高度"
// @Success 200 {object} map[string]interface{} "上传成功"
// @Failure 400 {object} response.Response "请求参数错误"
// @Failure 500 {object} response.Response "服务器内部错误"
// @Router / [post]
func (h *PasteHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, apperrors.GetErrorMessage(apperrors.ErrEmptyUpload))
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		response.InternalServerError(c, apperrors.GetErrorMessage(apperrors.ErrFileReadFailed))
		return
	}
	defer src.Close()

	mimeType := fileHeader.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	record, err := h.fileService.Upload(fileHeader.Filename, mimeType, src)
	if err != nil {
		h.renderError(c, err)
		return
	}

	// 携带缩放参数时存储派生图并返回派生图信息
	w := c.PostForm("w")
	ht := c.PostForm("h")
	if w != "" && ht != "" {
		record, err = h.resize(record, w, ht)
		if err != nil {
			h.renderError(c, err)
			return
		}
	}

	h.renderFile(c, record)
}

// Resize 按需生成缩放派生图
// @Summary 生成派生图
// @Description 根据存储文件名和目标尺寸生成派生图，返回派生图信息
// @Tags 文件托管
// @Produce json
// @Param hash path string true "存储文件名"
// @Param w query int true "目标宽度"
// @Param h query int true "目标高度"
// @Success 200 {object} map[string]interface{} "派生图信息"
// @Failure 400 {object} response.Response "尺寸参数无效或非图片文件"
// @Failure 404 {object} response.Response "文件不存在"
// @Router /r/{hash} [get]
func (h *PasteHandler) Resize(c *gin.Context) {
	record, err := h.fileService.GetByHash(c.Param("hash"))
	if err != nil {
		h.renderError(c, err)
		return
	}

	derived, err := h.resize(record, c.Query("w"), c.Query("h"))
	if err != nil {
		h.renderError(c, err)
		return
	}

	h.renderFile(c, derived)
}

// Download 下载文件
// @Summary 下载文件
// @Description 根据存储文件名以附件方式下载文件，附件名为原始文件名
// @Tags 文件托管
// @Produce application/octet-stream
// @Param hash path string true "存储文件名"
// @Success 200 {file} file "文件内容"
// @Failure 404 {object} response.Response "文件不存在"
// @Router /d/{hash} [get]
func (h *PasteHandler) Download(c *gin.Context) {
	record, err := h.fileService.GetByHash(c.Param("hash"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.FileAttachment(h.fileService.StoragePath(record), record.FileName)
}

// Inline 内联展示文件
// @Summary 内联展示文件
// @Description 根据存储文件名以声明的媒体类型直接输出文件内容
// @Tags 文件托管
// @Param hash path string true "存储文件名"
// @Success 200 {file} file "文件内容"
// @Failure 404 {object} response.Response "文件不存在"
// @Router /i/{hash} [get]
func (h *PasteHandler) Inline(c *gin.Context) {
	record, err := h.fileService.GetByHash(c.Param("hash"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.Header("Content-Type", record.MimeType)
	c.File(h.fileService.StoragePath(record))
}

// Preview 预览文件信息
// @Summary 预览文件信息
// @Description 根据存储文件名返回文件的元数据和访问URL
// @Tags 文件托管
// @Produce json
// @Param hash path string true "存储文件名"
// @Success 200 {object} map[string]interface{} "文件信息"
// @Failure 404 {object} response.Response "文件不存在"
// @Router /p/{hash} [get]
func (h *PasteHandler) Preview(c *gin.Context) {
	record, err := h.fileService.GetByHash(c.Param("hash"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	h.renderFile(c, record)
}

// ShortRedirect 短链接跳转
// @Summary 短链接跳转
// @Description 解码短链接token后重定向到对应文件的预览URL
// @Tags 文件托管
// @Param token path string true "短链接token"
// @Success 302 {string} string "重定向"
// @Failure 404 {object} response.Response "短链接无效或文件不存在"
// @Router /s/{token} [get]
func (h *PasteHandler) ShortRedirect(c *gin.Context) {
	record, err := h.fileService.GetByToken(c.Param("token"))
	if err != nil {
		h.renderError(c, err)
		return
	}

	urls, err := h.fileService.URLs(record, h.baseURL(c))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.Redirect(http.StatusFound, urls.Preview)
}

// Delete 删除文件
// @Summary 删除文件
// @Description 根据存储文件名软删除文件记录，不移除磁盘文件
// @Tags 文件托管
// @Produce json
// @Param hash path string true "存储文件名"
// @Success 200 {object} response.Response "删除成功"
// @Failure 404 {object} response.Response "文件不存在"
// @Router /file/{hash} [delete]
func (h *PasteHandler) Delete(c *gin.Context) {
	if err := h.fileService.Delete(c.Param("hash")); err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, nil)
}

// ListFiles 获取文件列表
// @Summary 获取文件列表
// @Description 分页获取未删除的文件记录
// @Tags 文件托管
// @Produce json
// @Param page query int false "页码，默认1"
// @Param page_size query int false "每页数量，默认20"
// @Success 200 {object} response.Response "文件列表"
// @Router /files [get]
func (h *PasteHandler) ListFiles(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	files, total, err := h.fileService.ListFiles(page, pageSize)
	if err != nil {
		h.renderError(c, err)
		return
	}

	response.Success(c, gin.H{
		"list":      files,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// resize 解析尺寸参数并生成派生图
// 非数字或非正数的尺寸参数返回ErrInvalidDimensions，此时不会产生任何文件
func (h *PasteHandler) resize(source *database.UploadedFile, w, ht string) (*database.UploadedFile, error) {
	width, werr := strconv.Atoi(w)
	height, herr := strconv.Atoi(ht)
	if werr != nil || herr != nil {
		return nil, apperrors.ErrInvalidDimensionsError.WithDetails("w=" + w + " h=" + ht)
	}
	return h.fileService.UploadResized(source, width, height)
}

// renderFile 输出文件对象的完整JSON载荷
// 字段与上传成功的响应契约保持一致
func (h *PasteHandler) renderFile(c *gin.Context, record *database.UploadedFile) {
	urls, err := h.fileService.URLs(record, h.baseURL(c))
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url_d":    urls.Download,
		"url_i":    urls.Inline,
		"url_s":    urls.Short,
		"url_p":    urls.Preview,
		"filename": record.FileName,
		"size":     humanize.Bytes(uint64(record.Size)),
		"time":     record.UploadedAt.String(),
		"type":     string(mediatype.Classify(record.MimeType)),
		"quoteurl": urls.Inline,
	})
}

// renderError 将应用错误映射为HTTP响应
// 未找到类错误映射为404，输入类错误映射为400，其余为500
func (h *PasteHandler) renderError(c *gin.Context, err error) {
	appErr, ok := apperrors.GetAppError(err)
	if !ok {
		response.InternalServerError(c, apperrors.GetErrorMessage(apperrors.ErrInternalServer))
		return
	}

	switch appErr.Code {
	case apperrors.ErrFileNotFound, apperrors.ErrNotFound, apperrors.ErrRecordNotFound,
		apperrors.ErrInvalidToken:
		response.NotFound(c, appErr.Message)
	case apperrors.ErrEmptyUpload, apperrors.ErrInvalidDimensions,
		apperrors.ErrUnsupportedMediaKind, apperrors.ErrInvalidParams,
		apperrors.ErrFileSizeTooLarge:
		response.BadRequest(c, appErr.Message)
	default:
		response.InternalServerError(c, appErr.Message)
	}
}

// baseURL 计算对外基础URL
// 配置了base_url时优先使用，否则根据请求Host推导
func (h *PasteHandler) baseURL(c *gin.Context) string {
	if h.serverCfg.BaseURL != "" {
		return h.serverCfg.BaseURL
	}
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}
