package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/weiwangfds/pastefile/internal/database"
	apperrors "github.com/weiwangfds/pastefile/internal/errors"
	"github.com/weiwangfds/pastefile/internal/response"
	mirrorservice "github.com/weiwangfds/pastefile/internal/service/mirror"
)

// MirrorHandler 云镜像配置处理器
// @Description 云镜像配置管理相关的HTTP处理器
type MirrorHandler struct {
	mirrorService mirrorservice.MirrorService
}

// NewMirrorHandler 创建云镜像配置处理器实例
func NewMirrorHandler(mirrorService mirrorservice.MirrorService) *MirrorHandler {
	return &MirrorHandler{
		mirrorService: mirrorService,
	}
}

// CreateConfig 创建镜像配置
// @Summary 创建镜像配置
// @Description 创建新的云端镜像存储配置
// @Tags 镜像管理
// @Accept json
// @Produce json
// @Param config body database.MirrorConfig true "镜像配置"
// @Success 200 {object} response.Response "创建成功"
// @Failure 400 {object} response.Response "配置无效"
// @Router /api/v1/mirror/configs [post]
func (h *MirrorHandler) CreateConfig(c *gin.Context) {
	var cfg database.MirrorConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		response.BadRequest(c, apperrors.GetErrorMessage(apperrors.ErrInvalidParams))
		return
	}

	if err := h.mirrorService.CreateConfig(&cfg); err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, cfg)
}

// ListConfigs 获取镜像配置列表
// @Summary 获取镜像配置列表
// @Tags 镜像管理
// @Produce json
// @Success 200 {object} response.Response "配置列表"
// @Router /api/v1/mirror/configs [get]
func (h *MirrorHandler) ListConfigs(c *gin.Context) {
	configs, err := h.mirrorService.ListConfigs()
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, configs)
}

// ActivateConfig 激活镜像配置
// @Summary 激活镜像配置
// @Description 激活指定配置，同时取消其它配置的激活状态
// @Tags 镜像管理
// @Produce json
// @Param id path int true "配置ID"
// @Success 200 {object} response.Response "激活成功"
// @Failure 404 {object} response.Response "配置不存在"
// @Router /api/v1/mirror/configs/{id}/activate [post]
func (h *MirrorHandler) ActivateConfig(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, apperrors.GetErrorMessage(apperrors.ErrInvalidParams))
		return
	}

	if err := h.mirrorService.ActivateConfig(uint(id)); err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, nil)
}

// TestConfig 测试镜像配置
// @Summary 测试镜像配置连通性
// @Tags 镜像管理
// @Produce json
// @Param id path int true "配置ID"
// @Success 200 {object} response.Response "连接正常"
// @Failure 404 {object} response.Response "配置不存在"
// @Router /api/v1/mirror/configs/{id}/test [post]
func (h *MirrorHandler) TestConfig(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, apperrors.GetErrorMessage(apperrors.ErrInvalidParams))
		return
	}

	if err := h.mirrorService.TestConfig(uint(id)); err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, nil)
}

// renderError 将应用错误映射为HTTP响应
func (h *MirrorHandler) renderError(c *gin.Context, err error) {
	appErr, ok := apperrors.GetAppError(err)
	if !ok {
		response.InternalServerError(c, apperrors.GetErrorMessage(apperrors.ErrInternalServer))
		return
	}

	switch appErr.Code {
	case apperrors.ErrMirrorConfigNotFound:
		response.NotFound(c, appErr.Message)
	case apperrors.ErrMirrorConfigInvalid, apperrors.ErrMirrorProviderNotSupported,
		apperrors.ErrInvalidParams:
		response.BadRequest(c, appErr.Message)
	default:
		response.InternalServerError(c, appErr.Message)
	}
}
