package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/weiwangfds/pastefile/config"
	"github.com/weiwangfds/pastefile/internal/handler"
	"github.com/weiwangfds/pastefile/internal/middleware"
	fileservice "github.com/weiwangfds/pastefile/internal/service/file"
	mirrorservice "github.com/weiwangfds/pastefile/internal/service/mirror"
	"gorm.io/gorm"
)

// Router 路由配置
type Router struct {
	engine *gin.Engine
	db     *gorm.DB
}

// NewRouter 创建路由实例
func NewRouter(loggerMiddleware *middleware.LoggerMiddleware, db *gorm.DB, cfg *config.Config) *Router {
	// 设置Gin模式
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()

	// 初始化服务
	fileService := fileservice.NewFileService(db, cfg.File)

	// 初始化处理器
	pasteHandler := handler.NewPasteHandler(fileService, cfg.Server)
	var mirrorHandler *handler.MirrorHandler
	if cfg.Mirror.Enabled {
		mirrorService := mirrorservice.NewMirrorService(db)
		fileService.SetMirrorNotifier(mirrorService)
		mirrorHandler = handler.NewMirrorHandler(mirrorService)
	}

	// 使用中间件
	engine.Use(gin.Recovery())
	engine.Use(loggerMiddleware.RequestID())
	engine.Use(loggerMiddleware.RequestLogger())

	// 配置CORS
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"*"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// 健康检查
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Service is running",
		})
	})

	// 上传入口
	engine.POST("/", pasteHandler.Upload)
	engine.POST("/index", pasteHandler.Upload)

	// 文件访问路径
	engine.GET("/d/:hash", pasteHandler.Download)      // 附件下载
	engine.GET("/i/:hash", pasteHandler.Inline)        // 内联展示
	engine.GET("/p/:hash", pasteHandler.Preview)       // 预览信息
	engine.GET("/s/:token", pasteHandler.ShortRedirect) // 短链接跳转
	engine.GET("/r/:hash", pasteHandler.Resize)        // 按需缩放

	// 文件管理接口
	engine.GET("/files", pasteHandler.ListFiles)
	engine.DELETE("/file/:hash", pasteHandler.Delete)

	// 镜像配置管理接口
	if mirrorHandler != nil {
		api := engine.Group("/api/v1")
		mirror := api.Group("/mirror")
		{
			mirror.POST("/configs", mirrorHandler.CreateConfig)
			mirror.GET("/configs", mirrorHandler.ListConfigs)
			mirror.POST("/configs/:id/activate", mirrorHandler.ActivateConfig)
			mirror.POST("/configs/:id/test", mirrorHandler.TestConfig)
		}
	}

	return &Router{
		engine: engine,
		db:     db,
	}
}

// GetEngine 获取Gin引擎
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

// GetDB 获取数据库连接
func (r *Router) GetDB() *gorm.DB {
	return r.db
}
