// 路由层的端到端测试
// 通过httptest走完整的HTTP路径：上传、去重、下载、内联、预览、短链接、删除
package router

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weiwangfds/pastefile/config"
	"github.com/weiwangfds/pastefile/internal/database"
	"github.com/weiwangfds/pastefile/internal/middleware"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupRouter 构建基于内存数据库和临时存储目录的完整路由
func setupRouter(t *testing.T) *Router {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)

	// 内存SQLite每个连接是独立的数据库，必须固定为单连接
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db))

	cfg := &config.Config{
		Server: config.ServerConfig{
			Port: 8080,
		},
		File: config.FileConfig{
			StoragePath: t.TempDir(),
			MaxFileSize: 10 * 1024 * 1024,
		},
	}
	return NewRouter(middleware.NewLoggerMiddleware(), db, cfg)
}

// uploadFile 通过multipart表单上传文件，返回解析后的响应载荷
func uploadFile(t *testing.T, r *Router, filename, mimeType string, content []byte) (int, map[string]interface{}) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	header.Set("Content-Type", mimeType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Host = "paste.test"

	rec := httptest.NewRecorder()
	r.GetEngine().ServeHTTP(rec, req)

	payload := map[string]interface{}{}
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	}
	return rec.Code, payload
}

// get 发送GET请求
func get(t *testing.T, r *Router, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Host = "paste.test"
	rec := httptest.NewRecorder()
	r.GetEngine().ServeHTTP(rec, req)
	return rec
}

// hashFromURL 从内联URL中提取存储文件名
func hashFromURL(t *testing.T, payload map[string]interface{}) string {
	inline, ok := payload["url_i"].(string)
	require.True(t, ok)
	idx := strings.LastIndex(inline, "/i/")
	require.GreaterOrEqual(t, idx, 0)
	return inline[idx+len("/i/"):]
}

// TestHealthEndpoint 测试健康检查
func TestHealthEndpoint(t *testing.T) {
	r := setupRouter(t)

	rec := get(t, r, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

// TestUploadEndpoint 测试上传响应契约
func TestUploadEndpoint(t *testing.T) {
	r := setupRouter(t)

	t.Run("上传成功返回完整载荷", func(t *testing.T) {
		code, payload := uploadFile(t, r, "hello.txt", "text/plain", []byte("hello over http"))
		require.Equal(t, http.StatusOK, code)

		for _, key := range []string{"url_d", "url_i", "url_s", "url_p", "filename", "size", "time", "type", "quoteurl"} {
			assert.Contains(t, payload, key)
		}
		assert.Equal(t, "hello.txt", payload["filename"])
		assert.Equal(t, "binary", payload["type"])
		assert.Equal(t, payload["url_i"], payload["quoteurl"])

		// URL由请求Host推导
		assert.True(t, strings.HasPrefix(payload["url_d"].(string), "http://paste.test/d/"))
		assert.True(t, strings.HasPrefix(payload["url_s"].(string), "http://paste.test/s/"))
	})

	t.Run("相同内容再次上传返回同一对象", func(t *testing.T) {
		content := []byte("dedup over http")
		_, first := uploadFile(t, r, "one.txt", "text/plain", content)
		code, second := uploadFile(t, r, "two.txt", "text/plain", content)
		require.Equal(t, http.StatusOK, code)

		assert.Equal(t, first["url_i"], second["url_i"])
		assert.Equal(t, first["url_s"], second["url_s"])
		assert.Equal(t, "one.txt", second["filename"])
	})

	t.Run("缺少file字段返回400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
		req.Header.Set("Content-Type", "multipart/form-data; boundary=empty")
		rec := httptest.NewRecorder()
		r.GetEngine().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

// TestFileAccessEndpoints 测试文件访问路径
func TestFileAccessEndpoints(t *testing.T) {
	r := setupRouter(t)
	content := []byte("served content")

	code, payload := uploadFile(t, r, "serve.txt", "text/plain", content)
	require.Equal(t, http.StatusOK, code)
	hash := hashFromURL(t, payload)

	t.Run("附件下载", func(t *testing.T) {
		rec := get(t, r, "/d/"+hash)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, content, rec.Body.Bytes())
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "serve.txt")
	})

	t.Run("内联展示", func(t *testing.T) {
		rec := get(t, r, "/i/"+hash)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, content, rec.Body.Bytes())
		assert.Equal(t, "text/plain", rec.Header().Get("Content-Type"))
	})

	t.Run("预览信息", func(t *testing.T) {
		rec := get(t, r, "/p/"+hash)
		require.Equal(t, http.StatusOK, rec.Code)

		preview := map[string]interface{}{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &preview))
		assert.Equal(t, "serve.txt", preview["filename"])
		assert.Equal(t, payload["url_i"], preview["url_i"])
	})

	t.Run("短链接跳转到预览", func(t *testing.T) {
		short := payload["url_s"].(string)
		token := short[strings.LastIndex(short, "/s/")+len("/s/"):]

		rec := get(t, r, "/s/"+token)
		require.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, payload["url_p"], rec.Header().Get("Location"))
	})

	t.Run("未知hash返回404", func(t *testing.T) {
		rec := get(t, r, "/d/doesnotexist.txt")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("非法短链接返回404", func(t *testing.T) {
		rec := get(t, r, "/s/0OIl")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

// TestDeleteEndpoint 测试软删除
func TestDeleteEndpoint(t *testing.T) {
	r := setupRouter(t)

	code, payload := uploadFile(t, r, "gone.txt", "text/plain", []byte("to be deleted"))
	require.Equal(t, http.StatusOK, code)
	hash := hashFromURL(t, payload)

	req := httptest.NewRequest(http.MethodDelete, "/file/"+hash, nil)
	rec := httptest.NewRecorder()
	r.GetEngine().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// 删除后所有访问路径都视为不存在
	assert.Equal(t, http.StatusNotFound, get(t, r, "/d/"+hash).Code)
	assert.Equal(t, http.StatusNotFound, get(t, r, "/p/"+hash).Code)

	// 重复删除返回404
	rec = httptest.NewRecorder()
	r.GetEngine().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// TestListFilesEndpoint 测试文件列表
func TestListFilesEndpoint(t *testing.T) {
	r := setupRouter(t)

	for _, content := range []string{"list one", "list two"} {
		code, _ := uploadFile(t, r, "item.txt", "text/plain", []byte(content))
		require.Equal(t, http.StatusOK, code)
	}

	rec := get(t, r, "/files")
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Code int `json:"code"`
		Data struct {
			Total int64 `json:"total"`
			List  []map[string]interface{} `json:"list"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, int64(2), envelope.Data.Total)
	assert.Len(t, envelope.Data.List, 2)
}

// TestResizeEndpoint 测试按需缩放接口的参数校验
func TestResizeEndpoint(t *testing.T) {
	r := setupRouter(t)

	code, payload := uploadFile(t, r, "plain.txt", "text/plain", []byte("not an image"))
	require.Equal(t, http.StatusOK, code)
	hash := hashFromURL(t, payload)

	t.Run("非图片返回400", func(t *testing.T) {
		rec := get(t, r, "/r/"+hash+"?w=4&h=4")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("非数字尺寸返回400", func(t *testing.T) {
		rec := get(t, r, "/r/"+hash+"?w=abc&h=4")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("未知hash返回404", func(t *testing.T) {
		rec := get(t, r, "/r/missing.png?w=4&h=4")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
