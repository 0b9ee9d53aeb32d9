package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	infralog "github.com/weisyn/originverifier/pkg/interfaces/infrastructure/log"
)

func newTestRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(handlers...)
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })
	r.POST("/write", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func TestRequestID(t *testing.T) {
	r := newTestRouter(NewRequestID().Middleware())

	t.Run("生成新的请求ID", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		id := w.Header().Get(HeaderRequestID)
		assert.NotEmpty(t, id)
		assert.Equal(t, id, w.Body.String())
	})

	t.Run("沿用调用方的请求ID", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(HeaderRequestID, "abc-123")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, "abc-123", w.Header().Get(HeaderRequestID))
		assert.Equal(t, "abc-123", w.Body.String())
	})
}

func TestWriteRateLimit(t *testing.T) {
	r := newTestRouter(
		NewLogger(infralog.Nop()).Middleware(),
		NewWriteRateLimit(zap.NewNop(), 1, 2).Middleware(),
	)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/write", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)

	t.Run("读请求不受限", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
			assert.Equal(t, http.StatusOK, w.Code)
		}
	})

	t.Run("rps为0时关闭限流", func(t *testing.T) {
		open := newTestRouter(NewWriteRateLimit(zap.NewNop(), 0, 0).Middleware())
		for i := 0; i < 5; i++ {
			w := httptest.NewRecorder()
			open.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/write", nil))
			assert.Equal(t, http.StatusNoContent, w.Code)
		}
	})
}
