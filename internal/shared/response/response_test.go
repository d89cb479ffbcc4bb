package response

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestNewPaginationMeta(t *testing.T) {
	meta := NewPaginationMeta(21, 2, 10)
	assert.Equal(t, 3, meta.TotalPages)
	assert.Equal(t, int64(21), meta.Total)
}

func TestPageBounds(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/x?page=2&page_size=3", nil)

	start, end, meta := PageBounds(c, 7)
	assert.Equal(t, 3, start)
	assert.Equal(t, 6, end)
	assert.Equal(t, 3, meta.TotalPages)

	c.Request = httptest.NewRequest(http.MethodGet, "/x?page=9&page_size=5", nil)
	start, end, _ = PageBounds(c, 7)
	assert.Equal(t, 7, start)
	assert.Equal(t, 7, end)
}

func TestError_Envelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Error(c, http.StatusConflict, "CONFLICT", "Session already open", nil)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"ok":false,"error":{"code":"CONFLICT","message":"Session already open","details":null}}`, w.Body.String())
}
