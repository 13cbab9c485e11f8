package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compressRouter(body string) *gin.Engine {
	r := gin.New()
	r.Use(Brotli(64))
	r.GET("/", func(c *gin.Context) { c.String(http.StatusCreated, body) })
	return r
}

func getWithEncoding(r http.Handler, enc string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", enc)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestBrotli_CompressesLargeBodies(t *testing.T) {
	body := strings.Repeat("career roadmap ", 50)
	w := getWithEncoding(compressRouter(body), "gzip, br")

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "br", w.Header().Get("Content-Encoding"))
	assert.Less(t, w.Body.Len(), len(body))

	plain, err := io.ReadAll(brotli.NewReader(bytes.NewReader(w.Body.Bytes())))
	require.NoError(t, err)
	assert.Equal(t, body, string(plain))
}

func TestBrotli_SkipsSmallBodies(t *testing.T) {
	w := getWithEncoding(compressRouter("short"), "br")

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.Equal(t, "short", w.Body.String())
}

func TestBrotli_SkipsClientsWithoutBrotli(t *testing.T) {
	body := strings.Repeat("x", 200)
	w := getWithEncoding(compressRouter(body), "gzip")

	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.Equal(t, body, w.Body.String())
}

func TestAcceptsEncoding(t *testing.T) {
	assert.True(t, acceptsEncoding("br", "br"))
	assert.True(t, acceptsEncoding("gzip, BR;q=0.8", "br"))
	assert.False(t, acceptsEncoding("br;q=0", "br"))
	assert.False(t, acceptsEncoding("", "br"))
	assert.False(t, acceptsEncoding("brotli", "br"))
}
