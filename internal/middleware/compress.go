package middleware

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
)

// DefaultCompressMinLength is the smallest body worth compressing.
const DefaultCompressMinLength = 1024

// bufferedWriter holds the body until the handler returns.
type bufferedWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bufferedWriter) Write(data []byte) (int, error) {
	return w.body.Write(data)
}

func (w *bufferedWriter) WriteString(s string) (int, error) {
	return w.body.WriteString(s)
}

// Brotli compresses response bodies of at least minLength bytes for clients
// that accept "br". Smaller bodies are sent as-is.
func Brotli(minLength int) gin.HandlerFunc {
	if minLength <= 0 {
		minLength = DefaultCompressMinLength
	}

	return func(c *gin.Context) {
		if !acceptsEncoding(c.GetHeader("Accept-Encoding"), "br") {
			c.Next()
			return
		}

		c.Header("Vary", "Accept-Encoding")
		orig := c.Writer
		bw := &bufferedWriter{ResponseWriter: orig}
		c.Writer = bw
		c.Next()
		c.Writer = orig

		if bw.body.Len() < minLength || orig.Header().Get("Content-Encoding") != "" {
			_, _ = orig.Write(bw.body.Bytes())
			return
		}

		var out bytes.Buffer
		enc := brotli.NewWriterLevel(&out, brotli.DefaultCompression)
		if _, err := enc.Write(bw.body.Bytes()); err != nil {
			_ = c.Error(err)
			_, _ = orig.Write(bw.body.Bytes())
			return
		}
		if err := enc.Close(); err != nil {
			_ = c.Error(err)
			_, _ = orig.Write(bw.body.Bytes())
			return
		}

		orig.Header().Set("Content-Encoding", "br")
		orig.Header().Set("Content-Length", strconv.Itoa(out.Len()))
		_, _ = orig.Write(out.Bytes())
	}
}

// acceptsEncoding reports whether an Accept-Encoding header allows enc.
func acceptsEncoding(header, enc string) bool {
	for _, part := range strings.Split(header, ",") {
		name, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		if !strings.EqualFold(strings.TrimSpace(name), enc) {
			continue
		}
		params = strings.ReplaceAll(params, " ", "")
		return params != "q=0" && params != "q=0.0" && params != "q=0.00" && params != "q=0.000"
	}
	return false
}
