package middlewares

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
)

// gzipWriter обертка над gin.ResponseWriter, пишущая сжатый ответ.
type gzipWriter struct {
	gin.ResponseWriter
	writer *gzip.Writer
}

func (g *gzipWriter) Write(data []byte) (int, error) {
	return g.writer.Write(data) //nolint:wrapcheck
}

// GzipMiddleware распаковывает сжатые тела запросов и сжимает ответы,
// если клиент заявил поддержку в Accept-Encoding.
func GzipMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		readGzip(ctx)
		writeGzip(ctx)
		ctx.Next()
	}
}

func writeGzip(ctx *gin.Context) {
	if !strings.Contains(ctx.Request.Header.Get("Accept-Encoding"), "gzip") {
		ctx.Next()
		return
	}

	ctx.Header("Content-Encoding", "gzip")
	ctx.Header("Vary", "Accept-Encoding")

	gzw := gzip.NewWriter(ctx.Writer)
	defer func() {
		if closeErr := gzw.Close(); closeErr != nil {
			_ = ctx.Error(fmt.Errorf("close gzip writer: %w", closeErr))
		}
	}()

	ctx.Writer = &gzipWriter{ResponseWriter: ctx.Writer, writer: gzw}
	ctx.Next()
}

func readGzip(ctx *gin.Context) {
	if !slices.Contains([]string{http.MethodPost, http.MethodPut, http.MethodPatch}, ctx.Request.Method) {
		return
	}
	if !strings.Contains(ctx.Request.Header.Get("Content-Encoding"), "gzip") {
		return
	}

	gzReader, gzErr := gzip.NewReader(ctx.Request.Body)
	if gzErr != nil {
		_ = ctx.Error(fmt.Errorf("read gzip: %w", gzErr))
		ctx.AbortWithStatus(http.StatusBadRequest)
		return
	}
	defer func() {
		if closeErr := gzReader.Close(); closeErr != nil {
			_ = ctx.Error(fmt.Errorf("close gzip reader: %w", closeErr))
		}
	}()

	bodyBytes, readErr := io.ReadAll(gzReader)
	if readErr != nil {
		_ = ctx.Error(fmt.Errorf("read gzip: %w", readErr))
		ctx.AbortWithStatus(http.StatusBadRequest)
		return
	}

	ctx.Request.Body = io.NopCloser(bytes.NewReader(bodyBytes))
}
