package middleware

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
)

// CompressionConfig holds configuration for response compression
type CompressionConfig struct {
	MinSize          int      // Minimum response size to compress (bytes)
	CompressionLevel int      // Gzip compression level (1-9, 9 is best compression)
	ContentTypes     []string // Content types to compress
}

// DefaultCompressionConfig returns the default compression configuration
func DefaultCompressionConfig() CompressionConfig {
	return CompressionConfig{
		MinSize:          1024,
		CompressionLevel: 6,
		ContentTypes: []string{
			"application/json",
			"text/plain",
			"text/html",
			"text/css",
			"application/javascript",
		},
	}
}

// CompressionMiddleware provides gzip compression for HTTP responses
type CompressionMiddleware struct {
	config CompressionConfig
	stats  *CompressionStats
	pool   sync.Pool
}

// NewCompressionMiddleware creates a new compression middleware
func NewCompressionMiddleware(config CompressionConfig) *CompressionMiddleware {
	if config.MinSize <= 0 {
		config.MinSize = DefaultCompressionConfig().MinSize
	}
	if config.CompressionLevel < gzip.BestSpeed || config.CompressionLevel > gzip.BestCompression {
		config.CompressionLevel = gzip.DefaultCompression
	}
	if len(config.ContentTypes) == 0 {
		config.ContentTypes = DefaultCompressionConfig().ContentTypes
	}

	level := config.CompressionLevel
	return &CompressionMiddleware{
		config: config,
		stats:  NewCompressionStats(),
		pool: sync.Pool{
			New: func() interface{} {
				gz, _ := gzip.NewWriterLevel(io.Discard, level)
				return gz
			},
		},
	}
}

// Handler returns a Gin middleware that gzips eligible responses
func (cm *CompressionMiddleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cm.clientAcceptsGzip(c.Request) || c.Request.Method == http.MethodHead {
			c.Next()
			return
		}

		gzw := &gzipResponseWriter{ResponseWriter: c.Writer, cm: cm}
		c.Writer = gzw
		defer func() {
			gzw.finish()
			c.Writer = gzw.ResponseWriter
		}()

		c.Next()
	}
}

// clientAcceptsGzip checks if the client accepts gzip compression
func (cm *CompressionMiddleware) clientAcceptsGzip(r *http.Request) bool {
	for _, enc := range strings.Split(r.Header.Get("Accept-Encoding"), ",") {
		name, params, _ := strings.Cut(strings.TrimSpace(enc), ";")
		if strings.EqualFold(strings.TrimSpace(name), "gzip") {
			return strings.ReplaceAll(params, " ", "") != "q=0"
		}
	}
	return false
}

// shouldCompress checks if the content type should be compressed
func (cm *CompressionMiddleware) shouldCompress(contentType string) bool {
	for _, ct := range cm.config.ContentTypes {
		if strings.Contains(contentType, ct) {
			return true
		}
	}
	return false
}

// getGzipWriter gets a gzip writer from the pool
func (cm *CompressionMiddleware) getGzipWriter(w io.Writer) *gzip.Writer {
	gz := cm.pool.Get().(*gzip.Writer)
	gz.Reset(w)
	return gz
}

// returnGzipWriter returns a gzip writer to the pool
func (cm *CompressionMiddleware) returnGzipWriter(gz *gzip.Writer) {
	gz.Close()
	cm.pool.Put(gz)
}

// gzipResponseWriter holds the body back until MinSize bytes arrive or the
// handler returns, then either streams it through gzip or passes it on.
type gzipResponseWriter struct {
	gin.ResponseWriter
	cm *CompressionMiddleware

	pending    bytes.Buffer
	gzipWriter *gzip.Writer
	decided    bool
	original   int64
}

// Write buffers or compresses data
func (gzw *gzipResponseWriter) Write(data []byte) (int, error) {
	gzw.original += int64(len(data))

	if !gzw.decided {
		gzw.pending.Write(data)
		if gzw.pending.Len() < gzw.cm.config.MinSize {
			return len(data), nil
		}
		if err := gzw.decide(); err != nil {
			return 0, err
		}
		return len(data), nil
	}

	if gzw.gzipWriter != nil {
		return gzw.gzipWriter.Write(data)
	}
	return gzw.ResponseWriter.Write(data)
}

// WriteString writes a string through Write
func (gzw *gzipResponseWriter) WriteString(s string) (int, error) {
	return gzw.Write([]byte(s))
}

// Written reports buffered output as written so error handlers do not append a second body
func (gzw *gzipResponseWriter) Written() bool {
	return gzw.decided || gzw.pending.Len() > 0 || gzw.ResponseWriter.Written()
}

// decide picks gzip or passthrough and drains the pending buffer
func (gzw *gzipResponseWriter) decide() error {
	gzw.decided = true
	header := gzw.Header()

	compress := gzw.pending.Len() >= gzw.cm.config.MinSize &&
		header.Get("Content-Encoding") == "" &&
		!gzw.ResponseWriter.Written() &&
		gzw.Status() != http.StatusNoContent &&
		gzw.Status() != http.StatusNotModified &&
		gzw.cm.shouldCompress(header.Get("Content-Type"))

	if compress {
		header.Set("Content-Encoding", "gzip")
		header.Add("Vary", "Accept-Encoding")
		header.Del("Content-Length")
		gzw.gzipWriter = gzw.cm.getGzipWriter(gzw.ResponseWriter)
		_, err := gzw.gzipWriter.Write(gzw.pending.Bytes())
		gzw.pending.Reset()
		return err
	}

	_, err := gzw.ResponseWriter.Write(gzw.pending.Bytes())
	gzw.pending.Reset()
	return err
}

// finish flushes whatever is pending and records the outcome
func (gzw *gzipResponseWriter) finish() {
	if !gzw.decided {
		if gzw.pending.Len() == 0 {
			return
		}
		_ = gzw.decide()
	}

	compressed := gzw.gzipWriter != nil
	if compressed {
		gzw.cm.returnGzipWriter(gzw.gzipWriter)
		gzw.gzipWriter = nil
	}
	gzw.cm.stats.RecordRequest(gzw.original, int64(gzw.ResponseWriter.Size()), compressed)
}

// Flush flushes the gzip writer
func (gzw *gzipResponseWriter) Flush() {
	if !gzw.decided && gzw.pending.Len() > 0 {
		_ = gzw.decide()
	}
	if gzw.gzipWriter != nil {
		gzw.gzipWriter.Flush()
	}
	gzw.ResponseWriter.Flush()
}

// CompressionStats tracks compression statistics
type CompressionStats struct {
	TotalRequests      int64
	CompressedRequests int64
	TotalBytes         int64
	CompressedBytes    int64
	// bytes of the compressed responses before compression
	compressedOriginal int64
	mutex              sync.RWMutex
}

// NewCompressionStats creates new compression statistics
func NewCompressionStats() *CompressionStats {
	return &CompressionStats{}
}

// RecordRequest records a request's compression stats
func (cs *CompressionStats) RecordRequest(originalSize, compressedSize int64, compressed bool) {
	cs.mutex.Lock()
	defer cs.mutex.Unlock()

	cs.TotalRequests++
	cs.TotalBytes += originalSize

	if compressed {
		cs.CompressedRequests++
		cs.CompressedBytes += compressedSize
		cs.compressedOriginal += originalSize
	}
}

// GetStats returns current compression statistics
func (cs *CompressionStats) GetStats() map[string]interface{} {
	cs.mutex.RLock()
	defer cs.mutex.RUnlock()

	compressionRatio := float64(0)
	if cs.compressedOriginal > 0 {
		compressionRatio = float64(cs.CompressedBytes) / float64(cs.compressedOriginal)
	}

	savings := float64(0)
	if compressionRatio > 0 {
		savings = 1.0 - compressionRatio
	}

	return map[string]interface{}{
		"total_requests":      cs.TotalRequests,
		"compressed_requests": cs.CompressedRequests,
		"total_bytes":         cs.TotalBytes,
		"compressed_bytes":    cs.CompressedBytes,
		"compression_ratio":   compressionRatio,
		"compression_savings": savings,
		"compression_enabled": cs.TotalRequests > 0 && cs.CompressedRequests > 0,
	}
}

// GetStats returns compression statistics
func (cm *CompressionMiddleware) GetStats() map[string]interface{} {
	return cm.stats.GetStats()
}
