// Package ginx402 adapts the shared x402 payment interceptor for gin. It is
// a thin translation layer: gin.Context's request/writer pair is bridged
// into the stdlib http.Handler shape the core middleware package expects,
// and the protected gin handler chain is resumed via c.Next() rather than
// duplicating the verify/settle state machine a second time.
package ginx402

import (
	"bufio"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lattice-works/x402gateway/middleware"
)

// Middleware returns a gin.HandlerFunc that gates the remainder of the
// handler chain behind ic, using meta as the route's payment annotation.
func Middleware(ic *middleware.Interceptor, meta middleware.PaymentMetadata) gin.HandlerFunc {
	core := ic.Wrap(meta)

	return func(c *gin.Context) {
		resumed := false

		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			resumed = true
			c.Request = r
			original := c.Writer
			c.Writer = wrapGinWriter(original, w)
			c.Next()
			c.Writer = original
		})

		core(next).ServeHTTP(c.Writer, c.Request)

		if !resumed {
			c.Abort()
		}
	}
}

// ginResponseWriter lets gin's internal handlers keep calling the
// gin.ResponseWriter API while every byte actually flows through the
// interceptor's wrapped http.ResponseWriter (which defers commit until
// settlement completes).
type ginResponseWriter struct {
	gin.ResponseWriter
	target http.ResponseWriter
	status int
	size   int
}

func wrapGinWriter(ginWriter gin.ResponseWriter, target http.ResponseWriter) gin.ResponseWriter {
	return &ginResponseWriter{ResponseWriter: ginWriter, target: target}
}

func (w *ginResponseWriter) Header() http.Header {
	return w.target.Header()
}

func (w *ginResponseWriter) Write(data []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.target.Write(data)
	w.size += n
	return n, err
}

func (w *ginResponseWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

func (w *ginResponseWriter) WriteHeader(statusCode int) {
	if w.status != 0 {
		return
	}
	w.status = statusCode
	w.target.WriteHeader(statusCode)
}

func (w *ginResponseWriter) WriteHeaderNow() {
	w.WriteHeader(http.StatusOK)
}

// Status reports the status code this writer has committed, falling back to
// the embedded gin.ResponseWriter only before any write has happened here.
func (w *ginResponseWriter) Status() int {
	if w.status != 0 {
		return w.status
	}
	return w.ResponseWriter.Status()
}

// Size reports the bytes written through this writer.
func (w *ginResponseWriter) Size() int {
	return w.size
}

// Written reports whether this writer has committed a status code.
func (w *ginResponseWriter) Written() bool {
	return w.status != 0
}

func (w *ginResponseWriter) Flush() {
	if flusher, ok := w.target.(http.Flusher); ok {
		flusher.Flush()
	}
}

func (w *ginResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hijacker, ok := w.target.(http.Hijacker); ok {
		return hijacker.Hijack()
	}
	return w.ResponseWriter.Hijack()
}

func (w *ginResponseWriter) Pusher() http.Pusher {
	if pusher, ok := w.target.(http.Pusher); ok {
		return pusher
	}
	return nil
}
