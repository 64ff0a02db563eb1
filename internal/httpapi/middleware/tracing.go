package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/opentracing-contrib/go-stdlib/nethttp"
	"github.com/opentracing/opentracing-go"
)

// Tracing starts a server span per request using the global opentracing tracer
func Tracing() gin.HandlerFunc {
	return func(c *gin.Context) {
		handler := nethttp.MiddlewareFunc(opentracing.GlobalTracer(),
			func(w http.ResponseWriter, r *http.Request) {
				c.Request = r
				c.Next()
				// gin writes through c.Writer, so report the final status to the span wrapper
				w.WriteHeader(c.Writer.Status())
			},
			nethttp.OperationNameFunc(func(r *http.Request) string {
				return "HTTP " + r.Method + " " + c.FullPath()
			}),
		)
		handler(c.Writer, c.Request)
	}
}
