package middleware

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Tracing returns otelgin followed by a handler that tags the server span
// with the request ID. Register it after RequestID.
func Tracing(serviceName string) gin.HandlersChain {
	return gin.HandlersChain{
		otelgin.Middleware(serviceName),
		func(c *gin.Context) {
			span := trace.SpanFromContext(c.Request.Context())
			if id := GetRequestID(c); id != "" && span.IsRecording() {
				span.SetAttributes(attribute.String("http.request_id", id))
			}
			c.Next()
		},
	}
}
