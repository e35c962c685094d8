package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/leetcoach-backend/internal/observability"
	"github.com/yungbote/leetcoach-backend/internal/platform/ctxutil"
)

const (
	headerTraceID   = "X-Trace-Id"
	headerRequestID = "X-Request-Id"

	internalRoutePrefix = "/api/internal"
)

// AttachTraceContext assigns request and trace ids, echoes them as response
// headers and, once the handler chain has run, tags the active span with the
// caller the auth middleware resolved.
func AttachTraceContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := strings.TrimSpace(c.GetHeader(headerRequestID))
		if reqID == "" {
			reqID = uuid.New().String()
		}
		span := trace.SpanFromContext(c.Request.Context())
		traceID := ""
		if sc := span.SpanContext(); sc.HasTraceID() {
			traceID = sc.TraceID().String()
		}
		if traceID == "" {
			traceID = strings.TrimSpace(c.GetHeader(headerTraceID))
		}
		if traceID == "" {
			traceID = uuid.New().String()
		}

		ctx := ctxutil.WithTraceData(c.Request.Context(), &ctxutil.TraceData{TraceID: traceID, RequestID: reqID})
		c.Request = c.Request.WithContext(ctx)
		c.Set("trace_id", traceID)
		c.Set("request_id", reqID)
		c.Writer.Header().Set(headerTraceID, traceID)
		c.Writer.Header().Set(headerRequestID, reqID)

		c.Next()

		if !span.IsRecording() {
			return
		}
		span.SetAttributes(
			observability.AttrRequestID.String(reqID),
			observability.AttrCaller.String(callerOf(c)),
		)
		if userID := ctxutil.UserID(c.Request.Context()); userID != uuid.Nil {
			span.SetAttributes(observability.AttrUserID.String(userID.String()))
		}
	}
}

// callerOf classifies a finished request as user, cron or anonymous.
func callerOf(c *gin.Context) string {
	if ctxutil.UserID(c.Request.Context()) != uuid.Nil {
		return "user"
	}
	if strings.HasPrefix(c.FullPath(), internalRoutePrefix) {
		return "cron"
	}
	return "anonymous"
}
