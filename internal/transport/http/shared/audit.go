package shared

import (
	"context"
	"log/slog"
	"net/http"

	"workforce/internal/platform/requestctx"
)

// AuditRecorder is satisfied by *audit.Service.
type AuditRecorder interface {
	Record(ctx context.Context, actorID, action, entityType, entityID, requestID, ip string, before, after any) error
}

// RecordAudit writes an audit event for the request. Failures are logged and
// never fail the request.
func RecordAudit(r *http.Request, rec AuditRecorder, actorID, action, entityType, entityID string, before, after any) {
	if rec == nil {
		return
	}
	ctx := r.Context()
	if err := rec.Record(ctx, actorID, action, entityType, entityID, requestctx.GetRequestID(ctx), ClientIP(r), before, after); err != nil {
		slog.Warn("audit "+action+" failed", "entityId", entityID, "err", err)
	}
}
