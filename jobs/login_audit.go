package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LoginAuditWriter persists login events from the queue. Auditing runs off
// the request path so a slow insert never delays a login response.
type LoginAuditWriter struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewLoginAuditWriter constructs a writer.
func NewLoginAuditWriter(pool *pgxpool.Pool, logger *slog.Logger) *LoginAuditWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoginAuditWriter{pool: pool, logger: logger}
}

// Handle processes TaskTypeLoginAudit tasks.
func (w *LoginAuditWriter) Handle(ctx context.Context, t *asynq.Task) error {
	var payload LoginAuditPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		w.logger.Error("login audit payload corrupt", slog.Any("error", err))
		return asynq.SkipRetry
	}
	_, err := w.pool.Exec(ctx, `
		INSERT INTO login_audit (user_id, username, ip, user_agent, logged_in_at)
		VALUES ($1, $2, $3, $4, $5)`,
		payload.UserID, payload.Username, payload.IP, payload.UserAgent, payload.At)
	if err != nil {
		return err
	}
	w.logger.Info("login recorded",
		slog.Int64("user_id", payload.UserID),
		slog.String("username", payload.Username))
	return nil
}
