package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/99minutos/auth-system/internal/core/domain"
)

// AuditRepository writes authentication events to auth_events.
type AuditRepository struct {
	db *sql.DB
}

func NewAuditRepository(db *sql.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) InsertEvent(ctx context.Context, e *domain.AuthEvent) error {
	query := `INSERT INTO auth_events (id, kind, username, user_id, remote_ip, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	userID := sql.NullInt64{Int64: e.UserID, Valid: e.UserID != 0}
	if _, err := r.db.ExecContext(ctx, query, e.ID, string(e.Kind), e.Username, userID, e.RemoteIP, e.At); err != nil {
		return fmt.Errorf("insert auth event: %w", err)
	}
	return nil
}
