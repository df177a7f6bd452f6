package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/99minutos/auth-system/internal/core/domain"
)

const authEventsCollection = "auth_events"

// AuditRepository writes authentication events to the auth_events collection.
type AuditRepository struct {
	col *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{col: db.Collection(authEventsCollection)}
}

func (r *AuditRepository) InsertEvent(ctx context.Context, e *domain.AuthEvent) error {
	doc := bson.M{
		"_id":         e.ID,
		"kind":        string(e.Kind),
		"username":    e.Username,
		"remote_ip":   e.RemoteIP,
		"occurred_at": e.At.UTC(),
	}
	if e.UserID != 0 {
		doc["user_id"] = e.UserID
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert auth event: %w", err)
	}
	return nil
}
