package mongo

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/99minutos/auth-system/internal/core/domain"
)

func seqResponse(seq int64) bson.D {
	return mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
		{Key: "_id", Value: "users"},
		{Key: "seq", Value: seq},
	}})
}

func TestUserRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create assigns sequential id", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(seqResponse(5), mtest.CreateSuccessResponse())

		u, err := repo.Create(context.Background(), "alice", "hash")
		if err != nil {
			mt.Fatalf("Create: %v", err)
		}
		if u.ID != 5 || u.Username != "alice" || u.Secret != "hash" {
			mt.Fatalf("unexpected user: %+v", u)
		}
	})

	mt.Run("create duplicate username", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(seqResponse(6), mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: users index: username_1",
		}))

		if _, err := repo.Create(context.Background(), "alice", "hash"); !errors.Is(err, domain.ErrDuplicateUsername) {
			mt.Fatalf("want ErrDuplicateUsername, got %v", err)
		}
	})

	mt.Run("find by username", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(1, "test.users", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: int64(5)},
			{Key: "username", Value: "alice"},
			{Key: "password", Value: "hash"},
			{Key: "created_at", Value: time.Now().UTC()},
		}))

		u, err := repo.FindByUsername(context.Background(), "alice")
		if err != nil {
			mt.Fatalf("FindByUsername: %v", err)
		}
		if u.ID != 5 || u.Secret != "hash" {
			mt.Fatalf("unexpected user: %+v", u)
		}
	})

	mt.Run("find unknown username", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.users", mtest.FirstBatch))

		if _, err := repo.FindByUsername(context.Background(), "ghost"); !errors.Is(err, domain.ErrUserNotFound) {
			mt.Fatalf("want ErrUserNotFound, got %v", err)
		}
	})
}

func TestProductRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create", func(mt *mtest.T) {
		repo := NewProductRepository(mt.DB)
		mt.AddMockResponses(seqResponse(12), mtest.CreateSuccessResponse())

		p, err := repo.Create(context.Background(), &domain.Product{Name: "lamp", UserID: 3})
		if err != nil {
			mt.Fatalf("Create: %v", err)
		}
		if p.ID != 12 || p.UserID != 3 {
			mt.Fatalf("unexpected product: %+v", p)
		}
	})

	mt.Run("list by user", func(mt *mtest.T) {
		repo := NewProductRepository(mt.DB)
		first := mtest.CreateCursorResponse(1, "test.products", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: int64(1)}, {Key: "name", Value: "apple"}, {Key: "user_id", Value: int64(3)}},
			bson.D{{Key: "_id", Value: int64(2)}, {Key: "name", Value: "pear"}, {Key: "user_id", Value: int64(3)}},
		)
		end := mtest.CreateCursorResponse(0, "test.products", mtest.NextBatch)
		mt.AddMockResponses(first, end)

		got, err := repo.ListByUser(context.Background(), 3)
		if err != nil {
			mt.Fatalf("ListByUser: %v", err)
		}
		if len(got) != 2 || got[0].Name != "apple" || got[1].ID != 2 {
			mt.Fatalf("unexpected products: %+v", got)
		}
	})

	mt.Run("find by id of another user", func(mt *mtest.T) {
		repo := NewProductRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.products", mtest.FirstBatch))

		if _, err := repo.FindByID(context.Background(), 4, 1); !errors.Is(err, domain.ErrProductNotFound) {
			mt.Fatalf("want ErrProductNotFound, got %v", err)
		}
	})
}

func TestAuditRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("insert", func(mt *mtest.T) {
		repo := NewAuditRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		err := repo.InsertEvent(context.Background(), &domain.AuthEvent{
			ID: "ev-1", Kind: domain.EventLoginSucceeded, Username: "alice", UserID: 1, At: time.Now(),
		})
		if err != nil {
			mt.Fatalf("InsertEvent: %v", err)
		}
	})
}
