package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/99minutos/auth-system/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub repository
// ---------------------------------------------------------------------------

type stubProductRepo struct {
	byID      map[int64]*domain.Product
	nextID    int64
	createErr error // if set, Create returns this error
	listErr   error // if set, ListByUser and FindByID return this error
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{byID: make(map[int64]*domain.Product)}
}

func (r *stubProductRepo) Create(_ context.Context, p *domain.Product) (*domain.Product, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.nextID++
	clone := *p
	clone.ID = r.nextID
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

// ListByUser mirrors the real query: WHERE user_id = $1 ORDER BY id.
func (r *stubProductRepo) ListByUser(_ context.Context, userID int64) ([]*domain.Product, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []*domain.Product
	for _, p := range r.byID {
		if p.UserID == userID {
			clone := *p
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubProductRepo) FindByID(_ context.Context, userID, productID int64) (*domain.Product, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	p, ok := r.byID[productID]
	if !ok || p.UserID != userID {
		return nil, domain.ErrProductNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubProductRepo) Ping(context.Context) error { return nil }

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestProductService_CreateAndListScopedByUser(t *testing.T) {
	repo := newStubProductRepo()
	svc := NewProductService(repo, zerolog.Nop())
	ctx := context.Background()

	for _, name := range []string{"apple", "banana"} {
		if _, err := svc.Create(ctx, 1, name); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}
	if _, err := svc.Create(ctx, 2, "bob's widget"); err != nil {
		t.Fatalf("create: %v", err)
	}

	alice, err := svc.List(ctx, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(alice) != 2 || alice[0].Name != "apple" || alice[1].Name != "banana" {
		t.Fatalf("unexpected products for user 1: %+v", alice)
	}
	for _, p := range alice {
		if p.UserID != 1 {
			t.Fatalf("leaked product of user %d", p.UserID)
		}
	}
}

func TestProductService_ListEmpty(t *testing.T) {
	svc := NewProductService(newStubProductRepo(), zerolog.Nop())

	got, err := svc.List(context.Background(), 99)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestProductService_Create_Validation(t *testing.T) {
	repo := newStubProductRepo()
	svc := NewProductService(repo, zerolog.Nop())

	long := make([]byte, maxProductNameLen+1)
	for i := range long {
		long[i] = 'x'
	}
	for _, name := range []string{"", "   ", string(long)} {
		if _, err := svc.Create(context.Background(), 1, name); !errors.Is(err, domain.ErrInvalidRequest) {
			t.Fatalf("Create(%q): expected ErrInvalidRequest, got %v", name, err)
		}
	}
	if len(repo.byID) != 0 {
		t.Fatalf("nothing should be stored")
	}
}

func TestProductService_Create_LimitCountsCharacters(t *testing.T) {
	svc := NewProductService(newStubProductRepo(), zerolog.Nop())

	// 200 two-byte characters: 400 bytes, still within the limit.
	atLimit := strings.Repeat("é", maxProductNameLen)
	p, err := svc.Create(context.Background(), 1, atLimit)
	if err != nil {
		t.Fatalf("Create with %d multibyte characters: %v", maxProductNameLen, err)
	}
	if p.Name != atLimit {
		t.Fatalf("name altered: %q", p.Name)
	}

	if _, err := svc.Create(context.Background(), 1, atLimit+"é"); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest past the limit, got %v", err)
	}
}

func TestProductService_Create_TrimsName(t *testing.T) {
	svc := NewProductService(newStubProductRepo(), zerolog.Nop())

	p, err := svc.Create(context.Background(), 1, "  lamp ")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.Name != "lamp" || p.UserID != 1 || p.ID == 0 || p.CreatedAt.IsZero() {
		t.Fatalf("unexpected product: %+v", p)
	}
}

func TestProductService_StoreFailures(t *testing.T) {
	repo := newStubProductRepo()
	repo.createErr = errors.New("pq: connection reset")
	repo.listErr = errors.New("pq: connection reset")
	svc := NewProductService(repo, zerolog.Nop())

	if _, err := svc.Create(context.Background(), 1, "x"); !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("create: expected ErrStoreUnavailable, got %v", err)
	}
	if _, err := svc.List(context.Background(), 1); !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("list: expected ErrStoreUnavailable, got %v", err)
	}
	if _, err := svc.Get(context.Background(), 1, 1); !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("get: expected ErrStoreUnavailable, got %v", err)
	}
}

func TestProductService_Get_OtherUsersProductHidden(t *testing.T) {
	repo := newStubProductRepo()
	svc := NewProductService(repo, zerolog.Nop())

	p, _ := svc.Create(context.Background(), 1, "private")

	got, err := svc.Get(context.Background(), 1, p.ID)
	if err != nil || got.ID != p.ID {
		t.Fatalf("owner get: %+v %v", got, err)
	}
	if _, err := svc.Get(context.Background(), 2, p.ID); err != domain.ErrProductNotFound {
		t.Fatalf("expected ErrProductNotFound for other user, got %v", err)
	}
	if _, err := svc.Get(context.Background(), 1, 0); err != domain.ErrProductNotFound {
		t.Fatalf("expected ErrProductNotFound for id 0, got %v", err)
	}
}
