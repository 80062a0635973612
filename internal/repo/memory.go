package repo

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bintangmada/user-management/internal/domain"
	"github.com/bintangmada/user-management/internal/query"
)

// MemoryUserRepo 测试用仓储。互斥锁把事务串行化，
// 语义上等价于关系库的单写事务（InTx 失败时整体回滚快照）。
type MemoryUserRepo struct {
	mu    sync.Mutex
	seq   uint64
	users map[uint64]domain.User
}

func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{users: make(map[uint64]domain.User)}
}

var _ domain.UserRepository = (*MemoryUserRepo)(nil)

func (r *MemoryUserRepo) FindByID(ctx context.Context, id uint64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return (&memTx{r}).FindByID(ctx, id)
}

func (r *MemoryUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return (&memTx{r}).ExistsByEmail(ctx, email)
}

func (r *MemoryUserRepo) ExistsByEmailExcludingID(ctx context.Context, email string, id uint64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return (&memTx{r}).ExistsByEmailExcludingID(ctx, email, id)
}

func (r *MemoryUserRepo) Save(ctx context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return (&memTx{r}).Save(ctx, u)
}

func (r *MemoryUserRepo) FindAllPaged(ctx context.Context, req domain.PageRequest) ([]domain.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return (&memTx{r}).FindAllPaged(ctx, req)
}

func (r *MemoryUserRepo) FindMatchingPaged(ctx context.Context, pred query.Pred, req domain.PageRequest) ([]domain.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return (&memTx{r}).FindMatchingPaged(ctx, pred, req)
}

func (r *MemoryUserRepo) InTx(_ context.Context, fn func(tx domain.UserRepository) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	snapshot := make(map[uint64]domain.User, len(r.users))
	for id, u := range r.users {
		snapshot[id] = u
	}
	seq := r.seq
	if err := fn(&memTx{r}); err != nil {
		r.users = snapshot
		r.seq = seq
		return err
	}
	return nil
}

// memTx 已持锁视图；嵌套 InTx 直接复用当前事务
type memTx struct{ r *MemoryUserRepo }

func (t *memTx) FindByID(_ context.Context, id uint64) (*domain.User, error) {
	if u, ok := t.r.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (t *memTx) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, u := range t.r.users {
		if !u.Deleted && u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (t *memTx) ExistsByEmailExcludingID(_ context.Context, email string, id uint64) (bool, error) {
	for _, u := range t.r.users {
		if !u.Deleted && u.ID != id && u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (t *memTx) Save(_ context.Context, u *domain.User) error {
	now := time.Now()
	if u.ID == 0 {
		t.r.seq++
		u.ID = t.r.seq
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	t.r.users[u.ID] = *u
	return nil
}

func (t *memTx) FindAllPaged(_ context.Context, req domain.PageRequest) ([]domain.User, int64, error) {
	return slice(t.all(), req)
}

func (t *memTx) FindMatchingPaged(_ context.Context, pred query.Pred, req domain.PageRequest) ([]domain.User, int64, error) {
	var matched []domain.User
	for _, u := range t.all() {
		if query.Matches(pred, fieldOf(u)) {
			matched = append(matched, u)
		}
	}
	return slice(matched, req)
}

func (t *memTx) InTx(_ context.Context, fn func(tx domain.UserRepository) error) error {
	return fn(t)
}

func (t *memTx) all() []domain.User {
	out := make([]domain.User, 0, len(t.r.users))
	for _, u := range t.r.users {
		out = append(out, u)
	}
	return out
}

func fieldOf(u domain.User) func(string) any {
	return func(field string) any {
		switch field {
		case "deleted":
			return u.Deleted
		case "name":
			return u.Name
		case "email":
			return u.Email
		default:
			return nil
		}
	}
}

func slice(users []domain.User, req domain.PageRequest) ([]domain.User, int64, error) {
	sortUsers(users, req)
	total := int64(len(users))
	lo := req.Offset()
	if lo > len(users) {
		lo = len(users)
	}
	hi := lo + req.Size
	if hi > len(users) {
		hi = len(users)
	}
	return users[lo:hi], total, nil
}

func sortUsers(users []domain.User, req domain.PageRequest) {
	col := req.SortColumn()
	sort.SliceStable(users, func(i, j int) bool {
		a, b := users[i], users[j]
		if req.Desc {
			a, b = b, a
		}
		switch col {
		case "name":
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		case "email":
			return strings.ToLower(a.Email) < strings.ToLower(b.Email)
		case "created_at":
			return a.CreatedAt.Before(b.CreatedAt)
		default:
			return a.ID < b.ID
		}
	})
}
