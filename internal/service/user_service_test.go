package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bintangmada/user-management/internal/domain"
	"github.com/bintangmada/user-management/internal/repo"
	"github.com/bintangmada/user-management/internal/service"
)

func newService() (*service.UserService, *repo.MemoryUserRepo) {
	store := repo.NewMemoryUserRepo()
	return service.NewUserService(store, zap.NewNop()), store
}

func page(n, size int) domain.PageRequest {
	return domain.PageRequest{Page: n, Size: size}
}

func TestCreate_Success(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	u, err := svc.Create(ctx, "Bintang", "bintang@mail.com")
	require.NoError(t, err)
	require.NotZero(t, u.ID)
	require.Equal(t, "Bintang", u.Name)
	require.Equal(t, "bintang@mail.com", u.Email)
	require.False(t, u.Deleted)

	u2, err := svc.Create(ctx, "Other", "other@mail.com")
	require.NoError(t, err)
	require.NotEqual(t, u.ID, u2.ID)
}

func TestCreate_DuplicateEmail(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	_, err := svc.Create(ctx, "Bintang", "bintang@mail.com")
	require.NoError(t, err)

	_, err = svc.Create(ctx, "Impostor", "bintang@mail.com")
	var dup domain.DuplicateError
	require.ErrorAs(t, err, &dup)
	require.Equal(t, "email", dup.Field)
	require.Equal(t, "email already exists", dup.Message)

	// 失败的 create 不能留下任何写入
	list, err := svc.List(ctx, page(1, 10))
	require.NoError(t, err)
	require.EqualValues(t, 1, list.Total)
}

func TestCreate_ReusesEmailOfDeletedUser(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	a, err := svc.Create(ctx, "A", "a@mail.com")
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, a.ID))

	// 已删用户不挡 email 复用
	b, err := svc.Create(ctx, "B", "a@mail.com")
	require.NoError(t, err)
	require.NotEqual(t, a.ID, b.ID)
}

func TestCreate_ConcurrentSameEmail(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	const n = 16
	results := make([]error, n)
	var g errgroup.Group
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			_, err := svc.Create(ctx, "Race", "race@mail.com")
			results[i] = err
			return nil
		})
	}
	require.NoError(t, g.Wait())

	var ok, dups int
	for _, err := range results {
		switch {
		case err == nil:
			ok++
		default:
			var dup domain.DuplicateError
			require.ErrorAs(t, err, &dup)
			dups++
		}
	}
	require.Equal(t, 1, ok, "exactly one concurrent create may win")
	require.Equal(t, n-1, dups)

	list, err := svc.List(ctx, page(1, 100))
	require.NoError(t, err)
	require.EqualValues(t, 1, list.Total, "no double insert")
}

func TestGetByID_NotFound(t *testing.T) {
	svc, _ := newService()

	_, err := svc.GetByID(context.Background(), 42)
	var nf domain.NotFoundError
	require.ErrorAs(t, err, &nf)
	require.Equal(t, "User", nf.Resource)
	require.Equal(t, "id", nf.Field)
	require.EqualValues(t, 42, nf.Value)
}

func TestGetByID_ReturnsSoftDeletedRow(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	u, err := svc.Create(ctx, "Gone", "gone@mail.com")
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, u.ID))

	// 直查不过滤软删行（和 Search 刻意不同）
	got, err := svc.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, got.Deleted)
	require.Equal(t, "gone@mail.com", got.Email)
}

func TestUpdate_Success(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	u, err := svc.Create(ctx, "Ann", "ann@x.com")
	require.NoError(t, err)

	up, err := svc.Update(ctx, u.ID, "Ann2", "ann2@x.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, up.ID)
	require.Equal(t, "Ann2", up.Name)
	require.Equal(t, "ann2@x.com", up.Email)
}

func TestUpdate_NotFound(t *testing.T) {
	svc, _ := newService()

	_, err := svc.Update(context.Background(), 7, "X", "x@mail.com")
	var nf domain.NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestUpdate_DuplicateEmailLeavesRecordUntouched(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	a, err := svc.Create(ctx, "A", "a@mail.com")
	require.NoError(t, err)
	b, err := svc.Create(ctx, "B", "b@mail.com")
	require.NoError(t, err)

	_, err = svc.Update(ctx, b.ID, "B2", a.Email)
	var dup domain.DuplicateError
	require.ErrorAs(t, err, &dup)

	// 回滚后 b 原样
	got, err := svc.GetByID(ctx, b.ID)
	require.NoError(t, err)
	require.Equal(t, "B", got.Name)
	require.Equal(t, "b@mail.com", got.Email)
}

func TestUpdate_SameEmailOnSelf(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	u, err := svc.Create(ctx, "Ann", "ann@x.com")
	require.NoError(t, err)

	// 排除自身的重复检查不能把自己算成冲突
	up, err := svc.Update(ctx, u.ID, "Annie", u.Email)
	require.NoError(t, err)
	require.Equal(t, "Annie", up.Name)
	require.Equal(t, "ann@x.com", up.Email)
}

func TestDelete_Idempotent(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	u, err := svc.Create(ctx, "Ann", "ann@x.com")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, u.ID))
	require.NoError(t, svc.Delete(ctx, u.ID), "deleting an already-deleted id succeeds")

	got, err := svc.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, got.Deleted)
	require.Equal(t, "Ann", got.Name)
	require.Equal(t, "ann@x.com", got.Email)
}

func TestDelete_NotFound(t *testing.T) {
	svc, _ := newService()

	err := svc.Delete(context.Background(), 99)
	var nf domain.NotFoundError
	require.ErrorAs(t, err, &nf)
}

func strp(s string) *string { return &s }

func TestSearch_NeverReturnsDeleted(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	kept, err := svc.Create(ctx, "Bob Keep", "keep@mail.com")
	require.NoError(t, err)
	goneBob, err := svc.Create(ctx, "Bob Gone", "gone@mail.com")
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, goneBob.ID))

	res, err := svc.Search(ctx, strp("bob"), nil, page(1, 10))
	require.NoError(t, err)
	require.EqualValues(t, 1, res.Total)
	require.Equal(t, kept.ID, res.Items[0].ID)
}

func TestSearch_CaseInsensitive(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	_, err := svc.Create(ctx, "Bob Marley", "bob@mail.com")
	require.NoError(t, err)

	lower, err := svc.Search(ctx, strp("bob"), nil, page(1, 10))
	require.NoError(t, err)
	upper, err := svc.Search(ctx, strp("BOB"), nil, page(1, 10))
	require.NoError(t, err)
	require.Equal(t, lower.Items, upper.Items)
	require.EqualValues(t, 1, lower.Total)
}

func TestSearch_ByEmailFilter(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	_, err := svc.Create(ctx, "A", "a@corp.io")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "B", "b@mail.com")
	require.NoError(t, err)

	res, err := svc.Search(ctx, nil, strp("CORP.IO"), page(1, 10))
	require.NoError(t, err)
	require.EqualValues(t, 1, res.Total)
	require.Equal(t, "a@corp.io", res.Items[0].Email)
}

func TestList_IncludesDeletedAndPaginates(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	for _, e := range []string{"a@m.io", "b@m.io", "c@m.io"} {
		_, err := svc.Create(ctx, "U "+e, e)
		require.NoError(t, err)
	}
	require.NoError(t, svc.Delete(ctx, 2))

	// list 不过滤软删行，分页走 store
	res, err := svc.List(ctx, page(1, 2))
	require.NoError(t, err)
	require.EqualValues(t, 3, res.Total)
	require.Equal(t, 2, res.TotalPages)
	require.Len(t, res.Items, 2)
	// 默认 id 升序
	require.EqualValues(t, 1, res.Items[0].ID)
	require.EqualValues(t, 2, res.Items[1].ID)

	res2, err := svc.List(ctx, page(2, 2))
	require.NoError(t, err)
	require.Len(t, res2.Items, 1)
	require.EqualValues(t, 3, res2.Items[0].ID)
}

func TestList_SortWhitelistFallsBackToID(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	_, err := svc.Create(ctx, "Z", "z@m.io")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "A", "a@m.io")
	require.NoError(t, err)

	res, err := svc.List(ctx, domain.PageRequest{Page: 1, Size: 10, Sort: "password; DROP TABLE users"})
	require.NoError(t, err)
	require.EqualValues(t, 1, res.Items[0].ID)

	byName, err := svc.List(ctx, domain.PageRequest{Page: 1, Size: 10, Sort: "name"})
	require.NoError(t, err)
	require.Equal(t, "A", byName.Items[0].Name)
}
