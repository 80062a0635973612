package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bintangmada/user-management/internal/domain"
	"github.com/bintangmada/user-management/internal/query"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

var _ domain.UserRepository = (*UserRepo)(nil)

func (r *UserRepo) FindByID(ctx context.Context, id uint64) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("email = ? AND deleted = ?", email, false).
		Count(&n).Error
	return n > 0, err
}

func (r *UserRepo) ExistsByEmailExcludingID(ctx context.Context, email string, id uint64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("email = ? AND deleted = ? AND id <> ?", email, false, id).
		Count(&n).Error
	return n > 0, err
}

func (r *UserRepo) Save(ctx context.Context, u *domain.User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *UserRepo) FindAllPaged(ctx context.Context, req domain.PageRequest) ([]domain.User, int64, error) {
	return paged(r.db.WithContext(ctx).Model(&domain.User{}), req)
}

func (r *UserRepo) FindMatchingPaged(ctx context.Context, pred query.Pred, req domain.PageRequest) ([]domain.User, int64, error) {
	where, args := query.ToSQL(pred)
	tx := r.db.WithContext(ctx).Model(&domain.User{}).Where(where, args...)
	return paged(tx, req)
}

// paged 先 Count 再按白名单列排序取一页
func paged(tx *gorm.DB, req domain.PageRequest) ([]domain.User, int64, error) {
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var users []domain.User
	order := clause.OrderByColumn{Column: clause.Column{Name: req.SortColumn()}, Desc: req.Desc}
	if err := tx.Order(order).Limit(req.Size).Offset(req.Offset()).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// InTx 检查+写入包在一个事务里；fn 返回错误则整体回滚
func (r *UserRepo) InTx(ctx context.Context, fn func(tx domain.UserRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&UserRepo{db: tx})
	})
}
