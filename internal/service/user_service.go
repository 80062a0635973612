package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/bintangmada/user-management/internal/domain"
	"github.com/bintangmada/user-management/internal/query"
)

// UserService 业务规则的唯一判定点：重复邮箱、存在性、软删除。
// HTTP 语义一概不进这里，失败只返回 domain 的错误值。
type UserService struct {
	repo domain.UserRepository
	log  *zap.Logger
}

func NewUserService(repo domain.UserRepository, log *zap.Logger) *UserService {
	return &UserService{repo: repo, log: log}
}

func (s *UserService) Create(ctx context.Context, name, email string) (*domain.User, error) {
	s.log.Info("creating user", zap.String("email", email))

	var created *domain.User
	err := s.repo.InTx(ctx, func(tx domain.UserRepository) error {
		taken, err := tx.ExistsByEmail(ctx, email)
		if err != nil {
			return err
		}
		if taken {
			return domain.DuplicateEmail()
		}
		u := &domain.User{Name: name, Email: email}
		if err := tx.Save(ctx, u); err != nil {
			// 应用层检查关不死的窗口：底层唯一冲突同样按重复处理
			if isDupKey(err) {
				return domain.DuplicateEmail()
			}
			return err
		}
		created = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("user created", zap.Uint64("id", created.ID), zap.String("email", created.Email))
	return created, nil
}

func (s *UserService) GetByID(ctx context.Context, id uint64) (*domain.User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// 直查不滤软删行（和 Search 刻意不同，维持原有行为）
	if u == nil {
		return nil, domain.UserNotFound(id)
	}
	return u, nil
}

func (s *UserService) List(ctx context.Context, req domain.PageRequest) (domain.Page[domain.User], error) {
	req = req.Normalized()
	s.log.Info("listing users", zap.Int("page", req.Page), zap.Int("size", req.Size))

	users, total, err := s.repo.FindAllPaged(ctx, req)
	if err != nil {
		return domain.Page[domain.User]{}, err
	}
	return domain.NewPage(users, total, req), nil
}

func (s *UserService) Search(ctx context.Context, name, email *string, req domain.PageRequest) (domain.Page[domain.User], error) {
	req = req.Normalized()
	s.log.Info("searching users",
		zap.Stringp("name", name), zap.Stringp("email", email),
		zap.Int("page", req.Page), zap.Int("size", req.Size))

	users, total, err := s.repo.FindMatchingPaged(ctx, query.UserFilter(name, email), req)
	if err != nil {
		return domain.Page[domain.User]{}, err
	}
	return domain.NewPage(users, total, req), nil
}

func (s *UserService) Update(ctx context.Context, id uint64, name, email string) (*domain.User, error) {
	s.log.Info("updating user", zap.Uint64("id", id))

	var updated *domain.User
	err := s.repo.InTx(ctx, func(tx domain.UserRepository) error {
		u, err := tx.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if u == nil {
			return domain.UserNotFound(id)
		}
		taken, err := tx.ExistsByEmailExcludingID(ctx, email, id)
		if err != nil {
			return err
		}
		if taken {
			return domain.DuplicateEmail()
		}
		u.Name = name
		u.Email = email
		if err := tx.Save(ctx, u); err != nil {
			if isDupKey(err) {
				return domain.DuplicateEmail()
			}
			return err
		}
		updated = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("user updated", zap.Uint64("id", updated.ID), zap.String("email", updated.Email))
	return updated, nil
}

// Delete 软删除：只翻 Deleted 标记，不删行。
// 对已删行再次调用照样成功（存在性检查只看行，不看标记）。
func (s *UserService) Delete(ctx context.Context, id uint64) error {
	s.log.Info("deleting user", zap.Uint64("id", id))

	err := s.repo.InTx(ctx, func(tx domain.UserRepository) error {
		u, err := tx.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if u == nil {
			return domain.UserNotFound(id)
		}
		u.Deleted = true
		return tx.Save(ctx, u)
	})
	if err != nil {
		return err
	}

	s.log.Info("user soft-deleted", zap.Uint64("id", id))
	return nil
}

// 不依赖 gorm.ErrDuplicatedKey，避免驱动/版本差异
func isDupKey(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation") ||
		strings.Contains(msg, "duplicate key")
}
