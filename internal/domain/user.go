package domain

import (
	"context"
	"time"

	"github.com/bintangmada/user-management/internal/query"
)

// User 软删除用 Deleted 标记列，不用 gorm.DeletedAt：
// GetByID/List 仍要能看到已删行，email 也允许被新用户复用
type User struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"size:64;not null" json:"name"`
	Email     string    `gorm:"size:191;not null;index" json:"email"`
	Deleted   bool      `gorm:"not null;default:false" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (User) TableName() string { return "users" }

type UserRepository interface {
	FindByID(ctx context.Context, id uint64) (*User, error)
	// ExistsByEmail 只统计未删除的行（email 唯一性的口径）
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByEmailExcludingID(ctx context.Context, email string, id uint64) (bool, error)
	// Save 无 ID 则插入（store 分配自增 ID），有 ID 则整行更新
	Save(ctx context.Context, u *User) error
	FindAllPaged(ctx context.Context, req PageRequest) ([]User, int64, error)
	FindMatchingPaged(ctx context.Context, pred query.Pred, req PageRequest) ([]User, int64, error)
	// InTx 检查+写入必须在同一事务里观察（并发 create 同邮箱只能成功一个）
	InTx(ctx context.Context, fn func(tx UserRepository) error) error
}
