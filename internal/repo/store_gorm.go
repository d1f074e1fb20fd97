package repo

import (
	"errors"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"discord-offices/internal/domain"
)

// GormStore 关系型后端；外键拒绝悬空的 owner/user 引用
type GormStore struct{ db *gorm.DB }

var _ domain.Store = (*GormStore)(nil)

func NewGormStore(db *gorm.DB) *GormStore { return &GormStore{db: db} }

// mapErr 把 gorm 错误翻译成领域错误；notFound 用于记录缺失或外键失败
func mapErr(err error, notFound error, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, gorm.ErrForeignKeyViolated):
		return notFound
	case errors.Is(err, gorm.ErrDuplicatedKey), isDupKey(err):
		return domain.ErrConflict
	case isFKViolation(err):
		return notFound
	}
	return pkgerrors.Wrap(err, op)
}

// 驱动未开启 TranslateError 时的兜底
func isDupKey(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation")
}

func isFKViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "foreign key")
}
