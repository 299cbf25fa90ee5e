package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/model"
)

// UserRepository user data access.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	// LockByID takes a row lock on the user. The engine locks the acting
	// worker first so that all of one worker's transitions run one at a time.
	LockByID(ctx context.Context, id string) (*model.User, error)
	ListByIDs(ctx context.Context, ids []string) ([]model.User, error)
	List(ctx context.Context, role string, page Page) ([]model.User, int64, error)
	SetActive(ctx context.Context, id string, active bool, updatedBy string) error
	CountByRole(ctx context.Context, role string, activeOnly bool) (int64, error)
}

type userRepo struct {
	db *gorm.DB
}

// NewUserRepo creates a UserRepository.
func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("user_id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) LockByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := forUpdate(r.db.WithContext(ctx)).
		Where("user_id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) ListByIDs(ctx context.Context, ids []string) ([]model.User, error) {
	var users []model.User
	if len(ids) == 0 {
		return users, nil
	}
	err := r.db.WithContext(ctx).Where("user_id IN ?", ids).Find(&users).Error
	return users, err
}

func (r *userRepo) List(ctx context.Context, role string, page Page) ([]model.User, int64, error) {
	var users []model.User
	var total int64

	db := r.db.WithContext(ctx).Model(&model.User{})
	if role != "" {
		db = db.Where("role = ?", role)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := page.apply(db).Order("full_name ASC").Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *userRepo) SetActive(ctx context.Context, id string, active bool, updatedBy string) error {
	result := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("user_id = ?", id).
		Updates(map[string]interface{}{
			"is_active":  active,
			"updated_by": updatedBy,
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepo) CountByRole(ctx context.Context, role string, activeOnly bool) (int64, error) {
	var n int64
	db := r.db.WithContext(ctx).Model(&model.User{}).Where("role = ?", role)
	if activeOnly {
		db = db.Where("is_active = ?", true)
	}
	err := db.Count(&n).Error
	return n, err
}
