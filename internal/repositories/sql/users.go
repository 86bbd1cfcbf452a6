package sql

import (
	"context"

	"github.com/fsdevblog/shortkeep/internal/models"
	"github.com/fsdevblog/shortkeep/internal/repositories"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type UsersRepo struct {
	db     *gorm.DB
	logger *logrus.Entry
}

func NewUsersRepo(db *gorm.DB, logger *logrus.Logger) *UsersRepo {
	return &UsersRepo{
		db:     db,
		logger: logger.WithField("module", "repository/sql/users"),
	}
}

func (r *UsersRepo) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		convErr := convertErrorType(err)
		if errors.Is(convErr, repositories.ErrUnknown) {
			r.logger.WithError(err).Errorf("failed to create user %s", user.Email)
		}
		return convErr
	}
	return nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		convErr := convertErrorType(err)
		if errors.Is(convErr, repositories.ErrUnknown) {
			r.logger.WithError(err).Errorf("failed to get user %d", id)
		}
		return nil, convErr
	}
	return &user, nil
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		convErr := convertErrorType(err)
		if errors.Is(convErr, repositories.ErrUnknown) {
			r.logger.WithError(err).Errorf("failed to get user by email %s", email)
		}
		return nil, convErr
	}
	return &user, nil
}

func (r *UsersRepo) Update(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		convErr := convertErrorType(err)
		if errors.Is(convErr, repositories.ErrUnknown) {
			r.logger.WithError(err).Errorf("failed to update user %d", user.ID)
		}
		return convErr
	}
	return nil
}

func (r *UsersRepo) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.User{}, id).Error; err != nil {
		r.logger.WithError(err).Errorf("failed to delete user %d", id)
		return repositories.ErrUnknown
	}
	return nil
}

func (r *UsersRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		r.logger.WithError(err).Error("failed to count users")
		return 0, repositories.ErrUnknown
	}
	return count, nil
}
