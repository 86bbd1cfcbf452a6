package smocks

import (
	"context"

	"github.com/fsdevblog/shortkeep/internal/models"
	"github.com/fsdevblog/shortkeep/internal/services"
	"github.com/stretchr/testify/mock"
)

type UsersMock struct {
	mock.Mock
}

func (u *UsersMock) SignUp(ctx context.Context, name, email, password string) (*models.User, error) {
	args := u.Called(ctx, name, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1) //nolint:wrapcheck,errcheck
	}
	return args.Get(0).(*models.User), args.Error(1) //nolint:wrapcheck,errcheck
}

func (u *UsersMock) Login(ctx context.Context, email, password string) (*models.User, error) {
	args := u.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1) //nolint:wrapcheck,errcheck
	}
	return args.Get(0).(*models.User), args.Error(1) //nolint:wrapcheck,errcheck
}

func (u *UsersMock) Get(ctx context.Context, id uint) (*models.User, error) {
	args := u.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1) //nolint:wrapcheck,errcheck
	}
	return args.Get(0).(*models.User), args.Error(1) //nolint:wrapcheck,errcheck
}

func (u *UsersMock) UpdateProfile(ctx context.Context, id uint, p services.UpdateProfileParams) (*models.User, error) {
	args := u.Called(ctx, id, p)
	if args.Get(0) == nil {
		return nil, args.Error(1) //nolint:wrapcheck,errcheck
	}
	return args.Get(0).(*models.User), args.Error(1) //nolint:wrapcheck,errcheck
}

func (u *UsersMock) ChangePassword(ctx context.Context, id uint, oldPassword, newPassword string) error {
	args := u.Called(ctx, id, oldPassword, newPassword)
	return args.Error(0) //nolint:wrapcheck,errcheck
}

func (u *UsersMock) DeleteAccount(ctx context.Context, id uint) error {
	args := u.Called(ctx, id)
	return args.Error(0) //nolint:wrapcheck,errcheck
}
