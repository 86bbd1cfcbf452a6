package services

import (
	"context"
	"net/mail"
	"strings"

	"github.com/fsdevblog/shortkeep/internal/models"
	"github.com/fsdevblog/shortkeep/internal/repositories"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

// UsersRepository хранилище пользователей.
type UsersRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
}

// AccountCascade шаги каскада удаления аккаунта по чужим хранилищам.
type AccountCascade interface {
	IDsByUser(ctx context.Context, userID uint) ([]uint, error)
	ShortIdentifiersByUser(ctx context.Context, userID uint) ([]string, error)
	DeleteLinksByUser(ctx context.Context, userID uint) error
	DeleteFoldersByUser(ctx context.Context, userID uint) error
	DeleteVisitsByLinkIDs(ctx context.Context, linkIDs []uint) error
}

// UpdateProfileParams частичное обновление профиля.
type UpdateProfileParams struct {
	Name  Optional[string] `json:"name"`
	Email Optional[string] `json:"email"`
}

// UsersService регистрация, аутентификация и операции над аккаунтом.
type UsersService struct {
	usersRepo  UsersRepository
	cascade    AccountCascade
	resolved   ResolvedInvalidator
	bcryptCost int
}

func NewUsersService(
	usersRepo UsersRepository,
	cascade AccountCascade,
	resolved ResolvedInvalidator,
	bcryptCost int,
) *UsersService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UsersService{
		usersRepo:  usersRepo,
		cascade:    cascade,
		resolved:   resolved,
		bcryptCost: bcryptCost,
	}
}

func (s *UsersService) SignUp(ctx context.Context, name, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidCredentials
	}
	if len(password) < 8 {
		return nil, ErrInvalidCredentials
	}

	hash, hashErr := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if hashErr != nil {
		return nil, ErrUnknown
	}

	user := models.User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleUser,
	}
	if err := s.usersRepo.Create(ctx, &user); err != nil {
		// Уникальный индекс на email — финальный арбитр занятости.
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrEmailTaken
		}
		return nil, ErrUnknown
	}
	return &user, nil
}

// Login проверяет пару email/пароль. Несуществующий email и неверный
// пароль неотличимы снаружи.
func (s *UsersService) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.usersRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *UsersService) Get(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.usersRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, ErrUnknown
	}
	return user, nil
}

func (s *UsersService) UpdateProfile(ctx context.Context, id uint, p UpdateProfileParams) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.Name.Set && p.Name.Valid && strings.TrimSpace(p.Name.Value) != "" {
		user.Name = strings.TrimSpace(p.Name.Value)
	}
	if p.Email.Set {
		if !p.Email.Valid {
			return nil, ErrInvalidCredentials
		}
		email := strings.ToLower(strings.TrimSpace(p.Email.Value))
		if _, mailErr := mail.ParseAddress(email); mailErr != nil {
			return nil, ErrInvalidCredentials
		}
		user.Email = email
	}

	if saveErr := s.usersRepo.Update(ctx, user); saveErr != nil {
		if errors.Is(saveErr, repositories.ErrDuplicateKey) {
			return nil, ErrEmailTaken
		}
		return nil, ErrUnknown
	}
	return user, nil
}

func (s *UsersService) ChangePassword(ctx context.Context, id uint, oldPassword, newPassword string) error {
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)) != nil {
		return ErrWrongPassword
	}
	if len(newPassword) < 8 {
		return ErrInvalidCredentials
	}

	hash, hashErr := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if hashErr != nil {
		return ErrUnknown
	}
	user.PasswordHash = string(hash)
	if saveErr := s.usersRepo.Update(ctx, user); saveErr != nil {
		return ErrUnknown
	}
	return nil
}

// DeleteAccount удаляет аккаунт и все его данные. Шаги идут
// последовательно без общей транзакции; каждый идемпотентен, так что
// повтор после сбоя дочищает остаток.
func (s *UsersService) DeleteAccount(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	linkIDs, idsErr := s.cascade.IDsByUser(ctx, id)
	if idsErr != nil {
		return ErrUnknown
	}
	// Идентификаторы снимаются до удаления ссылок: после него их уже не
	// прочитать, а кеш редиректов инвалидируется по идентификатору.
	identifiers, shortErr := s.cascade.ShortIdentifiersByUser(ctx, id)
	if shortErr != nil {
		return ErrUnknown
	}
	if err := s.cascade.DeleteVisitsByLinkIDs(ctx, linkIDs); err != nil {
		return ErrUnknown
	}
	if err := s.cascade.DeleteLinksByUser(ctx, id); err != nil {
		return ErrUnknown
	}
	if s.resolved != nil {
		for _, shortID := range identifiers {
			_ = s.resolved.Delete(ctx, shortID)
		}
	}
	if err := s.cascade.DeleteFoldersByUser(ctx, id); err != nil {
		return ErrUnknown
	}
	if err := s.usersRepo.Delete(ctx, id); err != nil {
		return ErrUnknown
	}
	return nil
}
