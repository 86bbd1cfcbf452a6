package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/fsdevblog/shortkeep/internal/controllers/middlewares"
	"github.com/fsdevblog/shortkeep/internal/models"
	"github.com/fsdevblog/shortkeep/internal/services"
	"github.com/fsdevblog/shortkeep/internal/tokens"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// UserAccounts операции сервисного слоя над аккаунтами.
type UserAccounts interface {
	SignUp(ctx context.Context, name, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
	Get(ctx context.Context, id uint) (*models.User, error)
	UpdateProfile(ctx context.Context, id uint, p services.UpdateProfileParams) (*models.User, error)
	ChangePassword(ctx context.Context, id uint, oldPassword, newPassword string) error
	DeleteAccount(ctx context.Context, id uint) error
}

// SessionConfig параметры выпуска сессионных кук.
type SessionConfig struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Secure        bool
}

// AuthController регистрация, вход, обновление сессии и операции профиля.
// Сессия — две подписанные httpOnly куки: короткоживущая access и
// долгоживущая refresh, с разными секретами.
type AuthController struct {
	users   UserAccounts
	session SessionConfig
}

func NewAuthController(users UserAccounts, session SessionConfig) *AuthController {
	return &AuthController{users: users, session: session}
}

type signUpRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (a *AuthController) SignUp(ctx *gin.Context) {
	var req signUpRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, http.StatusBadRequest, ErrBadRequest.Error())
		return
	}

	user, err := a.users.SignUp(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			respondError(ctx, http.StatusUnprocessableEntity, "invalid email or password format")
			return
		}
		respondServiceError(ctx, err)
		return
	}

	if cookieErr := a.setSessionCookies(ctx, user); cookieErr != nil {
		_ = ctx.Error(cookieErr)
		respondError(ctx, http.StatusInternalServerError, ErrInternal.Error())
		return
	}
	ctx.JSON(http.StatusCreated, user)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (a *AuthController) Login(ctx *gin.Context) {
	var req loginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, http.StatusBadRequest, ErrBadRequest.Error())
		return
	}

	user, err := a.users.Login(ctx, req.Email, req.Password)
	if err != nil {
		// Несуществующий email и неверный пароль отвечают одинаково.
		respondError(ctx, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if cookieErr := a.setSessionCookies(ctx, user); cookieErr != nil {
		_ = ctx.Error(cookieErr)
		respondError(ctx, http.StatusInternalServerError, ErrInternal.Error())
		return
	}
	ctx.JSON(http.StatusOK, user)
}

func (a *AuthController) Logout(ctx *gin.Context) {
	a.clearSessionCookies(ctx)
	ctx.Status(http.StatusNoContent)
}

// Refresh обменивает валидную refresh куку на новую access куку.
func (a *AuthController) Refresh(ctx *gin.Context) {
	cookie, err := ctx.Cookie(middlewares.RefreshCookieName)
	if err != nil {
		respondError(ctx, http.StatusUnauthorized, "authentication required")
		return
	}

	claims, validateErr := tokens.ValidateSessionJWT(cookie, a.session.RefreshSecret)
	if validateErr != nil {
		respondError(ctx, http.StatusUnauthorized, "authentication required")
		return
	}

	// Роль берется из базы: она могла измениться за время жизни refresh.
	user, userErr := a.users.Get(ctx, claims.UserID)
	if userErr != nil {
		respondError(ctx, http.StatusUnauthorized, "authentication required")
		return
	}

	accessToken, tokenErr := tokens.GenerateAccessJWT(
		user.ID, user.Role, a.session.AccessTTL, a.session.AccessSecret,
	)
	if tokenErr != nil {
		_ = ctx.Error(tokenErr)
		respondError(ctx, http.StatusInternalServerError, ErrInternal.Error())
		return
	}
	a.setCookie(ctx, middlewares.AccessCookieName, accessToken, a.session.AccessTTL)
	ctx.Status(http.StatusNoContent)
}

func (a *AuthController) Me(ctx *gin.Context) {
	user, err := a.users.Get(ctx, middlewares.CurrentUserID(ctx))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, user)
}

func (a *AuthController) UpdateMe(ctx *gin.Context) {
	var params services.UpdateProfileParams
	if err := ctx.ShouldBindJSON(&params); err != nil {
		respondError(ctx, http.StatusBadRequest, ErrBadRequest.Error())
		return
	}

	user, err := a.users.UpdateProfile(ctx, middlewares.CurrentUserID(ctx), params)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			respondError(ctx, http.StatusUnprocessableEntity, "invalid email format")
			return
		}
		respondServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, user)
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

func (a *AuthController) ChangePassword(ctx *gin.Context) {
	var req changePasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, http.StatusBadRequest, ErrBadRequest.Error())
		return
	}

	err := a.users.ChangePassword(ctx, middlewares.CurrentUserID(ctx), req.OldPassword, req.NewPassword)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			respondError(ctx, http.StatusUnprocessableEntity, "invalid new password")
			return
		}
		respondServiceError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (a *AuthController) DeleteMe(ctx *gin.Context) {
	if err := a.users.DeleteAccount(ctx, middlewares.CurrentUserID(ctx)); err != nil {
		respondServiceError(ctx, err)
		return
	}
	a.clearSessionCookies(ctx)
	ctx.Status(http.StatusNoContent)
}

func (a *AuthController) setSessionCookies(ctx *gin.Context, user *models.User) error {
	accessToken, accessErr := tokens.GenerateAccessJWT(
		user.ID, user.Role, a.session.AccessTTL, a.session.AccessSecret,
	)
	if accessErr != nil {
		return errors.Wrap(accessErr, "issue access token")
	}
	refreshToken, refreshErr := tokens.GenerateRefreshJWT(
		user.ID, a.session.RefreshTTL, a.session.RefreshSecret,
	)
	if refreshErr != nil {
		return errors.Wrap(refreshErr, "issue refresh token")
	}

	a.setCookie(ctx, middlewares.AccessCookieName, accessToken, a.session.AccessTTL)
	a.setCookie(ctx, middlewares.RefreshCookieName, refreshToken, a.session.RefreshTTL)
	return nil
}

func (a *AuthController) setCookie(ctx *gin.Context, name, value string, ttl time.Duration) {
	ctx.SetCookie(name, value, int(ttl.Seconds()), "/", "", a.session.Secure, true)
}

func (a *AuthController) clearSessionCookies(ctx *gin.Context) {
	ctx.SetCookie(middlewares.AccessCookieName, "", -1, "/", "", a.session.Secure, true)
	ctx.SetCookie(middlewares.RefreshCookieName, "", -1, "/", "", a.session.Secure, true)
}
