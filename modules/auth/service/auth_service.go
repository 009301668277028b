package service

import (
	"context"
	"time"

	"calendar-api/core/cache"
	"calendar-api/core/constants"
	"calendar-api/core/database"
	"calendar-api/core/errors"
	"calendar-api/core/logger"
	"calendar-api/core/utils"
	"calendar-api/modules/auth/dto"
	"calendar-api/modules/auth/entity"
	"calendar-api/modules/auth/mapper"
	"calendar-api/modules/auth/repository"
	calendarEntity "calendar-api/modules/calendar/entity"
	categoryEntity "calendar-api/modules/category/entity"

	"github.com/google/uuid"
)

type AuthServiceInterface interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, *errors.AppError)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, *errors.AppError)
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.AuthResponse, *errors.AppError)
	Logout(ctx context.Context, accessClaims *utils.TokenClaims, refreshToken string) *errors.AppError
	Me(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, *errors.AppError)
}

type AuthService struct {
	repo  repository.AuthRepositoryInterface
	cache cache.Cache
	clock utils.Clock
}

func NewAuthService(repo repository.AuthRepositoryInterface, cache cache.Cache, clock utils.Clock) *AuthService {
	if clock == nil {
		clock = utils.SystemClock()
	}
	return &AuthService{
		repo:  repo,
		cache: cache,
		clock: clock,
	}
}

// Register creates the account together with its main calendar and signs the user in.
func (service *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	email := utils.NormalizeEmail(req.Email)

	exists, err := service.repo.ExistsByEmailOrUsername(ctx, email, req.Username)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to check existing user", err)
	}
	if exists {
		return nil, errors.NewAppError(errors.ErrAlreadyExists, "email or username already registered", nil)
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		logger.Error("AuthService:Register:HashPassword:Error", "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to hash password", err)
	}

	user := &entity.User{
		Username: req.Username,
		Email:    email,
		Password: hashed,
		FullName: req.FullName,
		IsActive: true,
	}
	mainCalendar := &calendarEntity.Calendar{
		Name:      constants.DefaultMainCalendarName,
		Color:     constants.DefaultCalendarColor,
		IsMain:    true,
		IsVisible: true,
	}
	defaultCategory := &categoryEntity.Category{
		Name:  categoryEntity.DefaultCategoryName,
		Color: constants.DefaultCalendarColor,
	}

	if err := service.repo.CreateUserWithMainCalendar(ctx, user, mainCalendar, defaultCategory); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, errors.NewAppError(errors.ErrAlreadyExists, "email or username already registered", err)
		}
		logger.Error("AuthService:Register:CreateUser:Error", "error", err)
		return nil, errors.NewAppError(errors.ErrCreateFailed, "failed to create user", err)
	}

	logger.Info("AuthService:Register:Success", "user_id", user.ID, "main_calendar_id", mainCalendar.ID)
	return service.issueTokens(user)
}

func (service *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	identifier := utils.NormalizeEmail(req.Identifier)

	blocked, err := service.cache.IsLoginBlocked(ctx, identifier)
	if err != nil {
		logger.Error("AuthService:Login:IsLoginBlocked:Error", "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to check login attempts", err)
	}
	if blocked {
		return nil, errors.NewAppError(errors.ErrLoginBlocked, "too many failed login attempts, try again later", nil)
	}

	user, err := service.repo.GetUserByIdentifier(ctx, req.Identifier)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get user", err)
	}
	if user == nil || !user.IsActive || !utils.ComparePassword(user.Password, req.Password) {
		if _, err := service.cache.IncrementLoginAttempt(ctx, identifier); err != nil {
			logger.Error("AuthService:Login:IncrementLoginAttempt:Error", "error", err)
		}
		return nil, errors.NewAppError(errors.ErrUnauthorized, "invalid credentials", nil)
	}

	if err := service.cache.ResetLoginAttempts(ctx, identifier); err != nil {
		logger.Warn("AuthService:Login:ResetLoginAttempts:Error", "error", err)
	}

	return service.issueTokens(user)
}

// RefreshToken rotates the pair: the presented refresh token is revoked once used.
func (service *AuthService) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.AuthResponse, *errors.AppError) {
	claims, err := utils.ValidateAndParseToken(req.RefreshToken)
	if err != nil {
		appErr, ok := errors.As(err)
		if !ok {
			appErr = errors.NewAppError(errors.ErrUnauthorized, "invalid refresh token", err)
		}
		return nil, appErr
	}
	if claims.Scope != constants.ScopeTokenRefresh {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "refresh token required", nil)
	}

	consumed, err := service.cache.ConsumeToken(ctx, claims.ID, claims.RemainingLifetime(service.clock.Now()))
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to rotate refresh token", err)
	}
	if !consumed {
		return nil, errors.NewAppError(errors.ErrTokenRevoked, "refresh token has been revoked", nil)
	}

	user, err := service.repo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get user", err)
	}
	if user == nil || !user.IsActive {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "user not found", nil)
	}

	return service.issueTokens(user)
}

// Logout revokes the access token in use and, when given, the refresh token.
func (service *AuthService) Logout(ctx context.Context, accessClaims *utils.TokenClaims, refreshToken string) *errors.AppError {
	now := service.clock.Now()

	if err := service.cache.RevokeToken(ctx, accessClaims.ID, accessClaims.RemainingLifetime(now)); err != nil {
		logger.Error("AuthService:Logout:RevokeAccess:Error", "error", err)
		return errors.NewAppError(errors.ErrInternalServer, "logout failed", err)
	}

	if refreshToken == "" {
		return nil
	}
	refreshClaims, err := utils.ValidateAndParseToken(refreshToken)
	if err != nil {
		// An unusable refresh token needs no revocation.
		logger.Debug("AuthService:Logout:InvalidRefreshToken", "error", err)
		return nil
	}
	if refreshClaims.UserID != accessClaims.UserID {
		return errors.NewAppError(errors.ErrForbidden, "refresh token belongs to another user", nil)
	}
	if err := service.cache.RevokeToken(ctx, refreshClaims.ID, refreshClaims.RemainingLifetime(now)); err != nil {
		logger.Error("AuthService:Logout:RevokeRefresh:Error", "error", err)
		return errors.NewAppError(errors.ErrInternalServer, "logout failed", err)
	}
	return nil
}

func (service *AuthService) Me(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, *errors.AppError) {
	user, err := service.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get user", err)
	}
	if user == nil {
		return nil, errors.NotFound("user not found")
	}
	resp := mapper.ToUserResponse(user)
	return &resp, nil
}

func (service *AuthService) issueTokens(user *entity.User) (*dto.AuthResponse, *errors.AppError) {
	email := user.Email
	username := user.Username

	accessToken, err := utils.GenerateToken(user.ID, &email, &username, constants.ScopeTokenAccess)
	if err != nil {
		logger.Error("AuthService:IssueTokens:Access:Error", "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to generate access token", err)
	}
	refreshToken, err := utils.GenerateToken(user.ID, &email, &username, constants.ScopeTokenRefresh)
	if err != nil {
		logger.Error("AuthService:IssueTokens:Refresh:Error", "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to generate refresh token", err)
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(utils.AccessTokenTTL() / time.Second),
		User:         mapper.ToUserResponse(user),
	}, nil
}
