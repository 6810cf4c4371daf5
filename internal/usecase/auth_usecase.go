package usecase

import (
	"context"
	"fmt"

	"mindsettler-api/internal/converter"
	"mindsettler-api/internal/delivery/dto"
	"mindsettler-api/internal/domain/entity"
	"mindsettler-api/internal/domain/repository"
	"mindsettler-api/internal/service"
	"mindsettler-api/pkg/apperr"
	"mindsettler-api/pkg/jwt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthUsecase interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, accessTokenID, refreshTokenID string) error
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	GetCurrentAccount(ctx context.Context, accountID uuid.UUID) (*dto.StaffAccountResponse, error)
	IsTokenValid(ctx context.Context, accountID uuid.UUID, tokenID string, tokenType jwt.TokenType) (bool, error)
}

type authUsecase struct {
	db          *gorm.DB
	log         *logrus.Logger
	validate    *validator.Validate
	accountRepo repository.StaffAccountRepository
	jwtService  *jwt.JWTService
	redisClient *redis.Client
	audit       service.AuditService
}

func NewAuthUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	validate *validator.Validate,
	accountRepo repository.StaffAccountRepository,
	jwtService *jwt.JWTService,
	redisClient *redis.Client,
	audit service.AuditService,
) AuthUsecase {
	return &authUsecase{
		db:          db,
		log:         log,
		validate:    validate,
		accountRepo: accountRepo,
		jwtService:  jwtService,
		redisClient: redisClient,
		audit:       audit,
	}
}

func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	if err := u.validate.Struct(req); err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, "invalid login request", err)
	}

	account, err := u.accountRepo.FindByEmail(u.db.WithContext(ctx), req.Email)
	if err != nil {
		u.log.Warnf("Failed to find staff account by email: %+v", err)
		return nil, err
	}
	if account == nil || !account.IsActive {
		return nil, apperr.New(apperr.KindValidation, "invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(req.Password)); err != nil {
		return nil, apperr.New(apperr.KindValidation, "invalid email or password")
	}

	tokens, err := u.issueTokens(ctx, account.ID, account.Email, string(account.Role))
	if err != nil {
		return nil, err
	}

	if err := u.audit.LogAction(ctx, u.db.WithContext(ctx), &account.ID, entity.AuditActionStaffLogin, nil, nil); err != nil {
		u.log.Warnf("Failed to audit staff login: %+v", err)
	}

	return tokens, nil
}

func (u *authUsecase) Logout(ctx context.Context, accessTokenID, refreshTokenID string) error {
	for _, pattern := range []string{
		fmt.Sprintf("access_token:*:%s", accessTokenID),
		fmt.Sprintf("refresh_token:*:%s", refreshTokenID),
	} {
		keys, err := u.redisClient.Keys(ctx, pattern).Result()
		if err != nil {
			u.log.Warnf("Failed to look up token keys: %+v", err)
			return err
		}
		if len(keys) > 0 {
			if err := u.redisClient.Del(ctx, keys...).Err(); err != nil {
				u.log.Warnf("Failed to delete tokens: %+v", err)
				return err
			}
		}
	}
	return nil
}

func (u *authUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	if err := u.validate.Struct(req); err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, "invalid refresh request", err)
	}

	claims, err := u.jwtService.ValidateToken(req.RefreshToken)
	if err != nil {
		return nil, apperr.New(apperr.KindValidation, "invalid or expired token")
	}
	if claims.TokenType != jwt.RefreshToken {
		return nil, apperr.New(apperr.KindValidation, "invalid or expired token")
	}

	refreshKey := fmt.Sprintf("refresh_token:%s:%s", claims.AccountID.String(), claims.TokenID)
	exists, err := u.redisClient.Exists(ctx, refreshKey).Result()
	if err != nil {
		u.log.Warnf("Failed to check refresh token in Redis: %+v", err)
		return nil, err
	}
	if exists == 0 {
		return nil, apperr.New(apperr.KindValidation, "token has been revoked")
	}

	// Rotation: the old refresh token is dead the moment it is used.
	if err := u.redisClient.Del(ctx, refreshKey).Err(); err != nil {
		u.log.Warnf("Failed to delete old refresh token: %+v", err)
		return nil, err
	}

	return u.issueTokens(ctx, claims.AccountID, claims.Email, claims.Role)
}

func (u *authUsecase) GetCurrentAccount(ctx context.Context, accountID uuid.UUID) (*dto.StaffAccountResponse, error) {
	account, err := u.accountRepo.FindByID(u.db.WithContext(ctx), accountID)
	if err != nil {
		u.log.Warnf("Failed to find staff account by ID: %+v", err)
		return nil, err
	}
	if account == nil {
		return nil, apperr.NotFound("account not found")
	}
	return converter.StaffAccountToResponse(account), nil
}

// IsTokenValid checks the Redis-side validity of an issued token. A token
// missing from Redis has been revoked or expired.
func (u *authUsecase) IsTokenValid(ctx context.Context, accountID uuid.UUID, tokenID string, tokenType jwt.TokenType) (bool, error) {
	var key string
	if tokenType == jwt.AccessToken {
		key = fmt.Sprintf("access_token:%s:%s", accountID.String(), tokenID)
	} else {
		key = fmt.Sprintf("refresh_token:%s:%s", accountID.String(), tokenID)
	}

	exists, err := u.redisClient.Exists(ctx, key).Result()
	if err != nil {
		u.log.Warnf("Failed to check token validity: %+v", err)
		return false, err
	}
	return exists > 0, nil
}

func (u *authUsecase) issueTokens(ctx context.Context, accountID uuid.UUID, email, role string) (*dto.TokenResponse, error) {
	accessToken, accessTokenID, err := u.jwtService.GenerateAccessToken(accountID, email, role)
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	refreshToken, refreshTokenID, err := u.jwtService.GenerateRefreshToken(accountID, email, role)
	if err != nil {
		u.log.Warnf("Failed to generate refresh token: %+v", err)
		return nil, err
	}

	accessKey := fmt.Sprintf("access_token:%s:%s", accountID.String(), accessTokenID)
	refreshKey := fmt.Sprintf("refresh_token:%s:%s", accountID.String(), refreshTokenID)

	if err := u.redisClient.Set(ctx, accessKey, "valid", u.jwtService.GetAccessExpiry()).Err(); err != nil {
		u.log.Warnf("Failed to store access token in Redis: %+v", err)
		return nil, err
	}
	if err := u.redisClient.Set(ctx, refreshKey, "valid", u.jwtService.GetRefreshExpiry()).Err(); err != nil {
		u.log.Warnf("Failed to store refresh token in Redis: %+v", err)
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(u.jwtService.GetAccessExpiry().Seconds()),
	}, nil
}
