package auth

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
	"unicode"

	"fleetflow-service/internal/domain/user"
	xerrors "fleetflow-service/internal/pkg/errors"
	"fleetflow-service/internal/pkg/jwt"
	"fleetflow-service/internal/pkg/ratelimit"
	"fleetflow-service/internal/service/email"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const otpTTL = 10 * time.Minute

type AuthService struct {
	userRepo  user.Repository
	tokenRepo user.TokenRepository
	jwtMgr    *jwt.Manager
	limiter   *ratelimit.Limiter
	mailer    email.Sender
	logger    *zap.Logger
}

func NewAuthService(
	userRepo user.Repository,
	tokenRepo user.TokenRepository,
	jwtMgr *jwt.Manager,
	limiter *ratelimit.Limiter,
	mailer email.Sender,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		jwtMgr:    jwtMgr,
		limiter:   limiter,
		mailer:    mailer,
		logger:    logger,
	}
}

// Login authenticates by email and password and issues an access token.
// Failed lookups and bad passwords produce the same error so the endpoint
// cannot be used to probe which emails exist.
func (s *AuthService) Login(ctx context.Context, ip string, req *user.LoginRequest) (*user.LoginResponse, error) {
	if !s.limiter.AllowLogin(ctx, ip, req.Email) {
		return nil, xerrors.Wrap(xerrors.ErrRateLimited, "too many login attempts")
	}

	info, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			return nil, xerrors.Wrap(xerrors.ErrUnauthorized, "invalid email or password")
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(info.PasswordHash), []byte(req.Password)); err != nil {
		return nil, xerrors.Wrap(xerrors.ErrUnauthorized, "invalid email or password")
	}

	token, jti, err := s.jwtMgr.Generate(info.ID, info.Role)
	if err != nil {
		s.logger.Error("failed to sign token", zap.Error(err))
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	s.limiter.Reset(ctx, ip, req.Email)
	s.logger.Info("user logged in",
		zap.Int64("user_id", info.ID),
		zap.String("role", info.Role),
		zap.String("jti", jti),
	)

	return &user.LoginResponse{Token: token, User: *info}, nil
}

// RegisterDriver creates a DRIVER account with its profile.
func (s *AuthService) RegisterDriver(ctx context.Context, req *user.RegisterDriverRequest) (*user.DriverInfo, error) {
	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}
	expiry, err := time.Parse("2006-01-02", req.LicenseExpiry)
	if err != nil {
		return nil, xerrors.Validationf("license_expiry must be YYYY-MM-DD")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	phone := req.Phone
	u := &user.User{
		FullName:     req.FullName,
		Email:        req.Email,
		Phone:        &phone,
		PasswordHash: string(hash),
		Role:         user.RoleDriver,
	}
	profile := &user.DriverProfile{
		LicenseNumber: req.LicenseNumber,
		LicenseExpiry: expiry,
		SafetyScore:   100,
		Status:        user.DriverOnDuty,
	}

	if err := s.userRepo.CreateDriver(ctx, u, profile); err != nil {
		if xerrors.Is(err, xerrors.ErrConflict) {
			return nil, xerrors.Wrap(xerrors.ErrConflict, "email already registered")
		}
		s.logger.Error("failed to create driver", zap.Error(err))
		return nil, fmt.Errorf("failed to create driver: %w", err)
	}

	s.logger.Info("driver registered", zap.Int64("user_id", u.ID), zap.String("email", u.Email))
	return &user.DriverInfo{User: *u, Driver: profile}, nil
}

// ForgotPassword issues a one-time code and emails it. The stored row is
// authoritative; a failed email send is logged and the request still
// succeeds, since the code can be re-requested.
func (s *AuthService) ForgotPassword(ctx context.Context, req *user.ForgotPasswordRequest) error {
	if !s.limiter.AllowPasswordReset(ctx, req.Email) {
		return xerrors.Wrap(xerrors.ErrRateLimited, "too many reset requests")
	}

	info, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			return xerrors.Wrap(xerrors.ErrNotFound, "no account with that email")
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}

	otp, err := generateOTP()
	if err != nil {
		return fmt.Errorf("failed to generate otp: %w", err)
	}

	token := &user.ResetToken{
		Email:     info.Email,
		OTP:       otp,
		ExpiresAt: time.Now().Add(otpTTL),
	}
	if err := s.tokenRepo.Create(ctx, token); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	if err := s.mailer.SendPasswordResetOTP(info.Email, info.FullName, otp, token.ExpiresAt); err != nil {
		s.logger.Warn("reset email not delivered",
			zap.String("email", info.Email),
			zap.Error(err),
		)
	}

	s.logger.Info("password reset requested", zap.Int64("user_id", info.ID))
	return nil
}

// VerifyOTP checks a code without consuming it, so the UI can gate the
// new-password form before the actual reset.
func (s *AuthService) VerifyOTP(ctx context.Context, req *user.VerifyOTPRequest) error {
	if _, err := s.tokenRepo.FindValid(ctx, req.Email, req.OTP); err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			return xerrors.Validationf("invalid or expired code")
		}
		return fmt.Errorf("failed to verify otp: %w", err)
	}
	return nil
}

// ResetPassword consumes a valid code and replaces the account password.
func (s *AuthService) ResetPassword(ctx context.Context, req *user.ResetPasswordRequest) error {
	if err := validatePassword(req.NewPassword); err != nil {
		return err
	}

	token, err := s.tokenRepo.FindValid(ctx, req.Email, req.OTP)
	if err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			return xerrors.Validationf("invalid or expired code")
		}
		return fmt.Errorf("failed to verify otp: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.UpdatePasswordByEmail(ctx, req.Email, string(hash)); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if err := s.tokenRepo.MarkUsed(ctx, token.ID); err != nil {
		return fmt.Errorf("failed to consume reset token: %w", err)
	}

	s.logger.Info("password reset completed", zap.String("email", req.Email))
	return nil
}

// validatePassword enforces the minimum credential policy: at least 8
// characters with an upper-case letter, a lower-case letter and a digit.
func validatePassword(password string) error {
	if len(password) < 8 {
		return xerrors.Validationf("password must be at least 8 characters")
	}
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper || !lower || !digit {
		return xerrors.Validationf("password must contain upper and lower case letters and a digit")
	}
	return nil
}

// generateOTP returns a random 6-digit code, zero-padded.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
