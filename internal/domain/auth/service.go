package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"workforce/internal/domain/apperr"
	cryptoutil "workforce/internal/platform/crypto"
	"workforce/internal/platform/email"
)

const resetTTL = 2 * time.Hour

type Service struct {
	Store       *Store
	Sealer      *cryptoutil.Sealer
	Mailer      email.Mailer
	Secret      string
	TTL         time.Duration
	From        string
	FrontendURL string
}

type LoginResult struct {
	Token        string `json:"token"`
	User         Me     `json:"user"`
	SessionUntil string `json:"expiresAt"`
}

type Me struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Role         string `json:"role"`
	MFAEnabled   bool   `json:"mfaEnabled"`
	FreelancerID string `json:"freelancerId,omitempty"`
}

type MFASetup struct {
	Secret     string `json:"secret"`
	OTPAuthURL string `json:"otpauthUrl"`
}

func (s *Service) Login(ctx context.Context, emailAddr, password, mfaCode string) (LoginResult, error) {
	user, err := s.Store.FindActiveUserByEmail(ctx, normalizeEmail(emailAddr))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, apperr.Unexpected("login failed", err)
	}
	if err := CheckPassword(user.Password, password); err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}
	if user.MFAEnabled {
		if strings.TrimSpace(mfaCode) == "" {
			return LoginResult{}, ErrMFARequired
		}
		secret, err := s.Sealer.Open(user.MFASecretEn)
		if err != nil || !totp.Validate(mfaCode, secret) {
			return LoginResult{}, ErrMFAInvalid
		}
	}

	sessionID, err := RandomToken()
	if err != nil {
		return LoginResult{}, apperr.Unexpected("failed to issue token", err)
	}
	expires := time.Now().Add(s.TTL)
	if err := s.Store.CreateSession(ctx, user.ID, HashToken(sessionID), expires); err != nil {
		return LoginResult{}, apperr.Unexpected("failed to start session", err)
	}
	token, err := GenerateToken(s.Secret, Claims{UserID: user.ID, RoleID: user.RoleID, RoleName: user.RoleName, SessionID: sessionID}, s.TTL)
	if err != nil {
		return LoginResult{}, apperr.Unexpected("failed to issue token", err)
	}
	if err := s.Store.UpdateLastLogin(ctx, user.ID); err != nil {
		slog.Warn("update last_login failed", "userId", user.ID, "err", err)
	}

	return LoginResult{
		Token:        token,
		User:         s.describe(ctx, user),
		SessionUntil: expires.UTC().Format(time.RFC3339),
	}, nil
}

func (s *Service) Logout(ctx context.Context, user UserContext) {
	if user.SessionID == "" {
		return
	}
	if err := s.Store.RevokeSession(ctx, user.UserID, HashToken(user.SessionID)); err != nil {
		slog.Warn("logout session revoke failed", "userId", user.UserID, "err", err)
	}
}

func (s *Service) Refresh(ctx context.Context, rawToken string) (string, error) {
	claims, err := ParseToken(s.Secret, rawToken)
	if err != nil {
		return "", ErrSessionExpired
	}
	valid, err := s.Store.SessionValid(ctx, claims.UserID, HashToken(claims.SessionID))
	if err != nil {
		return "", apperr.Unexpected("session lookup failed", err)
	}
	if !valid {
		return "", ErrSessionExpired
	}
	next, err := RandomToken()
	if err != nil {
		return "", apperr.Unexpected("failed to rotate session", err)
	}
	if err := s.Store.RotateSession(ctx, claims.UserID, HashToken(claims.SessionID), HashToken(next), time.Now().Add(s.TTL)); err != nil {
		return "", apperr.Unexpected("failed to rotate session", err)
	}
	return GenerateToken(s.Secret, Claims{
		UserID:    claims.UserID,
		RoleID:    claims.RoleID,
		RoleName:  claims.RoleName,
		SessionID: next,
	}, s.TTL)
}

func (s *Service) Me(ctx context.Context, userID string) (Me, error) {
	user, err := s.Store.FindUserByID(ctx, userID)
	if err != nil {
		return Me{}, apperr.FromStore(err, apperr.NotFound("User not found"))
	}
	return s.describe(ctx, user), nil
}

func (s *Service) ChangePassword(ctx context.Context, userID, current, next string) error {
	user, err := s.Store.FindUserByID(ctx, userID)
	if err != nil {
		return apperr.FromStore(err, apperr.NotFound("User not found"))
	}
	if err := CheckPassword(user.Password, current); err != nil {
		return ErrWrongPassword
	}
	if err := ValidatePassword(next); err != nil {
		return apperr.Validation(err.Error(), apperr.FieldIssue{Field: "newPassword", Reason: err.Error()})
	}
	hash, err := HashPassword(next)
	if err != nil {
		return apperr.Unexpected("failed to update password", err)
	}
	if err := s.Store.UpdateUserPassword(ctx, userID, hash); err != nil {
		return apperr.Unexpected("failed to update password", err)
	}
	return nil
}

// RequestReset never reveals whether the address exists.
func (s *Service) RequestReset(ctx context.Context, emailAddr string) {
	user, err := s.Store.FindActiveUserByEmail(ctx, normalizeEmail(emailAddr))
	if err != nil {
		return
	}
	token, err := RandomToken()
	if err != nil {
		slog.Warn("password reset token generation failed", "userId", user.ID, "err", err)
		return
	}
	if err := s.Store.CreatePasswordReset(ctx, user.ID, HashToken(token), time.Now().Add(resetTTL)); err != nil {
		slog.Warn("password reset insert failed", "userId", user.ID, "err", err)
		return
	}
	if s.Mailer == nil {
		return
	}
	link := BuildResetLink(s.FrontendURL, token)
	if err := s.Mailer.Send(ctx, s.From, user.Email, "Reset your password", BuildResetEmailMessage(link, resetTTL)); err != nil {
		slog.Warn("password reset email failed", "userId", user.ID, "err", err)
	}
}

func (s *Service) ResetPassword(ctx context.Context, token, next string) error {
	userID, err := s.Store.PasswordResetUserID(ctx, HashToken(token))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrInvalidResetToken
		}
		return apperr.Unexpected("failed to reset password", err)
	}
	hash, err := HashPassword(next)
	if err != nil {
		return apperr.Unexpected("failed to reset password", err)
	}
	if err := s.Store.UpdateUserPassword(ctx, userID, hash); err != nil {
		return apperr.Unexpected("failed to reset password", err)
	}
	if err := s.Store.MarkPasswordResetUsed(ctx, HashToken(token)); err != nil {
		slog.Warn("password reset mark used failed", "err", err)
	}
	return nil
}

func (s *Service) SetupMFA(ctx context.Context, user UserContext) (MFASetup, error) {
	if !s.Sealer.Enabled() {
		return MFASetup{}, ErrMFAUnavailable
	}
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "Workforce",
		AccountName: user.UserID,
		Period:      30,
		Digits:      otp.DigitsSix,
	})
	if err != nil {
		return MFASetup{}, apperr.Unexpected("failed to generate mfa secret", err)
	}
	sealed, err := s.Sealer.Seal(key.Secret())
	if err != nil {
		return MFASetup{}, apperr.Unexpected("failed to store mfa secret", err)
	}
	if err := s.Store.UpdateMFASecret(ctx, user.UserID, sealed); err != nil {
		return MFASetup{}, apperr.Unexpected("failed to store mfa secret", err)
	}
	return MFASetup{Secret: key.Secret(), OTPAuthURL: key.URL()}, nil
}

// SetMFA verifies code against the stored secret before toggling MFA.
func (s *Service) SetMFA(ctx context.Context, user UserContext, code string, enabled bool) error {
	if !s.Sealer.Enabled() {
		return ErrMFAUnavailable
	}
	stored, err := s.Store.FindUserByID(ctx, user.UserID)
	if err != nil {
		return apperr.FromStore(err, apperr.NotFound("User not found"))
	}
	if len(stored.MFASecretEn) == 0 {
		return ErrMFANotSetUp
	}
	secret, err := s.Sealer.Open(stored.MFASecretEn)
	if err != nil {
		return ErrMFANotSetUp
	}
	if !totp.Validate(code, secret) {
		return ErrMFAInvalid
	}
	if err := s.Store.SetMFAEnabled(ctx, user.UserID, enabled); err != nil {
		return apperr.Unexpected("failed to update mfa", err)
	}
	return nil
}

func (s *Service) HasPermission(ctx context.Context, roleID, permission string) (bool, error) {
	return s.Store.HasPermission(ctx, roleID, permission)
}

func (s *Service) describe(ctx context.Context, user AuthUser) Me {
	me := Me{
		ID:         user.ID,
		Email:      user.Email,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		Role:       user.RoleName,
		MFAEnabled: user.MFAEnabled,
	}
	if user.RoleName == RoleFreelancer {
		id, err := s.Store.FreelancerIDByUserID(ctx, user.ID)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			slog.Warn("freelancer profile lookup failed", "userId", user.ID, "err", err)
		}
		me.FreelancerID = id
	}
	return me
}

func normalizeEmail(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func BuildResetLink(baseURL, token string) string {
	base, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || base.Scheme == "" || base.Host == "" {
		base, _ = url.Parse("http://localhost:5173")
	}
	base.Path = strings.TrimRight(base.Path, "/") + "/reset-password"
	query := base.Query()
	query.Set("token", token)
	base.RawQuery = query.Encode()
	return base.String()
}

func BuildResetEmailMessage(link string, ttl time.Duration) string {
	hours := int(ttl.Hours())
	if hours < 1 {
		hours = 1
	}
	return fmt.Sprintf("We received a request to reset your password.\n\nUse this link to choose a new password: %s\n\nThe link expires in %d hour(s). If you did not request a reset you can ignore this email.", link, hours)
}
