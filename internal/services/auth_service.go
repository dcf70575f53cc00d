package services

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// AdminUID is the subject of tokens issued to the configured admin.
const AdminUID = "admin"

// AdminAccount is the single administrator configured at start-up.
type AdminAccount struct {
	Email        string
	PasswordHash []byte
}

type TokenSigner func(uid, email string, ttl time.Duration) (string, error)

type AuthService struct {
	admin     AdminAccount
	now       func() time.Time
	signToken TokenSigner
	tokenTTL  time.Duration
}

type AuthResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func NewAuthService(admin AdminAccount, signer TokenSigner, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AuthService{
		admin:     admin,
		now:       func() time.Time { return time.Now().UTC() },
		signToken: signer,
		tokenTTL:  ttl,
	}
}

// Enabled reports whether an admin account is configured.
func (s *AuthService) Enabled() bool {
	return s.admin.Email != "" && len(s.admin.PasswordHash) > 0
}

func (s *AuthService) Login(email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || strings.TrimSpace(password) == "" {
		return nil, NewInvalidError("email/password required")
	}
	if !s.Enabled() {
		return nil, NewForbiddenError("admin login disabled")
	}
	if !strings.EqualFold(email, s.admin.Email) {
		return nil, NewUnauthorizedError("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword(s.admin.PasswordHash, []byte(password)); err != nil {
		return nil, NewUnauthorizedError("invalid credentials")
	}
	if s.signToken == nil {
		return nil, NewInvalidError("token signer not configured")
	}
	token, err := s.signToken(AdminUID, s.admin.Email, s.tokenTTL)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, ExpiresAt: s.now().Add(s.tokenTTL)}, nil
}

func (s *AuthService) TokenTTL() time.Duration {
	return s.tokenTTL
}

// HashPassword returns a bcrypt hash suitable for AHP_ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", NewInvalidError("password required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
