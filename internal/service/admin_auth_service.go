package service

import (
	"fmt"

	"github.com/lshigami/tutorkeys/config"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

type AdminAuthService interface {
	// Enabled reports whether an admin password is configured at all.
	Enabled() bool
	Authenticate(password string) bool
}

type adminAuthService struct {
	hash []byte
}

// NewAdminAuthService hashes the configured password once so the plain text
// is not kept around for comparisons.
func NewAdminAuthService(cfg *config.Config) (AdminAuthService, error) {
	if cfg.Admin.Password == "" {
		return &adminAuthService{}, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing ADMIN_PASSWORD: %w", err)
	}
	return &adminAuthService{hash: hash}, nil
}

func (s *adminAuthService) Enabled() bool {
	return len(s.hash) > 0
}

func (s *adminAuthService) Authenticate(password string) bool {
	if !s.Enabled() || password == "" {
		return false
	}
	if err := bcrypt.CompareHashAndPassword(s.hash, []byte(password)); err != nil {
		log.Warn().Msg("Admin login rejected")
		return false
	}
	return true
}
