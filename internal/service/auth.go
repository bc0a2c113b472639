package service

import (
	"github.com/clerk/clerk-sdk-go/v2"
	"github.com/deppfellow/jobly/internal/server"
)

// AdminRole is the Clerk organization role allowed to change companies and jobs.
const AdminRole = "org:admin"

// AuthService configures Clerk with the secret key from config.
type AuthService struct {
	server *server.Server
}

// NewAuthService sets the process-wide Clerk key.
func NewAuthService(s *server.Server) *AuthService {
	clerk.SetKey(s.Config.Auth.SecretKey)
	return &AuthService{
		server: s,
	}
}

// IsAdmin reports whether an organization role may perform admin actions.
func (a *AuthService) IsAdmin(role string) bool {
	return role == AdminRole
}
