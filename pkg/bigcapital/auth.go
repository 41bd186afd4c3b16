package bigcapital

import (
	"context"

	"github.com/eshaffer321/bigcapital-go/internal/auth"
	internalTypes "github.com/eshaffer321/bigcapital-go/internal/types"
)

// authService implements the AuthService interface
type authService struct {
	client  *Client
	service *auth.Service
}

// newAuthService creates a new auth service
func newAuthService(client *Client) *authService {
	service := client.auth
	if service == nil {
		var credentials CredentialStore
		var logger Logger
		if client.options != nil {
			credentials = client.options.Store
			logger = client.options.Logger
		}
		service = auth.NewService(client.baseURL, client.httpClient, credentials, logger)
	}
	return &authService{
		client:  client,
		service: service,
	}
}

// convertSession converts internal types.Session to bigcapital.Session
func convertSession(s *internalTypes.Session) *Session {
	if s == nil || s.Token == "" {
		return nil
	}
	return &Session{
		Token:          s.Token,
		TenantID:       s.TenantID.String(),
		OrganizationID: s.OrganizationID,
		Email:          s.Email,
		ExpiresAt:      s.ExpiresAt,
	}
}

// Login performs authentication
func (a *authService) Login(ctx context.Context, email, password string, persist bool) error {
	session, err := a.service.Login(ctx, email, password, persist)
	if err != nil {
		return err
	}

	a.client.transport.SetSession(session)
	return nil
}

// Restore installs the persisted session, if any
func (a *authService) Restore(ctx context.Context) (bool, error) {
	session, err := a.service.Restore(ctx)
	if err != nil {
		return false, err
	}
	if session == nil {
		return false, nil
	}

	a.client.transport.SetSession(session)
	return true, nil
}

// Logout drops the session and clears the credential store
func (a *authService) Logout(ctx context.Context) error {
	a.client.transport.SetSession(nil)
	return a.service.Clear(ctx)
}

// GetSession returns the current session
func (a *authService) GetSession() (*Session, error) {
	session := convertSession(a.client.transport.Session())
	if session == nil {
		return nil, ErrNotAuthenticated
	}
	return session, nil
}
