package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/eshaffer321/bigcapital-go/internal/store"
	"github.com/eshaffer321/bigcapital-go/internal/types"
	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

const loginEndpoint = "/api/auth/login"

// Service creates and restores sessions
type Service struct {
	baseURL    string
	httpClient *http.Client
	headers    map[string]string
	store      store.CredentialStore
	logger     types.Logger
}

// NewService creates a new auth service. credentials may be nil, in which case
// sessions are never persisted or restored.
func NewService(baseURL string, httpClient *http.Client, credentials store.CredentialStore, logger types.Logger) *Service {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: types.DefaultTimeout}
	}

	headers := map[string]string{
		"Accept":       "application/json",
		"Content-Type": "application/json",
		"User-Agent":   types.UserAgent,
	}

	return &Service{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		headers:    headers,
		store:      credentials,
		logger:     logger,
	}
}

// Store returns the credential store backing the service
func (s *Service) Store() store.CredentialStore {
	return s.store
}

// Login exchanges email and password for a session. When persist is set the
// resulting session is written to the credential store; a failed write is logged
// and does not fail the login.
func (s *Service) Login(ctx context.Context, email, password string, persist bool) (*types.Session, error) {
	body, err := json.Marshal(loginRequest{Credential: email, Password: password})
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal login request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+loginEndpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create login request")
	}
	for k, v := range s.headers {
		req.Header.Set(k, v)
	}

	if s.logger != nil {
		s.logger.Debug("Login request", "email", email)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, types.NewNetworkError("login request failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, types.NewNetworkError("failed to read login response", err)
	}

	if s.logger != nil {
		s.logger.Debug("Login response", "status", resp.StatusCode)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, types.NewAuthenticationFailed(resp.StatusCode, string(respBody))
	}

	var loginResp loginResponse
	if err := json.Unmarshal(respBody, &loginResp); err != nil {
		authErr := types.NewAuthenticationFailed(resp.StatusCode, string(respBody))
		authErr.Err = err
		return nil, authErr
	}
	if loginResp.Token == "" {
		return nil, types.NewAuthenticationFailed(resp.StatusCode, "no token in login response")
	}

	session := &types.Session{
		Token:          loginResp.Token,
		TenantID:       loginResp.tenantID(),
		OrganizationID: loginResp.organizationID(),
		Email:          email,
		Password:       password,
		ExpiresAt:      tokenExpiry(loginResp.Token),
	}

	if s.logger != nil {
		s.logger.Info("Login successful", "email", email, "tenant_id", session.TenantID)
	}

	if persist {
		s.save(ctx, session)
	}

	return session, nil
}

// Restore rebuilds a session from the credential store. It returns nil, nil when
// there is nothing to restore.
func (s *Service) Restore(ctx context.Context) (*types.Session, error) {
	if s.store == nil {
		return nil, nil
	}

	record, err := s.store.Load(ctx)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("Failed to load credential record", "error", err)
		}
		return nil, nil
	}
	if record == nil {
		return nil, nil
	}

	session := record.Session()
	session.ExpiresAt = tokenExpiry(session.Token)

	if s.logger != nil {
		s.logger.Debug("Session restored", "email", session.Email, "written_at", record.WrittenAt())
	}
	return session, nil
}

// Clear removes the persisted record. Read-only stores are tolerated.
func (s *Service) Clear(ctx context.Context) error {
	if s.store == nil {
		return nil
	}

	if err := s.store.Clear(ctx); err != nil {
		if errors.Is(err, store.ErrReadOnly) {
			if s.logger != nil {
				s.logger.Warn("Credential store is read-only, record not cleared")
			}
			return nil
		}
		return errors.Wrap(err, "failed to clear credential record")
	}

	if s.logger != nil {
		s.logger.Info("Credential record cleared")
	}
	return nil
}

func (s *Service) save(ctx context.Context, session *types.Session) {
	if s.store == nil {
		return
	}
	if err := s.store.Save(ctx, store.RecordFromSession(session)); err != nil && s.logger != nil {
		s.logger.Warn("Failed to persist session", "error", err)
	}
}

// tokenExpiry reads the exp claim without verifying the signature. Tokens that
// are not JWTs have no known expiry.
func tokenExpiry(token string) time.Time {
	parsed, _, err := jwtlib.NewParser().ParseUnverified(token, jwtlib.MapClaims{})
	if err != nil {
		return time.Time{}
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

type loginRequest struct {
	Credential string `json:"credential"`
	Password   string `json:"password"`
}

// loginResponse represents the login API response
type loginResponse struct {
	Token    string   `json:"token"`
	TenantID types.ID `json:"tenant_id"`
	Tenant   *struct {
		ID                   types.ID `json:"id"`
		OrganizationID       string   `json:"organizationId"`
		OrganizationIDLegacy string   `json:"organization_id"`
	} `json:"tenant"`
}

func (r *loginResponse) tenantID() types.ID {
	if r.Tenant != nil && r.Tenant.ID != "" {
		return r.Tenant.ID
	}
	return r.TenantID
}

func (r *loginResponse) organizationID() string {
	if r.Tenant == nil {
		return ""
	}
	if r.Tenant.OrganizationID != "" {
		return r.Tenant.OrganizationID
	}
	return r.Tenant.OrganizationIDLegacy
}
