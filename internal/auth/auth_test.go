package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/eshaffer321/bigcapital-go/internal/store"
	"github.com/eshaffer321/bigcapital-go/internal/types"
	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loginServer(t *testing.T, status int, body string) (*httptest.Server, *map[string]string) {
	t.Helper()
	received := map[string]string{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, &received
}

func TestLogin_Success(t *testing.T) {
	server, received := loginServer(t, http.StatusOK,
		`{"token":"T1","tenant":{"id":17,"organizationId":"org-abc"}}`)
	credentials := store.NewMemoryStore(nil)
	svc := NewService(server.URL, nil, credentials, nil)

	session, err := svc.Login(context.Background(), "a@x.com", "pw", false)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"credential": "a@x.com", "password": "pw"}, *received)
	assert.Equal(t, "T1", session.Token)
	assert.Equal(t, types.ID("17"), session.TenantID)
	assert.Equal(t, "org-abc", session.OrganizationID)
	assert.Equal(t, "a@x.com", session.Email)
	assert.Equal(t, "pw", session.Password)
	assert.Equal(t, 0, session.RetryCount)
	assert.True(t, session.ExpiresAt.IsZero(), "opaque tokens carry no expiry")

	record, err := credentials.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, record, "persist=false must not write")
}

func TestLogin_AlternateTenantFields(t *testing.T) {
	server, _ := loginServer(t, http.StatusOK,
		`{"token":"T1","tenant_id":"42","tenant":{"organization_id":"org-legacy"}}`)
	svc := NewService(server.URL, nil, nil, nil)

	session, err := svc.Login(context.Background(), "a@x.com", "pw", true)
	require.NoError(t, err)

	assert.Equal(t, types.ID("42"), session.TenantID)
	assert.Equal(t, "org-legacy", session.OrganizationID)
}

func TestLogin_PersistWritesRecordWithoutPassword(t *testing.T) {
	server, _ := loginServer(t, http.StatusOK,
		`{"token":"T1","tenant":{"id":17,"organizationId":"org-abc"}}`)
	credentials := store.NewMemoryStore(nil)
	svc := NewService(server.URL, nil, credentials, nil)

	_, err := svc.Login(context.Background(), "a@x.com", "pw", true)
	require.NoError(t, err)

	record, err := credentials.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "T1", record.Token)
	assert.Equal(t, types.ID("17"), record.TenantID)
	assert.Equal(t, "org-abc", record.OrganizationID)
	assert.Equal(t, "a@x.com", record.Email)
	assert.NotContains(t, string(credentials.Raw()), "pw")
}

func TestLogin_PersistSoftFailsOnReadOnlyStore(t *testing.T) {
	server, _ := loginServer(t, http.StatusOK, `{"token":"T1"}`)
	credentials := store.NewMemoryStore(nil)
	credentials.SetReadOnly(true)
	svc := NewService(server.URL, nil, credentials, nil)

	session, err := svc.Login(context.Background(), "a@x.com", "pw", true)
	require.NoError(t, err)
	assert.Equal(t, "T1", session.Token)
}

func TestLogin_RejectedCredentials(t *testing.T) {
	server, _ := loginServer(t, http.StatusUnauthorized, `{"errors":[{"type":"INVALID_DETAILS"}]}`)
	svc := NewService(server.URL, nil, nil, nil)

	session, err := svc.Login(context.Background(), "a@x.com", "wrong", false)
	assert.Nil(t, session)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrAuthenticationFailed)

	var apiErr *types.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, `{"errors":[{"type":"INVALID_DETAILS"}]}`, apiErr.Details["body"])
}

func TestLogin_MissingToken(t *testing.T) {
	server, _ := loginServer(t, http.StatusOK, `{"tenant":{"id":1}}`)
	svc := NewService(server.URL, nil, nil, nil)

	_, err := svc.Login(context.Background(), "a@x.com", "pw", false)
	assert.ErrorIs(t, err, types.ErrAuthenticationFailed)
}

func TestLogin_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	svc := NewService(url, nil, nil, nil)
	_, err := svc.Login(context.Background(), "a@x.com", "pw", false)
	assert.ErrorIs(t, err, types.ErrNetwork)
}

func TestLogin_ReadsJWTExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.MapClaims{
		"id":  1,
		"exp": exp.Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	server, _ := loginServer(t, http.StatusOK, `{"token":"`+token+`"}`)
	svc := NewService(server.URL, nil, nil, nil)

	session, err := svc.Login(context.Background(), "a@x.com", "pw", false)
	require.NoError(t, err)
	assert.True(t, exp.Equal(session.ExpiresAt))
}

func TestRestore(t *testing.T) {
	credentials := store.NewMemoryStore(nil)
	require.NoError(t, credentials.Save(context.Background(), &store.Record{
		Token:          "T1",
		TenantID:       "17",
		OrganizationID: "org-abc",
		Email:          "a@x.com",
	}))
	svc := NewService("http://unused", nil, credentials, nil)

	session, err := svc.Restore(context.Background())
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "T1", session.Token)
	assert.Equal(t, types.ID("17"), session.TenantID)
	assert.Equal(t, "org-abc", session.OrganizationID)
	assert.Equal(t, "a@x.com", session.Email)
	assert.Empty(t, session.Password)
	assert.Equal(t, 0, session.RetryCount)
}

func TestRestore_NoSession(t *testing.T) {
	for name, credentials := range map[string]store.CredentialStore{
		"no store":    nil,
		"empty store": store.NewMemoryStore(nil),
	} {
		t.Run(name, func(t *testing.T) {
			svc := NewService("http://unused", nil, credentials, nil)
			session, err := svc.Restore(context.Background())
			assert.NoError(t, err)
			assert.Nil(t, session)
		})
	}
}

func TestRestore_MalformedRecordIsNoSession(t *testing.T) {
	credentials := store.NewMemoryStore(nil)
	credentials.SetRaw([]byte("{not json"))
	svc := NewService("http://unused", nil, credentials, nil)

	session, err := svc.Restore(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, session)
}

func TestClear(t *testing.T) {
	credentials := store.NewMemoryStore(nil)
	require.NoError(t, credentials.Save(context.Background(), &store.Record{Token: "T1"}))
	svc := NewService("http://unused", nil, credentials, nil)

	require.NoError(t, svc.Clear(context.Background()))
	record, err := credentials.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, record)

	credentials.SetReadOnly(true)
	assert.NoError(t, svc.Clear(context.Background()), "read-only stores are a soft failure")
}
