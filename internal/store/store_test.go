package store

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"

	"github.com/eshaffer321/bigcapital-go/internal/types"
)

func fixedClock(t *testing.T, at time.Time) {
	t.Helper()
	prev := now
	now = func() time.Time { return at }
	t.Cleanup(func() { now = prev })
}

func sampleRecord() *Record {
	return &Record{
		Token:          "eyJhbGciOiJIUzI1NiJ9.payload.sig",
		TenantID:       "17",
		OrganizationID: "org-abc",
		Email:          "a@x.com",
		Timestamp:      1,
	}
}

// backends returns freshly opened stores that round-trip within one value
func backends(t *testing.T) map[string]CredentialStore {
	t.Helper()
	dir := t.TempDir()

	stores := map[string]CredentialStore{
		"memory": NewMemoryStore(nil),
		"file":   NewFileStore(filepath.Join(dir, "session", "auth.json"), nil),
		"bolt":   NewBoltStore(filepath.Join(dir, "bolt", "auth.db"), "tenant-17", nil),
	}
	for name, s := range stores {
		require.NoError(t, s.Open(context.Background()), name)
		s := s
		t.Cleanup(func() { _ = s.Close() })
	}
	return stores
}

func TestStores_SaveLoadRoundTrip(t *testing.T) {
	written := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	fixedClock(t, written)
	ctx := context.Background()

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			input := sampleRecord()
			require.NoError(t, s.Save(ctx, input))

			got, err := s.Load(ctx)
			require.NoError(t, err)
			require.NotNil(t, got)

			want := *input
			want.Timestamp = written.UnixMilli()
			assert.Equal(t, &want, got)
			assert.Equal(t, int64(1), input.Timestamp, "caller's record must not be mutated")
		})
	}
}

func TestStores_LoadIsIdempotent(t *testing.T) {
	ctx := context.Background()

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Save(ctx, sampleRecord()))

			first, err := s.Load(ctx)
			require.NoError(t, err)
			second, err := s.Load(ctx)
			require.NoError(t, err)

			assert.Equal(t, first, second)
		})
	}
}

func TestStores_SaveOverwrites(t *testing.T) {
	ctx := context.Background()

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Save(ctx, sampleRecord()))
			require.NoError(t, s.Save(ctx, &Record{Token: "T2"}))

			got, err := s.Load(ctx)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, "T2", got.Token)
			assert.Empty(t, got.OrganizationID)
		})
	}
}

func TestStores_ClearRemovesRecord(t *testing.T) {
	ctx := context.Background()

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Save(ctx, sampleRecord()))
			require.NoError(t, s.Clear(ctx))

			got, err := s.Load(ctx)
			require.NoError(t, err)
			assert.Nil(t, got)

			// clearing an empty store is fine
			require.NoError(t, s.Clear(ctx))
		})
	}
}

func TestStores_EmptyLoadIsAbsent(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			got, err := s.Load(context.Background())
			require.NoError(t, err)
			assert.Nil(t, got)
		})
	}
}

func TestStores_SaveRejectsRecordWithoutToken(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			err := s.Save(context.Background(), &Record{Email: "a@x.com"})
			assert.ErrorIs(t, err, types.ErrMalformedRecord)
		})
	}
}

func TestMemoryStore_MalformedRecordIsAbsent(t *testing.T) {
	for _, raw := range []string{"not json at all", `{"token":""}`, `{"token":`} {
		s := NewMemoryStore(nil)
		s.SetRaw([]byte(raw))

		got, err := s.Load(context.Background())
		assert.NoError(t, err, raw)
		assert.Nil(t, got, raw)
	}
}

func TestMemoryStore_ReadOnly(t *testing.T) {
	s := NewMemoryStore(nil)
	require.NoError(t, s.Save(context.Background(), sampleRecord()))
	s.SetReadOnly(true)

	assert.ErrorIs(t, s.Save(context.Background(), &Record{Token: "T2"}), ErrReadOnly)
	assert.ErrorIs(t, s.Clear(context.Background()), ErrReadOnly)

	got, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sampleRecord().Token, got.Token)
}

func TestFileStore_MalformedFileIsAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auth.json")
	require.NoError(t, os.WriteFile(path, []byte("<html>"), 0600))

	got, err := NewFileStore(path, nil).Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFileStore_Permissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "auth.json")
	s := NewFileStore(path, nil)
	require.NoError(t, s.Open(context.Background()))
	require.NoError(t, s.Save(context.Background(), sampleRecord()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestBoltStore_MalformedRecordIsAbsent(t *testing.T) {
	s := NewBoltStore(filepath.Join(t.TempDir(), "auth.db"), "", nil)
	require.NoError(t, s.Open(context.Background()))
	defer s.Close()

	require.NoError(t, s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(credentialsBucket).Put(s.key, []byte("garbage"))
	}))

	got, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestBoltStore_RequiresOpen(t *testing.T) {
	s := NewBoltStore(filepath.Join(t.TempDir(), "auth.db"), "", nil)

	_, err := s.Load(context.Background())
	assert.ErrorIs(t, err, bolt.ErrDatabaseNotOpen)
	assert.NoError(t, s.Close())
}

func TestCookieStore_SaveThenLoadAcrossRequests(t *testing.T) {
	fixedClock(t, time.UnixMilli(1700000000000))
	ctx := context.Background()

	rec := httptest.NewRecorder()
	writer := NewCookieStore(httptest.NewRequest(http.MethodPost, "/expenses", nil), rec, CookieOptions{Secure: true})
	require.NoError(t, writer.Save(ctx, sampleRecord()))

	// visible within the same request
	sameReq, err := writer.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, sameReq)
	assert.Equal(t, int64(1700000000000), sameReq.Timestamp)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, types.AuthCookieName, c.Name)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, int(types.RecordMaxAge.Seconds()), c.MaxAge)

	next := httptest.NewRequest(http.MethodGet, "/expenses", nil)
	next.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	reader := NewCookieStore(next, nil, CookieOptions{})

	got, err := reader.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sameReq, got)
}

func TestCookieStore_ReadOnlyWithoutWriter(t *testing.T) {
	s := NewCookieStore(httptest.NewRequest(http.MethodGet, "/", nil), nil, CookieOptions{})

	assert.ErrorIs(t, s.Save(context.Background(), sampleRecord()), ErrReadOnly)
	assert.ErrorIs(t, s.Clear(context.Background()), ErrReadOnly)
}

func TestCookieStore_MalformedCookieIsAbsent(t *testing.T) {
	for _, value := range []string{url.QueryEscape("not json"), "%zz", url.QueryEscape(`{"token":""}`)} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: types.AuthCookieName, Value: value})

		got, err := NewCookieStore(req, nil, CookieOptions{}).Load(context.Background())
		assert.NoError(t, err)
		assert.Nil(t, got, value)
	}
}

func TestCookieStore_AcceptsNumericTenantID(t *testing.T) {
	raw := `{"token":"T1","tenantId":17,"organizationId":"org-abc","email":"a@x.com","timestamp":1700000000000}`
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: types.AuthCookieName, Value: url.QueryEscape(raw)})

	got, err := NewCookieStore(req, nil, CookieOptions{}).Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, types.ID("17"), got.TenantID)
	assert.Equal(t, "T1", got.Session().Token)
}

func TestCookieStore_ClearExpiresCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.AddCookie(&http.Cookie{Name: types.AuthCookieName, Value: url.QueryEscape(`{"token":"T1"}`)})
	rec := httptest.NewRecorder()
	s := NewCookieStore(req, rec, CookieOptions{})

	require.NoError(t, s.Clear(context.Background()))

	got, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, got, "a cleared record stays cleared for the rest of the request")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].MaxAge < 0)
}

func TestRedisStore_RoundTrip(t *testing.T) {
	addr := os.Getenv("BIGCAPITAL_TEST_REDIS_URL")
	if addr == "" {
		t.Skip("BIGCAPITAL_TEST_REDIS_URL not set")
	}

	opts, err := redislib.ParseURL(addr)
	require.NoError(t, err)

	ctx := context.Background()
	s := NewRedisStore(redislib.NewClient(opts), "test-"+t.Name(), time.Minute, nil)
	require.NoError(t, s.Open(ctx))
	defer s.Close()

	require.NoError(t, s.Save(ctx, sampleRecord()))
	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleRecord().Token, got.Token)

	require.NoError(t, s.Clear(ctx))
	got, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisStore_KeyIsScoped(t *testing.T) {
	s := NewRedisStore(redislib.NewClient(&redislib.Options{Addr: "localhost:0"}), "tenant-17", 0, nil)
	defer s.Close()

	assert.Equal(t, "bigcapital_auth:tenant-17", s.Key())
	assert.Equal(t, types.RecordMaxAge, s.ttl)
}
