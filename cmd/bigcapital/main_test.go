package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/bigcapital-go/pkg/bigcapital"
)

func fakeBigcapital(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	var logins atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		logins.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token": "cli-token", "tenant_id": 3, "tenant": {"organizationId": "org-cli"}}`))
	})
	mux.HandleFunc("/api/expenses", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-access-token") != "cli-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"expenses": [{"id": 11, "reference_no": "R-11"}], "pagination": {"total": 1, "page": 1, "page_size": 20}}`))
	})
	mux.HandleFunc("/api/sales/invoices/5", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-invoice"))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, &logins
}

func setupEnv(t *testing.T, storePath string) {
	t.Helper()
	chdir(t, t.TempDir())
	t.Setenv("BIGCAPITAL_EMAIL", "owner@acme.test")
	t.Setenv("BIGCAPITAL_PASSWORD", "secret")
	t.Setenv("BIGCAPITAL_TOKEN", "")
	t.Setenv("BIGCAPITAL_STORE", "bolt")
	t.Setenv("BIGCAPITAL_STORE_PATH", storePath)
	t.Setenv("LOG_LEVEL", "error")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCLI_LoginSessionAndList(t *testing.T) {
	server, logins := fakeBigcapital(t)
	setupEnv(t, filepath.Join(t.TempDir(), "session.db"))

	out, err := run(t, "login", "--api-url", server.URL)
	require.NoError(t, err)

	var session map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &session))
	assert.Equal(t, "cli-token", session["token"])
	assert.Equal(t, "org-cli", session["organizationId"])
	assert.NotContains(t, out, "secret")

	out, err = run(t, "session", "--api-url", server.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "cli-token")

	out, err = run(t, "expenses", "list", "--api-url", server.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "R-11")

	// every command after login reuses the stored session
	assert.Equal(t, int32(1), logins.Load())

	_, err = run(t, "logout", "--api-url", server.URL)
	require.NoError(t, err)

	_, err = run(t, "session", "--api-url", server.URL)
	assert.Error(t, err)
}

func TestCLI_InvoicePDF(t *testing.T) {
	server, _ := fakeBigcapital(t)
	setupEnv(t, filepath.Join(t.TempDir(), "session.db"))

	out := filepath.Join(t.TempDir(), "inv.pdf")
	_, err := run(t, "invoices", "pdf", "5", "-o", out, "--api-url", server.URL)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-invoice", string(data))
}

func TestCLI_LoginHintWithoutCredentials(t *testing.T) {
	server, logins := fakeBigcapital(t)
	setupEnv(t, filepath.Join(t.TempDir(), "session.db"))
	t.Setenv("BIGCAPITAL_EMAIL", "")
	t.Setenv("BIGCAPITAL_PASSWORD", "")

	_, err := run(t, "expenses", "list", "--api-url", server.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, bigcapital.ErrMissingCredentials)
	assert.Contains(t, err.Error(), "bigcapital login")
	assert.Equal(t, int32(0), logins.Load())
}

func TestCLI_UnknownStore(t *testing.T) {
	setupEnv(t, filepath.Join(t.TempDir(), "session.db"))

	_, err := run(t, "session", "--store", "carrier-pigeon")
	assert.Error(t, err)
}

func TestParseID(t *testing.T) {
	id, err := parseID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, bad := range []string{"", "abc", "-1", "0"} {
		_, err := parseID(bad)
		assert.Error(t, err, bad)
	}
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
