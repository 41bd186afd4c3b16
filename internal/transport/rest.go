package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/eshaffer321/bigcapital-go/internal/types"
	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"
)

const (
	accessTokenHeader    = "x-access-token"
	organizationIDHeader = "organization-id"
	requestIDHeader      = "x-request-id"
	contentType          = "application/json"

	maxLoggedBody = 512
)

// Authenticator issues fresh sessions when the API rejects the current token
type Authenticator interface {
	Login(ctx context.Context, email, password string, persist bool) (*types.Session, error)
	Clear(ctx context.Context) error
}

// Request describes one API call. It is never modified by the transport, so the
// same value can be re-sent after re-authentication.
type Request struct {
	Method string
	Path   string

	// Body is JSON-encoded unless RawBody is set
	Body        interface{}
	RawBody     []byte
	ContentType string

	Headers map[string]string
}

// Response is the raw outcome of a successful call
type Response struct {
	StatusCode  int
	Header      http.Header
	ContentType string
	Body        []byte
}

// IsJSON reports whether the response carried a JSON payload
func (r *Response) IsJSON() bool {
	return isJSON(r.ContentType)
}

// RESTTransport executes authenticated requests against the Bigcapital API and
// re-authenticates when the token is rejected
type RESTTransport struct {
	baseURL     string
	httpClient  *http.Client
	retryClient *retryablehttp.Client
	headers     map[string]string
	logger      types.Logger
	hooks       *types.Hooks

	auth            Authenticator
	defaultEmail    string
	defaultPassword string
	maxRetries      int
	requestTimeout  time.Duration

	mu      sync.Mutex
	session *types.Session
	reauth  singleflight.Group

	// orgOverride wins over the organization of any session, fresh or restored
	orgOverride string
}

// NewRESTTransport creates a new REST transport
func NewRESTTransport(opts *Options) *RESTTransport {
	if opts == nil {
		opts = &Options{}
	}

	if opts.BaseURL == "" {
		opts.BaseURL = types.DefaultBaseURL
	}

	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{
			Timeout: types.DefaultTimeout,
		}
	}

	if opts.MaxRetries <= 0 {
		opts.MaxRetries = types.MaxRetries
	}

	var retryClient *retryablehttp.Client
	if opts.RetryConfig != nil {
		retryClient = retryablehttp.NewClient()
		retryClient.HTTPClient = opts.HTTPClient
		retryClient.RetryMax = opts.RetryConfig.MaxRetries
		retryClient.RetryWaitMin = opts.RetryConfig.RetryWait
		retryClient.RetryWaitMax = opts.RetryConfig.MaxWait
		retryClient.CheckRetry = retryPolicy
		// hand the last response back so status mapping still applies
		retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

		if opts.Logger != nil {
			retryClient.Logger = &retryLogger{logger: opts.Logger}
		} else {
			retryClient.Logger = nil
		}
	}

	headers := map[string]string{
		"Accept":       contentType,
		"Content-Type": contentType,
		"User-Agent":   types.UserAgent,
	}

	for k, v := range opts.Headers {
		headers[k] = v
	}

	return &RESTTransport{
		baseURL:         strings.TrimRight(opts.BaseURL, "/"),
		httpClient:      opts.HTTPClient,
		retryClient:     retryClient,
		headers:         headers,
		logger:          opts.Logger,
		hooks:           opts.Hooks,
		auth:            opts.Authenticator,
		defaultEmail:    opts.DefaultEmail,
		defaultPassword: opts.DefaultPassword,
		maxRetries:      opts.MaxRetries,
		requestTimeout:  opts.RequestTimeout,
	}
}

// Execute sends req and decodes a JSON payload into result (when non-nil).
//
// A 401 on the first attempt triggers re-authentication; the request is then
// re-sent once. Any non-2xx after that is returned as an API error.
func (t *RESTTransport) Execute(ctx context.Context, req *Request, result interface{}) (*Response, error) {
	if t.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.requestTimeout)
		defer cancel()
	}

	token, orgID, ok := t.credentials()
	if !ok {
		return nil, types.ErrNotAuthenticated
	}

	requestID := uuid.New().String()

	resp, err := t.send(ctx, req, requestID, token, orgID)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized && t.auth != nil {
		if err := t.reauthenticate(ctx, token); err != nil {
			t.reportError(ctx, err)
			return nil, err
		}

		token, orgID, _ = t.credentials()
		resp, err = t.send(ctx, req, requestID, token, orgID)
		if err != nil {
			return nil, err
		}
	}

	return t.complete(ctx, resp, result)
}

// complete maps a response to the caller's result or an API error
func (t *RESTTransport) complete(ctx context.Context, resp *Response, result interface{}) (*Response, error) {
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := t.handleHTTPError(resp.StatusCode, resp.Body)
		t.reportError(ctx, err)
		return nil, err
	}

	t.resetRetries()

	if result != nil && resp.IsJSON() && len(bytes.TrimSpace(resp.Body)) > 0 {
		if err := json.Unmarshal(resp.Body, result); err != nil {
			return resp, errors.Wrap(err, "failed to unmarshal result")
		}
	}
	return resp, nil
}

// send performs one HTTP round trip
func (t *RESTTransport) send(ctx context.Context, req *Request, requestID, token, orgID string) (*Response, error) {
	httpReq, err := t.newHTTPRequest(ctx, req, requestID, token, orgID)
	if err != nil {
		return nil, err
	}

	if t.hooks != nil && t.hooks.OnRequest != nil {
		t.hooks.OnRequest(ctx, httpReq)
	}

	if t.logger != nil {
		t.logger.Debug("API request", "method", httpReq.Method, "path", req.Path, "request_id", requestID)
	}

	start := time.Now()
	resp, err := t.doRequest(httpReq)
	duration := time.Since(start)

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		netErr := types.NewNetworkError("request failed", err)
		netErr.RequestID = requestID
		t.reportError(ctx, netErr)
		return nil, netErr
	}
	defer resp.Body.Close()

	if t.hooks != nil && t.hooks.OnResponse != nil {
		t.hooks.OnResponse(ctx, resp, duration)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		netErr := types.NewNetworkError("failed to read response", err)
		netErr.RequestID = requestID
		return nil, netErr
	}

	if t.logger != nil {
		t.logger.Debug("API response",
			"status", resp.StatusCode,
			"duration", duration,
			"size", len(body),
			"body", truncateBody(body),
		)
	}

	return &Response{
		StatusCode:  resp.StatusCode,
		Header:      resp.Header,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

func (t *RESTTransport) newHTTPRequest(ctx context.Context, req *Request, requestID, token, orgID string) (*http.Request, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	bodyType := ""
	if method != http.MethodGet {
		switch {
		case req.RawBody != nil:
			body = bytes.NewReader(req.RawBody)
			bodyType = req.ContentType
		case req.Body != nil:
			data, err := json.Marshal(req.Body)
			if err != nil {
				return nil, errors.Wrap(err, "failed to marshal request")
			}
			body = bytes.NewReader(data)
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, t.baseURL+req.Path, body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}

	for k, v := range t.headers {
		httpReq.Header.Set(k, v)
	}
	if bodyType != "" {
		httpReq.Header.Set("Content-Type", bodyType)
	}

	httpReq.Header.Set(accessTokenHeader, token)
	if orgID != "" {
		httpReq.Header.Set(organizationIDHeader, orgID)
	}
	httpReq.Header.Set(requestIDHeader, requestID)

	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	return httpReq, nil
}

// retryPolicy follows retryablehttp's default policy, except that a 5xx reply to a
// request that may have changed server state (POST, PATCH, DELETE) is not retried.
// 429 is retried for every method since the server refused the request.
func retryPolicy(ctx context.Context, resp *http.Response, err error) (bool, error) {
	retry, checkErr := retryablehttp.DefaultRetryPolicy(ctx, resp, err)
	if !retry || checkErr != nil || resp == nil || resp.Request == nil {
		return retry, checkErr
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return true, nil
	}
	return idempotent(resp.Request.Method), nil
}

func idempotent(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodPut:
		return true
	}
	return false
}

// doRequest executes the HTTP request with retry if configured
func (t *RESTTransport) doRequest(req *http.Request) (*http.Response, error) {
	if t.retryClient != nil {
		retryReq, err := retryablehttp.FromRequest(req)
		if err != nil {
			return nil, err
		}
		return t.retryClient.Do(retryReq)
	}
	return t.httpClient.Do(req)
}

// reauthenticate runs the bounded login loop for a request rejected with staleToken.
// It returns nil once the session holds a token other than staleToken.
func (t *RESTTransport) reauthenticate(ctx context.Context, staleToken string) error {
	var lastErr error
	for {
		_, err, _ := t.reauth.Do(staleToken, func() (interface{}, error) {
			return nil, t.reauthAttempt(ctx, staleToken)
		})
		if err == nil {
			return nil
		}

		if errors.Is(err, errExhausted) {
			t.clearStore(ctx)
			return types.NewAccountInvalid(t.maxRetries, lastErr)
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return types.NewNetworkError("re-authentication interrupted", ctxErr)
		}
		lastErr = err
	}
}

var errExhausted = errors.New("re-authentication budget exhausted")

// reauthAttempt performs at most one login and advances the session's state
func (t *RESTTransport) reauthAttempt(ctx context.Context, staleToken string) error {
	t.mu.Lock()
	if t.session == nil {
		t.mu.Unlock()
		return errExhausted
	}

	// another request already replaced the token
	if t.session.Token != staleToken && t.session.Token != "" {
		t.mu.Unlock()
		return nil
	}

	state := stateOf(t.session.RetryCount, t.maxRetries)
	if state == Exhausted {
		t.mu.Unlock()
		return errExhausted
	}

	t.session.RetryCount++
	attempt := t.session.RetryCount

	email, password := t.session.Email, t.session.Password
	if email == "" || password == "" {
		email, password = t.defaultEmail, t.defaultPassword
	}
	if email == "" || password == "" {
		t.session.RetryCount = t.maxRetries
		t.mu.Unlock()
		t.notifyReauth(ctx, attempt, types.ErrMissingCredentials)
		return types.ErrMissingCredentials
	}
	t.mu.Unlock()

	if t.logger != nil {
		t.logger.Info("Token rejected, re-authenticating",
			"state", state.String(),
			"attempt", attempt,
			"max_attempts", t.maxRetries,
			"email", email,
		)
	}

	fresh, err := t.auth.Login(ctx, email, password, true)
	t.notifyReauth(ctx, attempt, err)
	if err != nil {
		if t.logger != nil {
			t.logger.Warn("Re-authentication failed", "attempt", attempt, "error", err)
		}
		return err
	}

	t.mu.Lock()
	t.session.Refresh(fresh)
	if t.session.Email == "" {
		t.session.Email = email
	}
	t.applyOverride()
	t.mu.Unlock()

	if t.logger != nil {
		t.logger.Info("Re-authentication succeeded", "attempt", attempt)
	}
	return nil
}

func (t *RESTTransport) clearStore(ctx context.Context) {
	if err := t.auth.Clear(context.WithoutCancel(ctx)); err != nil && t.logger != nil {
		t.logger.Warn("Failed to clear credential record", "error", err)
	}
	if t.logger != nil {
		t.logger.Error("Re-authentication budget exhausted", "max_attempts", t.maxRetries)
	}
}

func (t *RESTTransport) notifyReauth(ctx context.Context, attempt int, err error) {
	if t.hooks != nil && t.hooks.OnReauthenticate != nil {
		t.hooks.OnReauthenticate(ctx, attempt, err)
	}
}

func (t *RESTTransport) reportError(ctx context.Context, err error) {
	if t.hooks != nil && t.hooks.OnError != nil {
		t.hooks.OnError(ctx, err)
	}
}

// credentials snapshots the headers derived from the session
func (t *RESTTransport) credentials() (token, orgID string, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.session == nil || t.session.Token == "" {
		return "", "", false
	}
	orgID = t.session.OrganizationID
	if t.orgOverride != "" {
		orgID = t.orgOverride
	}
	return t.session.Token, orgID, true
}

// applyOverride must be called with t.mu held
func (t *RESTTransport) applyOverride() {
	if t.session != nil && t.orgOverride != "" {
		t.session.OrganizationID = t.orgOverride
	}
}

func (t *RESTTransport) resetRetries() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.session != nil {
		t.session.RetryCount = 0
	}
}

// SetAuth sets the authentication token
func (t *RESTTransport) SetAuth(token string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.session == nil {
		t.session = &types.Session{}
	}
	t.session.Token = token
	t.applyOverride()
}

// SetSession sets the session
func (t *RESTTransport) SetSession(session *types.Session) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.session = session
	t.applyOverride()
}

// SetOrganizationID overrides the organization sent with every request, including
// requests made after a re-authentication. An empty id removes the override.
func (t *RESTTransport) SetOrganizationID(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.orgOverride = id
	t.applyOverride()
}

// Session returns a copy of the current session, or nil
func (t *RESTTransport) Session() *types.Session {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.session == nil {
		return nil
	}
	s := *t.session
	return &s
}

// handleHTTPError maps a non-2xx response to an API error
func (t *RESTTransport) handleHTTPError(statusCode int, body []byte) error {
	msg := errorMessage(body)
	if msg == "" {
		msg = httpStatusDescription(statusCode)
	}
	if msg == "" {
		msg = http.StatusText(statusCode)
	}
	return types.NewAPIError(statusCode, msg)
}

// errorMessage extracts message, then error, from a JSON body and falls back to the raw text
func errorMessage(body []byte) string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err == nil {
		for _, key := range []string{"message", "error"} {
			var s string
			if raw, ok := fields[key]; ok && json.Unmarshal(raw, &s) == nil && s != "" {
				return s
			}
		}
	}
	return strings.TrimSpace(string(body))
}

// httpStatusDescription returns a human-readable description for common HTTP status codes.
// This helps users understand errors like 525 (SSL Handshake Failed) which are Cloudflare-specific.
func httpStatusDescription(statusCode int) string {
	descriptions := map[int]string{
		500: "Internal Server Error",
		502: "Bad Gateway",
		503: "Service Unavailable",
		504: "Gateway Timeout",
		520: "Web Server Error",
		521: "Web Server Is Down",
		522: "Connection Timed Out",
		523: "Origin Is Unreachable",
		524: "A Timeout Occurred",
		525: "SSL Handshake Failed",
		526: "Invalid SSL Certificate",
		530: "Origin DNS Error",
	}
	return descriptions[statusCode]
}

func isJSON(value string) bool {
	mediaType, _, err := mime.ParseMediaType(value)
	if err != nil {
		return false
	}
	return mediaType == contentType || strings.HasSuffix(mediaType, "+json")
}

// truncateBody truncates long bodies for logging
func truncateBody(body []byte) string {
	if len(body) <= maxLoggedBody {
		return string(body)
	}
	return fmt.Sprintf("%s... (%d bytes)", body[:maxLoggedBody], len(body))
}

// Options for REST transport
type Options struct {
	BaseURL     string
	HTTPClient  *http.Client
	Headers     map[string]string
	RetryConfig *types.RetryConfig
	Logger      types.Logger
	Hooks       *types.Hooks

	// Authenticator is consulted after a 401. Without one, a 401 is returned as an API error.
	Authenticator Authenticator

	// DefaultEmail and DefaultPassword are used when the session carries no credentials
	DefaultEmail    string
	DefaultPassword string

	// MaxRetries bounds re-authentication attempts; defaults to types.MaxRetries
	MaxRetries int

	// RequestTimeout bounds a whole Execute call, re-authentication included
	RequestTimeout time.Duration
}

// retryLogger adapts our logger to retryablehttp
type retryLogger struct {
	logger types.Logger
}

func (l *retryLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, keysAndValues...)
}

func (l *retryLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info(msg, keysAndValues...)
}

func (l *retryLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l *retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn(msg, keysAndValues...)
}
