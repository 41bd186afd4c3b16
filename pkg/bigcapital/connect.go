package bigcapital

import (
	"context"
)

// FromStore creates a client from the session held in opts.Store. It returns
// nil, nil when the store holds no usable session so the caller can log in.
// A malformed record counts as no session.
func FromStore(ctx context.Context, opts *ClientOptions) (*Client, error) {
	client, err := NewClient(withoutToken(opts))
	if err != nil {
		return nil, err
	}

	found, err := client.Auth.Restore(ctx)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return client, nil
}

// Login creates a client and authenticates with email and password. When persist
// is set the session is saved to opts.Store; a failed save does not fail the login.
func Login(ctx context.Context, email, password string, opts *ClientOptions, persist bool) (*Client, error) {
	opts = withoutToken(opts)
	if opts.Email == "" {
		opts.Email = email
	}
	if opts.Password == "" {
		opts.Password = password
	}

	client, err := NewClient(opts)
	if err != nil {
		return nil, err
	}

	if err := client.Auth.Login(ctx, email, password, persist); err != nil {
		return nil, err
	}
	return client, nil
}

// Connect returns an authenticated client using the first source available:
// opts.Token, the session in opts.Store, then opts.Email and opts.Password.
func Connect(ctx context.Context, opts *ClientOptions, persist bool) (*Client, error) {
	if opts == nil {
		opts = &ClientOptions{}
	}

	if opts.Token != "" {
		return NewClient(opts)
	}

	if opts.Store != nil {
		client, err := FromStore(ctx, opts)
		if err != nil {
			return nil, err
		}
		if client != nil {
			return client, nil
		}
	}

	if opts.Email == "" || opts.Password == "" {
		return nil, ErrMissingCredentials
	}

	return Login(ctx, opts.Email, opts.Password, opts, persist)
}

// withoutToken copies opts so a restored or fresh session is not overridden
func withoutToken(opts *ClientOptions) *ClientOptions {
	copied := ClientOptions{}
	if opts != nil {
		copied = *opts
	}
	copied.Token = ""
	return &copied
}
