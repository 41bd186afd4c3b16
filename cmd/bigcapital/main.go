package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/getsentry/sentry-go"
	"github.com/spf13/cobra"

	"github.com/eshaffer321/bigcapital-go/internal/config"
	"github.com/eshaffer321/bigcapital-go/internal/logging"
	"github.com/eshaffer321/bigcapital-go/pkg/bigcapital"
)

var version = "0.1.0"

// app carries state shared by every command
type app struct {
	cfg    *config.Config
	logger *logging.Adapter

	apiURL   string
	store    string
	logLevel string
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "bigcapital",
		Short: "Work with a Bigcapital organization from the command line",
		Long: `A CLI for the Bigcapital accounting API.

Sessions are persisted to the configured credential store (file, bolt, redis or memory)
and re-authenticated automatically when the API rejects an expired token.`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.apiURL, "api-url", "", "Bigcapital API base URL (default $BIGCAPITAL_API_URL)")
	rootCmd.PersistentFlags().StringVar(&a.store, "store", "", "credential store: memory, file, redis or bolt (default $BIGCAPITAL_STORE)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error (default $LOG_LEVEL)")

	rootCmd.AddCommand(
		a.loginCmd(),
		a.logoutCmd(),
		a.sessionCmd(),
		a.expensesCmd(),
		a.vendorsCmd(),
		a.accountsCmd(),
		a.invoicesCmd(),
		a.attachmentsCmd(),
	)
	return rootCmd
}

// setup loads configuration and applies flag overrides
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	if a.apiURL != "" {
		cfg.APIURL = a.apiURL
	}
	if a.store != "" {
		cfg.Store.Kind = a.store
	}
	if a.logLevel != "" {
		cfg.Logger.Level = a.logLevel
	}

	a.cfg = cfg
	a.logger = logging.NewLogger(logging.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	}).With("component", "cli")
	return nil
}

// options builds client options backed by the configured store
func (a *app) options(ctx context.Context) (*bigcapital.ClientOptions, error) {
	credentials, err := config.OpenStore(ctx, a.cfg.Store, a.logger)
	if err != nil {
		return nil, err
	}

	opts := &bigcapital.ClientOptions{
		BaseURL:   a.cfg.APIURL,
		Timeout:   a.cfg.Timeout,
		Token:     a.cfg.Token,
		Email:     a.cfg.Email,
		Password:  a.cfg.Password,
		Store:     credentials,
		Logger:    a.logger,
		SentryDSN: a.cfg.SentryDSN,
	}
	if a.cfg.SentryDSN != "" {
		opts.SentryOptions = &sentry.ClientOptions{Environment: a.cfg.Environment}
	}
	if a.cfg.RetryMax > 0 {
		opts.RetryConfig = &bigcapital.RetryConfig{
			MaxRetries: a.cfg.RetryMax,
			RetryWait:  bigcapital.DefaultRetryWait,
			MaxWait:    bigcapital.DefaultRetryMaxWait,
		}
	}
	return opts, nil
}

// connect returns an authenticated client; the caller must Close it
func (a *app) connect(ctx context.Context) (*bigcapital.Client, error) {
	opts, err := a.options(ctx)
	if err != nil {
		return nil, err
	}

	client, err := bigcapital.Connect(ctx, opts, true)
	if err != nil {
		_ = opts.Store.Close()
		if bigcapital.IsAuthError(err) && !a.cfg.HasCredentials() {
			return nil, fmt.Errorf("%w (run `bigcapital login` or set BIGCAPITAL_EMAIL and BIGCAPITAL_PASSWORD)", err)
		}
		return nil, err
	}
	return client, nil
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
