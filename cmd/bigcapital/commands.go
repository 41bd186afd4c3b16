package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/eshaffer321/bigcapital-go/pkg/bigcapital"
)

func (a *app) loginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and persist the session to the credential store",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if email == "" {
				email = a.cfg.Email
			}
			if password == "" {
				password = a.cfg.Password
			}
			if email == "" || password == "" {
				return fmt.Errorf("%w: pass --email and --password or set BIGCAPITAL_EMAIL and BIGCAPITAL_PASSWORD", bigcapital.ErrMissingCredentials)
			}

			opts, err := a.options(ctx)
			if err != nil {
				return err
			}
			opts.Token = ""

			client, err := bigcapital.Login(ctx, email, password, opts, true)
			if err != nil {
				_ = opts.Store.Close()
				return err
			}
			defer client.Close()

			a.logger.Info("Logged in", "email", email, "store", a.cfg.Store.Kind)
			return printJSON(cmd, client.GetSession())
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	return cmd
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the persisted session",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.options(cmd.Context())
			if err != nil {
				return err
			}

			client, err := bigcapital.NewClient(opts)
			if err != nil {
				return err
			}
			defer client.Close()

			return client.Auth.Logout(cmd.Context())
		},
	}
}

func (a *app) sessionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "session",
		Short: "Show the persisted session",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.options(cmd.Context())
			if err != nil {
				return err
			}

			client, err := bigcapital.FromStore(cmd.Context(), opts)
			if err != nil {
				_ = opts.Store.Close()
				return err
			}
			if client == nil {
				_ = opts.Store.Close()
				return fmt.Errorf("no session in %s store", a.cfg.Store.Kind)
			}
			defer client.Close()

			return printJSON(cmd, client.GetSession())
		},
	}
}

func (a *app) expensesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expenses",
		Short: "List and manage expenses",
	}

	var (
		page, pageSize int
		search, sortBy string
		all            bool
	)

	list := &cobra.Command{
		Use:   "list",
		Short: "List expenses",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, err := a.connect(ctx)
			if err != nil {
				return err
			}
			defer client.Close()

			query := client.Expenses.Query().Page(page).PageSize(pageSize)
			if search != "" {
				query = query.Search(search)
			}
			if sortBy != "" {
				query = query.SortBy(sortBy, "desc")
			}

			if !all {
				result, err := query.Execute(ctx)
				if err != nil {
					return err
				}
				return printJSON(cmd, result)
			}

			var expenses []*bigcapital.Expense
			stream, errs := query.Stream(ctx)
			for expense := range stream {
				expenses = append(expenses, expense)
			}
			if err := <-errs; err != nil {
				return err
			}
			return printJSON(cmd, expenses)
		},
	}
	list.Flags().IntVar(&page, "page", 1, "page number")
	list.Flags().IntVar(&pageSize, "page-size", 20, "page size")
	list.Flags().StringVar(&search, "search", "", "search keyword")
	list.Flags().StringVar(&sortBy, "sort-by", "", "column to sort by, descending")
	list.Flags().BoolVar(&all, "all", false, "fetch every page")

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			client, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer client.Close()

			expense, err := client.Expenses.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(cmd, expense)
		},
	}

	publish := &cobra.Command{
		Use:   "publish <id>",
		Short: "Publish a draft expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			client, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer client.Close()

			result, err := client.Expenses.Publish(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(cmd, result)
		},
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			client, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer client.Close()

			return client.Expenses.Delete(cmd.Context(), id)
		},
	}

	cmd.AddCommand(list, get, publish, del)
	return cmd
}

func (a *app) vendorsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vendors",
		Short: "List vendors",
	}

	var page, pageSize int
	list := &cobra.Command{
		Use:   "list",
		Short: "List vendors",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer client.Close()

			result, err := client.Vendors.List(cmd.Context(), &bigcapital.ListOptions{Page: page, PageSize: pageSize})
			if err != nil {
				return err
			}
			return printJSON(cmd, result)
		},
	}
	list.Flags().IntVar(&page, "page", 1, "page number")
	list.Flags().IntVar(&pageSize, "page-size", 100, "page size")

	cmd.AddCommand(list)
	return cmd
}

func (a *app) accountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Chart of accounts",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer client.Close()

			accounts, err := client.Accounts.List(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, accounts)
		},
	})
	return cmd
}

func (a *app) invoicesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invoices",
		Short: "List invoices and download PDFs",
	}

	var page, pageSize int
	list := &cobra.Command{
		Use:   "list",
		Short: "List invoices",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer client.Close()

			result, err := client.Invoices.List(cmd.Context(), &bigcapital.ListOptions{Page: page, PageSize: pageSize})
			if err != nil {
				return err
			}
			return printJSON(cmd, result)
		},
	}
	list.Flags().IntVar(&page, "page", 1, "page number")
	list.Flags().IntVar(&pageSize, "page-size", 20, "page size")

	var out string
	pdf := &cobra.Command{
		Use:   "pdf <id>",
		Short: "Download an invoice as PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			client, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer client.Close()

			data, err := client.Invoices.PDF(cmd.Context(), id)
			if err != nil {
				return err
			}
			if out == "" {
				out = fmt.Sprintf("invoice-%d.pdf", id)
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return err
			}
			a.logger.Info("Invoice saved", "path", out, "bytes", len(data))
			return nil
		},
	}
	pdf.Flags().StringVarP(&out, "out", "o", "", "output file (default invoice-<id>.pdf)")

	cmd.AddCommand(list, pdf)
	return cmd
}

func (a *app) attachmentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attachments",
		Short: "Upload and download documents",
	}

	upload := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a file and print its key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			client, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer client.Close()

			attachment, err := client.Attachments.Upload(cmd.Context(), filepath.Base(args[0]), f)
			if err != nil {
				return err
			}
			return printJSON(cmd, attachment)
		},
	}

	var out string
	download := &cobra.Command{
		Use:   "download <key>",
		Short: "Download a file by key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer client.Close()

			file, err := client.Attachments.Download(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if out == "" {
				out = filepath.Base(args[0])
			}
			return os.WriteFile(out, file.Data, 0o644)
		},
	}
	download.Flags().StringVarP(&out, "out", "o", "", "output file (default: the key)")

	cmd.AddCommand(upload, download)
	return cmd
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
