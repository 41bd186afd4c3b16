package bigcapital

import (
	"context"
	"net/url"

	"github.com/pkg/errors"
)

const (
	expensesPath = "/api/expenses"

	// streamPageSize is the page size Stream uses when none is set
	streamPageSize = 100
)

// expenseService implements ExpenseService
type expenseService struct {
	client *Client
}

// Query returns an expense query builder
func (s *expenseService) Query() ExpenseQueryBuilder {
	return &expenseQueryBuilder{
		client:  s.client,
		filters: url.Values{},
	}
}

// List retrieves one page of expenses
func (s *expenseService) List(ctx context.Context, opts *ListOptions) (*ExpenseList, error) {
	q := s.Query()
	if opts != nil {
		q = q.Page(opts.Page).PageSize(opts.PageSize)
	}
	return q.Execute(ctx)
}

// Get retrieves a single expense
func (s *expenseService) Get(ctx context.Context, expenseID int64) (*Expense, error) {
	var expense Expense
	if err := s.client.getEnveloped(ctx, resourcePath(expensesPath, expenseID), "expense", &expense); err != nil {
		return nil, errors.Wrap(err, "failed to get expense")
	}
	return &expense, nil
}

// Create records a new expense
func (s *expenseService) Create(ctx context.Context, expense *Expense) (*MutationResult, error) {
	var result MutationResult
	if _, err := s.client.post(ctx, expensesPath, expense, &result); err != nil {
		return nil, errors.Wrap(err, "failed to create expense")
	}
	return &result, nil
}

// Update replaces an existing expense
func (s *expenseService) Update(ctx context.Context, expenseID int64, expense *Expense) (*MutationResult, error) {
	var result MutationResult
	if _, err := s.client.post(ctx, resourcePath(expensesPath, expenseID), expense, &result); err != nil {
		return nil, errors.Wrap(err, "failed to update expense")
	}
	return &result, nil
}

// Delete deletes an expense
func (s *expenseService) Delete(ctx context.Context, expenseID int64) error {
	if err := s.client.delete(ctx, resourcePath(expensesPath, expenseID)); err != nil {
		return errors.Wrap(err, "failed to delete expense")
	}
	return nil
}

// Publish publishes a draft expense
func (s *expenseService) Publish(ctx context.Context, expenseID int64) (*MutationResult, error) {
	var result MutationResult
	if _, err := s.client.post(ctx, resourcePath(expensesPath, expenseID, "publish"), nil, &result); err != nil {
		return nil, errors.Wrap(err, "failed to publish expense")
	}
	return &result, nil
}

// expenseQueryBuilder implements ExpenseQueryBuilder
type expenseQueryBuilder struct {
	client   *Client
	filters  url.Values
	page     int
	pageSize int
}

// Search filters by keyword
func (b *expenseQueryBuilder) Search(keyword string) ExpenseQueryBuilder {
	b.filters.Set("search_keyword", keyword)
	return b
}

// View selects a saved view
func (b *expenseQueryBuilder) View(slug string) ExpenseQueryBuilder {
	b.filters.Set("view_slug", slug)
	return b
}

// SortBy orders results by column, asc or desc
func (b *expenseQueryBuilder) SortBy(column, order string) ExpenseQueryBuilder {
	b.filters.Set("column_sort_by", column)
	if order != "" {
		b.filters.Set("sort_order", order)
	}
	return b
}

// Page sets the 1-based page
func (b *expenseQueryBuilder) Page(page int) ExpenseQueryBuilder {
	b.page = page
	return b
}

// PageSize sets the page size
func (b *expenseQueryBuilder) PageSize(size int) ExpenseQueryBuilder {
	b.pageSize = size
	return b
}

func (b *expenseQueryBuilder) query() url.Values {
	q := pageQuery(b.page, b.pageSize)
	for k, v := range b.filters {
		q[k] = v
	}
	return q
}

// Execute runs the query
func (b *expenseQueryBuilder) Execute(ctx context.Context) (*ExpenseList, error) {
	var expenses []*Expense
	meta, err := b.client.getList(ctx, withQuery(expensesPath, b.query()), "expenses", &expenses)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list expenses")
	}

	list := &ExpenseList{
		Expenses:   expenses,
		Pagination: meta.Pagination,
		FilterMeta: meta.FilterMeta,
	}

	if p := meta.Pagination; p != nil && p.PageSize > 0 {
		list.HasMore = p.Page*p.PageSize < p.Total
		list.NextPage = p.Page + 1
	}

	return list, nil
}

// Stream returns results as a channel for large queries
func (b *expenseQueryBuilder) Stream(ctx context.Context) (<-chan *Expense, <-chan error) {
	expenseChan := make(chan *Expense)
	errChan := make(chan error, 1)

	go func() {
		defer close(expenseChan)
		defer close(errChan)

		page := b.page
		if page <= 0 {
			page = 1
		}
		pageSize := b.pageSize
		if pageSize <= 0 {
			pageSize = streamPageSize
		}

		for {
			queryBuilder := &expenseQueryBuilder{
				client:   b.client,
				filters:  b.filters,
				page:     page,
				pageSize: pageSize,
			}

			result, err := queryBuilder.Execute(ctx)
			if err != nil {
				errChan <- err
				return
			}

			for _, expense := range result.Expenses {
				select {
				case <-ctx.Done():
					errChan <- ctx.Err()
					return
				case expenseChan <- expense:
				}
			}

			if !result.HasMore || len(result.Expenses) == 0 {
				break
			}

			page = result.NextPage
		}
	}()

	return expenseChan, errChan
}
