package bigcapital

import (
	"context"

	"github.com/pkg/errors"
)

const itemsPath = "/api/items"

// itemService implements ItemService
type itemService struct {
	client *Client
}

// List retrieves one page of items
func (s *itemService) List(ctx context.Context, opts *ListOptions) (*ItemList, error) {
	path := itemsPath
	if opts != nil {
		path = withQuery(path, pageQuery(opts.Page, opts.PageSize))
	}

	var items []*Item
	meta, err := s.client.getList(ctx, path, "items", &items)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list items")
	}

	return &ItemList{
		Items:      items,
		Pagination: meta.Pagination,
		FilterMeta: meta.FilterMeta,
	}, nil
}

// Get retrieves a single item
func (s *itemService) Get(ctx context.Context, itemID int64) (*Item, error) {
	var item Item
	if err := s.client.getEnveloped(ctx, resourcePath(itemsPath, itemID), "item", &item); err != nil {
		return nil, errors.Wrap(err, "failed to get item")
	}
	return &item, nil
}

// Create creates a new item
func (s *itemService) Create(ctx context.Context, item *Item) (*MutationResult, error) {
	var result MutationResult
	if _, err := s.client.post(ctx, itemsPath, item, &result); err != nil {
		return nil, errors.Wrap(err, "failed to create item")
	}
	return &result, nil
}

// Update updates an existing item
func (s *itemService) Update(ctx context.Context, itemID int64, item *Item) (*MutationResult, error) {
	var result MutationResult
	if _, err := s.client.post(ctx, resourcePath(itemsPath, itemID), item, &result); err != nil {
		return nil, errors.Wrap(err, "failed to update item")
	}
	return &result, nil
}

// Delete deletes an item
func (s *itemService) Delete(ctx context.Context, itemID int64) error {
	if err := s.client.delete(ctx, resourcePath(itemsPath, itemID)); err != nil {
		return errors.Wrap(err, "failed to delete item")
	}
	return nil
}

// Activate marks an item active
func (s *itemService) Activate(ctx context.Context, itemID int64) error {
	if _, err := s.client.post(ctx, resourcePath(itemsPath, itemID, "activate"), nil, nil); err != nil {
		return errors.Wrap(err, "failed to activate item")
	}
	return nil
}

// Inactivate marks an item inactive
func (s *itemService) Inactivate(ctx context.Context, itemID int64) error {
	if _, err := s.client.post(ctx, resourcePath(itemsPath, itemID, "inactivate"), nil, nil); err != nil {
		return errors.Wrap(err, "failed to inactivate item")
	}
	return nil
}
