package bigcapital

import (
	"context"

	"github.com/pkg/errors"
)

const contactsPath = "/api/contacts"

// contactService implements ContactService for one kind of contact
type contactService struct {
	client   *Client
	basePath string
	listKey  string
	itemKey  string
}

// List retrieves one page of contacts
func (s *contactService) List(ctx context.Context, opts *ListOptions) (*ContactList, error) {
	path := s.basePath
	if opts != nil {
		path = withQuery(path, pageQuery(opts.Page, opts.PageSize))
	}

	var contacts []*Contact
	meta, err := s.client.getList(ctx, path, s.listKey, &contacts)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list %s", s.listKey)
	}

	return &ContactList{
		Contacts:   contacts,
		Pagination: meta.Pagination,
		FilterMeta: meta.FilterMeta,
	}, nil
}

// Get retrieves a single contact
func (s *contactService) Get(ctx context.Context, contactID int64) (*Contact, error) {
	var contact Contact
	if err := s.client.getEnveloped(ctx, resourcePath(s.basePath, contactID), s.itemKey, &contact); err != nil {
		return nil, errors.Wrapf(err, "failed to get %s", s.itemKey)
	}
	return &contact, nil
}

// Create creates a new contact
func (s *contactService) Create(ctx context.Context, contact *Contact) (*MutationResult, error) {
	var result MutationResult
	if _, err := s.client.post(ctx, s.basePath, contact, &result); err != nil {
		return nil, errors.Wrapf(err, "failed to create %s", s.itemKey)
	}
	return &result, nil
}

// Update updates an existing contact
func (s *contactService) Update(ctx context.Context, contactID int64, contact *Contact) (*MutationResult, error) {
	var result MutationResult
	if _, err := s.client.post(ctx, resourcePath(s.basePath, contactID), contact, &result); err != nil {
		return nil, errors.Wrapf(err, "failed to update %s", s.itemKey)
	}
	return &result, nil
}

// Delete deletes a contact
func (s *contactService) Delete(ctx context.Context, contactID int64) error {
	if err := s.client.delete(ctx, resourcePath(s.basePath, contactID)); err != nil {
		return errors.Wrapf(err, "failed to delete %s", s.itemKey)
	}
	return nil
}

// contactStatusService implements ContactStatusService
type contactStatusService struct {
	client *Client
}

// Activate marks a contact active
func (s *contactStatusService) Activate(ctx context.Context, contactID int64) error {
	if _, err := s.client.post(ctx, resourcePath(contactsPath, contactID, "activate"), nil, nil); err != nil {
		return errors.Wrap(err, "failed to activate contact")
	}
	return nil
}

// Inactivate marks a contact inactive
func (s *contactStatusService) Inactivate(ctx context.Context, contactID int64) error {
	if _, err := s.client.post(ctx, resourcePath(contactsPath, contactID, "inactivate"), nil, nil); err != nil {
		return errors.Wrap(err, "failed to inactivate contact")
	}
	return nil
}
