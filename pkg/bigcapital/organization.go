package bigcapital

import (
	"context"

	"github.com/pkg/errors"
)

const organizationPath = "/api/organization"

// organizationService implements OrganizationService
type organizationService struct {
	client *Client
}

// Get retrieves the current organization
func (s *organizationService) Get(ctx context.Context) (*Organization, error) {
	var org Organization
	if err := s.client.getEnveloped(ctx, organizationPath, "organization", &org); err != nil {
		return nil, errors.Wrap(err, "failed to get organization")
	}
	return &org, nil
}

// Update changes organization settings
func (s *organizationService) Update(ctx context.Context, params *OrganizationMetadata) error {
	if params == nil {
		return errors.New("organization settings are required")
	}
	if _, err := s.client.put(ctx, organizationPath, params, nil); err != nil {
		return errors.Wrap(err, "failed to update organization")
	}
	return nil
}
