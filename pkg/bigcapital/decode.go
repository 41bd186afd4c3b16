package bigcapital

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/pkg/errors"
)

// listMeta holds the paging fields shared by every list response
type listMeta struct {
	Pagination *Pagination `json:"pagination"`
	FilterMeta *FilterMeta `json:"filter_meta"`
}

// decodeList unmarshals body[key] into items and returns the paging fields
func decodeList(body json.RawMessage, key string, items interface{}) (*listMeta, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, errors.Wrap(err, "failed to decode list response")
	}

	if raw, ok := fields[key]; ok {
		if err := json.Unmarshal(raw, items); err != nil {
			return nil, errors.Wrapf(err, "failed to decode %s", key)
		}
	}

	var meta listMeta
	if err := json.Unmarshal(body, &meta); err != nil {
		return nil, errors.Wrap(err, "failed to decode pagination")
	}
	return &meta, nil
}

// decodeEnveloped unmarshals body[key] into out when the object is wrapped,
// otherwise the whole body
func decodeEnveloped(body json.RawMessage, key string, out interface{}) error {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return errors.New("empty response")
	}

	if body[0] == '{' {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(body, &fields); err == nil {
			if raw, ok := fields[key]; ok && len(raw) > 0 && raw[0] == '{' {
				body = raw
			}
		}
	}

	return json.Unmarshal(body, out)
}

// getEnveloped fetches a single resource that may be wrapped under key
func (c *Client) getEnveloped(ctx context.Context, path, key string, out interface{}) error {
	var raw json.RawMessage
	if _, err := c.get(ctx, path, &raw); err != nil {
		return err
	}
	return decodeEnveloped(raw, key, out)
}

// getList fetches a list resource whose items sit under key
func (c *Client) getList(ctx context.Context, path, key string, items interface{}) (*listMeta, error) {
	var raw json.RawMessage
	if _, err := c.get(ctx, path, &raw); err != nil {
		return nil, err
	}
	return decodeList(raw, key, items)
}
