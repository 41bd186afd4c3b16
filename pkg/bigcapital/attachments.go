package bigcapital

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"

	"github.com/eshaffer321/bigcapital-go/internal/transport"
	"github.com/pkg/errors"
)

const attachmentsPath = "/api/attachments"

// attachmentService implements AttachmentService
type attachmentService struct {
	client *Client
}

// Upload stores a file and returns its key. The file is buffered so the request
// can be re-sent after re-authentication.
func (s *attachmentService) Upload(ctx context.Context, filename string, r io.Reader) (*Attachment, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create form file")
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, errors.Wrap(err, "failed to read attachment")
	}
	if err := w.Close(); err != nil {
		return nil, errors.Wrap(err, "failed to finish form")
	}

	var result struct {
		Data *Attachment `json:"data"`
	}
	_, err = s.client.execute(ctx, &transport.Request{
		Method:      http.MethodPost,
		Path:        attachmentsPath + "/",
		RawBody:     buf.Bytes(),
		ContentType: w.FormDataContentType(),
	}, &result)
	if err != nil {
		return nil, errors.Wrap(err, "failed to upload attachment")
	}
	if result.Data == nil {
		return nil, errors.New("upload response has no attachment")
	}
	return result.Data, nil
}

// Download fetches a stored file
func (s *attachmentService) Download(ctx context.Context, key string) (*AttachmentFile, error) {
	resp, err := s.client.execute(ctx, &transport.Request{
		Method:  http.MethodGet,
		Path:    attachmentPath(key),
		Headers: map[string]string{"Accept": "*/*"},
	}, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to download attachment")
	}
	return &AttachmentFile{
		Key:         key,
		ContentType: resp.ContentType,
		Data:        resp.Body,
	}, nil
}

// Delete removes a stored file
func (s *attachmentService) Delete(ctx context.Context, key string) error {
	if err := s.client.delete(ctx, attachmentPath(key)); err != nil {
		return errors.Wrap(err, "failed to delete attachment")
	}
	return nil
}

// Link attaches a stored file to a document
func (s *attachmentService) Link(ctx context.Context, key, modelRef string, modelID int64) error {
	if _, err := s.client.post(ctx, attachmentPath(key, "link"), newModelReference(modelRef, modelID), nil); err != nil {
		return errors.Wrap(err, "failed to link attachment")
	}
	return nil
}

// Unlink detaches a stored file from a document
func (s *attachmentService) Unlink(ctx context.Context, key, modelRef string, modelID int64) error {
	if _, err := s.client.post(ctx, attachmentPath(key, "unlink"), newModelReference(modelRef, modelID), nil); err != nil {
		return errors.Wrap(err, "failed to unlink attachment")
	}
	return nil
}

// PresignedURL returns a temporary download URL
func (s *attachmentService) PresignedURL(ctx context.Context, key string) (string, error) {
	var result struct {
		PresignedURL string `json:"presignedUrl"`
	}
	if _, err := s.client.get(ctx, attachmentPath(key, "presigned-url"), &result); err != nil {
		return "", errors.Wrap(err, "failed to get presigned url")
	}
	return result.PresignedURL, nil
}

type modelReference struct {
	ModelRef string `json:"modelRef"`
	ModelID  int64  `json:"modelId"`
}

func newModelReference(ref string, id int64) *modelReference {
	return &modelReference{ModelRef: ref, ModelID: id}
}

func attachmentPath(key string, suffix ...string) string {
	p := attachmentsPath + "/" + url.PathEscape(key)
	for _, s := range suffix {
		p += "/" + s
	}
	return p
}
