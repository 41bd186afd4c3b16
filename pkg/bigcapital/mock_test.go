package bigcapital

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/eshaffer321/bigcapital-go/internal/transport"
	internalTypes "github.com/eshaffer321/bigcapital-go/internal/types"
	"github.com/stretchr/testify/mock"
)

// MockTransport is a mock implementation of Transport
type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Execute(ctx context.Context, req *transport.Request, result interface{}) (*transport.Response, error) {
	args := m.Called(ctx, req, result)

	var resp *transport.Response
	switch v := args.Get(0).(type) {
	case string:
		// If mock provides result data, unmarshal it
		if result != nil {
			if err := json.Unmarshal([]byte(v), result); err != nil {
				return nil, err
			}
		}
		resp = &transport.Response{
			StatusCode:  http.StatusOK,
			ContentType: "application/json",
			Body:        []byte(v),
		}
	case *transport.Response:
		resp = v
	}

	return resp, args.Error(1)
}

func (m *MockTransport) SetAuth(token string) {
	m.Called(token)
}

func (m *MockTransport) SetSession(session *internalTypes.Session) {
	m.Called(session)
}

func (m *MockTransport) SetOrganizationID(id string) {
	m.Called(id)
}

func (m *MockTransport) Session() *internalTypes.Session {
	args := m.Called()
	if s, ok := args.Get(0).(*internalTypes.Session); ok {
		return s
	}
	return nil
}

func newMockClient(m *MockTransport) *Client {
	client := &Client{
		transport: m,
		options:   &ClientOptions{},
		baseURL:   "https://api.test.com",
	}
	client.initServices()
	return client
}

// request matches a transport request by method and path
func request(method, path string) interface{} {
	return mock.MatchedBy(func(req *transport.Request) bool {
		return req.Method == method && req.Path == path
	})
}
