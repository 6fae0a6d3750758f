// package testing contains shared testing utilities
package testing

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/philosolog/mal-progress-box/internal/models"
)

// MockListService is a test double for [services.ListService]
type MockListService struct {
	Entries []models.Entry
	Err     error
	Calls   int
}

func (m *MockListService) Fetch(ctx context.Context, username string, contentType models.ContentType) ([]models.Entry, error) {
	m.Calls++
	return m.Entries, m.Err
}

func (m *MockListService) Name() string { return "mock" }

// MockPublisher records gist updates for [services.Publisher]
type MockPublisher struct {
	Err      error
	Calls    int
	GistID   string
	FileName string
	Content  string
}

func (m *MockPublisher) Update(ctx context.Context, snippetID, fileName, content string) error {
	m.Calls++
	m.GistID = snippetID
	m.FileName = fileName
	m.Content = content
	return m.Err
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	Responses []*http.Response
	Requests  []*http.Request
	err       error
}

func NewMockRoundTripper(responses []*http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{Responses: responses, err: e}
}

func (m *MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	m.Requests = append(m.Requests, req)
	if m.err != nil {
		return nil, m.err
	}
	if len(m.Responses) == 0 {
		return JSONResponse(http.StatusOK, "{}"), nil
	}
	resp := m.Responses[0]
	if len(m.Responses) > 1 {
		m.Responses = m.Responses[1:]
	}
	return resp, nil
}

// JSONResponse builds an [http.Response] with a JSON string body.
func JSONResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(bytes.NewReader([]byte(body))),
	}
}
