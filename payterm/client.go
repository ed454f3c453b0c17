package payterm

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Sender performs the synchronous round trip to the terminal. One call
// per attempt; the caller waits for the result.
type Sender interface {
	Send(ctx context.Context, document string) ([]byte, error)
}

type httpSender struct {
	apiURL     string
	authToken  string
	httpClient *http.Client
}

// NewHTTPSender posts the request document to the terminal API with
// the configured authorization header.
func NewHTTPSender(apiURL, authToken string, timeout time.Duration) Sender {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &httpSender{
		apiURL:     apiURL,
		authToken:  authToken,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (s *httpSender) Send(ctx context.Context, document string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewBufferString(document))
	if err != nil {
		return nil, fmt.Errorf("build terminal request: %w", err)
	}

	req.Header.Set("Content-Type", "text/xml")
	if s.authToken != "" {
		req.Header.Set("Authorization", s.authToken)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("terminal request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read terminal response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("terminal returned status %d", resp.StatusCode)
	}

	return body, nil
}
