package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"payledger/internal/domain/ledger"
)

// Client speaks to the remote single-document endpoint: GET with a cachebust
// query returns the document, POST replaces it. The remote is trusted to
// hold exactly one document.
type Client struct {
	HTTP     *http.Client
	Endpoint string
}

func NewClient(endpoint string) *Client {
	return &Client{
		HTTP:     &http.Client{Timeout: 15 * time.Second},
		Endpoint: endpoint,
	}
}

// Pull fetches the remote document. A response that is not a JSON object
// carrying an employees array is rejected as ErrMalformedDocument and must
// not touch local state.
func (c *Client) Pull(ctx context.Context) (ledger.Ledger, error) {
	if c.Endpoint == "" {
		return ledger.Ledger{}, ErrNoEndpoint
	}

	url := c.Endpoint + "?t=" + strconv.FormatInt(time.Now().UnixMilli(), 10)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return ledger.Ledger{}, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return ledger.Ledger{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ledger.Ledger{}, fmt.Errorf("pull: HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return ledger.Ledger{}, err
	}
	return DecodeDocument(body)
}

// Push publishes the whole document. The transport is one-way by contract:
// the response is drained and discarded, remote persistence is assumed
// optimistically and only transport failures are reported.
func (c *Client) Push(ctx context.Context, doc ledger.Ledger) error {
	if c.Endpoint == "" {
		return ErrNoEndpoint
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return nil
}

// DecodeDocument validates the minimal document shape before unmarshalling:
// a JSON object whose employees field is an array.
func DecodeDocument(body []byte) (ledger.Ledger, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(body, &probe); err != nil {
		return ledger.Ledger{}, ErrMalformedDocument
	}
	rawEmployees, ok := probe["employees"]
	if !ok {
		return ledger.Ledger{}, ErrMalformedDocument
	}
	trimmed := bytes.TrimSpace(rawEmployees)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return ledger.Ledger{}, ErrMalformedDocument
	}

	var doc ledger.Ledger
	if err := json.Unmarshal(body, &doc); err != nil {
		return ledger.Ledger{}, ErrMalformedDocument
	}
	return doc, nil
}
