package imagery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/levenlabs/go-lflag"
	"github.com/roofsight/roofsight/pkg/common"
)

// ErrFetch indicates the image could not be retrieved from the given URL.
var ErrFetch = errors.New("image could not be fetched")

// Fetcher downloads image bytes from HTTP(S) URLs with a size cap so a user
// supplied URL can't buffer an arbitrarily large response.
type Fetcher struct {
	client   *http.Client
	maxBytes int64
}

// NewFetcher returns a Fetcher using the given client and response size cap.
func NewFetcher(client *http.Client, maxBytes int64) *Fetcher {
	return &Fetcher{client: client, maxBytes: maxBytes}
}

// Configured sets up the Fetcher based on flags.
func Configured() *Fetcher {
	timeout := lflag.Duration("image-fetch-timeout", 15*time.Second, "Timeout for fetching an image by URL")
	maxBytes := int64(10 << 20)
	lflag.JSON(&maxBytes, "image-max-bytes", maxBytes, "Maximum image response size in bytes")

	f := &Fetcher{}

	lflag.Do(func() {
		f.client = common.HTTPClient(*timeout)
		f.maxBytes = maxBytes
	})

	return f
}

// Fetch downloads the raw bytes at rawURL. Any failure (bad URL, connection
// error, non-2xx status, oversized response) is wrapped in ErrFetch; callers
// surface it as a single user-facing message.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid url: %v", ErrFetch, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrFetch, u.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrFetch, resp.StatusCode)
	}

	// read one extra byte to detect a response over the cap
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	if int64(len(body)) > f.maxBytes {
		return nil, fmt.Errorf("%w: response larger than %d bytes", ErrFetch, f.maxBytes)
	}
	return body, nil
}
