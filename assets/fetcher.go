// Package assets downloads compressed item textures from the game CDN.
package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"scristobal/astcbot/commands"
	"scristobal/astcbot/failure"
)

type Options struct {
	LiveBaseURL    string
	AdvanceBaseURL string
	Suffix         string
	Timeout        time.Duration
	MaxBytes       int64
	Client         *http.Client
}

type Fetcher struct {
	client   *http.Client
	bases    map[commands.Server]string
	suffix   string
	timeout  time.Duration
	maxBytes int64
}

func NewFetcher(opts Options) *Fetcher {

	client := opts.Client

	if client == nil {
		client = &http.Client{}
	}

	return &Fetcher{
		client: client,
		bases: map[commands.Server]string{
			commands.LiveServer:    strings.TrimSuffix(opts.LiveBaseURL, "/"),
			commands.AdvanceServer: strings.TrimSuffix(opts.AdvanceBaseURL, "/"),
		},
		suffix:   opts.Suffix,
		timeout:  opts.Timeout,
		maxBytes: opts.MaxBytes,
	}
}

func (f *Fetcher) URL(server commands.Server, id string) string {
	return f.bases[server] + "/" + id + f.suffix
}

// Fetch downloads the texture of item id in a single bounded GET.
func (f *Fetcher) Fetch(ctx context.Context, server commands.Server, id string) ([]byte, error) {

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	url := f.URL(server, id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)

	if err != nil {
		return nil, failure.New(failure.Unknown, "fetch", fmt.Errorf("fail to create request: %w", err))
	}

	res, err := f.client.Do(req)

	if err != nil {
		return nil, failure.New(classify(ctx, err), "fetch", err)
	}

	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, failure.New(failure.NotFound, "fetch", fmt.Errorf("%s returned %d", url, res.StatusCode))
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, failure.New(failure.Unknown, "fetch", fmt.Errorf("%s returned %d", url, res.StatusCode))
	}

	body := io.Reader(res.Body)

	if f.maxBytes > 0 {
		body = io.LimitReader(res.Body, f.maxBytes+1)
	}

	data, err := io.ReadAll(body)

	if err != nil {
		return nil, failure.New(classify(ctx, err), "fetch", fmt.Errorf("can't read asset: %w", err))
	}

	if f.maxBytes > 0 && int64(len(data)) > f.maxBytes {
		return nil, failure.New(failure.Unknown, "fetch", fmt.Errorf("asset larger than %d bytes", f.maxBytes))
	}

	if len(data) == 0 {
		return nil, failure.New(failure.Unknown, "fetch", fmt.Errorf("%s returned an empty body", url))
	}

	return data, nil
}

func classify(ctx context.Context, err error) failure.Kind {

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return failure.Timeout
	}

	var netErr net.Error

	if errors.As(err, &netErr) && netErr.Timeout() {
		return failure.Timeout
	}

	return failure.Unknown
}
