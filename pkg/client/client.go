package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
)

// DefaultNodeURL is the address NIS listens on out of the box.
const DefaultNodeURL = "http://127.0.0.1:7890"

type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type Options struct {
	BaseUrl string
	Client  Doer
}

var defaultOptions = Options{
	BaseUrl: DefaultNodeURL,
	Client:  &http.Client{Timeout: 10 * time.Second},
}

// Client talks to the JSON API of a NIS node.
type Client struct {
	options      Options
	Transactions *Transactions
	Chain        *Chain
}

type Response struct {
	*http.Response
}

// NewClient creates a client for the node in options, or for a local node when options are omitted.
func NewClient(options ...Options) (*Client, error) {
	if len(options) > 1 {
		return nil, errors.New("too many options provided. Expects no or just one item")
	}
	opts := defaultOptions
	if len(options) == 1 {
		if options[0].BaseUrl != "" {
			opts.BaseUrl = options[0].BaseUrl
		}
		if options[0].Client != nil {
			opts.Client = options[0].Client
		}
	}
	if _, err := url.Parse(opts.BaseUrl); err != nil {
		return nil, errors.Wrapf(err, "invalid node URL %q", opts.BaseUrl)
	}
	return &Client{
		options:      opts,
		Transactions: NewTransactions(opts),
		Chain:        NewChain(opts),
	}, nil
}

func (a *Client) GetOptions() Options {
	return a.options
}

// Do sends a prepared request to the node and decodes the JSON reply into v, if v is not nil.
// A v implementing io.Writer receives the raw reply instead.
func (a *Client) Do(ctx context.Context, req *http.Request, v any) (*Response, error) {
	return doHTTP(ctx, a.options, req, v)
}

// Heartbeat checks that the node is up. NIS answers {"code":1,"type":2,"message":"ok"}.
func (a *Client) Heartbeat(ctx context.Context) (*AnnounceResult, *Response, error) {
	u, err := joinUrl(a.options.BaseUrl, "/heartbeat")
	if err != nil {
		return nil, nil, err
	}
	req, err := http.NewRequest(http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, nil, err
	}
	out := new(AnnounceResult)
	response, err := doHTTP(ctx, a.options, req, out)
	if err != nil {
		return nil, response, err
	}
	return out, response, nil
}

func doHTTP(ctx context.Context, options Options, req *http.Request, v any) (*Response, error) {
	req = req.WithContext(ctx)
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := options.Client.Do(req)
	if err != nil {
		return nil, newTransportError(err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	response := &Response{Response: resp}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return response, newStatusError(resp.StatusCode, string(body))
	}
	if err := ctx.Err(); err != nil {
		return response, err
	}
	switch out := v.(type) {
	case nil:
	case io.Writer:
		if _, err := io.Copy(out, resp.Body); err != nil {
			return response, newTransportError(err)
		}
	default:
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			return response, newParseError(err)
		}
	}
	return response, nil
}

// joinUrl appends a relative path, optionally with a query, to the node's base URL.
func joinUrl(baseRaw string, pathRaw string) (*url.URL, error) {
	base, err := url.Parse(baseRaw)
	if err != nil {
		return nil, err
	}
	rel, err := url.Parse(pathRaw)
	if err != nil {
		return nil, err
	}
	if rel.IsAbs() {
		return nil, errors.New("path must be relative URL")
	}
	res := base.JoinPath(rel.EscapedPath())
	q := res.Query()
	for k, vals := range rel.Query() {
		for _, v := range vals {
			q.Add(k, v)
		}
	}
	res.RawQuery = q.Encode()
	return res, nil
}
