package client

import (
	"bytes"
	"context"
	"net/http"

	"github.com/tidwall/sjson"
)

// Chain is the local chain api section of a NIS node.
type Chain struct {
	options Options
}

func NewChain(options Options) *Chain {
	return &Chain{
		options: options,
	}
}

// BlocksAfter returns up to ten blocks following the given height, with their transactions.
func (a *Chain) BlocksAfter(ctx context.Context, height uint64) ([]ExplorerBlock, *Response, error) {
	url, err := joinUrl(a.options.BaseUrl, "/local/chain/blocks-after")
	if err != nil {
		return nil, nil, err
	}

	body, err := sjson.SetBytes([]byte(`{}`), "height", height)
	if err != nil {
		return nil, nil, err
	}

	req, err := http.NewRequest("POST", url.String(), bytes.NewReader(body))
	if err != nil {
		return nil, nil, err
	}

	out := struct {
		Data []ExplorerBlock `json:"data"`
	}{}
	response, err := doHTTP(ctx, a.options, req, &out)
	if err != nil {
		return nil, response, err
	}
	return out.Data, response, nil
}
