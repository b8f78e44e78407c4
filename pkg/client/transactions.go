package client

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"github.com/tidwall/sjson"

	"github.com/wavesplatform/gonem/pkg/crypto"
	"github.com/wavesplatform/gonem/pkg/proto"
)

type Transactions struct {
	options Options
}

// Creates new transaction api section
func NewTransactions(options Options) *Transactions {
	return &Transactions{
		options: options,
	}
}

// Get returns a confirmed transaction by its hash.
func (a *Transactions) Get(ctx context.Context, hash crypto.Digest) (*TransactionMetaDataPair, *Response, error) {
	url, err := joinUrl(a.options.BaseUrl, "/transaction/get?hash="+hash.String())
	if err != nil {
		return nil, nil, err
	}

	req, err := http.NewRequest("GET", url.String(), nil)
	if err != nil {
		return nil, nil, err
	}

	out := new(TransactionMetaDataPair)
	response, err := doHTTP(ctx, a.options, req, out)
	if err != nil {
		return nil, response, err
	}
	return out, response, nil
}

// Announce sends the signed canonical bytes of a transaction to the node.
// A result with a code other than success is returned as is, check it with AnnounceResult.Ok.
func (a *Transactions) Announce(ctx context.Context, announce proto.RequestAnnounce) (*AnnounceResult, *Response, error) {
	bts, err := json.Marshal(announce)
	if err != nil {
		return nil, nil, err
	}
	return a.post(ctx, "/transaction/announce", bts)
}

// PrepareAnnounce asks the node to sign and announce the transaction with the given private key.
// Use it only with a node you control: the key is sent over the wire.
func (a *Transactions) PrepareAnnounce(ctx context.Context, tx proto.Transaction, privateKey []byte) (*AnnounceResult, *Response, error) {
	txJSON, err := json.Marshal(tx)
	if err != nil {
		return nil, nil, err
	}
	body, err := sjson.SetRawBytes([]byte(`{}`), "transaction", txJSON)
	if err != nil {
		return nil, nil, err
	}
	body, err = sjson.SetBytes(body, "privateKey", proto.HexBytes(privateKey).String())
	if err != nil {
		return nil, nil, err
	}
	return a.post(ctx, "/transaction/prepare-announce", body)
}

// AnnounceWithRetry announces the transaction retrying transport failures and server errors until timeout.
// Rejections by the node and unparsable answers are not retried.
func (a *Transactions) AnnounceWithRetry(ctx context.Context, announce proto.RequestAnnounce, timeout time.Duration) (*AnnounceResult, error) {
	var res *AnnounceResult
	permanent := false
	f := func() error {
		r, _, err := a.Announce(ctx, announce)
		if err != nil {
			if retryable(err) {
				return err
			}
			permanent = true
			return backoff.Permanent(err)
		}
		if !r.Ok() {
			permanent = true
			return backoff.Permanent(&AnnounceError{Result: *r})
		}
		res = r
		return nil
	}
	bo := backoff.WithContext(
		backoff.NewExponentialBackOff(
			backoff.WithMaxInterval(time.Second*1),
			backoff.WithMaxElapsedTime(timeout),
		), ctx,
	)
	if err := backoff.Retry(f, bo); err != nil {
		// Retry gives up on a retryable error only when time is out or ctx is done.
		if !permanent && ctx.Err() == nil {
			return nil, errors.Wrap(err, "reached retry deadline")
		}
		return nil, err
	}
	return res, nil
}

func retryable(err error) bool {
	var re *RequestError
	if errors.As(err, &re) {
		return re.Temporary()
	}
	return false
}

func (a *Transactions) post(ctx context.Context, path string, body []byte) (*AnnounceResult, *Response, error) {
	url, err := joinUrl(a.options.BaseUrl, path)
	if err != nil {
		return nil, nil, err
	}

	req, err := http.NewRequest("POST", url.String(), bytes.NewReader(body))
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
