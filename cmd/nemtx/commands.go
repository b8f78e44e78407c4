package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wavesplatform/gonem/pkg/apostille"
	"github.com/wavesplatform/gonem/pkg/client"
	"github.com/wavesplatform/gonem/pkg/crypto"
	"github.com/wavesplatform/gonem/pkg/errs"
	"github.com/wavesplatform/gonem/pkg/libs/ntptime"
	"github.com/wavesplatform/gonem/pkg/proto"
)

const stdio = "-"

type config struct {
	command   string
	in        string
	out       string
	base64    bool
	signature string
	timeout   time.Duration
	height    uint64
	pages     int
	apostille string
	publicKey string
	stamp     bool
	ttl       time.Duration
}

type application struct {
	fs     afero.Fs
	stdin  io.Reader
	stdout io.Writer
	log    *zap.SugaredLogger
	client *client.Client
	clock  ntptime.Clock
}

func (a *application) run(ctx context.Context, cfg config) error {
	switch cfg.command {
	case "encode":
		return a.encode(cfg)
	case "decode":
		return a.decode(cfg)
	case "hash":
		return a.hash(cfg)
	case "announce":
		return a.announce(ctx, cfg)
	case "blocks":
		return a.blocks(ctx, cfg)
	case "verify":
		return a.verify(cfg)
	case "audit":
		return a.audit(cfg)
	default:
		return errors.Errorf("unknown command %q", cfg.command)
	}
}

func (a *application) encode(cfg config) error {
	tx, err := a.readDescriptor(cfg)
	if err != nil {
		return err
	}
	b, err := proto.MarshalTransaction(tx)
	if err != nil {
		return err
	}
	a.log.Debugf("Encoded %s transaction into %d bytes", tx.GetType(), len(b))
	return a.write(cfg.out, []byte(formatBytes(b, cfg.base64)+"\n"))
}

func (a *application) decode(cfg config) error {
	in, err := a.read(cfg.in)
	if err != nil {
		return err
	}
	b, err := parseBytes(in, cfg.base64)
	if err != nil {
		return err
	}
	tx, err := proto.UnmarshalTransaction(b)
	if err != nil {
		return err
	}
	js, err := json.MarshalIndent(tx, "", "  ")
	if err != nil {
		return err
	}
	return a.write(cfg.out, append(js, '\n'))
}

func (a *application) hash(cfg config) error {
	tx, err := a.readDescriptor(cfg)
	if err != nil {
		return err
	}
	h, err := proto.TransactionHash(tx)
	if err != nil {
		return err
	}
	return a.write(cfg.out, []byte(h.String()+"\n"))
}

func (a *application) announce(ctx context.Context, cfg config) error {
	tx, err := a.readDescriptor(cfg)
	if err != nil {
		return err
	}
	sig, err := hex.DecodeString(cfg.signature)
	if err != nil {
		return errors.Wrap(err, "invalid signature")
	}
	req, err := proto.NewRequestAnnounce(tx, sig)
	if err != nil {
		return err
	}
	a.log.Debugf("Announcing %s transaction", tx.GetType())
	res, err := a.client.Transactions.AnnounceWithRetry(ctx, req, cfg.timeout)
	if err != nil {
		return err
	}
	a.log.Infof("Node accepted transaction: %s", res.Message)
	return a.write(cfg.out, []byte(res.TransactionHash.Data.String()+"\n"))
}

func (a *application) verify(cfg config) error {
	tx, err := a.readDescriptor(cfg)
	if err != nil {
		return err
	}
	sig, err := hex.DecodeString(cfg.signature)
	if err != nil {
		return errors.Wrap(err, "invalid signature")
	}
	ok, err := proto.VerifySignature(tx, sig)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Errorf("signature does not match %s transaction of %s", tx.GetType(), tx.GetCommon().Signer)
	}
	a.log.Infof("Signature of %s transaction is valid", tx.GetType())
	return nil
}

// blocksPerPage is the number of blocks a node returns for a single blocks-after request.
const blocksPerPage = 10

func (a *application) blocks(ctx context.Context, cfg config) error {
	pages := max(cfg.pages, 1)
	result := make([][]client.ExplorerBlock, pages)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i := 0; i < pages; i++ {
		i := i
		height := cfg.height + uint64(i)*blocksPerPage
		g.Go(func() error {
			blocks, _, err := a.client.Chain.BlocksAfter(ctx, height)
			if err != nil {
				return errors.Wrapf(err, "failed to get blocks after %d", height)
			}
			result[i] = blocks
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	var buf bytes.Buffer
	for _, page := range result {
		for _, b := range page {
			if err := a.writeBlock(&buf, b); err != nil {
				return err
			}
		}
	}
	return a.write(cfg.out, buf.Bytes())
}

func (a *application) writeBlock(w io.Writer, b client.ExplorerBlock) error {
	a.log.Debugf("Block %d has %d transactions", b.Block.Height, len(b.Txes))
	for _, tx := range b.Txes {
		h, err := proto.TransactionHash(tx.Tx)
		if err != nil {
			return errors.Wrapf(err, "block %d", b.Block.Height)
		}
		if !bytes.Equal(h.Bytes(), tx.Hash) {
			a.log.Warnf("Transaction hash mismatch at height %d: node %s, encoded %s", b.Block.Height, tx.Hash, h)
		}
		if len(tx.Signature) != 0 {
			if ok, err := proto.VerifySignature(tx.Tx, tx.Signature); err != nil || !ok {
				a.log.Warnf("Invalid signature of transaction %s at height %d", h, b.Block.Height)
			}
		}
		if _, err := fmt.Fprintf(w, "%d\t%s\t%s\n", b.Block.Height, tx.Tx.GetType(), h); err != nil {
			return err
		}
	}
	return nil
}

func (a *application) audit(cfg config) error {
	if cfg.in == stdio {
		return errors.New("audit needs a file to check")
	}
	var verifier apostille.Verifier
	if cfg.publicKey != "" {
		pk, err := crypto.NewPublicKeyFromHex(cfg.publicKey)
		if err != nil {
			return err
		}
		verifier = pk
	}
	ok, err := apostille.Audit(a.fs, cfg.in, cfg.apostille, verifier)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Errorf("file %q does not match apostille", cfg.in)
	}
	a.log.Infof("File %q matches apostille", cfg.in)
	return nil
}

func (a *application) readDescriptor(cfg config) (proto.Transaction, error) {
	in, err := a.read(cfg.in)
	if err != nil {
		return nil, err
	}
	tx, err := proto.UnmarshalTransactionJSON(in)
	if err != nil {
		var fe *errs.MalformedField
		if errors.As(err, &fe) {
			a.log.Debugf("Malformed field %q", fe.Field())
		}
		return nil, err
	}
	if cfg.stamp {
		if err := a.stamp(tx, cfg.ttl); err != nil {
			return nil, err
		}
	}
	return tx, nil
}

// stamp sets timestamp and deadline of the transaction, and of the wrapped one, from the clock.
func (a *application) stamp(tx proto.Transaction, ttl time.Duration) error {
	now, err := a.clock.Now()
	if err != nil {
		return err
	}
	if err := tx.GetCommon().SetTime(now, ttl); err != nil {
		return err
	}
	if ms, ok := tx.(*proto.Multisig); ok && ms.OtherTrans != nil {
		if err := ms.OtherTrans.GetCommon().SetTime(now, ttl); err != nil {
			return err
		}
	}
	a.log.Debugf("Transaction stamped at %d with deadline %d", tx.GetCommon().TimeStamp, tx.GetCommon().Deadline)
	return nil
}

func (a *application) read(path string) ([]byte, error) {
	if path == stdio {
		return io.ReadAll(a.stdin)
	}
	return afero.ReadFile(a.fs, path)
}

func (a *application) write(path string, data []byte) error {
	if path == stdio {
		_, err := a.stdout.Write(data)
		return err
	}
	return afero.WriteFile(a.fs, path, data, 0o644)
}

func formatBytes(b []byte, b64 bool) string {
	if b64 {
		return base64.StdEncoding.EncodeToString(b)
	}
	return hex.EncodeToString(b)
}

func parseBytes(in []byte, b64 bool) ([]byte, error) {
	s := string(bytes.TrimSpace(in))
	if b64 {
		b, err := base64.StdEncoding.DecodeString(s)
		return b, errors.Wrap(err, "invalid base64 input")
	}
	b, err := hex.DecodeString(s)
	return b, errors.Wrap(err, "invalid hex input")
}
