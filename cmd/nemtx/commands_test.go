package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wavesplatform/gonem/pkg/client"
	"github.com/wavesplatform/gonem/pkg/libs/ntptime"
	"github.com/wavesplatform/gonem/pkg/proto"
)

const transferDescriptor = `{
	"type": 257,
	"version": 2550136833,
	"timeStamp": 9111526,
	"signer": "d90c08cfbbf918d9304ddd45f6432564c390a5facff3df17ed5c096c4ccf0d04",
	"fee": 50000,
	"deadline": 9154726,
	"recipient": "TALICEROONSJCPHC63F52V6FY3SDMSVAEUGHMB7C",
	"amount": 1000000
}`

const transferHex = "01010000" + "01000098" + "e6078b00" + "20000000" +
	"d90c08cfbbf918d9304ddd45f6432564c390a5facff3df17ed5c096c4ccf0d04" +
	"50c3000000000000" + "a6b08b00" +
	"28000000" + "54414c494345524f4f4e534a435048433633463532563646593353444d535641455547484d423743" +
	"40420f0000000000" + "00000000"

type staticDoer struct {
	status int
	body   string
}

func (d staticDoer) Do(req *http.Request) (*http.Response, error) {
	return &http.Response{Request: req, StatusCode: d.status, Body: io.NopCloser(strings.NewReader(d.body))}, nil
}

func newTestApp(t *testing.T, doer client.Doer) (*application, *bytes.Buffer) {
	c, err := client.NewClient(client.Options{Client: doer})
	require.NoError(t, err)
	out := new(bytes.Buffer)
	return &application{
		fs:     afero.NewMemMapFs(),
		stdin:  strings.NewReader(""),
		stdout: out,
		log:    zap.NewNop().Sugar(),
		client: c,
		clock:  ntptime.Local{},
	}, out
}

func TestEncodeAndDecode(t *testing.T) {
	app, out := newTestApp(t, staticDoer{})
	require.NoError(t, afero.WriteFile(app.fs, "/tx.json", []byte(transferDescriptor), 0o600))

	require.NoError(t, app.run(context.Background(), config{command: "encode", in: "/tx.json", out: stdio}))
	assert.Equal(t, transferHex+"\n", out.String())

	require.NoError(t, app.run(context.Background(), config{command: "encode", in: "/tx.json", out: "/tx.b64", base64: true}))
	b64, err := afero.ReadFile(app.fs, "/tx.b64")
	require.NoError(t, err)

	out.Reset()
	app.stdin = bytes.NewReader(b64)
	require.NoError(t, app.run(context.Background(), config{command: "decode", in: stdio, out: stdio, base64: true}))
	assert.Contains(t, out.String(), `"recipient": "TALICEROONSJCPHC63F52V6FY3SDMSVAEUGHMB7C"`)

	// Decoded JSON encodes back to the same bytes.
	require.NoError(t, afero.WriteFile(app.fs, "/decoded.json", out.Bytes(), 0o600))
	out.Reset()
	require.NoError(t, app.run(context.Background(), config{command: "encode", in: "/decoded.json", out: stdio}))
	assert.Equal(t, transferHex+"\n", out.String())
}

func TestHash(t *testing.T) {
	app, out := newTestApp(t, staticDoer{})
	app.stdin = strings.NewReader(transferDescriptor)
	require.NoError(t, app.run(context.Background(), config{command: "hash", in: stdio, out: stdio}))
	assert.Len(t, strings.TrimSpace(out.String()), 64)
}

func TestEncodeUnsupportedType(t *testing.T) {
	app, out := newTestApp(t, staticDoer{})
	app.stdin = strings.NewReader(`{"type": 39321}`)
	err := app.run(context.Background(), config{command: "encode", in: stdio, out: stdio})
	assert.ErrorContains(t, err, "unsupported transaction type 0x9999")
	assert.Empty(t, out.String())
}

func TestAnnounce(t *testing.T) {
	body := `{"type":1,"code":1,"message":"SUCCESS","transactionHash":{"data":"00ff"},"innerTransactionHash":{}}`
	app, out := newTestApp(t, staticDoer{status: 200, body: body})
	app.stdin = strings.NewReader(transferDescriptor)
	cfg := config{command: "announce", in: stdio, out: stdio, signature: strings.Repeat("ab", 64), timeout: time.Second}
	require.NoError(t, app.run(context.Background(), cfg))
	assert.Equal(t, "00ff\n", out.String())

	app.stdin = strings.NewReader(transferDescriptor)
	cfg.signature = "abcd"
	assert.ErrorContains(t, app.run(context.Background(), cfg), "invalid signature length 2")
}

func TestAudit(t *testing.T) {
	app, _ := newTestApp(t, staticDoer{})
	require.NoError(t, afero.WriteFile(app.fs, "/hello.txt", []byte("hello"), 0o600))
	cfg := config{
		command:   "audit",
		in:        "/hello.txt",
		apostille: "fe4e545903" + "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824",
	}
	require.NoError(t, app.run(context.Background(), cfg))

	cfg.apostille = "fe4e545903" + strings.Repeat("00", 32)
	assert.ErrorContains(t, app.run(context.Background(), cfg), "does not match apostille")
}

func TestUnknownCommand(t *testing.T) {
	app, _ := newTestApp(t, staticDoer{})
	assert.EqualError(t, app.run(context.Background(), config{command: "sign"}), `unknown command "sign"`)
}

func TestNewClockLocal(t *testing.T) {
	clock := newClock(context.Background(), "", zap.NewNop().Sugar())
	assert.IsType(t, ntptime.Local{}, clock)
}

func TestCheckAndUpdateURL(t *testing.T) {
	u, err := checkAndUpdateURL("127.0.0.1:7890")
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:7890", u)

	_, err = checkAndUpdateURL("ftp://127.0.0.1")
	assert.Error(t, err)
}

type fixedClock time.Time

func (c fixedClock) Now() (time.Time, error) {
	return time.Time(c), nil
}

func TestEncodeStamped(t *testing.T) {
	app, out := newTestApp(t, staticDoer{})
	app.clock = fixedClock(proto.TimeStampToTime(1000))
	app.stdin = strings.NewReader(transferDescriptor)
	require.NoError(t, app.run(context.Background(), config{command: "encode", in: stdio, out: stdio, stamp: true, ttl: time.Hour}))
	b, err := parseBytes(out.Bytes(), false)
	require.NoError(t, err)
	tx, err := proto.UnmarshalTransaction(b)
	require.NoError(t, err)
	assert.Equal(t, uint32(1000), tx.GetCommon().TimeStamp)
	assert.Equal(t, uint32(1000+3600), tx.GetCommon().Deadline)

	app.stdin = strings.NewReader(transferDescriptor)
	err = app.run(context.Background(), config{command: "encode", in: stdio, out: stdio, stamp: true, ttl: 48 * time.Hour})
	assert.ErrorContains(t, err, "out of range")
}

func TestBlocks(t *testing.T) {
	body := `{"data": [{"txes": [{"tx": ` + transferDescriptor + `, "hash": "00"}], "block": {"height": 2}, "hash": "00"}]}`
	app, out := newTestApp(t, staticDoer{status: 200, body: body})
	require.NoError(t, app.run(context.Background(), config{command: "blocks", height: 1, pages: 3, out: stdio}))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "2\tTransfer\t"))

	app, _ = newTestApp(t, staticDoer{status: 500, body: "Internal Server Error"})
	err := app.run(context.Background(), config{command: "blocks", height: 1, out: stdio})
	assert.ErrorContains(t, err, "failed to get blocks after 1")
}

func TestVerify(t *testing.T) {
	app, _ := newTestApp(t, staticDoer{})
	app.stdin = strings.NewReader(transferDescriptor)
	err := app.run(context.Background(), config{command: "verify", in: stdio, signature: strings.Repeat("ab", 64)})
	assert.ErrorContains(t, err, "signature does not match Transfer transaction of d90c08cf")

	app.stdin = strings.NewReader(transferDescriptor)
	err = app.run(context.Background(), config{command: "verify", in: stdio, signature: "zz"})
	assert.ErrorContains(t, err, "invalid signature")
}

func TestAuditPrivateNeedsKey(t *testing.T) {
	app, _ := newTestApp(t, staticDoer{})
	require.NoError(t, afero.WriteFile(app.fs, "/hello.txt", []byte("hello"), 0o600))
	cfg := config{command: "audit", in: "/hello.txt", apostille: "fe4e545983" + strings.Repeat("ab", 64)}
	assert.ErrorContains(t, app.run(context.Background(), cfg), "private apostille requires a verifier")

	cfg.publicKey = "d90c08cfbbf918d9304ddd45f6432564c390a5facff3df17ed5c096c4ccf0d04"
	assert.ErrorContains(t, app.run(context.Background(), cfg), "does not match apostille")

	cfg.publicKey = "d90c"
	assert.ErrorContains(t, app.run(context.Background(), cfg), "incorrect public key length 2")
}
