package main

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/wavesplatform/gonem/pkg/client"
	"github.com/wavesplatform/gonem/pkg/libs/ntptime"
	"github.com/wavesplatform/gonem/pkg/logging"
)

const (
	defaultScheme      = "http"
	ntpRefreshInterval = 2 * time.Minute
)

var version string

func main() {
	var showHelp bool
	var showVersion bool
	var cfg config
	var node string
	var lp logging.Parameters
	var ntpServer string

	flag.StringVarP(&cfg.command, "command", "c", "", "One of: encode, decode, hash, announce, verify, blocks, audit")
	flag.StringVarP(&cfg.in, "in", "i", stdio, "Input file: JSON descriptor for encode, hash, announce and verify, encoded bytes for decode, notarized file for audit; \"-\" reads stdin")
	flag.StringVarP(&cfg.out, "out", "o", stdio, "Output file, \"-\" writes to stdout")
	flag.BoolVar(&cfg.base64, "base64", false, "Write and read encoded bytes as base64 instead of hex")
	flag.StringVarP(&node, "node", "n", client.DefaultNodeURL, "URL of the NIS node for announce and blocks")
	flag.StringVar(&cfg.signature, "signature", "", "Hex signature of the encoded transaction, required by announce and verify")
	flag.DurationVar(&cfg.timeout, "timeout", 30*time.Second, "How long announce keeps retrying")
	flag.Uint64Var(&cfg.height, "height", 1, "Height after which blocks are requested")
	flag.IntVar(&cfg.pages, "pages", 1, "Number of ten block pages requested concurrently by blocks")
	flag.BoolVar(&cfg.stamp, "stamp", false, "Set timestamp and deadline of the transaction from the clock")
	flag.DurationVar(&cfg.ttl, "ttl", time.Hour, "Time to live of a stamped transaction, at most 24h")
	flag.StringVar(&ntpServer, "ntp-server", "", "NTP server correcting the clock used by --stamp, local clock if empty")
	flag.StringVar(&cfg.apostille, "apostille", "", "Apostille hash to audit the input file against")
	flag.StringVar(&cfg.publicKey, "public-key", "", "Hex public key of the owner of a private apostille")
	flag.BoolVarP(&showHelp, "help", "h", false, "Print usage information (this message) and quit")
	flag.BoolVarP(&showVersion, "version", "v", false, "Print version information and quit")
	lp.Initialize(flag.CommandLine)
	flag.Usage = showUsageAndExit
	flag.Parse()

	if showHelp {
		showUsageAndExit()
	}
	if showVersion {
		showVersionAndExit()
	}
	if cfg.command == "" {
		showUsageAndExit()
	}
	if err := lp.Parse(); err != nil {
		fmt.Println(err)
		showUsageAndExit()
	}
	logger := logging.DefaultLogger(lp)
	defer func() {
		_ = logger.Sync()
	}()
	log := logger.Sugar()
	log.Debugf("Logging: %s", lp.String())

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Infof("Shutting down")
		cancel()
	}()

	u, err := checkAndUpdateURL(node)
	if err != nil {
		log.Errorf("Incorrect node's URL: %s", err.Error())
		os.Exit(2)
	}
	log.Debugf("Node: %s", u)
	c, err := client.NewClient(client.Options{BaseUrl: u, Client: &http.Client{Timeout: 10 * time.Second}})
	if err != nil {
		log.Errorf("Failed to create client for URL '%s': %s", u, err)
		os.Exit(2)
	}

	clock := newClock(appCtx, ntpServer, log)

	app := &application{fs: afero.NewOsFs(), stdin: os.Stdin, stdout: os.Stdout, log: log, client: c, clock: clock}
	if err := app.run(appCtx, cfg); err != nil {
		log.Errorw("Command failed", "command", cfg.command, logging.Error(err), logging.ErrorTrace(err))
		os.Exit(1)
	}
}

// newClock returns the system clock, or one corrected by the NTP server and refreshed until ctx is done.
func newClock(ctx context.Context, server string, log *zap.SugaredLogger) ntptime.Clock {
	if server == "" {
		return ntptime.Local{}
	}
	nc := ntptime.New(server)
	log.Debugf("NTP clock offset: %s", nc.Offset())
	go nc.Run(ctx, ntpRefreshInterval)
	return nc
}

func checkAndUpdateURL(s string) (string, error) {
	var u *url.URL
	var err error
	if strings.Contains(s, "//") {
		u, err = url.Parse(s)
	} else {
		u, err = url.Parse("//" + s)
	}
	if err != nil {
		return "", errors.Wrapf(err, "failed to parse URL '%s'", s)
	}
	if u.Scheme == "" {
		u.Scheme = defaultScheme
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", errors.Errorf("unsupported URL scheme '%s'", u.Scheme)
	}
	return u.String(), nil
}

func showUsageAndExit() {
	fmt.Println("usage: nemtx --command <command> [flags]")
	flag.PrintDefaults()
	os.Exit(0)
}

func showVersionAndExit() {
	fmt.Printf("nemtx %s\n", version)
	os.Exit(0)
}
