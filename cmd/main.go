package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/soyart/arweave-tx-resolver/arweave"
	"github.com/soyart/arweave-tx-resolver/config"
	"github.com/soyart/arweave-tx-resolver/entity"
	"github.com/soyart/arweave-tx-resolver/txid"
)

func main() {
	if err := newApp(nil, nil).Run(os.Args); err != nil {
		if errors.Is(err, txid.ErrMissingInput) {
			fmt.Fprintln(os.Stderr, "No input provided.")
		} else {
			fmt.Fprintf(os.Stderr, "error: %s\n", err.Error())
		}

		os.Exit(1)
	}
}

// resolverApp holds what the Before hook builds for the actions.
type resolverApp struct {
	httpClient *http.Client
	logger     *zap.Logger
	conf       *config.Config
}

// newApp builds the CLI. Nil httpClient uses http.DefaultClient,
// nil logger is created from config.
func newApp(httpClient *http.Client, logger *zap.Logger) *cli.App {
	r := &resolverApp{
		httpClient: httpClient,
		logger:     logger,
	}

	return &cli.App{
		Name:      "arweave-tx",
		Usage:     "print the content of an Arweave transaction whose id is stored as on-chain hex",
		UsageText: "arweave-tx [global options] [command] <0x-hex>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "path to YAML config (overridden by $CONF_FILE)",
				Value: config.DefaultFile,
			},
			&cli.StringFlag{
				Name:  "gateway",
				Usage: "Arweave gateway base URL",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "request timeout, 0 for none",
			},
			&cli.BoolFlag{
				Name:  "fail-on-status",
				Usage: "treat non-2xx gateway responses as errors",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "development logging",
			},
		},
		Before: r.before,
		After:  r.after,
		Action: r.fetch,
		Commands: []*cli.Command{
			{
				Name:      "fetch",
				Usage:     "resolve the hex id and print the transaction content (default)",
				ArgsUsage: "<0x-hex>",
				Action:    r.fetch,
			},
			{
				Name:      "resolve",
				Usage:     "print the transaction id and URL without fetching",
				ArgsUsage: "<0x-hex>",
				Action:    r.resolve,
			},
			{
				Name:      "encode",
				Usage:     "print the on-chain hex form of a transaction id",
				ArgsUsage: "<txid>",
				Action:    r.encode,
			},
		},
		// main decides the exit status
		ExitErrHandler: func(*cli.Context, error) {},
	}
}

func (r *resolverApp) before(c *cli.Context) error {
	conf, err := config.From(c.String("config"))
	if err != nil {
		return errors.Wrap(err, "failed to read config")
	}

	if c.IsSet("gateway") {
		conf.Gateway = c.String("gateway")
	}

	if c.IsSet("timeout") {
		conf.Timeout = c.Duration("timeout")
	}

	if c.IsSet("fail-on-status") {
		conf.FailOnStatus = c.Bool("fail-on-status")
	}

	if c.IsSet("debug") {
		conf.Debug = c.Bool("debug")
	}

	if err := conf.Validate(); err != nil {
		return errors.Wrap(err, "invalid config")
	}

	r.conf = conf

	if r.logger == nil {
		r.logger, err = newLogger(conf)
		if err != nil {
			return errors.Wrap(err, "failed to init logger")
		}
	}

	r.logger.Debug("config", zap.Any("values", conf))

	return nil
}

func (r *resolverApp) after(*cli.Context) error {
	if r.logger != nil {
		// Sync on stderr fails on some platforms, nothing to do about it
		_ = r.logger.Sync()
	}

	return nil
}

func (r *resolverApp) fetch(c *cli.Context) error {
	id, err := txid.Resolve(c.Args().Slice())
	if err != nil {
		return err
	}

	r.logger.Info("resolved txid", zap.String("txid", id.String()))

	tx, err := arweave.New(r.httpClient, r.logger, r.conf.ArweaveOptions()).Get(c.Context, id)
	if err != nil {
		return errors.Wrapf(err, "failed to fetch %s", id)
	}

	return writeBody(c.App.Writer, tx.Body)
}

func (r *resolverApp) resolve(c *cli.Context) error {
	id, err := txid.Resolve(c.Args().Slice())
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(c.App.Writer, "%s\n%s\n", id, id.URL(r.conf.Gateway))
	return err
}

func (r *resolverApp) encode(c *cli.Context) error {
	if c.Args().First() == "" {
		return txid.ErrMissingInput
	}

	s, err := txid.ToHex(entity.TxId(c.Args().First()))
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(c.App.Writer, s)
	return err
}

func newLogger(conf *config.Config) (*zap.Logger, error) {
	fields := zap.Fields(zap.String("serviceLabel", conf.Label))
	if conf.Debug {
		return zap.NewDevelopment(fields)
	}

	return zap.NewProduction(fields)
}
