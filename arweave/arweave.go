package arweave

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/soyart/arweave-tx-resolver/entity"
)

const DefaultGateway = "https://arweave.net"

var (
	ErrNetwork = errors.New("arweave gateway unreachable")
	ErrStatus  = errors.New("arweave gateway returned non-success status")
)

type Fetcher interface {
	Get(context.Context, entity.TxId) (*entity.Transaction, error)
}

type Options struct {
	Gateway string
	// Zero means no timeout
	Timeout time.Duration
	// If false, any status is returned as a successful fetch
	FailOnStatus bool
}

type client struct {
	http    *http.Client
	logger  *zap.Logger
	options Options
}

// New returns a Fetcher using httpClient, or http.DefaultClient if nil.
func New(httpClient *http.Client, logger *zap.Logger, options Options) Fetcher {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	if options.Gateway == "" {
		options.Gateway = DefaultGateway
	}

	return &client{
		http:    httpClient,
		logger:  logger,
		options: options,
	}
}

// Get performs exactly one GET to the gateway and reads the whole body.
func (c *client) Get(ctx context.Context, id entity.TxId) (*entity.Transaction, error) {
	url := id.URL(c.options.Gateway)

	if c.options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.options.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create request for %s", url)
	}

	c.logger.Debug("fetching from arweave", zap.String("url", url))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(ErrNetwork, "GET %s: %s", url, err.Error())
	}

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(ErrNetwork, "failed to read body from %s: %s", url, err.Error())
	}

	c.logger.Info("got response", zap.String("txid", id.String()), zap.Int("status", resp.StatusCode), zap.Int("len", len(body)))

	if c.options.FailOnStatus && (resp.StatusCode < 200 || resp.StatusCode > 299) {
		return nil, errors.Wrapf(ErrStatus, "GET %s: %s", url, resp.Status)
	}

	return &entity.Transaction{
		TxId:   id,
		URL:    url,
		Status: resp.StatusCode,
		Body:   string(body),
	}, nil
}
