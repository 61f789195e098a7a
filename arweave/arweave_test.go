package arweave

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/soyart/arweave-tx-resolver/entity"
)

const testTxId = entity.TxId("Zg6CZYfxXCWYnCuKEpnZCYfy7ghit1_v4-BCe53iWuA")

func newMockedClient(t *testing.T, options Options) Fetcher {
	httpClient := &http.Client{}
	httpmock.ActivateNonDefault(httpClient)
	t.Cleanup(httpmock.DeactivateAndReset)

	return New(httpClient, zap.NewNop(), options)
}

func TestGet(t *testing.T) {
	t.Run("body is returned unmodified", func(t *testing.T) {
		c := newMockedClient(t, Options{})
		body := "  \"Hello, Arweave!\"\n\n"
		httpmock.RegisterResponder("GET", "https://arweave.net/"+testTxId.String(),
			httpmock.NewStringResponder(200, body))

		tx, err := c.Get(context.Background(), testTxId)
		require.NoError(t, err)
		assert.Equal(t, body, tx.Body)
		assert.Equal(t, 200, tx.Status)
		assert.Equal(t, testTxId, tx.TxId)
		assert.Equal(t, "https://arweave.net/"+testTxId.String(), tx.URL)
		assert.Equal(t, 1, httpmock.GetTotalCallCount())
	})

	t.Run("any status is success by default", func(t *testing.T) {
		c := newMockedClient(t, Options{})
		httpmock.RegisterResponder("GET", "https://arweave.net/"+testTxId.String(),
			httpmock.NewStringResponder(404, "Not Found"))

		tx, err := c.Get(context.Background(), testTxId)
		require.NoError(t, err)
		assert.Equal(t, 404, tx.Status)
		assert.Equal(t, "Not Found", tx.Body)
	})

	t.Run("fail on status", func(t *testing.T) {
		c := newMockedClient(t, Options{FailOnStatus: true})
		httpmock.RegisterResponder("GET", "https://arweave.net/"+testTxId.String(),
			httpmock.NewStringResponder(404, "Not Found"))

		_, err := c.Get(context.Background(), testTxId)
		assert.True(t, errors.Is(err, ErrStatus))
	})

	t.Run("custom gateway", func(t *testing.T) {
		c := newMockedClient(t, Options{Gateway: "https://gateway.irys.xyz/"})
		httpmock.RegisterResponder("GET", "https://gateway.irys.xyz/"+testTxId.String(),
			httpmock.NewStringResponder(200, "ok"))

		tx, err := c.Get(context.Background(), testTxId)
		require.NoError(t, err)
		assert.Equal(t, "ok", tx.Body)
	})

	t.Run("network error", func(t *testing.T) {
		c := newMockedClient(t, Options{})
		httpmock.RegisterResponder("GET", "https://arweave.net/"+testTxId.String(),
			httpmock.NewErrorResponder(errors.New("connection refused")))

		_, err := c.Get(context.Background(), testTxId)
		assert.True(t, errors.Is(err, ErrNetwork))
		assert.Contains(t, err.Error(), "connection refused")
		assert.Equal(t, 1, httpmock.GetTotalCallCount())
	})

	t.Run("timeout", func(t *testing.T) {
		c := newMockedClient(t, Options{Timeout: 10 * time.Millisecond})
		httpmock.RegisterResponder("GET", "https://arweave.net/"+testTxId.String(),
			func(req *http.Request) (*http.Response, error) {
				<-req.Context().Done()
				return nil, req.Context().Err()
			})

		_, err := c.Get(context.Background(), testTxId)
		assert.True(t, errors.Is(err, ErrNetwork))
	})
}
