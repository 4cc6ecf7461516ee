// Package client holds the outward HTTP integrations: the Bank of Canada
// exchange-rate lookup and the Pushbullet note sender.
package client

import (
	"context"
	"io"
	"net/http"

	"github.com/go-redis/redis/v9"
)

type Client struct {
	*http.Client
	Redis  *redis.Client
	Logger logger
}

type logger interface {
	Debugf(format string, v ...any)
	Infof(format string, v ...any)
	Warnf(format string, v ...any)
	Errorf(format string, v ...any)
}

func newRequest(ctx context.Context, method string, url string, body io.Reader) (*http.Request, error) {
	r, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	setDefaultRequestHeader(r)
	return r, nil
}

func setDefaultRequestHeader(r *http.Request) {
	r.Header.Set("User-Agent", "Mozilla/5.0 (compatible; PCPartPriceTracker/1.0)")
	r.Header.Set("Accept", "application/json")
}
