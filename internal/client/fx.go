package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-redis/redis/v9"
	"github.com/pkg/errors"

	"parttracker/internal/misc"
)

const bocValetURL = "https://www.bankofcanada.ca/valet/observations/FXUSDCAD/json?recent=1"

// fxFallbackUSDToCAD is used whenever no cached rate exists and the Bank of
// Canada fetch fails. A stale conversion beats a failed refresh.
const fxFallbackUSDToCAD = 1.35

const (
	fxCacheKey = "FX-USDCAD"
	fxCacheTTL = 24 * time.Hour
)

type bocValetResponse struct {
	Observations []struct {
		FXUSDCAD struct {
			V string `json:"v"`
		} `json:"FXUSDCAD"`
	} `json:"observations"`
}

// USDToCAD returns the current USD to CAD rate. It never fails outward: the
// Redis cache is consulted first, then the Bank of Canada valet API, then the
// static fallback constant.
func (c Client) USDToCAD(ctx context.Context) float64 {
	cached, err := c.Redis.Get(ctx, fxCacheKey).Result()
	if err == nil {
		if rate, err := strconv.ParseFloat(cached, 64); err == nil {
			return rate
		}
		c.Logger.Errorf("USDToCAD: Invalid cached rate, key: %s, value: %#v", fxCacheKey, cached)
	} else if err != redis.Nil {
		c.Logger.Errorf("USDToCAD: Error getting Redis cache with key: %s, err: %v", fxCacheKey, err)
	}

	rate, err := c.fetchUSDToCAD(ctx)
	if err != nil {
		c.Logger.Warnf("USDToCAD: Error fetching rate, using fallback %v, err: %v", fxFallbackUSDToCAD, err)
		return fxFallbackUSDToCAD
	}

	if err := c.Redis.Set(ctx, fxCacheKey, strconv.FormatFloat(rate, 'f', -1, 64), fxCacheTTL).Err(); err != nil {
		c.Logger.Errorf("USDToCAD: Error caching rate, key: %s, err: %v", fxCacheKey, err)
	}
	return rate
}

func (c Client) fetchUSDToCAD(ctx context.Context) (float64, error) {
	req, err := newRequest(ctx, http.MethodGet, bocValetURL, nil)
	if err != nil {
		return 0, errors.Wrapf(err, "error creating request from URL: %s", bocValetURL)
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return 0, errors.Wrapf(err, "error doing request to BankOfCanadaValetAPI: %+v", req)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.Logger.Errorf("fetchUSDToCAD: Error closing response body, req: %+v, err: %v", req, err)
		}
	}()

	body, err := io.ReadAll(http.MaxBytesReader(nil, resp.Body, 300000))
	if err != nil {
		return 0, errors.Wrapf(err, "error reading BankOfCanadaValetAPI response body, status: %s", resp.Status)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, errors.Errorf("unexpected status from BankOfCanadaValetAPI: %s, body:\n%s",
			resp.Status, misc.BytesLimit(body, 500))
	}
	return parseValetRate(body)
}

func parseValetRate(body []byte) (float64, error) {
	var valetResp bocValetResponse
	if err := json.Unmarshal(body, &valetResp); err != nil {
		return 0, errors.Wrapf(err, "error unmarshalling BankOfCanadaValetAPI response body:\n%s",
			misc.BytesLimit(body, 500))
	}
	if len(valetResp.Observations) == 0 || valetResp.Observations[0].FXUSDCAD.V == "" {
		return 0, errors.Errorf("no FXUSDCAD observation in BankOfCanadaValetAPI response body:\n%s",
			misc.BytesLimit(body, 500))
	}
	rate, err := strconv.ParseFloat(valetResp.Observations[0].FXUSDCAD.V, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid FXUSDCAD observation value: %#v", valetResp.Observations[0].FXUSDCAD.V)
	}
	return rate, nil
}
