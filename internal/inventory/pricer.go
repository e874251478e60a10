package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/dreamware/grocer/internal/catalog"
	"github.com/dreamware/grocer/internal/cluster"
)

// HTTPPricer calls the pricing service over HTTP/JSON.
type HTTPPricer struct {
	// Addr is the pricing service base URL, e.g. "http://127.0.0.1:8600".
	Addr string
	// Timeout bounds one pricing call. Defaults to 5s.
	Timeout time.Duration
}

// TotalPrice implements Pricer against the pricing service's /price endpoint.
func (p *HTTPPricer) TotalPrice(ctx context.Context, items []catalog.ItemQty) (float64, error) {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var resp cluster.PriceResponse
	err := cluster.PostJSON(ctx, p.Addr+"/price", cluster.PriceRequest{Items: items}, &resp)
	if err != nil {
		return 0, err
	}
	if resp.Code != cluster.CodeOK {
		return 0, fmt.Errorf("pricing returned %s: %s", resp.Code, resp.Message)
	}
	return resp.TotalPrice, nil
}
