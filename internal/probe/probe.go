package probe

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/edvin/opsdash/internal/metrics"
	"github.com/edvin/opsdash/internal/model"
)

// DefaultTimeout bounds a single health probe.
const DefaultTimeout = 10 * time.Second

// Prober checks target URLs with a HEAD request.
type Prober struct {
	client *http.Client
	now    func() time.Time
}

// New returns a Prober whose requests are aborted after timeout.
// Redirects are not followed, so a 3xx answer counts as healthy.
func New(timeout time.Duration) *Prober {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Prober{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		now: time.Now,
	}
}

// Probe issues one HEAD request to target. It never fails; transport
// errors and timeouts are reported as unhealthy.
func (p *Prober) Probe(ctx context.Context, target model.HealthTarget) model.HealthCheckResult {
	start := p.now()
	code, err := p.head(ctx, target.URL)
	elapsed := p.now().Sub(start)

	status := model.NormalizeProbe(code, err)
	metrics.ObserveProbe(string(status), elapsed)
	if err != nil {
		metrics.ObserveUpstream(metrics.UpstreamProbe, metrics.OutcomeError)
		zerolog.Ctx(ctx).Debug().Err(err).Str("url", target.URL).Msg("health probe failed")
	} else {
		metrics.ObserveUpstream(metrics.UpstreamProbe, metrics.OutcomeOK)
	}

	return model.HealthCheckResult{
		URL:          target.URL,
		Name:         target.Name,
		Status:       status,
		ResponseTime: elapsed.Milliseconds(),
		LastChecked:  p.now().UTC(),
	}
}

func (p *Prober) head(ctx context.Context, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return 0, err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()
	return resp.StatusCode, nil
}
