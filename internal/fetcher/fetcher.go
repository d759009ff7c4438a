package fetcher

import (
	"context"
	"hash/fnv"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// defaultUserAgents are the two identification headers rotated across
// requests. Which one a request gets is a function of its URL, so repeat
// fetches of the same page present the same browser.
var defaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
}

// Fetcher retrieves pages with a fixed delay before every request. It
// never retries and never escalates: any failure yields empty content.
type Fetcher struct {
	client     *http.Client
	userAgents []string
	delay      time.Duration
	sleep      func(time.Duration)
	log        zerolog.Logger
}

func New(timeout, delay time.Duration, log zerolog.Logger) *Fetcher {
	return &Fetcher{
		client:     &http.Client{Timeout: timeout},
		userAgents: defaultUserAgents,
		delay:      delay,
		sleep:      time.Sleep,
		log:        log,
	}
}

// Fetch returns the page body, or "" on any transport error or
// non-success status.
func (f *Fetcher) Fetch(ctx context.Context, url string) string {
	f.sleep(f.delay)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		f.log.Error().Err(err).Str("url", url).Msg("bad request url")
		return ""
	}
	req.Header.Set("User-Agent", f.pickUserAgent(url))

	resp, err := f.client.Do(req)
	if err != nil {
		f.log.Error().Err(err).Str("url", url).Msg("fetch failed")
		return ""
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		f.log.Error().Int("status", resp.StatusCode).Str("url", url).Msg("fetch returned non-success status")
		return ""
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		f.log.Error().Err(err).Str("url", url).Msg("failed to read body")
		return ""
	}
	return string(body)
}

func (f *Fetcher) pickUserAgent(url string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(url))
	return f.userAgents[int(h.Sum32())%len(f.userAgents)]
}
