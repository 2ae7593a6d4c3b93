package probe

import (
	"context"
	"net/http"
)

// attemptOutcome is what one strategy attempt produced: a received HTTP
// status line, or a classified transport failure.
type attemptOutcome struct {
	status int
	kind   ErrorKind
	raw    string
}

// attemptRunner issues a single GET under a single strategy.
type attemptRunner interface {
	execute(ctx context.Context, rawURL string, s Strategy) attemptOutcome
}

type httpExecutor struct {
	client *http.Client
}

func newHTTPExecutor() *httpExecutor {
	// Fresh transport so the engine's connection pool is not shared with
	// unrelated clients in the process.
	t := http.DefaultTransport.(*http.Transport).Clone()
	return &httpExecutor{client: &http.Client{Transport: t}}
}

// execute runs one GET with the strategy's headers under its wall-clock
// deadline. The cancel handle is released on every exit path; redirects
// follow the client's default policy.
func (e *httpExecutor) execute(ctx context.Context, rawURL string, s Strategy) attemptOutcome {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return attemptOutcome{kind: KindInvalidURL, raw: err.Error()}
	}
	for k, v := range s.Headers {
		req.Header.Set(k, v)
	}
	if s.KeepAlive {
		req.Header.Set("Connection", "keep-alive")
	} else {
		req.Header.Set("Connection", "close")
		req.Close = true
	}
	// Every attempt is a fresh round trip, never a cached answer.
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")

	resp, err := e.client.Do(req)
	if err != nil {
		return attemptOutcome{kind: Classify(err), raw: err.Error()}
	}
	resp.Body.Close()
	return attemptOutcome{status: resp.StatusCode}
}
