package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"treatment-site-service/internal/domain"
	"treatment-site-service/internal/platform/obs"
)

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("Code %d: %s", e.Code, e.Body)
}

// OSRM reports these codes when the request was valid but no route exists.
var noRouteCodes = map[string]bool{
	"NoRoute":   true,
	"NoTrips":   true,
	"NoSegment": true,
}

type osrmStatus struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (o *OSRMClient) newRequest(ctx context.Context, method string, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (o *OSRMClient) do(req *http.Request) (*http.Response, error) {
	resp, err := o.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, &httpStatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(b)),
		}
	}
	return resp, nil
}

// getJSON waits for the rate limiter, issues one GET and decodes the body
// into out. Failures are returned as-is; the caller decides whether to retry.
func (o *OSRMClient) getJSON(ctx context.Context, endpoint string, url string, out any) (err error) {
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		obs.RoutingRequests.WithLabelValues(endpoint, outcome).Inc()
	}()

	if err := o.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}

	req, err := o.newRequest(ctx, http.MethodGet, url)
	if err != nil {
		return err
	}

	resp, err := o.do(req)
	if err != nil {
		var he *httpStatusError
		if errors.As(err, &he) {
			var st osrmStatus
			if json.Unmarshal([]byte(he.Body), &st) == nil && noRouteCodes[st.Code] {
				return fmt.Errorf("code %q: %s: %w", st.Code, st.Message, domain.ErrNoRoute)
			}
		}
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
