package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
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

// HTTPRepository implements SiteRepository against the REST storage
// collaborator exposing /resources. Calls are made once; non-success
// responses are returned as errors.
type HTTPRepository struct {
	session *http.Client
	baseURL string
}

func NewHTTPRepository(baseURL string) (*HTTPRepository, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("storage base url is empty")
	}
	return &HTTPRepository{
		session: &http.Client{Timeout: 10 * time.Second},
		baseURL: baseURL,
	}, nil
}

func (h *HTTPRepository) ListSites(ctx context.Context) (_ []domain.Site, err error) {
	defer obs.Time(ctx, "storage.ListSites")(&err)

	req, err := h.newRequest(ctx, http.MethodGet, h.baseURL+"/resources", nil)
	if err != nil {
		return nil, fmt.Errorf("list sites: %w", err)
	}

	var records []siteRecord
	if err := h.doJSON(req, &records); err != nil {
		return nil, fmt.Errorf("list sites: %w", err)
	}

	sites := make([]domain.Site, 0, len(records))
	for _, r := range records {
		sites = append(sites, r.toDomain())
	}
	return sites, nil
}

func (h *HTTPRepository) CreateSite(ctx context.Context, n domain.NewSite) (_ domain.Site, err error) {
	defer obs.Time(ctx, "storage.CreateSite")(&err)

	body, err := json.Marshal(newCreateRecord(n))
	if err != nil {
		return domain.Site{}, fmt.Errorf("create site: encode: %w", err)
	}

	req, err := h.newRequest(ctx, http.MethodPost, h.baseURL+"/resources", bytes.NewReader(body))
	if err != nil {
		return domain.Site{}, fmt.Errorf("create site: %w", err)
	}

	var created siteRecord
	if err := h.doJSON(req, &created); err != nil {
		return domain.Site{}, fmt.Errorf("create site: %w", err)
	}
	return created.toDomain(), nil
}

func (h *HTTPRepository) UpdateSite(ctx context.Context, id int64, patch domain.SitePatch) (err error) {
	defer obs.Time(ctx, "storage.UpdateSite")(&err)

	body, err := json.Marshal(newPatchRecord(patch))
	if err != nil {
		return fmt.Errorf("update site %d: encode: %w", id, err)
	}

	req, err := h.newRequest(ctx, http.MethodPatch, h.resourceURL(id), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("update site %d: %w", id, err)
	}

	if err := h.doJSON(req, nil); err != nil {
		return fmt.Errorf("update site %d: %w", id, err)
	}
	return nil
}

func (h *HTTPRepository) DeleteSite(ctx context.Context, id int64) (err error) {
	defer obs.Time(ctx, "storage.DeleteSite")(&err)

	req, err := h.newRequest(ctx, http.MethodDelete, h.resourceURL(id), nil)
	if err != nil {
		return fmt.Errorf("delete site %d: %w", id, err)
	}

	if err := h.doJSON(req, nil); err != nil {
		return fmt.Errorf("delete site %d: %w", id, err)
	}
	return nil
}

func (h *HTTPRepository) resourceURL(id int64) string {
	return fmt.Sprintf("%s/resources/%d", h.baseURL, id)
}

func (h *HTTPRepository) newRequest(ctx context.Context, method string, url string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// doJSON sends req and decodes a JSON body into out when out is non-nil.
// A 404 maps to domain.ErrNotFound.
func (h *HTTPRepository) doJSON(req *http.Request, out any) error {
	resp, err := h.session.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(resp.Body)
		se := &httpStatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
		if resp.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%w: %w", domain.ErrNotFound, se)
		}
		return se
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
