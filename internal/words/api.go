// internal/words/api.go
//
// Remote word source backed by a random-word HTTP API.
// The endpoint is expected to return a JSON array of strings for
// GET <base>?number=<n>. Responses are deduplicated and, if the remote
// comes up short or is unreachable, topped up from a local fallback
// list so board generation keeps working offline.

package words

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// API draws words from a remote endpoint with a local fallback.
type API struct {
	baseURL  string
	client   *http.Client
	fallback *List
}

// NewAPI builds a remote source. fallback may not be nil; it covers
// remote failures and short responses.
func NewAPI(baseURL string, fallback *List) *API {
	return &API{
		baseURL:  baseURL,
		client:   &http.Client{Timeout: 5 * time.Second},
		fallback: fallback,
	}
}

// Draw requests n words from the remote API. Duplicates are dropped;
// any shortfall is filled from the fallback list.
func (a *API) Draw(ctx context.Context, n int) ([]string, error) {
	out := dedupe(a.fetch(ctx, n))
	if len(out) > n {
		out = out[:n]
	}
	if len(out) < n {
		fill, err := a.fallback.Draw(ctx, n)
		if err != nil {
			return nil, err
		}
		seen := make(map[string]struct{}, n)
		for _, w := range out {
			seen[w] = struct{}{}
		}
		for _, w := range fill {
			if len(out) == n {
				break
			}
			if _, ok := seen[w]; !ok {
				out = append(out, w)
			}
		}
	}
	return out, nil
}

// fetch performs the HTTP call, returning nil on any failure so the
// fallback takes over.
func (a *API) fetch(ctx context.Context, n int) []string {
	u, err := url.Parse(a.baseURL)
	if err != nil {
		return nil
	}
	q := u.Query()
	q.Set("number", strconv.Itoa(n))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil
	}

	var ws []string
	if err := json.NewDecoder(resp.Body).Decode(&ws); err != nil {
		return nil
	}
	out := make([]string, 0, len(ws))
	for _, w := range ws {
		if w = normalize(w); w != "" {
			out = append(out, w)
		}
	}
	return out
}
