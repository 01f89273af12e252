// Package catalog talks to the external Spoonacular-compatible recipe catalog
// and normalizes its payloads to the shared recipe types.
package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/familyrecipes/backend/internal/apperror"
	"github.com/familyrecipes/backend/internal/logging"
	"github.com/familyrecipes/backend/internal/types"
)

// Allowed result counts for search. Anything else falls back to the default.
var searchNumbers = []int{5, 10, 15}

const DefaultSearchNumber = 5

// SearchParams filters a catalog search. List filters are comma-joined.
type SearchParams struct {
	Query        string
	Number       int
	Cuisine      []string
	Diet         []string
	Intolerances []string
}

// ClampNumber maps a requested result count onto {5, 10, 15}.
func ClampNumber(n int) int {
	for _, allowed := range searchNumbers {
		if n == allowed {
			return n
		}
	}
	return DefaultSearchNumber
}

// Client is an HTTP client for the recipe catalog. It never retries.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a catalog client rooted at baseURL.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Lookup fetches the full recipe. A catalog 404 becomes a NotFound error.
func (c *Client) Lookup(ctx context.Context, id int64) (*types.RecipeDetail, error) {
	var raw catalogRecipe
	q := url.Values{"includeNutrition": {"false"}}
	if err := c.get(ctx, fmt.Sprintf("/recipes/%d/information", id), q, &raw); err != nil {
		return nil, err
	}
	detail := raw.detail()
	return &detail, nil
}

// Exists reports whether the catalog knows the recipe. Only a 404 means no;
// any other failure is returned.
func (c *Client) Exists(ctx context.Context, id int64) (bool, error) {
	_, err := c.Lookup(ctx, id)
	switch {
	case err == nil:
		return true, nil
	case apperror.IsNotFound(err):
		return false, nil
	default:
		return false, err
	}
}

// Search runs a complex search with full recipe information.
func (c *Client) Search(ctx context.Context, params SearchParams) ([]types.RecipeSummary, error) {
	q := url.Values{
		"query":                {params.Query},
		"number":               {strconv.Itoa(ClampNumber(params.Number))},
		"addRecipeInformation": {"true"},
	}
	setList(q, "cuisine", params.Cuisine)
	setList(q, "diet", params.Diet)
	setList(q, "intolerances", params.Intolerances)

	var resp struct {
		Results []catalogRecipe `json:"results"`
	}
	if err := c.get(ctx, "/recipes/complexSearch", q, &resp); err != nil {
		return nil, err
	}
	return summaries(resp.Results), nil
}

// Random returns count random recipes. The catalog may repeat recipes.
func (c *Client) Random(ctx context.Context, count int) ([]types.RecipeSummary, error) {
	var resp struct {
		Recipes []catalogRecipe `json:"recipes"`
	}
	q := url.Values{"number": {strconv.Itoa(count)}}
	if err := c.get(ctx, "/recipes/random", q, &resp); err != nil {
		return nil, err
	}
	return summaries(resp.Recipes), nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	q.Set("apiKey", c.apiKey)
	endpoint := c.baseURL + path + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperror.Upstream("Recipe catalog is unavailable", err)
	}
	defer resp.Body.Close()

	logging.Ctx(ctx).Debug().
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("catalog request")

	switch {
	case resp.StatusCode == http.StatusNotFound:
		io.Copy(io.Discard, resp.Body)
		return apperror.NotFound("Recipe not found")
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return apperror.Upstream("Recipe catalog request failed",
			fmt.Errorf("catalog returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperror.Upstream("Recipe catalog returned an invalid response", err)
	}
	return nil
}

func setList(q url.Values, key string, values []string) {
	var kept []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			kept = append(kept, v)
		}
	}
	if len(kept) > 0 {
		q.Set(key, strings.Join(kept, ","))
	}
}
