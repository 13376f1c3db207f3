package fdc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.nal.usda.gov"

type Client struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

type FoodSummary struct {
	FDCID       int64  `json:"fdcId"`
	Description string `json:"description"`
	DataType    string `json:"dataType"`
	BrandOwner  string `json:"brandOwner"`
}

// FoodDetail fetches the full FoodData Central record for one FDC id and
// returns the raw JSON body, which is what gets stored as the ingredient
// snapshot.
func (c *Client) FoodDetail(ctx context.Context, fdcID int64) ([]byte, error) {
	baseURL, httpClient, err := c.settings()
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/fdc/v1/food/%d?api_key=%s", baseURL, fdcID, c.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create FDC request: %w", err)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute FDC request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read FDC response: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("no FDC food found for id %d", fdcID)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("FDC request failed with status %d", resp.StatusCode)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("FDC response for id %d is not valid JSON", fdcID)
	}
	return body, nil
}

// SearchFoods queries the foods/search endpoint, preferring the survey and
// reference data types whose nutrient tables are per 100 g.
func (c *Client) SearchFoods(ctx context.Context, query string, pageSize int) ([]FoodSummary, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("search query is required")
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	baseURL, httpClient, err := c.settings()
	if err != nil {
		return nil, err
	}

	reqBody := map[string]any{
		"query":    query,
		"dataType": []string{"Foundation", "SR Legacy", "Survey (FNDDS)"},
		"pageSize": pageSize,
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal FDC search payload: %w", err)
	}

	url := fmt.Sprintf("%s/fdc/v1/foods/search?api_key=%s", baseURL, c.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create FDC request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute FDC request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read FDC response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("FDC request failed with status %d", resp.StatusCode)
	}

	var parsed struct {
		Foods []FoodSummary `json:"foods"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode FDC response: %w", err)
	}
	return parsed.Foods, nil
}

func (c *Client) settings() (string, *http.Client, error) {
	if strings.TrimSpace(c.APIKey) == "" {
		return "", nil, fmt.Errorf("missing FDC API key; set USDA_API_KEY or add it to .env")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 12 * time.Second}
	}
	return baseURL, httpClient, nil
}
