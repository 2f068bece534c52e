package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"notion-hugo/pkg/models"
)

// Block is one raw Notion content block.
type Block = gjson.Result

const defaultBaseURL = "https://api.notion.com"

// Client talks to the Notion REST API. It is the source collaborator of
// the sync pipeline: records sorted by last edit time descending, plus
// the content blocks of a single record.
type Client struct {
	// BaseURL may be overridden in tests.
	BaseURL string

	httpClient *http.Client
	token      string
	version    string
	log        *zap.Logger
}

// New builds a client. A non-empty proxyURL is applied to this client's
// transport only; the process environment stays untouched so parallel
// test runs remain isolated.
func New(token, version, proxyURL string, log *zap.Logger) (*Client, error) {
	transport := &http.Transport{Proxy: http.ProxyFromEnvironment}
	if proxyURL != "" {
		parsed, err := url.Parse(proxyURL)
		if err != nil {
			return nil, fmt.Errorf("proxy url: %w", err)
		}
		transport.Proxy = http.ProxyURL(parsed)
	}

	return &Client{
		BaseURL:    defaultBaseURL,
		httpClient: &http.Client{Transport: transport},
		token:      token,
		version:    version,
		log:        log,
	}, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (gjson.Result, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return gjson.Result{}, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", c.version)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return gjson.Result{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return gjson.Result{}, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return gjson.Result{}, fmt.Errorf("notion api %s: status %d: %s", path, resp.StatusCode, gjson.GetBytes(data, "message").String())
	}
	return gjson.ParseBytes(data), nil
}

type searchRequest struct {
	Sort        searchSort `json:"sort"`
	PageSize    int        `json:"page_size"`
	StartCursor string     `json:"start_cursor,omitempty"`
}

type searchSort struct {
	Timestamp string `json:"timestamp"`
	Direction string `json:"direction"`
}

// ListRecords fetches every page the integration can see, most recently
// edited first. Untitled placeholder records are filtered out.
func (c *Client) ListRecords(ctx context.Context) ([]models.Record, error) {
	var records []models.Record
	cursor := ""

	for {
		payload, err := json.Marshal(searchRequest{
			Sort:        searchSort{Timestamp: "last_edited_time", Direction: "descending"},
			PageSize:    100,
			StartCursor: cursor,
		})
		if err != nil {
			return nil, err
		}

		res, err := c.do(ctx, http.MethodPost, "/v1/search", payload)
		if err != nil {
			return nil, fmt.Errorf("search: %w", err)
		}

		for _, page := range res.Get("results").Array() {
			record := models.NewRecord([]byte(page.Raw))
			if !record.Valid() {
				continue
			}
			records = append(records, record)
		}

		if !res.Get("has_more").Bool() {
			break
		}
		cursor = res.Get("next_cursor").String()
		if cursor == "" {
			break
		}
	}

	c.log.Info("listed notion records", zap.Int("count", len(records)))
	return records, nil
}

// GetBlocks fetches the content blocks of one record.
func (c *Client) GetBlocks(ctx context.Context, recordID string) ([]Block, error) {
	var blocks []Block
	cursor := ""

	for {
		path := "/v1/blocks/" + recordID + "/children?page_size=100"
		if cursor != "" {
			path += "&start_cursor=" + url.QueryEscape(cursor)
		}

		res, err := c.do(ctx, http.MethodGet, path, nil)
		if err != nil {
			return nil, fmt.Errorf("blocks of %s: %w", recordID, err)
		}

		blocks = append(blocks, res.Get("results").Array()...)

		if !res.Get("has_more").Bool() {
			break
		}
		cursor = res.Get("next_cursor").String()
		if cursor == "" {
			break
		}
	}

	return blocks, nil
}
