package claimserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"drophub/contexts/claim-delivery/dispenser-service/ports"
)

// Client reads claim completion data from the external claim server. The
// claim server owns on-chain submission; this module only reports its numbers
// on the dashboard.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(baseURL string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

type claimedCountRequest struct {
	ProxyAddresses []string `json:"proxy_addresses"`
}

type claimedCountResponse struct {
	Success bool `json:"success"`
	Counts  []struct {
		ProxyAddress string `json:"proxy_address"`
		Count        int    `json:"count"`
	} `json:"count_array"`
}

func (c *Client) ClaimedCounts(ctx context.Context, proxyAddresses []string) ([]ports.ClaimCount, error) {
	body, err := json.Marshal(claimedCountRequest{ProxyAddresses: proxyAddresses})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/claimed-count", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var decoded claimedCountResponse
	if err := c.do(req, &decoded); err != nil {
		return nil, err
	}

	counts := make([]ports.ClaimCount, 0, len(decoded.Counts))
	for _, item := range decoded.Counts {
		counts = append(counts, ports.ClaimCount{
			ProxyAddress: item.ProxyAddress,
			Count:        item.Count,
		})
	}
	return counts, nil
}

type claimedLinksResponse struct {
	Success bool `json:"success"`
	Links   []struct {
		LinkID       string `json:"link_id"`
		Receiver     string `json:"receiver"`
		TokenAddress string `json:"token_address"`
		TokenID      string `json:"token_id"`
		TokenAmount  string `json:"token_amount"`
		TxHash       string `json:"tx_hash"`
	} `json:"operations"`
}

func (c *Client) ClaimedLinks(ctx context.Context, proxyAddress string) ([]ports.ClaimedLinkReport, error) {
	endpoint := c.baseURL + "/api/v1/get-report/" + url.PathEscape(strings.TrimSpace(proxyAddress))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var decoded claimedLinksResponse
	if err := c.do(req, &decoded); err != nil {
		return nil, err
	}

	items := make([]ports.ClaimedLinkReport, 0, len(decoded.Links))
	for _, link := range decoded.Links {
		items = append(items, ports.ClaimedLinkReport{
			LinkID:       link.LinkID,
			Receiver:     link.Receiver,
			TokenAddress: link.TokenAddress,
			TokenID:      link.TokenID,
			TokenAmount:  link.TokenAmount,
			TxHash:       link.TxHash,
		})
	}
	return items, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logWarn("claim_server_request_failed", "url", req.URL.String(), "error", err.Error())
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		err := fmt.Errorf("claim server returned status %d", resp.StatusCode)
		c.logWarn("claim_server_bad_status", "url", req.URL.String(), "status", resp.StatusCode)
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.logWarn("claim_server_decode_failed", "url", req.URL.String(), "error", err.Error())
		return err
	}
	return nil
}

func (c *Client) logWarn(event string, attrs ...any) {
	fields := make([]any, 0, len(attrs)+6)
	fields = append(fields,
		"event", event,
		"module", "claim-delivery/dispenser-service",
		"layer", "adapter",
	)
	fields = append(fields, attrs...)
	c.logger.Warn("claim server call degraded", fields...)
}
