package realtime

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Notifier pings the socket relay after a dynamic scan so the claimant frame
// refreshes its QR code. Best effort on purpose: allocation already
// succeeded, so every failure here is logged and swallowed.
type Notifier struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewNotifier(baseURL, apiKey string, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		logger:     logger,
	}
}

func (n *Notifier) NotifyScan(ctx context.Context, socketID string) {
	socketID = strings.TrimSpace(socketID)
	if n.baseURL == "" || socketID == "" {
		return
	}

	endpoint := n.baseURL + "/scan?socket_id=" + url.QueryEscape(socketID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		n.logWarn("socket_notify_request_failed", socketID, err.Error())
		return
	}
	req.Header.Set("api-secret-key", n.apiKey)

	resp, err := n.httpClient.Do(req)
	if err != nil {
		n.logWarn("socket_notify_failed", socketID, err.Error())
		return
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))

	if resp.StatusCode != http.StatusOK {
		n.logWarn("socket_notify_bad_status", socketID, resp.Status)
	}
}

func (n *Notifier) logWarn(event, socketID, detail string) {
	n.logger.Warn("socket notification dropped",
		"event", event,
		"module", "claim-delivery/dispenser-service",
		"layer", "adapter",
		"socket_id", socketID,
		"detail", detail,
	)
}
