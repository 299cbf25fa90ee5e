package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/isira-aw/Metropolitan-NEW-EMS/config"
)

// WhatsAppClient posts messages to an HTTP messaging gateway.
type WhatsAppClient struct {
	url    string
	token  string
	sender string
	http   *http.Client
}

type whatsAppMessage struct {
	From string `json:"from,omitempty"`
	To   string `json:"to"`
	Text string `json:"text"`
}

// NewWhatsAppClient returns nil when the channel is disabled.
func NewWhatsAppClient(cfg *config.WhatsAppConfig) WhatsAppSender {
	if !cfg.Enabled {
		return nil
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WhatsAppClient{
		url:    cfg.APIURL,
		token:  cfg.Token,
		sender: cfg.Sender,
		http:   &http.Client{Timeout: timeout},
	}
}

// SendWhatsApp sends one text message.
func (c *WhatsAppClient) SendWhatsApp(ctx context.Context, to, body string) error {
	payload, err := json.Marshal(whatsAppMessage{From: c.sender, To: to, Text: body})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("post message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("gateway returned %d: %s", resp.StatusCode, bytes.TrimSpace(snippet))
	}
	return nil
}
