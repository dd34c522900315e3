// Package notify holds the two outbound alert channels: the SMS gateway and
// the SMTP mailer. Both fail soft; the dispatcher decides what a failure
// means.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/NElyse/FPA-Project/internal/httputil"
)

// SMSClient sends plain-text messages through the Mista gateway.
type SMSClient struct {
	apiURL   string
	token    string
	senderID string
	client   *http.Client
}

func NewSMSClient(apiURL, token, senderID string) *SMSClient {
	return &SMSClient{
		apiURL:   apiURL,
		token:    token,
		senderID: senderID,
		client:   httputil.NewClient(),
	}
}

type smsRequest struct {
	To       string `json:"to"`
	SenderID string `json:"sender_id"`
	Message  string `json:"message"`
	Type     string `json:"type"`
}

// SendSMS posts one message to the gateway. The recipient number must
// already be normalized; the gateway is the final arbiter of validity.
func (c *SMSClient) SendSMS(ctx context.Context, to, message string) error {
	payload, err := json.Marshal(smsRequest{
		To:       to,
		SenderID: c.senderID,
		Message:  message,
		Type:     "plain",
	})
	if err != nil {
		return fmt.Errorf("marshal sms: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send sms: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("sms gateway status %d: %s", resp.StatusCode, string(b))
	}
	return nil
}
