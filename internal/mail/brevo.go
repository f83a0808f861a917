package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const sendPath = "/v3/smtp/email"

// Client talks to the Brevo transactional email API. Delivery is
// fire-and-forget from the caller's point of view: issuance never
// fails a request over a mail error.
type Client struct {
	baseURL     string
	apiKey      string
	senderEmail string
	senderName  string
	httpClient  *http.Client
}

func NewClient(baseURL, apiKey, senderEmail, senderName string) *Client {
	return &Client{
		baseURL:     baseURL,
		apiKey:      apiKey,
		senderEmail: senderEmail,
		senderName:  senderName,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}
}

type address struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sendRequest struct {
	Sender      address           `json:"sender"`
	To          []address         `json:"to"`
	Subject     string            `json:"subject"`
	HTMLContent string            `json:"htmlContent"`
	Headers     map[string]string `json:"headers,omitempty"`
}

func (c *Client) Send(ctx context.Context, toEmail, subject, htmlContent string) error {
	payload := sendRequest{
		Sender:      address{Email: c.senderEmail, Name: c.senderName},
		To:          []address{{Email: toEmail}},
		Subject:     subject,
		HTMLContent: htmlContent,
		Headers: map[string]string{
			"X-Mailin-Track-Clicks": "0",
			"X-Mailin-Track-Opens":  "0",
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("mail: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+sendPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("mail: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("mail: send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("mail: provider returned %d: %s", resp.StatusCode, detail)
	}
	return nil
}
