package whatsapp

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
)

// Config holds the WhatsApp Business Cloud API settings.
type Config struct {
	BaseURL          string
	APIVersion       string
	AccessToken      string
	PhoneNumberID    string
	AppSecret        string
	WebhookVerifyTkn string
}

// Service is the outbound WhatsApp channel plus webhook verification
// helpers. It satisfies the coordinator's Notifier interface.
type Service struct {
	config     Config
	httpClient *http.Client
}

// NewService creates a WhatsApp service. A nil httpClient gets a default
// with DefaultTimeout.
func NewService(config Config, httpClient *http.Client) *Service {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.APIVersion == "" {
		config.APIVersion = DefaultAPIVersion
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Service{config: config, httpClient: httpClient}
}

type textPayload struct {
	MessagingProduct string   `json:"messaging_product"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Text             textBody `json:"text"`
}

type textBody struct {
	Body string `json:"body"`
}

type readPayload struct {
	MessagingProduct string `json:"messaging_product"`
	Status           string `json:"status"`
	MessageID        string `json:"message_id"`
}

// SendText sends a plain text message to a WhatsApp number.
func (s *Service) SendText(ctx context.Context, phone, message string) error {
	payload := textPayload{
		MessagingProduct: messagingProduct,
		To:               FormatPhoneNumber(phone),
		Type:             "text",
		Text:             textBody{Body: message},
	}
	return s.post(ctx, "messages", payload)
}

// MarkMessageAsRead flags an inbound message as read so the sender sees
// the blue ticks.
func (s *Service) MarkMessageAsRead(ctx context.Context, messageID string) error {
	payload := readPayload{
		MessagingProduct: messagingProduct,
		Status:           "read",
		MessageID:        messageID,
	}
	return s.post(ctx, "messages", payload)
}

func (s *Service) post(ctx context.Context, path string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode whatsapp payload: %w", err)
	}

	url := fmt.Sprintf("%s/%s/%s/%s", s.config.BaseURL, s.config.APIVersion, s.config.PhoneNumberID, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build whatsapp request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.config.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		log.Printf("whatsapp API returned %d: %s", resp.StatusCode, string(respBody))
		return fmt.Errorf("whatsapp API returned status %d", resp.StatusCode)
	}
	return nil
}

// VerifyWebhookToken checks the hub.verify_token of a webhook
// subscription handshake.
func (s *Service) VerifyWebhookToken(token string) bool {
	return s.config.WebhookVerifyTkn != "" && token == s.config.WebhookVerifyTkn
}

// ValidateSignature checks the X-Hub-Signature-256 header against the raw
// request body. With no app secret configured, validation is skipped.
func (s *Service) ValidateSignature(body []byte, signature string) bool {
	if s.config.AppSecret == "" {
		return true
	}
	mac := hmac.New(sha256.New, []byte(s.config.AppSecret))
	mac.Write(body)
	expected := "sha256=" + hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// FormatPhoneNumber normalizes a Nigerian phone number to international
// 234... form with no punctuation.
func FormatPhoneNumber(phone string) string {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	p := digits.String()

	if strings.HasPrefix(p, "0") {
		return "234" + p[1:]
	}
	if !strings.HasPrefix(p, "234") {
		return "234" + p
	}
	return p
}
