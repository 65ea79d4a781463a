package handlers

import (
	"encoding/json"
	"log"

	"forbill/internal/services/conversation"
	"forbill/internal/services/whatsapp"
	"forbill/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// WebhookHandler receives WhatsApp Cloud API callbacks: the subscription
// handshake and inbound message notifications.
type WebhookHandler struct {
	whatsApp     *whatsapp.Service
	conversation conversation.Service
}

func NewWebhookHandler(whatsAppSvc *whatsapp.Service, conversationSvc conversation.Service) *WebhookHandler {
	return &WebhookHandler{
		whatsApp:     whatsAppSvc,
		conversation: conversationSvc,
	}
}

// Verify answers the GET subscription handshake by echoing hub.challenge
// when the verify token matches.
func (h *WebhookHandler) Verify(c *fiber.Ctx) error {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "subscribe" && h.whatsApp.VerifyWebhookToken(token) {
		log.Println("whatsapp webhook verified")
		return c.Status(fiber.StatusOK).SendString(challenge)
	}

	log.Println("whatsapp webhook verification failed")
	return utils.Forbidden(c, "verification failed")
}

type webhookPayload struct {
	Entry []struct {
		Changes []struct {
			Field string       `json:"field"`
			Value webhookValue `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

type webhookValue struct {
	Messages []struct {
		From string `json:"from"`
		ID   string `json:"id"`
		Type string `json:"type"`
		Text struct {
			Body string `json:"body"`
		} `json:"text"`
	} `json:"messages"`
}

// Handle processes a POST callback. The raw body is signature-checked
// before any parsing happens.
func (h *WebhookHandler) Handle(c *fiber.Ctx) error {
	body := c.Body()
	signature := c.Get("X-Hub-Signature-256")

	if !h.whatsApp.ValidateSignature(body, signature) {
		log.Println("whatsapp webhook signature validation failed")
		return utils.Unauthorized(c, "invalid signature")
	}

	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		log.Printf("invalid webhook payload: %v", err)
		return utils.BadRequest(c, "invalid payload")
	}

	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			if change.Field != "messages" {
				continue
			}
			for _, msg := range change.Value.Messages {
				if msg.Type != "text" || msg.Text.Body == "" {
					continue
				}
				if err := h.conversation.ProcessMessage(c.Context(), msg.From, msg.ID, msg.Text.Body); err != nil {
					// The webhook still returns 200 so Meta does not
					// retry-storm us; the failure is logged for ops.
					log.Printf("failed to process message %s: %v", msg.ID, err)
				}
			}
		}
	}

	return c.SendStatus(fiber.StatusOK)
}
