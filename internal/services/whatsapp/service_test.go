package whatsapp

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatPhoneNumber(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"08012345678", "2348012345678"},
		{"+2348012345678", "2348012345678"},
		{"2348012345678", "2348012345678"},
		{"0801 234 5678", "2348012345678"},
		{"8012345678", "2348012345678"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatPhoneNumber(tt.in), "input %q", tt.in)
	}
}

func TestSendText(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &gotBody))
		w.Write([]byte(`{"messages":[{"id":"wamid.X"}]}`))
	}))
	defer srv.Close()

	svc := NewService(Config{
		BaseURL:       srv.URL,
		APIVersion:    "v22.0",
		AccessToken:   "token-123",
		PhoneNumberID: "555000",
	}, srv.Client())

	err := svc.SendText(context.Background(), "08012345678", "hello there")
	require.NoError(t, err)

	assert.Equal(t, "/v22.0/555000/messages", gotPath)
	assert.Equal(t, "Bearer token-123", gotAuth)
	assert.Equal(t, "whatsapp", gotBody["messaging_product"])
	assert.Equal(t, "2348012345678", gotBody["to"])

	text, ok := gotBody["text"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "hello there", text["body"])
}

func TestSendTextErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"invalid token"}}`))
	}))
	defer srv.Close()

	svc := NewService(Config{BaseURL: srv.URL, PhoneNumberID: "555000"}, srv.Client())
	err := svc.SendText(context.Background(), "08012345678", "hello")
	assert.Error(t, err)
}

func TestMarkMessageAsRead(t *testing.T) {
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &gotBody))
		w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	svc := NewService(Config{BaseURL: srv.URL, PhoneNumberID: "555000"}, srv.Client())
	require.NoError(t, svc.MarkMessageAsRead(context.Background(), "wamid.ABC"))

	assert.Equal(t, "read", gotBody["status"])
	assert.Equal(t, "wamid.ABC", gotBody["message_id"])
}

func TestVerifyWebhookToken(t *testing.T) {
	svc := NewService(Config{WebhookVerifyTkn: "verify-me"}, nil)
	assert.True(t, svc.VerifyWebhookToken("verify-me"))
	assert.False(t, svc.VerifyWebhookToken("wrong"))
	assert.False(t, svc.VerifyWebhookToken(""))

	unconfigured := NewService(Config{}, nil)
	assert.False(t, unconfigured.VerifyWebhookToken(""))
}

func TestValidateSignature(t *testing.T) {
	secret := "app-secret"
	body := []byte(`{"entry":[]}`)

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	valid := "sha256=" + hex.EncodeToString(mac.Sum(nil))

	svc := NewService(Config{AppSecret: secret}, nil)
	assert.True(t, svc.ValidateSignature(body, valid))
	assert.False(t, svc.ValidateSignature(body, "sha256=deadbeef"))
	assert.False(t, svc.ValidateSignature([]byte("tampered"), valid))

	// With no app secret configured, validation is skipped.
	open := NewService(Config{}, nil)
	assert.True(t, open.ValidateSignature(body, ""))
}
