package whatsapp

import "time"

const (
	// DefaultBaseURL is the Meta Graph API root.
	DefaultBaseURL = "https://graph.facebook.com"

	// DefaultAPIVersion pins the Graph API version.
	DefaultAPIVersion = "v22.0"

	// DefaultTimeout bounds outbound Graph API calls.
	DefaultTimeout = 30 * time.Second

	messagingProduct = "whatsapp"
)
