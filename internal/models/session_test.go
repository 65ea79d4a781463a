package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSessionContextRoundTrip(t *testing.T) {
	sess := &ConversationSession{}

	sess.SetContext("purchase.amount", 500.0)
	sess.SetContext("purchase.network", "mtn")

	assert.Equal(t, 500.0, sess.GetContext("purchase.amount", nil))
	assert.Equal(t, "mtn", sess.GetContextString("purchase.network"))
	assert.Equal(t, "none", sess.GetContext("purchase.missing", "none"))

	sess.ClearContext()
	assert.Equal(t, "none", sess.GetContext("purchase.amount", "none"))
	assert.Equal(t, "none", sess.GetContext("purchase.network", "none"))
}

func TestSessionTouch(t *testing.T) {
	sess := &ConversationSession{}
	now := time.Now()

	sess.Touch(now)

	assert.Equal(t, now, sess.LastActivityAt)
	assert.Equal(t, now.Add(SessionTimeout), sess.ExpiresAt)
	assert.False(t, sess.IsExpired())

	sess.Touch(now.Add(-time.Hour))
	assert.True(t, sess.IsExpired())
}
