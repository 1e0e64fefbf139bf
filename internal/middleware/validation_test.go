package middleware

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateMessageText(t *testing.T) {
	assert.NoError(t, ValidateMessageText("See you Tuesday at 10am"))
	assert.NoError(t, ValidateMessageText("💰 emoji is fine"))

	assert.Error(t, ValidateMessageText(""))
	assert.Error(t, ValidateMessageText(strings.Repeat("x", 100001)))
	assert.Error(t, ValidateMessageText("bad utf8: \xff\xfe"))
}

func TestValidateConversationID(t *testing.T) {
	assert.NoError(t, ValidateConversationID("c1"))
	assert.NoError(t, ValidateConversationID("0190d3f2-8a5c-7c1e-b8c3-000000000000"))

	assert.Error(t, ValidateConversationID(""))
	assert.Error(t, ValidateConversationID(strings.Repeat("a", 65)))
}

func TestValidateCustomerName(t *testing.T) {
	assert.NoError(t, ValidateCustomerName("Alice Smith"))

	assert.Error(t, ValidateCustomerName(""))
	assert.Error(t, ValidateCustomerName(strings.Repeat("n", 257)))
}
