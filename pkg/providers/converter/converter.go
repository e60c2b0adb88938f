// Package converter translates between the unified completion format and
// provider wire formats.
package converter

import (
	"strings"

	"researchbot/pkg/providers"
)

// FormatConverter converts one provider's wire format.
type FormatConverter interface {
	// ToProviderRequest returns the provider request structure, ready to marshal.
	ToProviderRequest(unified *providers.UnifiedRequest) (any, error)

	// FromProviderResponse parses a raw provider response body.
	FromProviderResponse(body []byte) (*providers.UnifiedResponse, error)
}

// BaseConverter holds helpers shared by the converters.
type BaseConverter struct{}

// ExtractSystemMessages separates system messages from the conversation.
func (b *BaseConverter) ExtractSystemMessages(messages []providers.UnifiedMessage) ([]providers.UnifiedMessage, []providers.UnifiedMessage) {
	var system, conversation []providers.UnifiedMessage

	for _, msg := range messages {
		if msg.Role == providers.RoleSystem {
			system = append(system, msg)
		} else {
			conversation = append(conversation, msg)
		}
	}

	return system, conversation
}

// MergeSystemMessages joins system messages with blank lines.
func (b *BaseConverter) MergeSystemMessages(messages []providers.UnifiedMessage) string {
	parts := make([]string, 0, len(messages))
	for _, msg := range messages {
		parts = append(parts, msg.Content)
	}
	return strings.Join(parts, "\n\n")
}
