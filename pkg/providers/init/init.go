// Package init registers the completion adaptors.
// Import it for side effects wherever a Client is built from configuration.
package init

import (
	_ "researchbot/pkg/providers/adaptor/gemini"
	_ "researchbot/pkg/providers/adaptor/openai"
)
