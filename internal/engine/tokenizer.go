package engine

import "strings"

// messageOverhead approximates the role and separator tokens a provider adds
// around each message.
const messageOverhead = 4

// EstimateTokens approximates the token count of text at about four characters
// per token, with a small allowance for whitespace. It is for logging only.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	whitespace := strings.Count(text, " ") + strings.Count(text, "\n") + strings.Count(text, "\t")
	n := len([]rune(text))/4 + whitespace/6
	if n < 1 {
		return 1
	}
	return n
}

// EstimateMessageTokens sums EstimateTokens over a conversation, including the
// per-message overhead.
func EstimateMessageTokens(messages []ChatMessage) int {
	total := 0
	for _, m := range messages {
		total += EstimateTokens(string(m.Role)) + EstimateTokens(m.Content) + messageOverhead
	}
	return total
}
