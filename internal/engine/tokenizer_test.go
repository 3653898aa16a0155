package engine

import (
	"testing"
)

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{name: "empty", text: "", want: 0},
		{name: "short word", text: "okra", want: 1},
		{name: "sentence", text: "plant garlic in october", want: 5},
		{name: "multibyte counted as runes", text: "🌱🌱🌱🌱🌱🌱🌱🌱", want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EstimateTokens(tt.text); got != tt.want {
				t.Errorf("EstimateTokens(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestEstimateMessageTokens(t *testing.T) {
	if got := EstimateMessageTokens(nil); got != 0 {
		t.Fatalf("empty conversation = %d, want 0", got)
	}

	msgs := []ChatMessage{
		{Role: RoleSystem, Content: "You are an expert agricultural advisor."},
		{Role: RoleUser, Content: "What grows in sandy soil?"},
	}
	want := 0
	for _, m := range msgs {
		want += EstimateTokens(string(m.Role)) + EstimateTokens(m.Content) + messageOverhead
	}
	if got := EstimateMessageTokens(msgs); got != want {
		t.Errorf("EstimateMessageTokens = %d, want %d", got, want)
	}
	if want <= 2*messageOverhead {
		t.Errorf("estimate %d should exceed the bare overhead", want)
	}
}
