package chat

import (
	"strings"
	"testing"
)

func TestComposeReply(t *testing.T) {
	got := ComposeReply("Ahmed", "The washing machine leaks", "I can come tomorrow")
	want := "> Reply to Ahmed: \"The washing machine leaks\"\n\nI can come tomorrow"
	if got != want {
		t.Errorf("ComposeReply = %q, want %q", got, want)
	}
}

func TestComposeReplyTruncatesExcerpt(t *testing.T) {
	long := strings.Repeat("a", 80)
	got := ComposeReply("Ahmed", long, "ok")
	wantQuote := "> Reply to Ahmed: \"" + strings.Repeat("a", 50) + "\"\n\n"
	if !strings.HasPrefix(got, wantQuote) {
		t.Errorf("excerpt not truncated to 50 runes: %q", got)
	}
}

func TestComposeReplyRuneSafe(t *testing.T) {
	// 60 multibyte runes must truncate on rune boundaries, not bytes.
	long := strings.Repeat("é", 60)
	got := ComposeReply("Ahmed", long, "ok")
	if strings.Contains(got, "�") {
		t.Errorf("truncation split a rune: %q", got)
	}
	if !strings.Contains(got, strings.Repeat("é", 50)) {
		t.Errorf("expected 50-rune excerpt, got %q", got)
	}
}

func TestComposeReplyStripsNestedQuote(t *testing.T) {
	// Replying to a reply quotes the inner text only.
	first := ComposeReply("Ahmed", "Original message", "Second message")
	second := ComposeReply("Leila", first, "Third message")
	if strings.Count(second, "> Reply to ") != 1 {
		t.Errorf("quote chain deeper than one level: %q", second)
	}
	if !strings.Contains(second, "> Reply to Leila: \"Second message\"") {
		t.Errorf("inner text not quoted: %q", second)
	}
}

func TestStripQuote(t *testing.T) {
	composed := ComposeReply("Ahmed", "Original", "Answer")
	if got := StripQuote(composed); got != "Answer" {
		t.Errorf("StripQuote = %q, want %q", got, "Answer")
	}
	// No quote present: unchanged.
	if got := StripQuote("plain text"); got != "plain text" {
		t.Errorf("StripQuote on plain text = %q", got)
	}
}

func TestHasQuote(t *testing.T) {
	if !HasQuote(ComposeReply("Ahmed", "Original", "Answer")) {
		t.Error("HasQuote false on composed reply")
	}
	if HasQuote("plain text") {
		t.Error("HasQuote true on plain text")
	}
}
