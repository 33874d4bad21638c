package chat

import "regexp"

const quoteExcerptLen = 50

var quotePattern = regexp.MustCompile(`^> Reply to .*?: ".*?"\n\n`)

// ComposeReply prefixes text with a quoted excerpt of the referenced
// message. Quoting the quoted message's own quote is stripped first so
// chains stay one level deep.
func ComposeReply(refSenderName, refText, text string) string {
	quoted := StripQuote(refText)
	if r := []rune(quoted); len(r) > quoteExcerptLen {
		quoted = string(r[:quoteExcerptLen])
	}
	return "> Reply to " + refSenderName + ": \"" + quoted + "\"\n\n" + text
}

// StripQuote removes a reply-quote prefix from a message text, if present.
func StripQuote(text string) string {
	return quotePattern.ReplaceAllString(text, "")
}

// HasQuote reports whether a message text starts with a reply quote.
func HasQuote(text string) bool {
	return quotePattern.MatchString(text)
}
