// Package menu implements the trigger table and dispatch logic that
// maps an inbound message text to a reply action. Matching is exact
// string equality against a fixed set of Japanese menu phrases; the
// only state consulted is whether the user has completed the one-time
// survey registration.
package menu

// Kind identifies the shape of a reply action
type Kind int

const (
	// KindNoMatch means the message matched no trigger; no reply is sent
	KindNoMatch Kind = iota
	// KindPlainText is a single text reply
	KindPlainText
	// KindQuickReply is a text prompt with tappable option labels
	KindQuickReply
	// KindRejected is an explanatory text reply for a failed guard
	KindRejected
)

// String returns the metric label for the action kind
func (k Kind) String() string {
	switch k {
	case KindPlainText:
		return "text"
	case KindQuickReply:
		return "quick_reply"
	case KindRejected:
		return "rejected"
	default:
		return "no_match"
	}
}

// Action is the outcome of dispatching one inbound message.
// Exactly one of the content fields is meaningful for a given Kind:
// Text for PlainText and Rejected, Prompt and Options for QuickReply.
type Action struct {
	Kind    Kind
	Text    string
	Prompt  string
	Options []string
}

// PlainText builds a single-text reply action
func PlainText(text string) Action {
	return Action{Kind: KindPlainText, Text: text}
}

// QuickReply builds a prompt-plus-options reply action
func QuickReply(prompt string, options ...string) Action {
	return Action{Kind: KindQuickReply, Prompt: prompt, Options: options}
}

// Rejected builds a guard-failure reply action
func Rejected(text string) Action {
	return Action{Kind: KindRejected, Text: text}
}

// NoMatch is the action for out-of-vocabulary input
func NoMatch() Action {
	return Action{Kind: KindNoMatch}
}
