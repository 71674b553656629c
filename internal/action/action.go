package action

import "net/url"

// Type enumerates the interaction kinds the capture layer records.
type Type string

const (
	TypeClick      Type = "click"
	TypeInput      Type = "input"
	TypeNavigation Type = "navigation"
	TypeCopy       Type = "copy"
	TypeScroll     Type = "scroll"
)

// Target identifies the page element an interaction touched.
type Target struct {
	Selector string `json:"selector"`
	Text     string `json:"text"`
	Role     string `json:"role,omitempty"`
}

// Metadata carries the page context captured alongside an interaction.
type Metadata struct {
	PageTitle      string `json:"pageTitle"`
	H1             string `json:"h1,omitempty"`
	IdleTimeBefore int64  `json:"idleTimeBefore,omitempty"`
}

// Action is one captured user interaction. Actions are immutable once recorded and
// ordered by capture sequence, not by timestamp equality.
type Action struct {
	Type      Type     `json:"type"`
	Timestamp int64    `json:"timestamp"`
	URL       string   `json:"url"`
	Target    Target   `json:"target"`
	Metadata  Metadata `json:"metadata"`
}

// Hostname returns the host of the action's URL and whether it could be parsed.
func Hostname(raw string) (string, bool) {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Hostname() == "" {
		return "", false
	}
	return parsed.Hostname(), true
}
