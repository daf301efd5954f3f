package embed

// Colors used by the relay payloads.
const (
	ColorRelay   = 0x9B95C9
	ColorOnline  = 0x00FF00
	ColorOffline = 0xFF0000
	ColorInfo    = 0x3498DB
)

// Embed is a platform-neutral rich message payload. The gateway adapter
// translates it into the platform's own representation.
type Embed struct {
	Title       string
	Description string
	Color       int
	Author      *Author
	Footer      *Footer
	ImageURL    string
	Fields      []Field
}

// Author is the header line of an embed.
type Author struct {
	Name    string
	IconURL string
}

// Footer is the trailing line of an embed.
type Footer struct {
	Text    string
	IconURL string
}

// Field is a named value rendered in the embed body.
type Field struct {
	Name   string
	Value  string
	Inline bool
}

// AddField appends a field and returns the embed for chaining.
func (e *Embed) AddField(name, value string, inline bool) *Embed {
	e.Fields = append(e.Fields, Field{Name: name, Value: value, Inline: inline})
	return e
}
