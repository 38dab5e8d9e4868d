package domain

import "strings"

// SectionType tags the content block of a chat node.
type SectionType string

const (
	SectionText     SectionType = "Text"
	SectionImage    SectionType = "Image"
	SectionGif      SectionType = "Gif"
	SectionVideo    SectionType = "Video"
	SectionAudio    SectionType = "Audio"
	SectionFile     SectionType = "File"
	SectionCarousel SectionType = "Carousel"
	// SectionPrintOTP prints the current one-time passcode into the chat.
	// Buttons on a node carrying this section submit the OTP as their value.
	SectionPrintOTP SectionType = "PrintOTP"
)

// Section is a content block rendered by the bot when a node is entered.
type Section struct {
	ID          string         `json:"_id,omitempty" yaml:"_id,omitempty" mapstructure:"_id"`
	SectionType SectionType    `json:"SectionType" yaml:"SectionType" mapstructure:"SectionType"`
	Text        string         `json:"Text,omitempty" yaml:"Text,omitempty" mapstructure:"Text"`
	Title       string         `json:"Title,omitempty" yaml:"Title,omitempty" mapstructure:"Title"`
	Caption     string         `json:"Caption,omitempty" yaml:"Caption,omitempty" mapstructure:"Caption"`
	URL         string         `json:"Url,omitempty" yaml:"Url,omitempty" mapstructure:"Url"`
	Items       []CarouselItem `json:"Items,omitempty" yaml:"Items,omitempty" mapstructure:"Items"`
}

// CarouselItem is a single card of a carousel section.
type CarouselItem struct {
	ID       string           `json:"_id,omitempty" yaml:"_id,omitempty" mapstructure:"_id"`
	Title    string           `json:"Title,omitempty" yaml:"Title,omitempty" mapstructure:"Title"`
	Caption  string           `json:"Caption,omitempty" yaml:"Caption,omitempty" mapstructure:"Caption"`
	ImageURL string           `json:"ImageUrl,omitempty" yaml:"ImageUrl,omitempty" mapstructure:"ImageUrl"`
	Buttons  []CarouselButton `json:"Buttons,omitempty" yaml:"Buttons,omitempty" mapstructure:"Buttons"`
}

// ChatNode is a node of the conversation graph.
type ChatNode struct {
	ID       string    `json:"Id" yaml:"Id" mapstructure:"Id"`
	Name     string    `json:"Name,omitempty" yaml:"Name,omitempty" mapstructure:"Name"`
	Sections []Section `json:"Sections,omitempty" yaml:"Sections,omitempty" mapstructure:"Sections"`
	Buttons  []Button  `json:"Buttons,omitempty" yaml:"Buttons,omitempty" mapstructure:"Buttons"`

	// NextNodeID is followed automatically when the node has no buttons.
	NextNodeID string `json:"NextNodeId,omitempty" yaml:"NextNodeId,omitempty" mapstructure:"NextNodeId"`
}

// HasSection reports whether the node carries a section of the given type.
func (n *ChatNode) HasSection(t SectionType) bool {
	if n == nil {
		return false
	}
	for _, s := range n.Sections {
		if s.SectionType == t {
			return true
		}
	}
	return false
}

// FindButton looks a button up by id, falling back to a case-insensitive
// match on its name or text.
func (n *ChatNode) FindButton(ref string) (*Button, bool) {
	if n == nil || ref == "" {
		return nil, false
	}
	for i := range n.Buttons {
		if n.Buttons[i].ID == ref {
			return &n.Buttons[i], true
		}
	}
	for i := range n.Buttons {
		b := &n.Buttons[i]
		if strings.EqualFold(b.ButtonName, ref) || strings.EqualFold(b.ButtonText, ref) {
			return b, true
		}
	}
	return nil, false
}

// FindCarouselButton looks a card button up by id or text across all carousel sections.
func (n *ChatNode) FindCarouselButton(ref string) (*CarouselButton, bool) {
	if n == nil || ref == "" {
		return nil, false
	}
	var byText *CarouselButton
	for si := range n.Sections {
		for ii := range n.Sections[si].Items {
			item := &n.Sections[si].Items[ii]
			for bi := range item.Buttons {
				b := &item.Buttons[bi]
				if b.ID == ref {
					return b, true
				}
				if byText == nil && strings.EqualFold(b.Text, ref) {
					byText = b
				}
			}
		}
	}
	return byText, byText != nil
}

// CarouselButtons returns all card buttons of the node in document order.
func (n *ChatNode) CarouselButtons() []CarouselButton {
	if n == nil {
		return nil
	}
	var out []CarouselButton
	for _, s := range n.Sections {
		for _, item := range s.Items {
			out = append(out, item.Buttons...)
		}
	}
	return out
}

// Targets lists every node id this node can lead to.
func (n *ChatNode) Targets() []string {
	var out []string
	if n.NextNodeID != "" {
		out = append(out, n.NextNodeID)
	}
	for _, b := range n.Buttons {
		if b.NextNodeID != "" {
			out = append(out, b.NextNodeID)
		}
	}
	for _, b := range n.CarouselButtons() {
		if b.NextNodeID != "" {
			out = append(out, b.NextNodeID)
		}
	}
	return out
}
