package dsl

import "github.com/aretw0/chatsim/pkg/domain"

// NodeBuilder provides a fluent API for configuring a node.
type NodeBuilder struct {
	node domain.ChatNode
}

// Name sets the display name of the node.
func (n *NodeBuilder) Name(name string) *NodeBuilder {
	n.node.Name = name
	return n
}

// Text appends a text section.
func (n *NodeBuilder) Text(content string) *NodeBuilder {
	return n.section(domain.Section{SectionType: domain.SectionText, Text: content})
}

// Media appends an image, gif, video, audio or file section.
func (n *NodeBuilder) Media(kind domain.SectionType, url, caption string) *NodeBuilder {
	return n.section(domain.Section{SectionType: kind, URL: url, Caption: caption})
}

// OTP appends a section printing the one-time passcode.
func (n *NodeBuilder) OTP() *NodeBuilder {
	return n.section(domain.Section{SectionType: domain.SectionPrintOTP})
}

// Card adds a carousel card. Consecutive cards share one carousel section.
func (n *NodeBuilder) Card(title, imageURL string, buttons ...domain.CarouselButton) *NodeBuilder {
	item := domain.CarouselItem{Title: title, ImageURL: imageURL, Buttons: buttons}
	if last := len(n.node.Sections) - 1; last >= 0 && n.node.Sections[last].SectionType == domain.SectionCarousel {
		n.node.Sections[last].Items = append(n.node.Sections[last].Items, item)
		return n
	}
	return n.section(domain.Section{SectionType: domain.SectionCarousel, Items: []domain.CarouselItem{item}})
}

// Button adds a button. label becomes the button name.
func (n *NodeBuilder) Button(id string, kind domain.ButtonType, label string, opts ...ButtonOption) *NodeBuilder {
	b := domain.Button{ID: id, NodeID: n.node.ID, ButtonType: kind, ButtonName: label}
	for _, opt := range opts {
		opt(&b)
	}
	n.node.Buttons = append(n.node.Buttons, b)
	return n
}

// Go makes the node continue to target on its own once rendered.
func (n *NodeBuilder) Go(target string) *NodeBuilder {
	n.node.NextNodeID = target
	return n
}

// Terminal removes every way forward from the node.
func (n *NodeBuilder) Terminal() *NodeBuilder {
	n.node.NextNodeID = ""
	n.node.Buttons = nil
	return n
}

// Build returns the underlying domain.ChatNode.
func (n *NodeBuilder) Build() domain.ChatNode {
	return n.node
}

func (n *NodeBuilder) section(s domain.Section) *NodeBuilder {
	n.node.Sections = append(n.node.Sections, s)
	return n
}

// ButtonOption configures a button added with NodeBuilder.Button.
type ButtonOption func(*domain.Button)

// To sets the node the button leads to.
func To(target string) ButtonOption {
	return func(b *domain.Button) { b.NextNodeID = target }
}

// SaveTo names the variable the button stores its value in.
func SaveTo(variable string) ButtonOption {
	return func(b *domain.Button) { b.VariableName = variable }
}

// Value sets the fixed value stored by buttons that take no input.
func Value(v string) ButtonOption {
	return func(b *domain.Button) { b.VariableValue = v }
}

// Posted echoes the button's activity into the transcript.
func Posted() ButtonOption {
	return func(b *domain.Button) { b.PostToChat = true }
}

// Hidden hides the button from the user.
func Hidden() ButtonOption {
	return func(b *domain.Button) { b.Hidden = true }
}

// Text sets the button text shown instead of its name.
func Text(text string) ButtonOption {
	return func(b *domain.Button) { b.ButtonText = text }
}

// URL sets the target of OpenUrl and FetchChatFlow buttons.
func URL(url string) ButtonOption {
	return func(b *domain.Button) { b.URL = url }
}

// DeepLink sets the target of DeepLink buttons.
func DeepLink(url string) ButtonOption {
	return func(b *domain.Button) { b.DeepLinkURL = url }
}

// Items sets the choices of a GetItemFromSource button.
func Items(items ...domain.Item) ButtonOption {
	return func(b *domain.Button) { b.Items = items }
}

// Length bounds a GetText value. A zero max leaves it open.
func Length(min, max int) ButtonOption {
	return func(b *domain.Button) {
		b.MinLength = min
		b.MaxLength = max
	}
}

// Affixes wraps the posted value in prefix and postfix text.
func Affixes(prefix, postfix string) ButtonOption {
	return func(b *domain.Button) {
		b.PrefixText = prefix
		b.PostfixText = postfix
	}
}
