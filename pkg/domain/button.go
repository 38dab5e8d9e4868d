package domain

import "strings"

// ButtonType selects the action performed when a chat button is activated.
type ButtonType string

const (
	ButtonPostText          ButtonType = "PostText"
	ButtonOpenURL           ButtonType = "OpenUrl"
	ButtonGetText           ButtonType = "GetText"
	ButtonGetEmail          ButtonType = "GetEmail"
	ButtonGetNumber         ButtonType = "GetNumber"
	ButtonGetPhoneNumber    ButtonType = "GetPhoneNumber"
	ButtonGetItemFromSource ButtonType = "GetItemFromSource"
	ButtonGetAddress        ButtonType = "GetAddress"
	ButtonGetImage          ButtonType = "GetImage"
	ButtonGetFile           ButtonType = "GetFile"
	ButtonGetAudio          ButtonType = "GetAudio"
	ButtonGetVideo          ButtonType = "GetVideo"
	ButtonNextNode          ButtonType = "NextNode"
	ButtonDeepLink          ButtonType = "DeepLink"
	ButtonGetAgent          ButtonType = "GetAgent"
	ButtonFetchChatFlow     ButtonType = "FetchChatFlow"
	ButtonGetDate           ButtonType = "GetDate"
	ButtonGetDateTime       ButtonType = "GetDateTime"
	ButtonGetTime           ButtonType = "GetTime"
	ButtonGetLocation       ButtonType = "GetLocation"
)

// RequiresInput reports whether the button expects a typed value from the user.
func (t ButtonType) RequiresInput() bool {
	switch t {
	case ButtonGetText, ButtonGetEmail, ButtonGetNumber, ButtonGetPhoneNumber, ButtonGetItemFromSource:
		return true
	}
	return false
}

// MediaKind classifies media posted to the transcript.
type MediaKind string

const (
	MediaImage MediaKind = "Image"
	MediaFile  MediaKind = "File"
	MediaAudio MediaKind = "Audio"
	MediaVideo MediaKind = "Video"
)

// MediaKindOf maps a media-capturing button type to the media it produces.
func MediaKindOf(t ButtonType) (MediaKind, bool) {
	switch t {
	case ButtonGetImage:
		return MediaImage, true
	case ButtonGetFile:
		return MediaFile, true
	case ButtonGetAudio:
		return MediaAudio, true
	case ButtonGetVideo:
		return MediaVideo, true
	}
	return "", false
}

// Item is a key/value choice offered by a GetItemFromSource button.
// The user picks by Value; the Key is what gets stored.
type Item struct {
	Key   string `json:"Key" yaml:"Key" mapstructure:"Key"`
	Value string `json:"Value" yaml:"Value" mapstructure:"Value"`
}

// Button is an interactive chat button owned by a node.
type Button struct {
	ID         string     `json:"_id,omitempty" yaml:"_id,omitempty" mapstructure:"_id"`
	NodeID     string     `json:"NodeId,omitempty" yaml:"NodeId,omitempty" mapstructure:"NodeId"`
	ButtonName string     `json:"ButtonName,omitempty" yaml:"ButtonName,omitempty" mapstructure:"ButtonName"`
	ButtonText string     `json:"ButtonText,omitempty" yaml:"ButtonText,omitempty" mapstructure:"ButtonText"`
	ButtonType ButtonType `json:"ButtonType" yaml:"ButtonType" mapstructure:"ButtonType"`
	NextNodeID string     `json:"NextNodeId,omitempty" yaml:"NextNodeId,omitempty" mapstructure:"NextNodeId"`

	VariableName  string `json:"VariableName,omitempty" yaml:"VariableName,omitempty" mapstructure:"VariableName"`
	VariableValue string `json:"VariableValue,omitempty" yaml:"VariableValue,omitempty" mapstructure:"VariableValue"`
	PrefixText    string `json:"PrefixText,omitempty" yaml:"PrefixText,omitempty" mapstructure:"PrefixText"`
	PostfixText   string `json:"PostfixText,omitempty" yaml:"PostfixText,omitempty" mapstructure:"PostfixText"`

	Hidden     bool `json:"Hidden,omitempty" yaml:"Hidden,omitempty" mapstructure:"Hidden"`
	PostToChat bool `json:"PostToChat,omitempty" yaml:"PostToChat,omitempty" mapstructure:"PostToChat"`

	// Length bounds for GetText. A zero MaxLength leaves the upper bound open.
	MinLength int `json:"MinLength,omitempty" yaml:"MinLength,omitempty" mapstructure:"MinLength"`
	MaxLength int `json:"MaxLength,omitempty" yaml:"MaxLength,omitempty" mapstructure:"MaxLength"`

	URL         string `json:"Url,omitempty" yaml:"Url,omitempty" mapstructure:"Url"`
	DeepLinkURL string `json:"DeepLinkUrl,omitempty" yaml:"DeepLinkUrl,omitempty" mapstructure:"DeepLinkUrl"`
	Items       []Item `json:"Items,omitempty" yaml:"Items,omitempty" mapstructure:"Items"`

	PlaceholderText string `json:"PlaceholderText,omitempty" yaml:"PlaceholderText,omitempty" mapstructure:"PlaceholderText"`
}

// ShouldPost reports whether activity on this button is echoed into the transcript.
func (b *Button) ShouldPost() bool {
	return !b.Hidden && b.PostToChat
}

// Label returns the text shown for the button.
func (b *Button) Label() string {
	if strings.TrimSpace(b.ButtonText) != "" {
		return b.ButtonText
	}
	return b.ButtonName
}

// CardButtonType selects the action of a carousel card button.
type CardButtonType string

const (
	CardNextNode CardButtonType = "NextNode"
	CardDeepLink CardButtonType = "DeepLink"
	CardOpenURL  CardButtonType = "OpenUrl"
)

// CarouselButton is a button attached to a carousel card.
type CarouselButton struct {
	ID            string         `json:"_id,omitempty" yaml:"_id,omitempty" mapstructure:"_id"`
	NodeID        string         `json:"NodeId,omitempty" yaml:"NodeId,omitempty" mapstructure:"NodeId"`
	Text          string         `json:"Text,omitempty" yaml:"Text,omitempty" mapstructure:"Text"`
	Type          CardButtonType `json:"Type" yaml:"Type" mapstructure:"Type"`
	URL           string         `json:"Url,omitempty" yaml:"Url,omitempty" mapstructure:"Url"`
	VariableName  string         `json:"VariableName,omitempty" yaml:"VariableName,omitempty" mapstructure:"VariableName"`
	VariableValue string         `json:"VariableValue,omitempty" yaml:"VariableValue,omitempty" mapstructure:"VariableValue"`
	NextNodeID    string         `json:"NextNodeId,omitempty" yaml:"NextNodeId,omitempty" mapstructure:"NextNodeId"`
}
