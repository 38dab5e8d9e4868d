package ports

import (
	"context"
	"time"

	"github.com/aretw0/chatsim/pkg/domain"
)

// Navigator moves the active session to another node.
type Navigator interface {
	NavigateToNode(ctx context.Context, nodeID string) error
}

// VariableStore persists values captured by buttons.
type VariableStore interface {
	SaveVariable(ctx context.Context, name, value string) error
}

// Transcript appends messages to the chat log as the user.
type Transcript interface {
	PostText(ctx context.Context, text string) error
	PostMedia(ctx context.Context, url string, kind domain.MediaKind, caption string) error
}

// FlowFetcher replaces the running flow with one downloaded from url and
// moves the session onto its first node.
type FlowFetcher interface {
	FetchChatFlow(ctx context.Context, url string) error
}

// URLOpener hands a URL to the platform browser.
type URLOpener interface {
	OpenURL(ctx context.Context, url string) error
}

// DeepLinkResolver handles application-defined deep links.
type DeepLinkResolver interface {
	HandleDeepLink(ctx context.Context, url string) error
}

// LocationProvider reads the device geolocation.
type LocationProvider interface {
	CurrentLocation(ctx context.Context) (domain.Location, error)
}

// MediaPicker lets the user pick a media file for varName and returns the
// URL it was uploaded to. An empty URL means nothing was picked.
type MediaPicker interface {
	PickMedia(ctx context.Context, varName string, kind domain.MediaKind) (string, error)
}

// Platform bundles the device facing capabilities of the simulator.
type Platform interface {
	URLOpener
	DeepLinkResolver
	LocationProvider
	MediaPicker
}

// OTPSource provides the one-time passcode printed by PrintOTP sections.
type OTPSource interface {
	CurrentOTP(ctx context.Context) (string, error)
}

// Prompter shows modal dialogs to the user.
type Prompter interface {
	// Notify shows msg and blocks until the user dismisses it.
	Notify(ctx context.Context, msg string) error

	// PromptAddress shows the address dialog. ok is false when the user dismissed it.
	PromptAddress(ctx context.Context) (addr domain.Address, ok bool, err error)

	// PickDateTime shows a date, time or date-time picker. ok is false on cancel.
	PickDateTime(ctx context.Context, mode domain.PickerMode) (value time.Time, ok bool, err error)
}

// NodeResolver resolves a node of the running flow by id.
// Returns domain.ErrNodeNotFound for unknown ids.
type NodeResolver interface {
	ResolveNode(ctx context.Context, id string) (*domain.ChatNode, error)
}
