package dispatch

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/chatsim/pkg/domain"
)

func postText(ctx context.Context, inv *Invocation) (Step, error) {
	return Continue, inv.PostIfVisible(ctx, inv.Button.ButtonText)
}

func openURL(ctx context.Context, inv *Invocation) (Step, error) {
	return Continue, inv.openURL(ctx, inv.Button.URL)
}

func nextNode(ctx context.Context, inv *Invocation) (Step, error) {
	if err := inv.PostIfVisible(ctx, inv.Button.ButtonText); err != nil {
		return Abort, err
	}
	if err := saveNamed(ctx, inv); err != nil {
		return Abort, err
	}
	return Continue, nil
}

func deepLink(ctx context.Context, inv *Invocation) (Step, error) {
	if err := inv.deepLink(ctx, inv.Button.DeepLinkURL); err != nil {
		return Abort, err
	}
	return Continue, inv.PostIfVisible(ctx, inv.Button.ButtonText)
}

func getAgent(ctx context.Context, inv *Invocation) (Step, error) {
	if err := inv.Notify(ctx, msgAgentUnsupported); err != nil {
		return Abort, err
	}
	return Continue, inv.PostIfVisible(ctx, inv.Button.ButtonText)
}

// fetchChatFlow leaves navigation to the fetcher, which enters the new flow.
func fetchChatFlow(ctx context.Context, inv *Invocation) (Step, error) {
	if err := inv.PostIfVisible(ctx, inv.Button.ButtonText); err != nil {
		return Abort, err
	}
	if err := saveNamed(ctx, inv); err != nil {
		return Abort, err
	}
	if inv.deps.Flows == nil {
		return Abort, errMissing("flow fetcher")
	}
	if err := inv.deps.Flows.FetchChatFlow(ctx, inv.Button.URL); err != nil {
		return Abort, fmt.Errorf("failed to fetch chat flow: %w", err)
	}
	return Handled, nil
}

// saveNamed stores the button value when the button names a variable.
func saveNamed(ctx context.Context, inv *Invocation) error {
	if strings.TrimSpace(inv.Button.VariableName) == "" {
		return nil
	}
	return inv.Save(ctx, inv.Button.VariableName, inv.Button.VariableValue)
}

func getMedia(ctx context.Context, inv *Invocation) (Step, error) {
	b := &inv.Button
	kind, ok := domain.MediaKindOf(b.ButtonType)
	if !ok {
		return Abort, fmt.Errorf("%s is not a media button", b.ButtonType)
	}
	if inv.deps.Platform == nil {
		return Abort, errMissing("platform")
	}

	url, err := inv.deps.Platform.PickMedia(ctx, b.VariableName, kind)
	if err != nil {
		return Abort, fmt.Errorf("failed to pick %s: %w", strings.ToLower(string(kind)), err)
	}
	if strings.TrimSpace(url) == "" {
		return Abort, nil
	}

	if err := inv.Save(ctx, b.VariableName, url); err != nil {
		return Abort, err
	}
	if err := inv.PostMedia(ctx, url, kind, ""); err != nil {
		return Abort, err
	}
	return Continue, nil
}
