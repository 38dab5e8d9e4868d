package runner

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/chatsim/pkg/domain"
)

// PressInterceptor runs before a command is sent to the engine.
// It returns false to skip the press.
type PressInterceptor func(ctx context.Context, node *domain.ChatNode, cmd Command) (bool, error)

// MultiInterceptor chains interceptors. The first refusal wins.
func MultiInterceptor(interceptors ...PressInterceptor) PressInterceptor {
	return func(ctx context.Context, node *domain.ChatNode, cmd Command) (bool, error) {
		for _, interceptor := range interceptors {
			allowed, err := interceptor(ctx, node, cmd)
			if err != nil || !allowed {
				return false, err
			}
		}
		return true, nil
	}
}

// ConfirmationMiddleware asks the user before pressing a button that leaves
// the chat: opening a URL, following a deep link or fetching a remote flow.
func ConfirmationMiddleware(handler IOHandler) PressInterceptor {
	return func(ctx context.Context, node *domain.ChatNode, cmd Command) (bool, error) {
		target, ok := externalTarget(node, cmd)
		if !ok {
			return true, nil
		}
		if err := handler.SystemOutput(ctx, fmt.Sprintf("This button opens %s. Continue? [y/N]", target)); err != nil {
			return false, err
		}
		input, err := handler.Input(ctx)
		if err != nil {
			return false, err
		}
		input = strings.TrimSpace(strings.ToLower(input))
		return input == "y" || input == "yes", nil
	}
}

// AutoApproveMiddleware allows everything.
func AutoApproveMiddleware() PressInterceptor {
	return func(ctx context.Context, node *domain.ChatNode, cmd Command) (bool, error) {
		return true, nil
	}
}

func externalTarget(node *domain.ChatNode, cmd Command) (string, bool) {
	if cmd.Card {
		c, ok := node.FindCarouselButton(cmd.Button)
		if !ok {
			return "", false
		}
		switch c.Type {
		case domain.CardOpenURL, domain.CardDeepLink:
			return c.URL, true
		}
		return "", false
	}
	b, ok := node.FindButton(cmd.Button)
	if !ok {
		return "", false
	}
	switch b.ButtonType {
	case domain.ButtonOpenURL, domain.ButtonFetchChatFlow:
		return b.URL, true
	case domain.ButtonDeepLink:
		return b.DeepLinkURL, true
	}
	return "", false
}
