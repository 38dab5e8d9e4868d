package runner

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/chatsim/pkg/domain"
)

var (
	// ErrEmptyCommand is returned for a blank line.
	ErrEmptyCommand = errors.New("empty command")
	// ErrUnknownChoice is returned when the line names no button of the node.
	ErrUnknownChoice = errors.New("unknown choice")
)

// Command is a parsed line of user input.
type Command struct {
	Exit bool
	// Card selects a carousel card button instead of a node button.
	Card   bool
	Button string
	Value  string
}

// ParseCommand interprets line against the buttons of node. Buttons are
// numbered from 1 in the order they are shown, cards as c1, c2 and so on.
// A button can also be named by id, name or text; the rest of the line is
// the typed value.
func ParseCommand(line string, node *domain.ChatNode) (Command, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Command{}, ErrEmptyCommand
	}
	switch strings.ToLower(line) {
	case "exit", "quit":
		return Command{Exit: true}, nil
	}

	if b, ok := node.FindButton(line); ok {
		return Command{Button: buttonRef(b)}, nil
	}

	head, value, _ := strings.Cut(line, " ")
	value = strings.TrimSpace(value)

	if idx, ok := cardIndex(head); ok {
		cards := node.CarouselButtons()
		if idx < 1 || idx > len(cards) {
			return Command{}, fmt.Errorf("%w: card %d of %d", ErrUnknownChoice, idx, len(cards))
		}
		c := cards[idx-1]
		ref := c.ID
		if ref == "" {
			ref = c.Text
		}
		return Command{Card: true, Button: ref}, nil
	}

	if idx, err := strconv.Atoi(head); err == nil {
		buttons := visibleButtons(node)
		if idx < 1 || idx > len(buttons) {
			return Command{}, fmt.Errorf("%w: %d of %d", ErrUnknownChoice, idx, len(buttons))
		}
		return Command{Button: buttonRef(&buttons[idx-1]), Value: value}, nil
	}

	if b, ok := node.FindButton(head); ok {
		return Command{Button: buttonRef(b), Value: value}, nil
	}
	if c, ok := node.FindCarouselButton(line); ok {
		ref := c.ID
		if ref == "" {
			ref = c.Text
		}
		return Command{Card: true, Button: ref}, nil
	}
	return Command{}, fmt.Errorf("%w: %q", ErrUnknownChoice, head)
}

func buttonRef(b *domain.Button) string {
	if b.ID != "" {
		return b.ID
	}
	return b.Label()
}

func cardIndex(token string) (int, bool) {
	if len(token) < 2 || (token[0] != 'c' && token[0] != 'C') {
		return 0, false
	}
	n, err := strconv.Atoi(token[1:])
	if err != nil {
		return 0, false
	}
	return n, true
}
