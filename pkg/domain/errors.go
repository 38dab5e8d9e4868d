package domain

import "errors"

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrNodeNotFound is returned when a node id does not resolve in the loaded flow.
var ErrNodeNotFound = errors.New("node not found")

// ErrButtonNotFound is returned when a press names a button the current node does not own.
var ErrButtonNotFound = errors.New("button not found")

// ErrDialogDismissed is returned by prompters that cannot report dismissal any other way.
var ErrDialogDismissed = errors.New("dialog dismissed")

// ErrSessionTerminated is returned when pressing buttons on a finished session.
var ErrSessionTerminated = errors.New("session terminated")

// ErrEmptyFlow is returned when a downloaded chat flow holds no nodes.
var ErrEmptyFlow = errors.New("remote flow has no nodes")
