/*
Package domain contains the core model of the chat-flow simulator.

It defines the conversation graph (ChatNode, Section, Button, CarouselButton), the
per-session runtime snapshot (State, TranscriptEntry) and the sentinel errors shared
across adapters. The package performs no I/O.

# Key Entities

  - ChatNode: a point in the conversation, with content sections and buttons.
  - Button: an interactive element whose ButtonType selects the dispatched action.
  - State: current node, captured variables, transcript and visit history of a session.
*/
package domain
