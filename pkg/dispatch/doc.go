/*
Package dispatch implements the button action command of the chat simulator.

A Command receives a chat button (or a carousel card button) and performs the
side effects selected by its type tag: validating and saving captured values,
posting to the transcript, opening URLs and deep links, fetching remote flows,
and finally navigating to the button's next node.

Each button type maps to an Action in a registry. Actions either let the command
continue to navigation or abort it, for example when validation fails or a dialog
is cancelled. Errors returned by collaborators are wrapped and surfaced to the
caller; user mistakes are reported through the Prompter instead.
*/
package dispatch
