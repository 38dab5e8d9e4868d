// Package tui holds the terminal presentation of chatsim: the banner, the
// Markdown renderer for bot messages and the huh based dialog prompter.
package tui
