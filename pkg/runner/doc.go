/*
Package runner drives an interactive chat session over a line oriented
terminal or a JSON-lines stream.

Each turn the runner prints the transcript entries added since the previous
turn and the buttons of the current node, reads a command and presses the
chosen button on the engine. Dialogs raised by the button (address forms,
date pickers, notices) go through the configured ports.Prompter, which
defaults to one reading answers from the same handler.

# Commands

	2                  press the second button
	2 ana@example.com  press it with a typed value
	email ana@x.com    address a button by id, name or text
	c1                 press the first carousel card button
	exit | quit        leave the session (it stays stored)

# Usage

	r := runner.New(
		runner.WithEngine(engine),
		runner.WithSessionID("user-1"),
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
	)
	if err := r.Run(ctx); err != nil {
		log.Fatal(err)
	}
*/
package runner
