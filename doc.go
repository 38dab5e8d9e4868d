/*
Package chatsim simulates button-driven chatbot flows.

A flow is a graph of chat nodes. Each node renders sections (text, media,
carousels, one-time passcodes) and offers buttons; pressing a button runs the
action its type selects (capture a value, post to the chat, open a URL,
follow a deep link, download another flow) and then moves the session to the
button's next node.

# Usage

	eng, err := chatsim.New("./flows/support.json")
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	state, err := eng.Start(ctx, "")
	if err != nil {
		log.Fatal(err)
	}

	res, err := eng.Press(ctx, state.SessionID, chatsim.PressRequest{
		Button: "email",
		Value:  "ana@example.com",
	})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(res.Dispatch.Outcome, res.State.CurrentNodeID)

The engine keeps sessions in memory unless WithStore supplies a file or redis
store. Dialogs (address forms, date pickers, notices) are answered by the
PressRequest itself, by the engine-wide Prompter, or dismissed.
*/
package chatsim
