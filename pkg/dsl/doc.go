/*
Package dsl builds chat flows in Go instead of JSON or YAML files.

Nodes keep the order they were added in, so the first node is the default
entry node. Useful for tests and for flows generated at runtime.

Example usage:

	flow := dsl.New()

	flow.Add("start").
		Text("What's your email?").
		Button("email", domain.ButtonGetEmail, "Email",
			dsl.SaveTo("EMAIL"), dsl.Posted(), dsl.To("thanks"))

	flow.Add("thanks").
		Text("Thanks!")

	loader, err := flow.Build()
	// ... pass loader to chatsim.New("", chatsim.WithLoader(loader))
*/
package dsl
