package dsl

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/chatsim"
	"github.com/aretw0/chatsim/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_SimpleFlow(t *testing.T) {
	b := New()

	b.Add("start").
		Text("Hello, DSL!").
		Button("name", domain.ButtonGetText, "Name", SaveTo("NAME"), Posted(), Length(2, 10), To("greet"))

	b.Add("greet").
		Text("Nice to meet you").
		Go("end")

	b.Add("end").
		Text("Goodbye!")

	loader, err := b.Build()
	require.NoError(t, err)

	ids, err := loader.ListNodes()
	require.NoError(t, err)
	assert.Equal(t, []string{"start", "greet", "end"}, ids)

	raw, err := loader.GetNode("start")
	require.NoError(t, err)
	var start domain.ChatNode
	require.NoError(t, json.Unmarshal(raw, &start))

	require.Len(t, start.Sections, 1)
	assert.Equal(t, "Hello, DSL!", start.Sections[0].Text)
	require.Len(t, start.Buttons, 1)
	btn := start.Buttons[0]
	assert.Equal(t, "start", btn.NodeID)
	assert.Equal(t, "NAME", btn.VariableName)
	assert.True(t, btn.PostToChat)
	assert.Equal(t, 2, btn.MinLength)
	assert.Equal(t, 10, btn.MaxLength)
	assert.Equal(t, "greet", btn.NextNodeID)

	greet := b.Add("greet").Build()
	assert.Equal(t, "end", greet.NextNodeID)
}

func TestBuilder_AddIsIdempotent(t *testing.T) {
	b := New()
	b.Add("a").Text("one")
	b.Add("a").Text("two")

	nodes := b.Nodes()
	require.Len(t, nodes, 1)
	assert.Len(t, nodes[0].Sections, 2)
}

func TestBuilder_CardsShareCarousel(t *testing.T) {
	node := New().Add("menu").
		Text("Pick one").
		Card("A", "https://img.example/a.png", domain.CarouselButton{ID: "a", Text: "Choose A", Type: domain.CardNextNode}).
		Card("B", "", domain.CarouselButton{ID: "b", Text: "Choose B", Type: domain.CardNextNode}).
		Build()

	require.Len(t, node.Sections, 2)
	assert.Equal(t, domain.SectionCarousel, node.Sections[1].SectionType)
	assert.Len(t, node.Sections[1].Items, 2)
	assert.Len(t, node.CarouselButtons(), 2)
}

func TestBuilder_Terminal(t *testing.T) {
	node := New().Add("x").
		Button("b", domain.ButtonNextNode, "B", To("y")).
		Go("y").
		Terminal().
		Build()

	assert.Empty(t, node.Buttons)
	assert.Empty(t, node.Targets())
}

func TestBuilder_MissingID(t *testing.T) {
	b := New()
	b.Add("")
	_, err := b.Build()
	assert.Error(t, err)
}

func TestBuilder_RunsOnEngine(t *testing.T) {
	b := New()
	b.Add("start").
		Text("Pick a plan").
		Button("plan", domain.ButtonGetItemFromSource, "Plan",
			Items(domain.Item{Key: "p1", Value: "Basic"}, domain.Item{Key: "p2", Value: "Pro"}),
			SaveTo("PLAN"), To("bye"))
	b.Add("bye").Text("Bye")

	loader, err := b.Build()
	require.NoError(t, err)
	eng, err := chatsim.New("", chatsim.WithLoader(loader))
	require.NoError(t, err)

	ctx := context.Background()
	_, err = eng.Start(ctx, "s1")
	require.NoError(t, err)
	res, err := eng.Press(ctx, "s1", chatsim.PressRequest{Button: "plan", Value: "Pro"})
	require.NoError(t, err)
	assert.Equal(t, "p2", res.State.Variables["PLAN"])
	assert.True(t, res.State.Terminated())
}
