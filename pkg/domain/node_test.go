package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChatNode_FindButton(t *testing.T) {
	n := &ChatNode{
		ID: "n1",
		Buttons: []Button{
			{ID: "b1", ButtonName: "yes", ButtonText: "Yes please"},
			{ID: "b2", ButtonName: "no"},
		},
	}

	b, ok := n.FindButton("b2")
	assert.True(t, ok)
	assert.Equal(t, "no", b.ButtonName)

	b, ok = n.FindButton("YES PLEASE")
	assert.True(t, ok)
	assert.Equal(t, "b1", b.ID)

	_, ok = n.FindButton("maybe")
	assert.False(t, ok)
}

func TestChatNode_CarouselAndTargets(t *testing.T) {
	n := &ChatNode{
		ID:         "n1",
		NextNodeID: "fallback",
		Sections: []Section{
			{SectionType: SectionText, Text: "pick one"},
			{SectionType: SectionCarousel, Items: []CarouselItem{
				{Title: "A", Buttons: []CarouselButton{{ID: "c1", Text: "Buy", Type: CardNextNode, NextNodeID: "buy"}}},
				{Title: "B", Buttons: []CarouselButton{{ID: "c2", Text: "Docs", Type: CardOpenURL}}},
			}},
		},
		Buttons: []Button{{ID: "b1", NextNodeID: "other"}},
	}

	assert.True(t, n.HasSection(SectionCarousel))
	assert.False(t, n.HasSection(SectionPrintOTP))

	c, ok := n.FindCarouselButton("docs")
	assert.True(t, ok)
	assert.Equal(t, "c2", c.ID)

	assert.Len(t, n.CarouselButtons(), 2)
	assert.Equal(t, []string{"fallback", "other", "buy"}, n.Targets())
}

func TestButton_LabelAndPosting(t *testing.T) {
	b := Button{ButtonName: "name", ButtonText: "  "}
	assert.Equal(t, "name", b.Label())

	b.PostToChat = true
	assert.True(t, b.ShouldPost())
	b.Hidden = true
	assert.False(t, b.ShouldPost())
}
