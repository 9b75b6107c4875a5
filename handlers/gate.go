package handlers

import (
	"github.com/go-telegram/bot/models"
)

// Gate decides which conversations may use the bot. An empty gate admits everyone.
type Gate struct {
	ids map[int64]struct{}
}

func NewGate(ids []int64) *Gate {

	g := &Gate{ids: make(map[int64]struct{}, len(ids))}

	for _, id := range ids {
		g.ids[id] = struct{}{}
	}

	return g
}

func (g *Gate) Open() bool {
	return g == nil || len(g.ids) == 0
}

// Allows reports whether the message's chat or its sender is on the list.
func (g *Gate) Allows(message *models.Message) bool {

	if g.Open() {
		return true
	}

	if _, ok := g.ids[message.Chat.ID]; ok {
		return true
	}

	if message.From != nil {
		if _, ok := g.ids[message.From.ID]; ok {
			return true
		}
	}

	return false
}
