package commands

import (
	"strings"
)

type Command string

const (
	Start   Command = "/start"
	Help    Command = "/help"
	Live    Command = "/live"
	Advance Command = "/adv"
)

var commands = []Command{Start, Help, Live, Advance}

func (c Command) String() string {
	switch c {
	case Start, Help:
		return "Get help, usage /start"
	case Live:
		return "Convert a live server item, usage /live <id>"
	case Advance:
		return "Convert an advance server item, usage /adv <id>"
	}

	return "Unknown command"
}

// Lookup splits a message into a known command and its arguments. Commands
// addressed to another bot (/live@OtherBot) are not ours.
func Lookup(text string, botUsername string) (Command, []string, bool) {

	words := strings.Fields(text)

	if len(words) == 0 || words[0][0] != byte('/') {
		return "", nil, false
	}

	name, mention, hasMention := strings.Cut(words[0], "@")

	if hasMention && botUsername != "" && !strings.EqualFold(mention, strings.TrimPrefix(botUsername, "@")) {
		return "", nil, false
	}

	for _, c := range commands {
		if strings.EqualFold(name, string(c)) {
			return c, words[1:], true
		}
	}

	return "", nil, false
}
