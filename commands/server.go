package commands

import (
	"fmt"
	"strings"
)

// Server selects one of the two CDN deployments.
type Server int

const (
	LiveServer Server = iota
	AdvanceServer
)

func (s Server) String() string {
	if s == AdvanceServer {
		return "advance"
	}
	return "live"
}

func (s Server) Title() string {
	if s == AdvanceServer {
		return "Advance"
	}
	return "Live"
}

// ServerFor maps a conversion command to its server.
func ServerFor(c Command) (Server, bool) {
	switch c {
	case Live:
		return LiveServer, true
	case Advance:
		return AdvanceServer, true
	}
	return LiveServer, false
}

func ParseServer(s string) (Server, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "live":
		return LiveServer, nil
	case "adv", "advance":
		return AdvanceServer, nil
	}
	return LiveServer, fmt.Errorf("unknown server %q, should be live or adv", s)
}
