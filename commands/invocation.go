package commands

import (
	"fmt"
	"regexp"
	"strings"

	"scristobal/astcbot/failure"

	"golang.org/x/exp/utf8string"
)

const DefaultIDPattern = `^[0-9]{9}$`

type Invocation struct {
	Server Server
	ItemID string
}

func (i Invocation) String() string {
	return fmt.Sprintf("%s %s", i.Server, i.ItemID)
}

type Validator struct {
	re *regexp.Regexp
}

func NewValidator(pattern string) (*Validator, error) {

	if pattern == "" {
		pattern = DefaultIDPattern
	}

	re, err := regexp.Compile(pattern)

	if err != nil {
		return nil, fmt.Errorf("invalid item id pattern: %w", err)
	}

	return &Validator{re: re}, nil
}

func (v *Validator) validate(id string) bool {

	ok := utf8string.NewString(id).IsASCII()

	if !ok {
		return false
	}

	return len(id) > 0 && v.re.MatchString(id)
}

// Check validates a bare identifier for the given server.
func (v *Validator) Check(server Server, id string) (Invocation, error) {

	id = strings.TrimSpace(id)

	if !v.validate(id) {
		return Invocation{}, failure.New(failure.InvalidInput, "parse", fmt.Errorf("invalid item id %q", id))
	}

	return Invocation{Server: server, ItemID: id}, nil
}

// Invocation builds the request for a conversion command from its arguments.
// Only the first argument is considered.
func (v *Validator) Invocation(c Command, args []string) (Invocation, error) {

	server, ok := ServerFor(c)

	if !ok {
		return Invocation{}, failure.New(failure.InvalidInput, "parse", fmt.Errorf("%s is not a conversion command", string(c)))
	}

	if len(args) == 0 {
		return Invocation{}, failure.New(failure.InvalidInput, "parse", fmt.Errorf("missing item id"))
	}

	return v.Check(server, args[0])
}
