package commands

import (
	"testing"

	"scristobal/astcbot/failure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {

	tests := []struct {
		text     string
		command  Command
		args     []string
		expected bool
	}{
		{"", "", nil, false},
		{"hello there", "", nil, false},
		{"/live 710049001", Live, []string{"710049001"}, true},
		{"/adv   710049001  ", Advance, []string{"710049001"}, true},
		{"/live@astc_bot 710049001", Live, []string{"710049001"}, true},
		{"/live@other_bot 710049001", "", nil, false},
		{"/start", Start, []string{}, true},
		{"/help@astc_bot", Help, []string{}, true},
		{"/livestream 1", "", nil, false},
	}

	for _, tt := range tests {
		c, args, ok := Lookup(tt.text, "@astc_bot")
		if ok != tt.expected || c != tt.command {
			t.Fatalf(`Lookup(%q) = %q, %v, want %q, %v`, tt.text, c, ok, tt.command, tt.expected)
		}
		if ok {
			assert.Equal(t, tt.args, args, tt.text)
		}
	}
}

func TestLookupWithoutBotUsername(t *testing.T) {
	c, args, ok := Lookup("/adv@any_bot 123", "")

	require.True(t, ok)
	assert.Equal(t, Advance, c)
	assert.Equal(t, []string{"123"}, args)
}

func TestValidatorInvocation(t *testing.T) {

	v, err := NewValidator("")
	require.NoError(t, err)

	tests := []struct {
		command Command
		args    []string
		valid   bool
	}{
		{Live, []string{"710049001"}, true},
		{Advance, []string{"710049001", "extra"}, true},
		{Live, nil, false},
		{Live, []string{"71004900"}, false},
		{Live, []string{"7100490011"}, false},
		{Live, []string{"71004900a"}, false},
		{Live, []string{"７１００４９００１"}, false},
		{Live, []string{"../../etc"}, false},
		{Start, []string{"710049001"}, false},
	}

	for _, tt := range tests {
		inv, err := v.Invocation(tt.command, tt.args)

		if !tt.valid {
			assert.True(t, failure.Is(err, failure.InvalidInput), "%s %v", tt.command, tt.args)
			continue
		}

		require.NoError(t, err)
		assert.Equal(t, "710049001", inv.ItemID)
	}
}

func TestValidatorServer(t *testing.T) {
	v, err := NewValidator(DefaultIDPattern)
	require.NoError(t, err)

	inv, err := v.Invocation(Advance, []string{"710049001"})
	require.NoError(t, err)

	assert.Equal(t, AdvanceServer, inv.Server)
	assert.Equal(t, "Advance", inv.Server.Title())
	assert.Equal(t, "advance 710049001", inv.String())
}

func TestValidatorRejectsNonConversionCommands(t *testing.T) {
	v, err := NewValidator(DefaultIDPattern)
	require.NoError(t, err)

	_, err = v.Invocation(Start, []string{"710049001"})

	assert.EqualError(t, err, "parse: invalid_input: /start is not a conversion command")
}

func TestNewValidatorRejectsBadPattern(t *testing.T) {
	_, err := NewValidator("([")
	assert.Error(t, err)
}

func TestParseServer(t *testing.T) {

	tests := []struct {
		in       string
		expected Server
		ok       bool
	}{
		{"live", LiveServer, true},
		{"ADV", AdvanceServer, true},
		{"advance", AdvanceServer, true},
		{"beta", LiveServer, false},
	}

	for _, tt := range tests {
		s, err := ParseServer(tt.in)
		assert.Equal(t, tt.ok, err == nil, tt.in)
		assert.Equal(t, tt.expected, s, tt.in)
	}
}
