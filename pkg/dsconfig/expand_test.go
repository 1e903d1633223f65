package dsconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStrictExpand(t *testing.T) {
	testenv := func(key string) (string, bool) {
		switch key {
		case "USER":
			return "testuser", true
		case "HOME":
			return "/home/testuser", true
		case "empty":
			return "", true
		default:
			return "", false
		}
	}

	tests := []struct {
		input    string
		expected string
	}{
		{input: "$HOME", expected: "/home/testuser"},
		{input: "${USER}", expected: "testuser"},
		{input: "Hello, $USER!", expected: "Hello, testuser!"},
		{input: "${HOME}/wp-content/debug.log", expected: "/home/testuser/wp-content/debug.log"},
		{input: "$USER$HOME", expected: "testuser/home/testuser"},
		{input: "x${empty}y", expected: "xy"},
		{input: "$undefined and ${undefined}", expected: "$undefined and ${undefined}"},
		{input: "${USER", expected: "${USER"},
		{input: "cost: 5$", expected: "cost: 5$"},
		{input: "$ $$", expected: "$ $$"},
		{input: "${}", expected: "${}"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, strictExpand(tc.input, testenv))
		})
	}
}
