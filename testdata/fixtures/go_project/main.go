package project

import (
	"errors"
	"strings"
)

var errMissing = errors.New("missing")

// Normalize trims and lowercases a user name.
func Normalize(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errMissing
	}
	return strings.ToLower(name), nil
}
