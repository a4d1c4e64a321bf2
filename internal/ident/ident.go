// Package ident generates the short opaque identifiers used for meetings and
// chat messages. IDs are probabilistically unique; nothing checks for
// collisions.
package ident

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	length   = 9
)

// New returns a short random identifier.
func New() string {
	id, err := gonanoid.Generate(alphabet, length)
	if err != nil {
		return ""
	}
	return id
}
