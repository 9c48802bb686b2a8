package model

import (
	"strings"

	"github.com/google/uuid"
)

var idNamespace = uuid.MustParse("7b3c51f4-3c2e-4e5c-9a57-2f0e6c1d8a90")

// NewID returns a fresh random identifier.
func NewID() string {
	return uuid.NewString()
}

// DeriveID returns a stable identifier for the given key parts, so re-importing
// the same record yields the same id.
func DeriveID(parts ...string) string {
	return uuid.NewSHA1(idNamespace, []byte(strings.Join(parts, "\x00"))).String()
}
