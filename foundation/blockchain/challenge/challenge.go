// Package challenge implements the ownership challenge a submitter signs to
// prove control of an identity before a record is written to the chain.
package challenge

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// DefaultTag is the protocol tag embedded in every challenge.
const DefaultTag = "starRegistry"

// DefaultWindow is how long a challenge stays valid after it is issued.
const DefaultWindow = 300 * time.Second

// Set of error variables for the challenge package.
var (
	ErrMalformed = errors.New("challenge message is malformed")
	ErrExpired   = errors.New("challenge has expired")
	ErrMismatch  = errors.New("challenge was not issued for this identity")
	ErrReused    = errors.New("challenge has already been used")
)

// =============================================================================

// Challenge is the record a submitter is asked to sign. The message form is
// the compact JSON encoding of this value, so the field order is fixed.
type Challenge struct {
	Identity string `json:"identity"`
	IssuedAt int64  `json:"issuedAt"`
	Tag      string `json:"tag"`
}

// New constructs a challenge for the identity issued at the specified time.
func New(identity string, now time.Time, tag string) Challenge {
	return Challenge{
		Identity: identity,
		IssuedAt: now.UTC().Unix(),
		Tag:      tag,
	}
}

// Message returns the deterministic message form of the challenge.
func (c Challenge) Message() string {
	data, err := json.Marshal(c)
	if err != nil {
		return ""
	}

	return string(data)
}

// Parse decodes a challenge message. Only messages that re-encode to exactly
// the same text are accepted.
func Parse(message string) (Challenge, error) {
	d := json.NewDecoder(bytes.NewReader([]byte(message)))
	d.DisallowUnknownFields()

	var c Challenge
	if err := d.Decode(&c); err != nil {
		return Challenge{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	if c.Message() != message {
		return Challenge{}, fmt.Errorf("%w: message is not in canonical form", ErrMalformed)
	}

	if c.Identity == "" || c.Tag == "" || c.IssuedAt <= 0 {
		return Challenge{}, fmt.Errorf("%w: missing fields", ErrMalformed)
	}

	return c, nil
}

// IssuedTime returns the issuance time of the challenge.
func (c Challenge) IssuedTime() time.Time {
	return time.Unix(c.IssuedAt, 0).UTC()
}

// ExpiresAt returns the time at which the challenge stops being valid.
func (c Challenge) ExpiresAt(window time.Duration) time.Time {
	return c.IssuedTime().Add(window)
}

// CheckFresh validates the challenge is inside the validity window. A
// challenge is still valid when exactly the window has elapsed.
func (c Challenge) CheckFresh(now time.Time, window time.Duration) error {
	elapsed := now.UTC().Unix() - c.IssuedAt

	switch {
	case elapsed < 0:
		return fmt.Errorf("%w: issued %ds in the future", ErrMalformed, -elapsed)
	case elapsed > int64(window/time.Second):
		return fmt.Errorf("%w: issued %ds ago, window is %s", ErrExpired, elapsed, window)
	}

	return nil
}

// CheckBinding validates the challenge was issued for the identity under the
// expected protocol tag.
func (c Challenge) CheckBinding(identity string, tag string) error {
	if c.Identity != identity {
		return fmt.Errorf("%w: issued for %q, submitted by %q", ErrMismatch, c.Identity, identity)
	}

	if c.Tag != tag {
		return fmt.Errorf("%w: tag %q, exp %q", ErrMismatch, c.Tag, tag)
	}

	return nil
}
