package interaction

import (
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
)

var (
	ErrUndecodable       = errors.New("undecodable interaction")
	ErrInvalidDescriptor = errors.New("invalid command descriptor")
)

// Decode parses an inbound body. Field names match case-insensitively,
// unknown fields are ignored and missing ones stay zero.
func Decode(body []byte) (Interaction, error) {
	if len(body) == 0 {
		return Interaction{}, fmt.Errorf("%w: empty body", ErrUndecodable)
	}
	var in Interaction
	if err := sonic.Unmarshal(body, &in); err != nil {
		return Interaction{}, fmt.Errorf("%w: %v", ErrUndecodable, err)
	}
	return in, nil
}
