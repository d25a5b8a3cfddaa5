package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotFound is returned by a LineStore when no cart exists for the key.
// The engine treats it as an empty cart, not a failure.
var ErrNotFound = errors.New("cart: not found")

// LineStore persists the ordered line sequence of one cart under a single
// string key. The whole sequence is read and written as one blob; there is
// no partial update, so concurrent writers to the same key race and the
// last writer wins.
type LineStore interface {
	Load(ctx context.Context, sessionID string) ([]Line, error)
	Save(ctx context.Context, sessionID string, lines []Line) error
	Delete(ctx context.Context, sessionID string) error
}

// encodeLines serializes a line sequence to the stored JSON form,
// preserving order and all fields.
func encodeLines(lines []Line) ([]byte, error) {
	payload, err := json.Marshal(lines)
	if err != nil {
		return nil, fmt.Errorf("encoding cart lines: %w", err)
	}
	return payload, nil
}

// decodeLines parses a stored blob back into a line sequence. Any payload
// that does not parse into the expected shape is an error; callers degrade
// it to an empty cart.
func decodeLines(payload []byte) ([]Line, error) {
	if len(payload) == 0 {
		return nil, nil
	}
	var lines []Line
	if err := json.Unmarshal(payload, &lines); err != nil {
		return nil, fmt.Errorf("decoding cart lines: %w", err)
	}
	return lines, nil
}
