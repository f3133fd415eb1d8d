// ABOUTME: Decoder for Jefit's packed per-set "weight x reps" log field.
// ABOUTME: Set numbers follow token position, so blank tokens leave gaps.
package expand

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	setSeparator  = ","
	pairSeparator = "x"
)

// ErrNotFinite rejects Inf and NaN, which strconv accepts as numbers.
var ErrNotFinite = errors.New("not a finite number")

// Set is one decoded token of a logs field.
type Set struct {
	// Position is the 1-based index of the token, counting skipped blanks.
	Position int
	Weight   float64
	Reps     float64
}

// TokenError reports a token that is not "<weight>x<reps>".
type TokenError struct {
	Position int
	Token    string
	Err      error
}

func (e *TokenError) Error() string {
	return fmt.Sprintf("set %d: invalid token %q: %v", e.Position, e.Token, e.Err)
}

func (e *TokenError) Unwrap() error {
	return e.Err
}

// Decode splits logs into sets. Blank tokens produce nothing but still
// consume a position; "100x10,,80x12" yields positions 1 and 3.
func Decode(logs string) ([]Set, error) {
	tokens := strings.Split(logs, setSeparator)
	sets := make([]Set, 0, len(tokens))

	for i, token := range tokens {
		if strings.TrimSpace(token) == "" {
			continue
		}
		set, err := decodeToken(token)
		if err != nil {
			return nil, &TokenError{Position: i + 1, Token: token, Err: err}
		}
		set.Position = i + 1
		sets = append(sets, set)
	}

	return sets, nil
}

func decodeToken(token string) (Set, error) {
	parts := strings.Split(token, pairSeparator)
	if len(parts) != 2 {
		return Set{}, fmt.Errorf("want 2 %q-separated parts, got %d", pairSeparator, len(parts))
	}

	weight, err := ParseNumber(parts[0])
	if err != nil {
		return Set{}, fmt.Errorf("parse weight: %w", err)
	}
	reps, err := ParseNumber(parts[1])
	if err != nil {
		return Set{}, fmt.Errorf("parse reps: %w", err)
	}

	return Set{Weight: weight, Reps: reps}, nil
}

// ParseNumber parses a decimal weight or rep count, refusing Inf and NaN.
func ParseNumber(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, ErrNotFinite
	}
	return f, nil
}
