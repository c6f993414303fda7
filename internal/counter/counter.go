// Package counter computes the frames of the stat counters that count up
// from zero to their displayed value.
package counter

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"
)

const (
	DefaultDuration = 2 * time.Second
	DefaultFrame    = 16 * time.Millisecond
)

// Target is a counter's final text split into its number and suffix.
type Target struct {
	Text   string `json:"text"`
	Value  int    `json:"value"`
	Suffix string `json:"suffix"`
}

// Parse splits text such as "500+" or "99%" into digits and suffix. All
// digits form the value and every other character forms the suffix.
func Parse(text string) (Target, error) {
	var digits, suffix strings.Builder
	for _, r := range text {
		if unicode.IsDigit(r) && r < unicode.MaxASCII {
			digits.WriteRune(r)
		} else {
			suffix.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return Target{}, fmt.Errorf("counter %q has no digits", text)
	}

	v, err := strconv.Atoi(digits.String())
	if err != nil {
		return Target{}, fmt.Errorf("counter %q: %w", text, err)
	}
	return Target{Text: text, Value: v, Suffix: suffix.String()}, nil
}

// Frames returns the text of each animation frame. The value grows by a
// fixed step per frame, is floored while below the target, and the last
// frame is always the original text.
func Frames(t Target, duration, frame time.Duration) []string {
	if duration <= 0 {
		duration = DefaultDuration
	}
	if frame <= 0 {
		frame = DefaultFrame
	}

	target := float64(t.Value)
	step := target / (float64(duration) / float64(frame))

	var frames []string
	current := 0.0
	for {
		current += step
		if step <= 0 || current >= target {
			return append(frames, t.Text)
		}
		frames = append(frames, strconv.Itoa(int(math.Floor(current)))+t.Suffix)
	}
}
