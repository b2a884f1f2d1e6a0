package bridge

import (
	"fmt"
	"strings"

	"github.com/risor-io/risor/object"
)

// Arity describes how many arguments an operation accepts. When Choices is
// set, only those exact counts are valid and Min/Max are informational.
type Arity struct {
	Min     int
	Max     int
	Choices []int
}

// Fixed returns an Arity accepting exactly n arguments.
func Fixed(n int) Arity {
	return Arity{Min: n, Max: n}
}

// Range returns an Arity accepting min through max arguments.
func Range(min, max int) Arity {
	return Arity{Min: min, Max: max}
}

// OneOf returns an Arity accepting any of the given counts.
func OneOf(counts ...int) Arity {
	a := Arity{Choices: counts, Min: counts[0], Max: counts[0]}
	for _, c := range counts {
		a.Min = min(a.Min, c)
		a.Max = max(a.Max, c)
	}
	return a
}

// Accepts reports whether n arguments satisfy the arity.
func (a Arity) Accepts(n int) bool {
	if len(a.Choices) > 0 {
		for _, c := range a.Choices {
			if c == n {
				return true
			}
		}
		return false
	}
	return n >= a.Min && n <= a.Max
}

// Check validates the argument count for the named operation. It runs before
// any argument is coerced.
func (a Arity) Check(name string, args []object.Object) *object.Error {
	n := len(args)
	if a.Accepts(n) {
		return nil
	}
	switch {
	case len(a.Choices) > 0:
		counts := make([]string, len(a.Choices))
		for i, c := range a.Choices {
			counts[i] = fmt.Sprint(c)
		}
		return object.Errorf("args error: %s() takes %s arguments (%d given)",
			name, strings.Join(counts, " or "), n)
	case a.Min == a.Max:
		return object.NewArgsError(name, a.Min, n)
	default:
		return object.NewArgsRangeError(name, a.Min, a.Max, n)
	}
}

func (a Arity) String() string {
	switch {
	case len(a.Choices) > 0:
		counts := make([]string, len(a.Choices))
		for i, c := range a.Choices {
			counts[i] = fmt.Sprint(c)
		}
		return strings.Join(counts, "|")
	case a.Min == a.Max:
		return fmt.Sprint(a.Min)
	default:
		return fmt.Sprintf("%d..%d", a.Min, a.Max)
	}
}
