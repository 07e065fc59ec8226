package filtering

import (
	"fmt"
	"strconv"
	"strings"
)

// parseBudget turns a compound budget token into a price predicate.
// Recognized forms: "15000-25000" (closed interval, inclusive), "<15000"
// (strictly under), ">40000" (strictly over). The sentinel handling for
// "all"/"" happens in the constructor, not here.
func parseBudget(token string) (func(price int) bool, error) {
	token = strings.TrimSpace(token)

	switch {
	case strings.HasPrefix(token, "<"):
		bound, err := strconv.Atoi(strings.TrimSpace(token[1:]))
		if err != nil {
			return nil, fmt.Errorf("parse budget %q: %w", token, err)
		}
		return func(price int) bool { return price < bound }, nil

	case strings.HasPrefix(token, ">"):
		bound, err := strconv.Atoi(strings.TrimSpace(token[1:]))
		if err != nil {
			return nil, fmt.Errorf("parse budget %q: %w", token, err)
		}
		return func(price int) bool { return price > bound }, nil

	case strings.Contains(token, "-"):
		parts := strings.SplitN(token, "-", 2)
		min, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return nil, fmt.Errorf("parse budget %q: %w", token, err)
		}
		max, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, fmt.Errorf("parse budget %q: %w", token, err)
		}
		return func(price int) bool { return price >= min && price <= max }, nil

	default:
		return nil, fmt.Errorf("unrecognized budget token %q", token)
	}
}
