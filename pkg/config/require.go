package config

import (
	"fmt"
	"strings"
)

// MustNonEmpty panics with the list of unset variables. Call it only from main.
func MustNonEmpty(pairs ...string) {
	var missing []string
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i] == "" {
			missing = append(missing, pairs[i+1])
		}
	}
	if len(missing) > 0 {
		panic(fmt.Sprintf("missing required env %s", strings.Join(missing, ", ")))
	}
}
