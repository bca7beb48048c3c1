package barid

import (
	"fmt"
	"regexp"
	"strconv"
)

// addressRegex parses the canonical form `bar[<index>].<fingerprint>@<monitor>`.
// The fingerprint is lowercase hex, so the first '@' after it is always the
// monitor separator even when the monitor name itself contains '@'.
var addressRegex = regexp.MustCompile(`^bar\[(\d+)\]\.([0-9a-f]+)@(.+)$`)

// Parse creates an Address by parsing its canonical string representation.
func Parse(rawID string) (Address, error) {
	if rawID == "" {
		return Address{}, fmt.Errorf("identifier cannot be empty")
	}

	matches := addressRegex.FindStringSubmatch(rawID)
	if matches == nil {
		return Address{}, fmt.Errorf("invalid instance identifier format: %q", rawID)
	}

	index, err := strconv.Atoi(matches[1])
	if err != nil {
		// Unreachable due to regex `\d+`
		return Address{}, fmt.Errorf("internal error parsing index: %w", err)
	}

	return Address{Index: index, Fingerprint: matches[2], Monitor: matches[3]}, nil
}
