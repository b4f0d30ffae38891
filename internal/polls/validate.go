package polls

import "fmt"

const CodeInvalidOptions = "INVALID_POLL_OPTIONS"

// Violation describes why a list of answers cannot be sent as a poll.
type Violation struct {
	Code    string
	Message string
	Details string
}

// Validate deduplicates options keeping the first occurrence, checks the 2..12 bound and clamps
// the requested selectable count to the number of answers. A non-nil Violation means the poll
// must not be sent.
func Validate(options []string, selectableCount int) ([]string, int, *Violation) {
	unique := Dedup(options)

	if len(unique) < MinOptions {
		return nil, 0, &Violation{
			Code:    CodeInvalidOptions,
			Message: "Invalid poll options",
			Details: fmt.Sprintf("Poll must have at least %d options", MinOptions),
		}
	}
	if len(unique) > MaxOptions {
		return nil, 0, &Violation{
			Code:    CodeInvalidOptions,
			Message: "Invalid poll options",
			Details: fmt.Sprintf("Poll cannot have more than %d options. You provided %d options.", MaxOptions, len(unique)),
		}
	}

	return unique, max(0, min(selectableCount, len(unique))), nil
}

// Dedup returns options without repeats, in first-occurrence order.
func Dedup(options []string) []string {
	seen := make(map[string]struct{}, len(options))
	out := make([]string, 0, len(options))
	for _, o := range options {
		if _, ok := seen[o]; ok {
			continue
		}
		seen[o] = struct{}{}
		out = append(out, o)
	}
	return out
}
