package snapshot

import (
	"errors"
	"strconv"
	"strings"
)

// DeletePrefix marks a control token that deletes the task at a position.
const DeletePrefix = "del_"

// ErrMalformedToken indicates a control token that is not "del_<digits>".
var ErrMalformedToken = errors.New("malformed control token")

// DeleteToken builds the control payload for the task at position.
func DeleteToken(position int) string {
	return DeletePrefix + strconv.Itoa(position)
}

// ParseDeleteToken extracts the position from a token built by DeleteToken.
// Signs, empty digits, non-digits and overflow are rejected.
func ParseDeleteToken(token string) (int, error) {
	digits, ok := strings.CutPrefix(token, DeletePrefix)
	if !ok || !isAllDigits(digits) {
		return 0, ErrMalformedToken
	}
	pos, err := strconv.Atoi(digits)
	if err != nil {
		return 0, ErrMalformedToken
	}
	return pos, nil
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
