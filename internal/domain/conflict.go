package domain

import (
	"fmt"
	"strings"
)

// CheckConflict reports whether the final segment of suggested equals any
// declared type name (ordinal compare). Such a scope would be illegal in
// systems that forbid a type named like its enclosing scope, so the check must
// be repeated whenever the suggested name changes.
func CheckConflict(suggested string, declaredTypeNames []string) (bool, string) {
	segments := strings.Split(suggested, ".")
	last := segments[len(segments)-1]

	for _, name := range declaredTypeNames {
		if name == last {
			message := fmt.Sprintf(
				"suggested scope %q ends in %q, which collides with type %q declared in the same file",
				suggested, last, name,
			)

			return true, message
		}
	}

	return false, ""
}
