package snapshot

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// PendingIDPrefix marks item identifiers for items whose Things ID is not
// yet known. The things:/// write channel returns nothing, so a snapshot
// taken at creation time can only hold a placeholder; a later read-side
// lookup by title may resolve it. Compensating cancel actions dispatched
// against a pending ID are attempted anyway and classified by the
// dispatcher like any other action.
const PendingIDPrefix = "pending-"

// Pending reports whether id is an unresolved placeholder identifier.
func Pending(id string) bool {
	return strings.HasPrefix(id, PendingIDPrefix)
}

// NewID generates a snapshot identifier that sorts in creation order:
// a millisecond UTC timestamp prefix followed by a random suffix.
// The timestamp gives ordering, the suffix gives uniqueness within the
// same millisecond.
func NewID(now time.Time) string {
	suffix := strings.Split(uuid.NewString(), "-")[0]
	return fmt.Sprintf("%s-%s", now.UTC().Format("20060102T150405.000"), suffix)
}

// NormalizeTitle returns the NFC normalization of a user-supplied title.
// Things round-trips titles through AppleScript and URL encoding, which can
// produce decomposed forms; storing NFC keeps ledger lookups by title stable.
func NormalizeTitle(title string) string {
	return norm.NFC.String(title)
}
