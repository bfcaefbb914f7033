// Package validity computes the derived display status of an issued document.
// It is pure: no storage, no side effects, time always passed in.
package validity

import (
	"time"

	"github.com/brgyhub/barangay_records_app/internal/core/domain"
)

// Status returns the display status of a document at the given instant.
// Invalidation takes priority over the date window: an invalidated document
// never reports EXPIRED or VALID again.
func Status(doc *domain.IssuedDocument, now time.Time) domain.DocumentDisplayStatus {
	if !doc.IsValid {
		return domain.DocumentInvalid
	}
	if now.After(doc.ValidUntil) {
		return domain.DocumentExpired
	}
	return domain.DocumentValid
}

// DaysUntilExpiry returns the signed whole-day difference between now and the
// end of the validity window. Negative once the document has expired.
func DaysUntilExpiry(doc *domain.IssuedDocument, now time.Time) int {
	return int(truncateToDay(doc.ValidUntil).Sub(truncateToDay(now)).Hours() / 24)
}

func truncateToDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
