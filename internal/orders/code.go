package orders

import (
	"fmt"
	"time"
)

// FormatOrderCode renders the human-readable order label ORD-YYYYMMDD-NNNN.
// The sequence is derived from a row count taken inside the same transaction
// as the insert, so concurrent checkouts cannot read the same count. The code
// is still advisory: the numeric ledger id is the authoritative key.
func FormatOrderCode(t time.Time, seq int) string {
	return fmt.Sprintf("ORD-%s-%04d", t.Format("20060102"), seq)
}
