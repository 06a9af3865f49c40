package normalize

import (
	"crypto/sha1"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/ledgerstitch-dev/ledgerstitch/internal/model"
)

// Fingerprint hashes the normalized row content of a statement. Two
// documents carrying the same transactions produce the same fingerprint
// regardless of row order, which is how resupplied statements are caught.
func Fingerprint(txns []model.CanonicalTransaction) string {
	if len(txns) == 0 {
		return ""
	}

	rows := make([]string, 0, len(txns))
	for _, t := range txns {
		balance := ""
		if t.Balance.Valid {
			balance = t.Balance.Decimal.StringFixed(2)
		}
		rows = append(rows, strings.Join([]string{
			t.Date.Format("2006-01-02"),
			collapse(t.Type),
			collapse(t.Description),
			t.Amount.StringFixed(2),
			balance,
		}, "|"))
	}

	sort.Strings(rows)
	sum := sha1.Sum([]byte(strings.Join(rows, "\n")))
	return hex.EncodeToString(sum[:])
}

func collapse(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), " "))
}
