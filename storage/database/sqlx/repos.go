// Package sqlxrepos implements the core repositories on PostgreSQL via sqlx.
package sqlxrepos

import (
	"strconv"
	"strings"

	"github.com/gradhub/thesisdesk/core"
)

func itoa(n int) string { return strconv.Itoa(n) }

// orderingClause renders orderings whose field is in the allowed set.
// Unknown fields are dropped rather than interpolated into SQL.
func orderingClause(ordering []core.DBOrdering, allowed ...string) string {
	allowedSet := make(map[string]struct{}, len(allowed))
	for _, f := range allowed {
		allowedSet[f] = struct{}{}
	}

	var clauses []string
	for _, ord := range ordering {
		if _, ok := allowedSet[ord.Field]; !ok {
			continue
		}
		clauses = append(clauses, ord.String())
	}
	return strings.Join(clauses, ", ")
}
