package echoapi

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/gradhub/thesisdesk/core"
)

const orderingParam = "ordering"

// Ordering binds the "?ordering=field,-other" query parameter. A leading "-"
// means descending. Field names are passed through as-is; repositories drop
// the ones they do not allow.
type Ordering struct {
	Orderings []core.DBOrdering
}

func (ord *Ordering) Bind(ctx echo.Context) {
	raw := ctx.QueryParam(orderingParam)
	if raw == "" {
		return
	}
	for _, field := range strings.Split(raw, ",") {
		field = strings.TrimSpace(field)
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = strings.TrimPrefix(field, "-")
		}
		ord.Orderings = append(ord.Orderings, core.DBOrdering{Field: field, Ascending: !descending})
	}
}
