package query

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Window is a requested page.
type Window struct {
	Page  int
	Limit int
}

// NewWindow normalizes page and limit: non-positive values fall back to the
// defaults and limit is capped at MaxLimit.
func NewWindow(page, limit int) Window {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Window{Page: page, Limit: limit}
}

func (w Window) Offset() int { return (w.Page - 1) * w.Limit }

// Page is one window of a filtered, sorted result set.
type Page[T any] struct {
	Page          int   `json:"page"`
	Limit         int   `json:"limit"`
	Total         int64 `json:"total"`
	TotalFiltered int64 `json:"total_filtered"`
	Data          []T   `json:"data"`
}

// OrderingNumber is the display rank of the row at index within its page.
// It restarts at 1 on every page.
func OrderingNumber(index int) int { return index + 1 }
