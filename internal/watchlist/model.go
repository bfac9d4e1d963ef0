package watchlist

import "time"

// Entry bookmarks one product for one user; the (user, product) pair is
// unique.
type Entry struct {
	ID        int64
	UserID    int64
	ProductID int64
	CreatedAt time.Time
}
