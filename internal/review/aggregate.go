package review

import "github.com/MikeMC777/campus-eats/internal/stall"

// Aggregate folds a review set into the stall total and per-menu-item counters.
// The result depends only on the ratings in reviews, not on their order.
func Aggregate(reviews []Review) (stall.Rating, map[string]stall.Rating) {
	var total stall.Rating
	items := make(map[string]stall.Rating)
	for _, r := range reviews {
		total.Sum += r.Rating
		total.Count++
		if r.MenuItemID == "" {
			continue
		}
		it := items[r.MenuItemID]
		it.Sum += r.Rating
		it.Count++
		items[r.MenuItemID] = it
	}
	return total, items
}
