package review

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MikeMC777/campus-eats/internal/stall"
)

func TestAggregate(t *testing.T) {
	reviews := []Review{
		{Rating: 4, MenuItemID: "Dosa"},
		{Rating: 2},
		{Rating: 5, MenuItemID: "Dosa"},
		{Rating: 3, MenuItemID: "Idli"},
	}
	total, items := Aggregate(reviews)
	assert.Equal(t, stall.Rating{Sum: 14, Count: 4}, total)
	assert.Equal(t, map[string]stall.Rating{
		"Dosa": {Sum: 9, Count: 2},
		"Idli": {Sum: 3, Count: 1},
	}, items)

	// order of the review set does not matter
	rev := []Review{reviews[3], reviews[2], reviews[1], reviews[0]}
	total2, items2 := Aggregate(rev)
	assert.Equal(t, total, total2)
	assert.Equal(t, items, items2)
}
