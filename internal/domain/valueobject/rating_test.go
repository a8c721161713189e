package valueobject

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReviewAggregate(t *testing.T) {
	rating, total := ReviewAggregate([]int{3, 5})
	assert.Equal(t, 4.0, rating)
	assert.Equal(t, 2, total)

	rating, total = ReviewAggregate([]int{5})
	assert.Equal(t, 5.0, rating)
	assert.Equal(t, 1, total)
}

func TestReviewAggregate_RoundsToHundredths(t *testing.T) {
	rating, total := ReviewAggregate([]int{4, 4, 5})
	assert.Equal(t, 4.33, rating)
	assert.Equal(t, 3, total)

	rating, _ = ReviewAggregate([]int{1, 5, 5})
	assert.Equal(t, 3.67, rating)
}

func TestReviewAggregate_Empty(t *testing.T) {
	rating, total := ReviewAggregate(nil)
	assert.Equal(t, 0.0, rating)
	assert.Equal(t, 0, total)
}
