package valueobject

// ReviewAggregate считает средний рейтинг с округлением до сотых
// и количество отзывов. Пустой список даёт нулевые агрегаты.
func ReviewAggregate(ratings []int) (float64, int) {
	if len(ratings) == 0 {
		return 0, 0
	}

	sum := 0
	for _, r := range ratings {
		sum += r
	}

	return Round2(float64(sum) / float64(len(ratings))), len(ratings)
}
