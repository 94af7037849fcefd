package domain

// DefaultPackSize is the number of cans in a pack. Every add grows a line by
// one pack and pack counts shown to shoppers divide by the same value.
const DefaultPackSize = 4

func TotalItems(items []LineItem) int {
	total := 0
	for _, item := range items {
		total += item.Quantity
	}

	return total
}

func TotalPacks(totalItems, packSize int) int {
	if packSize <= 0 {
		return 0
	}

	return totalItems / packSize
}
