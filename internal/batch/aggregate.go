package batch

import "github.com/davissontiago/Mateco/internal/domain"

// AggregateItems merges repeated product lines into single rows.
// Order follows the first occurrence of each product. The input slice
// is left untouched; aggregating an already-aggregated slice returns
// an equal slice.
//
// Repeated products are assumed to carry the same unit price inside
// one draft; when they do not, the first price wins and the line total
// is recomputed from it.
func AggregateItems(items []domain.LineItem) []domain.LineItem {
	merged := make([]domain.LineItem, 0, len(items))
	index := make(map[int64]int, len(items))

	for _, item := range items {
		if at, ok := index[item.ProductID]; ok {
			merged[at].Quantity += item.Quantity
			merged[at].Recompute()
			continue
		}
		index[item.ProductID] = len(merged)
		copied := item
		copied.Recompute()
		merged = append(merged, copied)
	}

	return merged
}
