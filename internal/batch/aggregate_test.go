package batch

import (
	"reflect"
	"testing"

	"github.com/davissontiago/Mateco/internal/domain"
)

func TestAggregateMergesByProduct(t *testing.T) {
	items := []domain.LineItem{
		{ProductID: 1, Name: "Cimento", UnitPrice: 5, Quantity: 2, LineTotal: 10.00},
		{ProductID: 1, Name: "Cimento", UnitPrice: 5, Quantity: 3, LineTotal: 15.00},
		{ProductID: 2, Name: "Areia", UnitPrice: 5, Quantity: 1, LineTotal: 5.00},
	}

	merged := AggregateItems(items)

	if len(merged) != 2 {
		t.Fatalf("expected 2 merged rows, got %d", len(merged))
	}
	if merged[0].ProductID != 1 || merged[0].Quantity != 5 || merged[0].LineTotal != 25.00 {
		t.Fatalf("unexpected first row: %+v", merged[0])
	}
	if merged[1].ProductID != 2 || merged[1].Quantity != 1 || merged[1].LineTotal != 5.00 {
		t.Fatalf("unexpected second row: %+v", merged[1])
	}
}

func TestAggregateKeepsFirstOccurrenceOrder(t *testing.T) {
	items := []domain.LineItem{
		{ProductID: 7, Name: "Tijolo", UnitPrice: 1, Quantity: 1, LineTotal: 1},
		{ProductID: 3, Name: "Cal", UnitPrice: 2, Quantity: 1, LineTotal: 2},
		{ProductID: 7, Name: "Tijolo", UnitPrice: 1, Quantity: 4, LineTotal: 4},
	}

	merged := AggregateItems(items)

	if merged[0].ProductID != 7 || merged[1].ProductID != 3 {
		t.Fatalf("expected first-occurrence order [7, 3], got %+v", merged)
	}
}

func TestAggregateIsIdempotent(t *testing.T) {
	items := []domain.LineItem{
		{ProductID: 1, Name: "Cimento", UnitPrice: 5, Quantity: 2, LineTotal: 10.00},
		{ProductID: 1, Name: "Cimento", UnitPrice: 5, Quantity: 3, LineTotal: 15.00},
		{ProductID: 2, Name: "Areia", UnitPrice: 5, Quantity: 1, LineTotal: 5.00},
	}

	once := AggregateItems(items)
	twice := AggregateItems(once)

	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("aggregation is not idempotent: %+v vs %+v", once, twice)
	}
}

func TestAggregatePreservesTotalValue(t *testing.T) {
	items := []domain.LineItem{
		{ProductID: 1, UnitPrice: 2.50, Quantity: 2, LineTotal: 5.00},
		{ProductID: 2, UnitPrice: 1.25, Quantity: 4, LineTotal: 5.00},
		{ProductID: 1, UnitPrice: 2.50, Quantity: 6, LineTotal: 15.00},
	}

	var before float64
	for _, item := range items {
		before += item.LineTotal
	}

	var after float64
	for _, item := range AggregateItems(items) {
		after += item.LineTotal
	}

	if before != after {
		t.Fatalf("total value changed: %v -> %v", before, after)
	}
}

func TestAggregateDoesNotMutateInput(t *testing.T) {
	items := []domain.LineItem{
		{ProductID: 1, UnitPrice: 5, Quantity: 2, LineTotal: 10.00},
		{ProductID: 1, UnitPrice: 5, Quantity: 3, LineTotal: 15.00},
	}

	AggregateItems(items)

	if items[0].Quantity != 2 || items[0].LineTotal != 10.00 {
		t.Fatalf("input slice was mutated: %+v", items[0])
	}
}

func TestAggregateEmpty(t *testing.T) {
	merged := AggregateItems(nil)
	if len(merged) != 0 {
		t.Fatalf("expected empty result, got %+v", merged)
	}
}
