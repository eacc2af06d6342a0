package kanban

import (
	"fmt"
	"sort"
)

// OrderStep spaces consecutive cards so manual edits fit between them.
const OrderStep = 100

// SortCards returns a copy of cards ordered by Order, ties broken by ID.
func SortCards(cards []Card) []Card {
	sorted := make([]Card, len(cards))
	copy(sorted, cards)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Order != sorted[j].Order {
			return sorted[i].Order < sorted[j].Order
		}
		return sorted[i].ID < sorted[j].ID
	})
	return sorted
}

// Renumber gives every card in its current position the order (i+1)*OrderStep.
func Renumber(ordered []Card) []OrderUpdate {
	updates := make([]OrderUpdate, 0, len(ordered))
	for i, card := range ordered {
		updates = append(updates, OrderUpdate{CardID: card.ID, Order: (i + 1) * OrderStep})
	}
	return updates
}

// NextOrder is the order that appends a card after every card in cards.
func NextOrder(cards []Card) int {
	highest := 0
	for _, card := range cards {
		if card.Order > highest {
			highest = card.Order
		}
	}
	return highest + OrderStep
}

// Reorder moves cardID to index inside its own column and recomputes every order.
// An index past the end appends.
func Reorder(cards []Card, cardID string, index int) ([]OrderUpdate, error) {
	if index < 0 {
		return nil, ErrInvalidIndex
	}

	remaining, moving, ok := without(SortCards(cards), cardID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCardNotInColumn, cardID)
	}
	return Renumber(insertAt(remaining, moving, index)), nil
}

// MovePlan holds the three writes of a cross-column move.
// DestinationUpdates excludes the moving card, whose order is CardOrder.
type MovePlan struct {
	CardID             string
	SourceColumnID     string
	TargetColumnID     string
	CardOrder          int
	SourceUpdates      []OrderUpdate
	DestinationUpdates []OrderUpdate
}

// PlanMove takes cardID out of source and inserts it at index of destination.
func PlanMove(source []Card, destination []Card, cardID string, targetColumnID string, index int) (MovePlan, error) {
	if index < 0 {
		return MovePlan{}, ErrInvalidIndex
	}

	remaining, moving, ok := without(SortCards(source), cardID)
	if !ok {
		return MovePlan{}, fmt.Errorf("%w: %s", ErrCardNotInColumn, cardID)
	}

	plan := MovePlan{
		CardID:         cardID,
		SourceColumnID: moving.ColumnID,
		TargetColumnID: targetColumnID,
		SourceUpdates:  Renumber(remaining),
	}

	// A stale copy of the card in destination must not be counted twice.
	targets, _, _ := without(SortCards(destination), cardID)
	for _, update := range Renumber(insertAt(targets, moving, index)) {
		if update.CardID == cardID {
			plan.CardOrder = update.Order
			continue
		}
		plan.DestinationUpdates = append(plan.DestinationUpdates, update)
	}
	return plan, nil
}

// Apply returns cards with the orders from updates; cards not named keep theirs.
func Apply(cards []Card, updates []OrderUpdate) []Card {
	byID := make(map[string]int, len(updates))
	for _, update := range updates {
		byID[update.CardID] = update.Order
	}

	out := make([]Card, len(cards))
	for i, card := range cards {
		if order, ok := byID[card.ID]; ok {
			card.Order = order
		}
		out[i] = card
	}
	return SortCards(out)
}

func without(sorted []Card, cardID string) ([]Card, Card, bool) {
	for i, card := range sorted {
		if card.ID != cardID {
			continue
		}
		rest := make([]Card, 0, len(sorted)-1)
		rest = append(rest, sorted[:i]...)
		rest = append(rest, sorted[i+1:]...)
		return rest, card, true
	}
	return sorted, Card{}, false
}

func insertAt(cards []Card, card Card, index int) []Card {
	if index > len(cards) {
		index = len(cards)
	}
	out := make([]Card, 0, len(cards)+1)
	out = append(out, cards[:index]...)
	out = append(out, card)
	out = append(out, cards[index:]...)
	return out
}
