package state

import "github.com/jwebster45206/guining-hotel/pkg/catalog"

// TitlePrefix is prepended to a clue name to form its inventory title.
const TitlePrefix = "Clue: "

// InventoryItem is a collected clue.
type InventoryItem struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Detail  string `json:"detail,omitempty"`
}

// Inventory is the ordered list of collected clues. Items are never removed.
type Inventory []InventoryItem

// Has reports whether the clue has been collected. Dialogue references
// are normalized first.
func (inv Inventory) Has(id string) bool {
	id = catalog.NormalizeClueID(id)
	for _, item := range inv {
		if item.ID == id {
			return true
		}
	}
	return false
}

// Collect adds the clue unless it is already present.
// It reports whether the inventory changed.
func (inv *Inventory) Collect(clue catalog.Clue) bool {
	id := catalog.NormalizeClueID(clue.ID)
	if inv.Has(id) {
		return false
	}
	*inv = append(*inv, InventoryItem{
		ID:      id,
		Title:   TitlePrefix + clue.Name,
		Content: clue.Description,
		Detail:  clue.Detail,
	})
	return true
}

// Get returns the collected item with the given id.
func (inv Inventory) Get(id string) (InventoryItem, bool) {
	id = catalog.NormalizeClueID(id)
	for _, item := range inv {
		if item.ID == id {
			return item, true
		}
	}
	return InventoryItem{}, false
}

// IDs returns the collected clue ids in collection order.
func (inv Inventory) IDs() []string {
	ids := make([]string, len(inv))
	for i, item := range inv {
		ids[i] = item.ID
	}
	return ids
}

// Group is one display category of the inventory.
type Group struct {
	Category string          `json:"category"`
	Items    []InventoryItem `json:"items"`
}

// GroupByCategory groups items by catalog.Category. Groups are ordered by
// first appearance and items keep their collection order.
func (inv Inventory) GroupByCategory() []Group {
	var groups []Group
	index := map[string]int{}
	for _, item := range inv {
		cat := catalog.Category(item.ID)
		i, ok := index[cat]
		if !ok {
			i = len(groups)
			index[cat] = i
			groups = append(groups, Group{Category: cat})
		}
		groups[i].Items = append(groups[i].Items, item)
	}
	return groups
}
