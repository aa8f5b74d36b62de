package mining

import (
	"fmt"
	"sort"
	"strings"
)

const ItemCopper = "copper"

// Inventory counts stackable resources by item key.
type Inventory struct {
	counts map[string]int
}

func NewInventory() *Inventory {
	return &Inventory{counts: make(map[string]int)}
}

// Add puts n of item into the inventory. Non-positive n is ignored.
func (inv *Inventory) Add(item string, n int) {
	if n <= 0 {
		return
	}
	inv.counts[item] += n
}

func (inv *Inventory) Count(item string) int {
	return inv.counts[item]
}

// Items returns the item keys in sorted order.
func (inv *Inventory) Items() []string {
	keys := make([]string, 0, len(inv.counts))
	for k := range inv.counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (inv *Inventory) String() string {
	if len(inv.counts) == 0 {
		return "empty"
	}
	parts := make([]string, 0, len(inv.counts))
	for _, k := range inv.Items() {
		parts = append(parts, fmt.Sprintf("%s x%d", k, inv.counts[k]))
	}
	return strings.Join(parts, ", ")
}
