package mining

import "testing"

func TestInventoryAddCount(t *testing.T) {
	inv := NewInventory()
	if inv.String() != "empty" {
		t.Errorf("unexpected summary %q", inv.String())
	}
	inv.Add(ItemCopper, 2)
	inv.Add(ItemCopper, 0)
	inv.Add("tin", -1)
	inv.Add("tin", 1)
	if inv.Count(ItemCopper) != 2 || inv.Count("tin") != 1 {
		t.Fatalf("expected 2 copper and 1 tin, got %s", inv)
	}
	items := inv.Items()
	if len(items) != 2 || items[0] != ItemCopper || items[1] != "tin" {
		t.Errorf("expected sorted keys, got %v", items)
	}
	if inv.String() != "copper x2, tin x1" {
		t.Errorf("unexpected summary %q", inv.String())
	}
}
