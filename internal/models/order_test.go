package models

import "testing"

func TestValidOrderStatus(t *testing.T) {
	for _, s := range OrderStatuses {
		if !ValidOrderStatus(s) {
			t.Errorf("ValidOrderStatus(%q) = false", s)
		}
	}
	for _, s := range []string{"", "not process", "Lost"} {
		if ValidOrderStatus(s) {
			t.Errorf("ValidOrderStatus(%q) = true", s)
		}
	}
}
