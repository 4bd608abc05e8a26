package cache

import "testing"

func TestHandleWhitelistLoadNormalizes(t *testing.T) {
	whitelist := NewHandleWhitelist()
	whitelist.Load("disp-1", []string{" Alice ", "BOB", ""})

	for _, handle := range []string{"alice", "ALICE", "bob", " Bob "} {
		if !whitelist.Contains("disp-1", handle) {
			t.Fatalf("expected %q to be whitelisted", handle)
		}
	}
	if whitelist.Contains("disp-1", "") {
		t.Fatal("empty handle should never match")
	}
	if whitelist.Contains("disp-2", "alice") {
		t.Fatal("handles must not leak across dispensers")
	}
}

func TestHandleWhitelistLoadReplaces(t *testing.T) {
	whitelist := NewHandleWhitelist()
	whitelist.Load("disp-1", []string{"alice"})
	whitelist.Load("disp-1", []string{"bob"})

	if whitelist.Contains("disp-1", "alice") {
		t.Fatal("replaced handle still present")
	}
	if !whitelist.Contains("disp-1", "bob") {
		t.Fatal("new handle missing")
	}
}

func TestHandleWhitelistLoaded(t *testing.T) {
	whitelist := NewHandleWhitelist()
	if whitelist.Loaded("disp-1") {
		t.Fatal("unloaded dispenser reported as loaded")
	}
	whitelist.Load("disp-1", nil)
	if !whitelist.Loaded("disp-1") {
		t.Fatal("empty load should still mark the dispenser loaded")
	}
}
