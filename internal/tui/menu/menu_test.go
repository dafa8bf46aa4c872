// ABOUTME: Tests for the main menu
// ABOUTME: Validates options per session state and selection behavior

package menu

import (
	"reflect"
	"testing"
)

func TestMenuOptions_Guest(t *testing.T) {
	m := New(false, false)

	want := []Action{ActionCatalog, ActionCart, ActionLogin, ActionRegister, ActionRecover, ActionAdmin, ActionQuit}
	if got := m.Options(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestMenuOptions_SignedIn(t *testing.T) {
	m := New(true, false)

	want := []Action{ActionCatalog, ActionCart, ActionAccount, ActionAdmin, ActionLogout, ActionQuit}
	if got := m.Options(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestMenuAdminDisabledForShoppers(t *testing.T) {
	m := New(true, false)

	for _, opt := range m.options {
		if opt.value == ActionAdmin && opt.enabled {
			t.Error("expected admin option to be disabled for shoppers")
		}
	}
}

func TestMenuAdminEnabledForAdmins(t *testing.T) {
	m := New(true, true)

	for _, opt := range m.options {
		if opt.value == ActionAdmin && !opt.enabled {
			t.Error("expected admin option to be enabled for admins")
		}
	}
}

func TestResolve_Enabled(t *testing.T) {
	m := New(false, false)
	m.selected = ActionCart

	msg := m.resolve()()
	sel, ok := msg.(SelectedMsg)
	if !ok {
		t.Fatalf("expected SelectedMsg, got %T", msg)
	}
	if sel.Action != ActionCart {
		t.Errorf("expected cart, got %s", sel.Action)
	}
}

func TestResolve_Disabled(t *testing.T) {
	m := New(true, false)
	m.selected = ActionAdmin

	msg := m.resolve()()
	d, ok := msg.(DisabledMsg)
	if !ok {
		t.Fatalf("expected DisabledMsg, got %T", msg)
	}
	if d.Reason != "admin access required" {
		t.Errorf("unexpected reason %q", d.Reason)
	}
}

func TestActionString(t *testing.T) {
	tests := []struct {
		action   Action
		expected string
	}{
		{ActionCatalog, "catalog"},
		{ActionCart, "cart"},
		{ActionLogin, "login"},
		{ActionRegister, "register"},
		{ActionRecover, "recover"},
		{ActionAccount, "account"},
		{ActionAdmin, "admin"},
		{ActionLogout, "logout"},
		{ActionQuit, "quit"},
		{Action(99), "unknown"},
	}

	for _, tc := range tests {
		t.Run(tc.expected, func(t *testing.T) {
			if got := tc.action.String(); got != tc.expected {
				t.Errorf("expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestMenuViewRenders(t *testing.T) {
	m := New(false, false)
	m.Init()
	if m.View() == "" {
		t.Error("expected non-empty view")
	}
}
