package ui

import (
	"strings"
	"testing"
	"time"
)

func TestNewFooter(t *testing.T) {
	footer := NewFooter()

	if footer == nil {
		t.Fatal("NewFooter() returned nil")
	}

	if footer.flashMessage != nil {
		t.Error("Expected no flash message initially")
	}
}

func TestFooter_SetFlash(t *testing.T) {
	footer := NewFooter()
	footer.SetWidth(80)

	footer.SetFlash("something went wrong", FlashError)

	if footer.flashMessage == nil {
		t.Fatal("Expected flash message to be set")
	}
	if footer.flashMessage.Duration != DefaultFlashDuration {
		t.Errorf("Expected duration %v, got %v", DefaultFlashDuration, footer.flashMessage.Duration)
	}

	view := stripANSI(footer.View())
	if !strings.Contains(view, "something went wrong") {
		t.Errorf("Flash should replace bindings, got %q", view)
	}
	if strings.Contains(view, "switch pane") {
		t.Error("Bindings should be hidden while flash is showing")
	}
}

func TestFooter_FlashExpiry(t *testing.T) {
	footer := NewFooter()
	footer.SetFlashWithDuration("brief", FlashInfo, 10*time.Millisecond)

	if !footer.TickFlash() {
		t.Error("Flash should still be live immediately")
	}

	footer.flashMessage.SetAt = time.Now().Add(-time.Second)
	if footer.TickFlash() {
		t.Error("Expired flash should clear")
	}
	if footer.HasFlash() {
		t.Error("Flash should be gone after expiry")
	}
}

func TestFooter_ClearFlash(t *testing.T) {
	footer := NewFooter()
	footer.SetFlash("oops", FlashError)

	footer.ClearFlash()

	if footer.HasFlash() {
		t.Error("Flash should clear")
	}
}

func TestFooter_SetWidth(t *testing.T) {
	footer := NewFooter()

	footer.SetWidth(120)

	if footer.width != 120 {
		t.Errorf("Expected width 120, got %d", footer.width)
	}
}

func TestFooter_DefaultBindings(t *testing.T) {
	footer := NewFooter()
	footer.SetWidth(120)

	view := stripANSI(footer.View())

	if !strings.Contains(view, "switch pane") {
		t.Errorf("Expected default bindings, got %q", view)
	}
	if strings.Contains(view, "send") {
		t.Error("Send binding should not show without a conversation")
	}
}

func TestFooter_SidebarBindings(t *testing.T) {
	footer := NewFooter()
	footer.SetWidth(160)
	footer.SetContext(false, true, false, false, false)

	view := stripANSI(footer.View())

	for _, want := range []string{"navigate", "open", "search", "new chat"} {
		if !strings.Contains(view, want) {
			t.Errorf("Expected sidebar binding %q, got %q", want, view)
		}
	}
}

func TestFooter_ChatBindings(t *testing.T) {
	footer := NewFooter()
	footer.SetWidth(160)
	footer.SetContext(true, false, false, false, false)

	view := stripANSI(footer.View())

	for _, want := range []string{"send", "paste image", "retry failed", "scroll"} {
		if !strings.Contains(view, want) {
			t.Errorf("Expected chat binding %q, got %q", want, view)
		}
	}
	if strings.Contains(view, "drop image") {
		t.Error("Drop-image binding should only show with an image staged")
	}
}

func TestFooter_ImageAttachedBinding(t *testing.T) {
	footer := NewFooter()
	footer.SetWidth(180)
	footer.SetContext(true, false, false, false, true)

	view := stripANSI(footer.View())

	if !strings.Contains(view, "drop image") {
		t.Errorf("Expected drop-image binding with staged image, got %q", view)
	}
}

func TestFooter_SearchBindings(t *testing.T) {
	footer := NewFooter()
	footer.SetWidth(120)
	footer.SetContext(false, true, true, false, false)

	view := stripANSI(footer.View())

	if !strings.Contains(view, "apply") || !strings.Contains(view, "clear") {
		t.Errorf("Expected search bindings, got %q", view)
	}
}

func TestFooter_OverlayBindings(t *testing.T) {
	footer := NewFooter()
	footer.SetWidth(120)
	footer.SetContext(false, true, false, true, false)

	view := stripANSI(footer.View())

	if !strings.Contains(view, "start chat") {
		t.Errorf("Expected overlay bindings, got %q", view)
	}
	if strings.Contains(view, "new chat") {
		t.Error("Sidebar bindings should be replaced while the overlay is open")
	}
}
