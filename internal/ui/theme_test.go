package ui

import "testing"

func TestGetThemeFallsBackToFirst(t *testing.T) {
	if got := GetTheme("NoSuchTheme"); got.Name != themes[0].Name {
		t.Errorf("GetTheme fallback = %q, want %q", got.Name, themes[0].Name)
	}
	if got := GetTheme("Nord"); got.Name != "Nord" {
		t.Errorf("GetTheme(Nord) = %q", got.Name)
	}
}

func TestNextThemeWraps(t *testing.T) {
	last := themes[len(themes)-1].Name
	if got := NextTheme(last); got != themes[0].Name {
		t.Errorf("NextTheme(%q) = %q, want %q", last, got, themes[0].Name)
	}
	if got := NextTheme("unknown"); got != themes[0].Name {
		t.Errorf("NextTheme(unknown) = %q, want %q", got, themes[0].Name)
	}
}
