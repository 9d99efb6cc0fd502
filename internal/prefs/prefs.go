// Package prefs persists user preferences in a storage.Store.
package prefs

import (
	"fmt"
	"strconv"

	"tasknest/internal/storage"
)

// Theme names.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// DarkMode reports whether dark mode is on. Unset or unreadable values mean off.
func DarkMode(s storage.Store) (bool, error) {
	raw, ok, err := s.Get(storage.KeyDarkMode)
	if err != nil || !ok {
		return false, err
	}
	on, err := strconv.ParseBool(raw)
	if err != nil {
		return false, nil
	}
	return on, nil
}

// SetDarkMode stores the dark mode flag.
func SetDarkMode(s storage.Store, on bool) error {
	if err := s.Set(storage.KeyDarkMode, strconv.FormatBool(on)); err != nil {
		return fmt.Errorf("save dark mode: %w", err)
	}
	return nil
}

// ToggleDarkMode flips the flag and returns the new value.
func ToggleDarkMode(s storage.Store) (bool, error) {
	on, err := DarkMode(s)
	if err != nil {
		return false, err
	}
	if err := SetDarkMode(s, !on); err != nil {
		return on, err
	}
	return !on, nil
}

// ThemeName returns "dark" or "light".
func ThemeName(dark bool) string {
	if dark {
		return ThemeDark
	}
	return ThemeLight
}
