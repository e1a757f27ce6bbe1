package app

import (
	"slices"
	"strings"

	"github.com/treykane/ward-roster/internal/config"
)

// ---------------------------------------------------------------------------
// Action constants
// ---------------------------------------------------------------------------
//
// Each constant below identifies a user-triggerable action. Actions are the
// abstraction layer between physical key presses and application behavior:
// the user presses a key, the key is looked up in the keyToAction map, and the
// resulting action string is dispatched in handleKey.
//
// Default key assignments are declared in defaultActionKeys. Users can
// override any assignment via the "keybindings" map in config.json.
// ---------------------------------------------------------------------------

const (
	// actionCursorUp moves the roster selection up by one patient.
	actionCursorUp = "roster.cursor.up"

	// actionCursorDown moves the roster selection down by one patient.
	actionCursorDown = "roster.cursor.down"

	// actionPageUp scrolls the roster up by one viewport and selects the
	// first patient on screen.
	actionPageUp = "roster.page.up"

	// actionPageDown scrolls the roster down by one viewport and selects the
	// first patient on screen.
	actionPageDown = "roster.page.down"

	// actionJumpTop selects the first loaded patient.
	actionJumpTop = "roster.jump.top"

	// actionJumpBottom selects the last loaded patient. Reaching the end of
	// the roster asks for the next page.
	actionJumpBottom = "roster.jump.bottom"

	// actionScrollUp scrolls the roster one row up without moving the
	// selection.
	actionScrollUp = "roster.scroll.up"

	// actionScrollDown scrolls the roster one row down without moving the
	// selection.
	actionScrollDown = "roster.scroll.down"

	// actionChartHalfUp scrolls the chart pane up by half a page.
	actionChartHalfUp = "chart.scroll.half_up"

	// actionChartHalfDown scrolls the chart pane down by half a page.
	actionChartHalfDown = "chart.scroll.half_down"

	// actionRefresh drops every measured row height, retries paging after
	// fetch failures and re-renders the roster.
	actionRefresh = "roster.refresh"

	// actionHelp toggles the in-app keyboard shortcut reference panel.
	actionHelp = "help.toggle"

	// actionQuit exits the application.
	actionQuit = "app.quit"
)

// defaultActionKeys maps each action to its factory-default key bindings.
//
// Key strings use the Bubble Tea notation:
//   - Modifier keys: "ctrl+", "alt+", "shift+"
//   - Special keys: "enter", "esc", "up", "down", "pgup", "pgdown", "home", "end"
//   - Single characters: "j", "k", "?", etc.
var defaultActionKeys = map[string][]string{
	actionCursorUp:      {"up", "k"},
	actionCursorDown:    {"down", "j", "ctrl+n"},
	actionPageUp:        {"pgup", "ctrl+b"},
	actionPageDown:      {"pgdown", "ctrl+f"},
	actionJumpTop:       {"home", "g"},
	actionJumpBottom:    {"end", "shift+g"},
	actionScrollUp:      {"ctrl+y"},
	actionScrollDown:    {"ctrl+e"},
	actionChartHalfUp:   {"ctrl+u"},
	actionChartHalfDown: {"ctrl+d"},
	actionRefresh:       {"ctrl+r", "shift+r"},
	actionHelp:          {"?"},
	actionQuit:          {"q", "ctrl+c"},
}

// ---------------------------------------------------------------------------
// Keybinding initialization
// ---------------------------------------------------------------------------

// loadKeybindings initializes the bidirectional key↔action maps from
// defaultActionKeys and the "keybindings" object in config.json, which takes
// precedence.
//
// Unknown action names in user overrides are logged as warnings and ignored.
// An override replaces the action's full default key set. Key conflicts (two
// actions mapped to the same key) are also logged as warnings; the first
// action to claim a key wins.
func (m *Model) loadKeybindings(cfg config.Config) {
	m.keyForAction = map[string][]string{}
	for action, keys := range defaultActionKeys {
		m.keyForAction[action] = append([]string(nil), keys...)
	}
	for action, key := range cfg.Keybindings {
		m.applyKeybindingOverride(action, key)
	}
	m.rebuildActionKeyIndex()
}

// applyKeybindingOverride updates a single action's key binding, replacing the
// action's full default key set.
//
// Both the action and key are trimmed and normalized. If the action string
// is not recognized, the override is ignored and a warning is logged so typos
// in config files do not fail silently.
func (m *Model) applyKeybindingOverride(action, key string) {
	action = strings.TrimSpace(action)
	key = normalizeKeyString(key)
	if action == "" || key == "" {
		return
	}
	if _, ok := defaultActionKeys[action]; !ok {
		appLog.Warn("ignore unknown keybinding action", "action", action)
		return
	}
	m.keyForAction[action] = []string{key}
}

// rebuildActionKeyIndex constructs the reverse lookup map (keyToAction) from
// the current keyForAction map.
//
// Actions are visited in sorted order so that, when two actions claim the
// same key, the winner does not depend on map iteration order.
func (m *Model) rebuildActionKeyIndex() {
	m.keyToAction = map[string]string{}
	actions := make([]string, 0, len(m.keyForAction))
	for action := range m.keyForAction {
		actions = append(actions, action)
	}
	slices.Sort(actions)
	for _, action := range actions {
		for _, key := range m.keyForAction[action] {
			if key == "" {
				continue
			}
			if existing, ok := m.keyToAction[key]; ok && existing != action {
				appLog.Warn("keybinding conflict ignored", "key", key, "action", action, "existing_action", existing)
				continue
			}
			m.keyToAction[key] = action
		}
	}
}

// ---------------------------------------------------------------------------
// Key string normalization
// ---------------------------------------------------------------------------

// normalizeKeyString converts a user-provided key string into the canonical
// lowercase form used internally by Bubble Tea and the keybinding maps.
//
// Normalization rules:
//   - Whitespace is trimmed.
//   - The entire string is lowercased (Bubble Tea reports keys in lowercase).
//   - A single uppercase letter (e.g. "Y") is converted to "shift+y" because
//     Bubble Tea may report shifted letter keys as uppercase runes. This
//     ensures that both "Y" and "shift+y" in config files produce the same
//     internal representation.
//
// Examples:
//
//	normalizeKeyString("Ctrl+P")  → "ctrl+p"
//	normalizeKeyString(" Y ")     → "shift+y"
//	normalizeKeyString("shift+l") → "shift+l"
//	normalizeKeyString("")        → ""
func normalizeKeyString(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}
	// Bubble Tea may report uppercase single rune keys for shifted letters.
	// Normalize "Y" → "shift+y" so config files can use either form.
	if len([]rune(key)) == 1 && strings.ToUpper(key) == key && strings.ToLower(key) != key {
		return "shift+" + strings.ToLower(key)
	}
	return strings.ToLower(key)
}

// actionForKey looks up the action bound to the given key string.
//
// The key is normalized before lookup to ensure consistent matching
// regardless of how the terminal reports the key event. Returns an empty
// string if no action is bound to the key.
func (m *Model) actionForKey(key string) string {
	if m.keyToAction == nil {
		return ""
	}
	return m.keyToAction[normalizeKeyString(key)]
}

func (m *Model) actionKeyLabels(action string) []string {
	keys, ok := m.keyForAction[action]
	if !ok || len(keys) == 0 {
		return nil
	}
	labels := make([]string, 0, len(keys))
	for _, key := range keys {
		label := humanizeKeyLabel(key)
		if label == "" {
			continue
		}
		if slices.Contains(labels, label) {
			continue
		}
		labels = append(labels, label)
	}
	return labels
}

func (m *Model) primaryActionKey(action, fallback string) string {
	keys := m.actionKeyLabels(action)
	if len(keys) == 0 {
		return fallback
	}
	return keys[0]
}

func (m *Model) allActionKeys(action, fallback string) string {
	keys := m.actionKeyLabels(action)
	if len(keys) == 0 {
		return fallback
	}
	return strings.Join(keys, ", ")
}

func humanizeKeyLabel(key string) string {
	normalized := normalizeKeyString(key)
	if normalized == "" {
		return ""
	}
	special := map[string]string{
		"up":        "↑",
		"down":      "↓",
		"left":      "←",
		"right":     "→",
		"enter":     "Enter",
		"esc":       "Esc",
		"tab":       "Tab",
		"home":      "Home",
		"end":       "End",
		"pgup":      "PgUp",
		"pgdown":    "PgDn",
		"space":     "Space",
		"backspace": "Backspace",
	}
	parts := strings.Split(normalized, "+")
	for i, part := range parts {
		switch part {
		case "ctrl":
			parts[i] = "Ctrl"
		case "alt":
			parts[i] = "Alt"
		case "shift":
			parts[i] = "Shift"
		default:
			if label, ok := special[part]; ok {
				parts[i] = label
				continue
			}
			runes := []rune(part)
			if len(runes) == 1 && runes[0] >= 'a' && runes[0] <= 'z' {
				parts[i] = strings.ToUpper(part)
			} else {
				parts[i] = strings.ToUpper(part[:1]) + part[1:]
			}
		}
	}
	return strings.Join(parts, "+")
}
