package config

import "strings"

// Keybinding represents a single keybinding entry
type Keybinding struct {
	Key         string
	Description string
}

// KeybindingSection represents a section of related keybindings
type KeybindingSection struct {
	Title    string
	Bindings []Keybinding
}

// KeybindRegistry resolves copy-mode actions to their configured keys.
type KeybindRegistry struct {
	bindings map[string][]string
	// reverse maps a key to its action for O(1) dispatch
	reverse map[string]string
}

// NewKeybindRegistry builds a registry from user config, falling back to
// defaults for actions the user left unbound.
func NewKeybindRegistry(cfg *Config) *KeybindRegistry {
	bindings := DefaultConfig().Keybindings
	if cfg != nil {
		for action, keys := range cfg.Keybindings {
			if len(keys) > 0 {
				bindings[action] = keys
			}
		}
	}

	reverse := make(map[string]string)
	for action, keys := range bindings {
		for _, key := range keys {
			reverse[key] = action
		}
	}
	return &KeybindRegistry{bindings: bindings, reverse: reverse}
}

// GetKeys returns the keys bound to an action.
func (r *KeybindRegistry) GetKeys(action string) []string {
	return r.bindings[action]
}

// ActionFor returns the action a key is bound to, or "".
func (r *KeybindRegistry) ActionFor(key string) string {
	return r.reverse[key]
}

// GetKeysForDisplay returns an action's keys joined for help rendering.
func (r *KeybindRegistry) GetKeysForDisplay(action string) string {
	return strings.Join(r.bindings[action], ", ")
}

// GetKeybindings returns the help overlay sections. With a registry the
// copy-mode section reflects the user's actual bindings; without one the
// defaults are shown.
func GetKeybindings(registry *KeybindRegistry) []KeybindingSection {
	if registry == nil {
		registry = NewKeybindRegistry(nil)
	}

	copyMode := KeybindingSection{Title: "COPY MODE"}
	addBinding(&copyMode, registry, "scroll_up", "Scroll up one line")
	addBinding(&copyMode, registry, "scroll_down", "Scroll down one line")
	addBinding(&copyMode, registry, "page_up", "Scroll up half a screen")
	addBinding(&copyMode, registry, "page_down", "Scroll down half a screen")
	addBinding(&copyMode, registry, "go_to_top", "Go to oldest line")
	addBinding(&copyMode, registry, "go_to_bottom", "Go to newest line (exit)")
	addBinding(&copyMode, registry, "copy_selection", "Copy selection")
	addBinding(&copyMode, registry, "clear_selection", "Clear selection")
	addBinding(&copyMode, registry, "exit_copy_mode", "Exit copy mode")

	return []KeybindingSection{
		copyMode,
		{
			Title: "MOUSE",
			Bindings: []Keybinding{
				{"Wheel ↑", "Enter copy mode"},
				{"Drag", "Select text"},
				{"Double click", "Select word"},
				{"Shift+Click", "Focus pane"},
			},
		},
		{
			Title: "TOUCH",
			Bindings: []Keybinding{
				{"Swipe", "Scroll with momentum"},
				{"Tap", "Stop coasting"},
			},
		},
	}
}

// addBinding appends an entry when the action has keys configured.
func addBinding(section *KeybindingSection, registry *KeybindRegistry, action, description string) {
	keys := registry.GetKeysForDisplay(action)
	if keys != "" {
		section.Bindings = append(section.Bindings, Keybinding{
			Key:         keys,
			Description: description,
		})
	}
}
