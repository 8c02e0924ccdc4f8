package mapping

// SessionID is the host application's opaque, stable identifier for one
// terminal session.
type SessionID string

// Slot is a 1-based position in the receiver's slot bank.
type Slot int

// Mapping is a complete snapshot of session-to-slot assignments at one
// instant. The receiver treats each delivery as a full replacement, never a
// delta, so a Mapping is always built fresh and never patched.
type Mapping map[SessionID]Slot

// Tab is one tab in a window. A tab hosts one or more sessions (split panes).
type Tab struct {
	Sessions []SessionID
}

// Window is the externally supplied layout snapshot: the focused window's
// tabs in display order.
type Window struct {
	Tabs []Tab
}

// Build assigns slot i to every session in the i-th tab (1-based) for
// ordinals up to maxSlots. Tabs beyond the limit get no slot. A nil window
// (nothing focused) yields an empty mapping; there are no error conditions.
func Build(window *Window, maxSlots int) Mapping {
	result := Mapping{}
	if window == nil || maxSlots <= 0 {
		return result
	}
	for i, tab := range window.Tabs {
		slot := Slot(i + 1)
		if int(slot) > maxSlots {
			break
		}
		for _, session := range tab.Sessions {
			if session == "" {
				continue
			}
			result[session] = slot
		}
	}
	return result
}
