package core

// Visible filters msgs down to those user may see, preserving order:
// messages they sent, room broadcasts (kind "message" regardless of
// recipient), messages addressed to them, and anything addressed to the
// broadcast sentinel. Name matching is exact and case-sensitive.
func Visible(user string, msgs []Message) []Message {
	visible := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		if visibleTo(user, m) {
			visible = append(visible, m)
		}
	}
	return visible
}

func visibleTo(user string, m Message) bool {
	return m.From == user || m.Kind == KindMessage || m.To == user || m.To == Broadcast
}

// lastN returns the trailing n entries of msgs. A non-positive n returns
// msgs unchanged.
func lastN(msgs []Message, n int) []Message {
	if n <= 0 || n >= len(msgs) {
		return msgs
	}
	return msgs[len(msgs)-n:]
}
