package hub

// publishPresence recomputes the full online-participant set from the
// registry and publishes it to the room. Presence is always a full-set
// replace, never a join/leave delta: with several tabs per participant,
// deltas are ambiguous (closing one of two tabs must not remove the
// participant), while a recompute from the authoritative registry
// cannot go wrong.
func (h *Hub) publishPresence(key RoomKey) {
	r := h.getRoom(key)
	if r == nil {
		// last connection left and the room was pruned; nobody to tell
		return
	}

	h.Publish(key, PresenceEvent(key, r.online()))
}
