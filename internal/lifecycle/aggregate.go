package lifecycle

// TicketStatus derives a ticket's overall state from its job cards.
//
//   - every card COMPLETED or CANCEL: COMPLETED
//   - otherwise any card TRAVELING, STARTED or ON_HOLD: STARTED
//   - otherwise the current status is kept
//
// A ticket an administrator cancelled stays cancelled. A ticket with no
// cards keeps its status.
func TicketStatus(current Status, cards []Status) Status {
	if current == StatusCancel || len(cards) == 0 {
		return current
	}

	allClosed := true
	anyActive := false
	for _, s := range cards {
		if !s.IsTerminal() {
			allClosed = false
		}
		if s.IsActive() {
			anyActive = true
		}
	}

	switch {
	case allClosed:
		return StatusCompleted
	case anyActive:
		return StatusStarted
	default:
		return current
	}
}
