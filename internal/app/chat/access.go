package chat

// authorizeDelete is the ownership rule of the deletion path: only the author
// of a message may remove it. System status events carry the participant's
// name as author, so even those follow the same rule.
func authorizeDelete(m Message, requester string) bool {
	return requester != "" && m.From == requester
}
