package core

// dmSeparator joins the two usernames of a DM pair. A username containing
// the separator itself is an accepted edge case, not handled.
const dmSeparator = "_dm_"

// DMChannelID derives the canonical channel id for a direct-message pair.
// It is symmetric in its arguments and stable across restarts: both
// participants compute the identical id regardless of call order.
func DMChannelID(userA, userB string) (string, error) {
	if userA == "" || userB == "" {
		return "", ErrInvalidInput
	}
	if userA > userB {
		userA, userB = userB, userA
	}
	return userA + dmSeparator + userB, nil
}
