package notifications

// Notification is a single inbox entry. Read only ever moves from false to true.
type Notification struct {
	Text string `json:"text" yaml:"text"`
	Read bool   `json:"read" yaml:"read"`
}

// UnreadCount returns the number of entries with Read unset.
func UnreadCount(list []Notification) int {
	n := 0
	for _, item := range list {
		if !item.Read {
			n++
		}
	}
	return n
}
