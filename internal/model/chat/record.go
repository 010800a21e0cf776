package chat

import "time"

// Record persists one user/assistant exchange. The timestamp doubles as the
// record's identifier within an owner's log.
type Record struct {
	Email      string `json:"email"`
	Message    string `json:"message"`
	AIResponse string `json:"aiResponse"`
	Timestamp  string `json:"timestamp"`
}

// Document is the on-disk shape of the chat log file.
type Document struct {
	History []Record `json:"chatHistory"`
}

// Time parses the record timestamp. Records with an unparseable timestamp
// sort as the zero time.
func (r Record) Time() time.Time {
	t, err := time.Parse(time.RFC3339Nano, r.Timestamp)
	if err != nil {
		return time.Time{}
	}
	return t
}
