package domain

import "time"

// Comment is a reply attached to a ticket thread. A comment cannot exist
// without its owning ticket and is removed with it.
type Comment struct {
	ID        string
	TicketID  string
	Text      string
	Author    string
	CreatedAt time.Time
}
