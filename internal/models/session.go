package models

import "time"

// Session holds the opaque vendor session tokens. Primary is required for
// any forwarded call; Secondary is attached only when the vendor issued one.
type Session struct {
	Primary   string    `json:"JSESSIONID"`
	Secondary string    `json:"DWRSESSIONID,omitempty"`
	CreatedAt time.Time `json:"-"`
}

// Valid reports whether the session can authenticate a vendor call.
func (s Session) Valid() bool {
	return s.Primary != ""
}
