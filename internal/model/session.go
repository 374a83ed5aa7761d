package model

import "time"

// Session identifies the logged-in user of this store. There is at most one.
// Username and Role are snapshots refreshed whenever the user changes their
// own username or role.
type Session struct {
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Role      Role      `json:"role"`
	LoginTime time.Time `json:"loginTime"`
}
