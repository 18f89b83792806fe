package models

import "time"

type Subscriber struct {
	ID                 int        `json:"id"`
	Email              string     `json:"email"`
	Verified           bool       `json:"verified"`
	VerifyToken        *string    `json:"-"`
	VerifyTokenExpires *time.Time `json:"-"`
}
