package domain

import "time"

// Project is a fundraising campaign. CurrentAmount only ever grows and is
// updated exclusively by the payment callback receiver.
type Project struct {
	ID            string
	Title         string
	Description   string
	GoalAmount    int64
	CurrentAmount int64
	ImageKey      string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
