package types

import "time"

type UserResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// ProfileResponse carries every profile and preference field except the
// password hash.
type ProfileResponse struct {
	ID          uint      `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	CreatedAt   time.Time `json:"created_at"`
	ProfilePic  string    `json:"profile_pic"`
	NotifyPush  bool      `json:"notify_push"`
	NotifyEmail bool      `json:"notify_email"`
	Theme       string    `json:"theme"`
	DefaultView string    `json:"default_view"`
	Language    string    `json:"language"`
}
