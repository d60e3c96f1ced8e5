package user

type Profile struct {
	Bio      string `json:"bio,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
	Website  string `json:"website,omitempty"`
	Location string `json:"location,omitempty"`
}

type Verification struct {
	Verified   bool   `json:"verified"`
	VerifiedAt string `json:"verified_at,omitempty"`
}

type Privacy struct {
	PrivateAccount bool `json:"private_account"`
	ShowActivity   bool `json:"show_activity"`
}

type Counts struct {
	Posts     int64 `json:"posts"`
	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
}

type Metadata struct {
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
	LastActiveAt string `json:"last_active_at,omitempty"`
}

type User struct {
	ID           string       `json:"id"`
	Username     string       `json:"username"`
	FullName     string       `json:"full_name,omitempty"`
	Email        string       `json:"email,omitempty"`
	Profile      Profile      `json:"profile"`
	Verification Verification `json:"verification"`
	Privacy      Privacy      `json:"privacy"`
	Counts       Counts       `json:"counts"`
	Metadata     Metadata     `json:"metadata"`
}

// Snapshot is the denormalized actor copy embedded in posts, comments,
// likes, follows and activities at write time. It is never reconciled with
// the live user record.
type Snapshot struct {
	UserID   string `json:"user_id"`
	Username string `json:"username,omitempty"`
	FullName string `json:"full_name,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
	Verified bool   `json:"verified"`
}
