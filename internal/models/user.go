package models

// Privilege levels. Level 1 staff act only on hearings assigned to them;
// higher levels act on every hearing and may create and delete.
const (
	LevelStaff      = 1
	LevelPrivileged = 2
	LevelAdmin      = 3
	MaxLevel        = LevelAdmin
)

// User represents an application user stored in the users table.
type User struct {
	ID           int64  `db:"id" json:"id"`
	Name         string `db:"name" json:"name"`
	PasswordHash string `db:"password_hash" json:"-"`
	Level        int    `db:"level" json:"level"`
}

// Info strips the credential hash.
func (u User) Info() UserInfo {
	return UserInfo{ID: u.ID, Name: u.Name, Level: u.Level}
}

// UserInfo describes a user without credentials.
type UserInfo struct {
	ID    int64  `db:"id" json:"id"`
	Name  string `db:"name" json:"name"`
	Level int    `db:"level" json:"level"`
}
