package database

import (
	"database/sql"
)

// Column names a mutable field of the users table.
type Column string

// Columns that UpdateFields is allowed to set. uuid and chat_id are immutable.
const (
	ColumnFirstName   Column = "first_name"
	ColumnLastName    Column = "last_name"
	ColumnPhoneNumber Column = "phone_number"
	ColumnVideoFileID Column = "video_file_id"
)

var mutableColumns = map[Column]bool{
	ColumnFirstName:   true,
	ColumnLastName:    true,
	ColumnPhoneNumber: true,
	ColumnVideoFileID: true,
}

// IdentityRecord is the profile collected for a single Telegram chat.
// ID is generated once at creation; ChannelID is the chat it belongs to.
// Every other field stays NULL until the user submits it.
type IdentityRecord struct {
	ID        string `db:"uuid"`
	ChannelID int64  `db:"chat_id"`

	FirstName   sql.NullString `db:"first_name"`
	LastName    sql.NullString `db:"last_name"`
	PhoneNumber sql.NullString `db:"phone_number"`
	VideoFileID sql.NullString `db:"video_file_id"`
}

// Value returns the current value of a mutable column and whether it is set.
func (r *IdentityRecord) Value(col Column) (string, bool) {
	var v sql.NullString
	switch col {
	case ColumnFirstName:
		v = r.FirstName
	case ColumnLastName:
		v = r.LastName
	case ColumnPhoneNumber:
		v = r.PhoneNumber
	case ColumnVideoFileID:
		v = r.VideoFileID
	}
	return v.String, v.Valid
}
