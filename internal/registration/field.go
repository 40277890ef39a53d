package registration

import (
	"regexp"
	"strings"

	"github.com/edgard/enrollbot/internal/database"
)

// Field describes one profile value a user can submit.
type Field struct {
	// Label is the prefix users type, e.g. "first_name".
	Label string
	// DisplayName is used in replies, e.g. "first name".
	DisplayName string
	// Column is where the value is stored.
	Column database.Column

	prefix  *regexp.Regexp
	pattern *regexp.Regexp
}

func newTextField(label, displayName string, col database.Column) *Field {
	quoted := regexp.QuoteMeta(label)
	return &Field{
		Label:       label,
		DisplayName: displayName,
		Column:      col,
		prefix:      regexp.MustCompile(`(?i)^` + quoted + `:`),
		pattern:     regexp.MustCompile(`(?i)^` + quoted + `:\s*(.+)$`),
	}
}

// Profile fields. Video has no label: it is recognised by the attachment type.
var (
	FirstName   = newTextField("first_name", "first name", database.ColumnFirstName)
	LastName    = newTextField("last_name", "last name", database.ColumnLastName)
	PhoneNumber = newTextField("phone_number", "phone number", database.ColumnPhoneNumber)
	Video       = &Field{Label: "video", DisplayName: "video", Column: database.ColumnVideoFileID}
)

// TextFields returns the labelled fields in routing priority order.
func TextFields() []*Field {
	return []*Field{LastName, FirstName, PhoneNumber}
}

// Fields returns every profile field in display order.
func Fields() []*Field {
	return []*Field{FirstName, LastName, PhoneNumber, Video}
}

// IsText reports whether the field is submitted as a labelled text message.
func (f *Field) IsText() bool {
	return f.pattern != nil
}

// HasLabel reports whether text is addressed to this field, i.e. starts with
// "<label>:" ignoring case. It says nothing about whether the value is valid.
func (f *Field) HasLabel(text string) bool {
	return f.prefix != nil && f.prefix.MatchString(text)
}

// Extract returns the submitted value: the text after "<label>:" with
// surrounding whitespace removed. It returns ErrFormat when the text does not
// match or the value is blank.
func (f *Field) Extract(text string) (string, error) {
	if f.pattern == nil {
		return "", ErrFormat
	}
	match := f.pattern.FindStringSubmatch(text)
	if match == nil {
		return "", ErrFormat
	}
	value := strings.TrimSpace(match[1])
	if value == "" {
		return "", ErrFormat
	}
	return value, nil
}
