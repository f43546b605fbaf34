package cms

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrNotFound reports that a referenced article, category, tag or user
	// does not exist.
	ErrNotFound = errors.New("cms: not found")
	// ErrConflict reports that a storage-level uniqueness constraint fired,
	// typically because a concurrent request raced ahead. The whole operation
	// has been rolled back and may be retried once after re-resolving.
	ErrConflict = errors.New("cms: conflict")
)

// FieldErrors aggregates user-correctable validation failures for one
// article submission. All applicable errors are collected and returned
// together rather than failing on the first one.
type FieldErrors struct {
	Title    []string            `json:"title,omitempty"`
	Content  []string            `json:"content,omitempty"`
	Category []string            `json:"category,omitempty"`
	Tags     map[string][]string `json:"tags,omitempty"`
}

func (e *FieldErrors) addTag(name, msg string) {
	if e.Tags == nil {
		e.Tags = map[string][]string{}
	}
	e.Tags[name] = append(e.Tags[name], msg)
}

// HasErrors reports whether any field collected at least one error.
func (e *FieldErrors) HasErrors() bool {
	return len(e.Title) > 0 || len(e.Content) > 0 || len(e.Category) > 0 || len(e.Tags) > 0
}

// translate maps gorm storage errors onto the package taxonomy. Requires the
// dialector's error translation to be enabled (TranslateError in gorm.Config).
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrConflict
	default:
		return err
	}
}
