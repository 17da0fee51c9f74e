// AngelaMos | 2026
// dto.go

package entry

// CreateEntryRequest is the payload for creating a contact entry. ID
// and DateAdded are optional; well-formed values are kept and anything
// else is replaced server-side. UserID is accepted for wire
// compatibility but ignored: ownership always comes from the
// authenticated caller.
type CreateEntryRequest struct {
	ID        string `json:"id"        validate:"omitempty,max=64"`
	Name      string `json:"name"      validate:"required,max=255"`
	Mobile    string `json:"mobile"    validate:"required,max=32"`
	Address   string `json:"address"   validate:"required,max=500"`
	DateAdded string `json:"dateAdded" validate:"omitempty,max=64"`
	UserID    string `json:"userId"    validate:"-"`
}

// UpdateEntryRequest carries a partial entry update. Nil fields stay
// untouched; id, userId and dateAdded cannot be changed through any
// payload. ExpectedDateModified, when present, must equal the stored
// dateModified (empty string for a never-modified entry) or the update
// is rejected as a conflict.
type UpdateEntryRequest struct {
	Name                 *string `json:"name"    validate:"omitempty,min=1,max=255"`
	Mobile               *string `json:"mobile"  validate:"omitempty,max=32"`
	Address              *string `json:"address" validate:"omitempty,min=1,max=500"`
	ExpectedDateModified *string `json:"expectedDateModified"`
}
