package terminology

import (
	"time"

	"github.com/google/uuid"
)

// Code maps to the terminology_code table: the lookup vocabulary behind
// reference fields. The form engine only resolves display labels from it;
// it never validates a stored id against it.
type Code struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	System    string     `db:"system" json:"system"`
	Code      string     `db:"code" json:"code"`
	Display   string     `db:"display" json:"display"`
	ParentID  *uuid.UUID `db:"parent_id" json:"parent_id,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}
