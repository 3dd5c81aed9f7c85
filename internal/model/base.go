package model

import (
	"time"

	"github.com/google/uuid"
)

type BaseModel struct {
	ID        string    `db:"id" json:"id"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// ValidID reports whether id can name a stored row. Every id column is a
// UUID and ids are compared as stored, so only the canonical lowercase form
// is accepted; anything else is answered without a query.
func ValidID(id string) bool {
	u, err := uuid.Parse(id)
	return err == nil && u.String() == id
}
