package entity

import (
	"time"

	"github.com/google/uuid"
)

// Category groups products. Categories form a tree through ParentID.
type Category struct {
	ID          uuid.UUID
	Name        string
	Description string
	ParentID    *uuid.UUID
	Icon        string
	Image       *Image
	Featured    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
