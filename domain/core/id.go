package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	// Use UUID v7 for time-ordered, sortable IDs
	// Falls back to v4 if v7 is not available (for compatibility)
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	PaperID ID
	PlanID  ID
	RunID   ID
	AssetID ID
)

// String conversions for domain IDs
func (id PaperID) String() string { return ID(id).String() }
func (id PlanID) String() string  { return ID(id).String() }
func (id RunID) String() string   { return ID(id).String() }
func (id AssetID) String() string { return ID(id).String() }

// ParsePlanID parses a string into PlanID
func ParsePlanID(s string) (PlanID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("plan ID cannot be empty")
	}
	return PlanID(s), nil
}

// ParsePaperID parses a string into PaperID
func ParsePaperID(s string) (PaperID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("paper ID cannot be empty")
	}
	return PaperID(s), nil
}
