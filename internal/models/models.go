package models

import "time"

// Model is a record persisted with soft deletes.
type Model interface {
	ID() string
	CreatedAt() time.Time
	UpdatedAt() time.Time
	Validate() error // checked before every insert and update
}

// Repository is CRUD access for one [Model] type.
//
// Get and List never return soft-deleted rows.
type Repository[T Model] interface {
	Create(model T) error
	Get(id string) (T, error)
	Update(model T) error
	Delete(id string) error
	List(criteria map[string]any) ([]T, error)
}
