package repository

import (
	"context"

	"tratativas/internal/model"
)

// TratativaRepository defines data access for tratativa records using SQL queries only.
// No business logic here — strictly persistence operations.
type TratativaRepository interface {
	// Create inserts a new tratativa row.
	// The caller should provide required fields (e.g., ID, CreatedAt) according to the database schema defaults.
	// Returns the stored record (may include values set by the DB).
	Create(ctx context.Context, t *model.Tratativa) (*model.Tratativa, error)

	// FindByID returns a tratativa by its ID.
	FindByID(ctx context.Context, id string) (*model.Tratativa, error)

	// List returns a paginated list of tratativas and total rows count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Tratativa], error)

	// ListPending returns tratativas that have no published document yet
	// (document_url IS NULL), oldest first.
	ListPending(ctx context.Context, pq PageQuery) (*PageResult[model.Tratativa], error)

	// SetDocumentURL writes the published document URL onto the record.
	// It returns sql.ErrNoRows when the id does not match exactly one row,
	// so callers can distinguish a missing record from a transport failure.
	SetDocumentURL(ctx context.Context, id, url string) (*model.Tratativa, error)
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}
