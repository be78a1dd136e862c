package referral

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when no referral exists for the given id.
	ErrNotFound = errors.New("referral not found")
	// ErrInvalidStatus is returned for status values outside the enum.
	ErrInvalidStatus = errors.New("invalid status")
)

// ListFilter narrows a listing. Zero value means no filtering.
type ListFilter struct {
	// Status is an exact-match predicate; empty or "all" bypasses it.
	Status string
	// Query is a case-insensitive substring match against patient_name
	// and insurance.
	Query string
}

// Repository is the persistence contract for referrals. Referrals are
// created once, read many times, and only their status is ever updated;
// there is no delete.
type Repository interface {
	Create(ctx context.Context, ref *Referral) error
	GetByID(ctx context.Context, id int64) (*Referral, error)
	List(ctx context.Context, f ListFilter) ([]*Referral, error)
	UpdateStatus(ctx context.Context, id int64, status Status) error
}
