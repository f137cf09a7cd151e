// Package repository provides a generic gorm-backed store shared by all
// feature services.
package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/smallbiznis/ticketline/pkg/db/option"
)

// Repository is the generic persistence contract. FindOne returns
// (nil, nil) when no row matches so callers can map absence to their own
// domain error.
type Repository[T any] interface {
	WithTrx(tx *gorm.DB) Repository[T]
	Find(ctx context.Context, query *T, opts ...option.QueryOption) ([]*T, error)
	FindOne(ctx context.Context, query *T, opts ...option.QueryOption) (*T, error)
	Create(ctx context.Context, resource *T) error
	Update(ctx context.Context, resourceID string, resource any) error
	Delete(ctx context.Context, resourceID string) error
	Count(ctx context.Context, query *T) (int64, error)
	BatchCreate(ctx context.Context, resources []*T) error
	BatchUpdate(ctx context.Context, resources []*T) error
}
