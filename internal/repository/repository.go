package repository

import (
	"context"

	"CapIot.energyportal/internal/models"
)

// ReadingSource yields a read-only snapshot of a product's usage readings.
type ReadingSource interface {
	FetchTree(ctx context.Context, productID string) (models.ReadingTree, error)
}

// ReadingWriter stores meter readings.
type ReadingWriter interface {
	WriteReading(ctx context.Context, reading models.PowerReading) error
}
