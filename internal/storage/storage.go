package storage

import (
	"context"

	"liquidityPool/internal/model"
)

// Storage defines a sink for committed operation records.
type Storage interface {
	PutOperationBatch(ctx context.Context, records []model.OperationRecord) error
}
