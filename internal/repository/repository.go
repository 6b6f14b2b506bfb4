package repository

import (
	"context"
	"database/sql"
	"time"

	"bms_proxy/internal/models"
)

type Operators interface {
	Create(username, hash string) (int, error)
	GetByUsername(username string) (*models.Operator, error)
}

type SnapshotRepo interface {
	Save(ctx context.Context, s models.DeviceStatus) error
	Load(ctx context.Context) (models.DeviceStatus, error)
}

type EventRepo interface {
	Append(ctx context.Context, e models.CommandEvent) error
	List(ctx context.Context, from, to time.Time, typ string) ([]models.CommandEvent, error)
}

type Repository struct {
	Snapshot  SnapshotRepo
	EventRepo EventRepo
	Operators Operators
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Snapshot:  NewSnapshotSQLite(db),
		EventRepo: NewEventSQLite(db),
		Operators: NewOperatorRepository(db),
	}
}
