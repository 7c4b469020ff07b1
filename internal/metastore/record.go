package metastore

import (
	"time"

	"nathanbeddoewebdev/dirctl/internal/domain"
)

// Entry is the last-known state of one directory entity.
type Entry struct {
	ID           int64             `json:"id" yaml:"id"`
	EntityType   domain.EntityType `json:"entity_type" yaml:"entity_type"`
	EntityName   string            `json:"entity_name" yaml:"entity_name"`
	Fingerprint  string            `json:"fingerprint" yaml:"fingerprint"`
	SnapshotJSON string            `json:"snapshot_json" yaml:"snapshot_json"`
	LastSync     time.Time         `json:"last_sync" yaml:"last_sync"`
}
