package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/trailtrack/apiserver/internal/storage"
	"github.com/trailtrack/apiserver/internal/store"
	"github.com/trailtrack/apiserver/types"
)

const exportContentType = "application/json"

// ObjectStore is satisfied by *storage.Storage.
type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// ExportSources are the repositories an export snapshots.
type ExportSources struct {
	Accounts   AccountRepository
	Contacts   ContactRepository
	Leads      LeadRepository
	Activities ActivityRepository
	Tasks      TaskRepository
}

// ExportService writes JSON snapshots of a user's records to object
// storage and reads them back.
type ExportService struct {
	objects ObjectStore
	sources ExportSources
}

func NewExportService(objects ObjectStore, sources ExportSources) *ExportService {
	return &ExportService{objects: objects, sources: sources}
}

// ExportKey is the object key of an export. It always includes the owner,
// so one user cannot address another user's export.
func ExportKey(ownerID int, exportID string) string {
	return fmt.Sprintf("exports/%d/%s.json", ownerID, exportID)
}

// Create snapshots every record owned by ownerID and stores it.
func (s *ExportService) Create(ctx context.Context, ownerID int) (types.Export, error) {
	doc, err := s.snapshot(ctx, ownerID)
	if err != nil {
		return types.Export{}, err
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return types.Export{}, fmt.Errorf("encode export: %w", err)
	}

	export := types.Export{
		ID:        uuid.NewString(),
		Size:      int64(len(data)),
		CreatedAt: doc.ExportedAt,
	}
	export.Key = ExportKey(ownerID, export.ID)

	if err := s.objects.Put(ctx, export.Key, bytes.NewReader(data), export.Size, exportContentType); err != nil {
		return types.Export{}, fmt.Errorf("store export: %w", err)
	}
	return export, nil
}

// Open returns a reader for a stored export. Unknown or malformed ids
// yield store.ErrNotFound.
func (s *ExportService) Open(ctx context.Context, ownerID int, exportID string) (io.ReadCloser, error) {
	id, err := uuid.Parse(exportID)
	if err != nil {
		return nil, store.ErrNotFound
	}

	r, err := s.objects.Get(ctx, ExportKey(ownerID, id.String()))
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("open export: %w", err)
	}
	return r, nil
}

// Delete removes a stored export.
func (s *ExportService) Delete(ctx context.Context, ownerID int, exportID string) error {
	id, err := uuid.Parse(exportID)
	if err != nil {
		return store.ErrNotFound
	}

	if err := s.objects.Delete(ctx, ExportKey(ownerID, id.String())); err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return store.ErrNotFound
		}
		return fmt.Errorf("delete export: %w", err)
	}
	return nil
}

func (s *ExportService) snapshot(ctx context.Context, ownerID int) (types.ExportDocument, error) {
	doc := types.ExportDocument{ExportedAt: time.Now().UTC()}

	var err error
	if doc.Accounts, err = s.sources.Accounts.List(ctx, ownerID); err != nil {
		return doc, fmt.Errorf("list accounts: %w", err)
	}
	if doc.Contacts, err = s.sources.Contacts.List(ctx, ownerID); err != nil {
		return doc, fmt.Errorf("list contacts: %w", err)
	}
	if doc.Leads, err = s.sources.Leads.List(ctx, ownerID); err != nil {
		return doc, fmt.Errorf("list leads: %w", err)
	}
	if doc.Activities, err = s.sources.Activities.List(ctx, ownerID, nil); err != nil {
		return doc, fmt.Errorf("list activities: %w", err)
	}
	if doc.Tasks, err = s.sources.Tasks.List(ctx, ownerID); err != nil {
		return doc, fmt.Errorf("list tasks: %w", err)
	}
	return doc, nil
}
