// Package store implements the voucher write path: computing
// embeddings for a new or updated voucher, validating it, and writing
// the result to the index. Per-voucher upsert plus a batch path for
// seeding that upserts one voucher at a time.
package store

import (
	"context"
	"fmt"

	"github.com/vnvoucher/discovery/app/models"
	"github.com/vnvoucher/discovery/internal/embedding"
	"github.com/vnvoucher/discovery/internal/index"
	"github.com/vnvoucher/discovery/internal/location"
	"go.uber.org/zap"
)

const batchChunkSize = 500

// Store is the voucher write path: embed missing fields, compute the
// combined vector, validate, and write to the index. The location
// registry backs ingest-time validation — a voucher whose location is
// neither "unknown" nor a canonical registry name is a data bug and
// is rejected at the write, not reconciled at query time.
type Store struct {
	index    index.Index
	embed    embedding.Provider
	registry *location.Registry
	logger   *zap.Logger
}

func New(idx index.Index, embed embedding.Provider, registry *location.Registry, logger *zap.Logger) *Store {
	return &Store{index: idx, embed: embed, registry: registry, logger: logger}
}

// Upsert computes any embeddings missing from v.Embeddings, rebuilds
// the combined vector, validates, and writes the document to the
// index. Callers that already computed embeddings upstream may pass a
// voucher with all fields set; Upsert will not recompute an embedding
// that is already present.
func (s *Store) Upsert(ctx context.Context, v models.Voucher) error {
	if err := s.validateLocation(v); err != nil {
		return err
	}

	if v.Embeddings == nil {
		v.Embeddings = make(map[string][]float32)
	}

	fieldText := map[string]string{
		models.FieldContent:  v.Content,
		models.FieldName:     v.Name,
		models.FieldLocation: v.Location,
		models.FieldService:  serviceText(v.Service),
		models.FieldTarget:   v.TargetAudience,
	}
	for field, text := range fieldText {
		if _, ok := v.Embeddings[field]; ok {
			continue
		}
		if text == "" {
			continue
		}
		vec, err := s.embed.Encode(ctx, text)
		if err != nil {
			return models.NewEmbeddingUnavailable(fmt.Errorf("encode %s field for voucher %s: %w", field, v.ID, err))
		}
		v.Embeddings[field] = vec
	}

	combined, err := models.ComputeCombinedEmbedding(v.Embeddings)
	if err != nil {
		return models.NewInvalidDocument(fmt.Errorf("voucher %s: %w", v.ID, err))
	}
	v.Embeddings[models.FieldCombined] = combined

	if v.PriceRange == "" {
		v.PriceRange = models.PriceRangeFor(v.Price)
	}
	if v.Location == "" {
		v.Location = models.LocationUnknown
	}

	if err := v.Validate(s.embed.Dimension()); err != nil {
		return models.NewInvalidDocument(err)
	}

	if err := s.index.Upsert(ctx, index.FromVoucher(v)); err != nil {
		return models.NewIndexUnavailable(fmt.Errorf("upsert voucher %s: %w", v.ID, err))
	}
	return nil
}

// UpsertBatch upserts vouchers one at a time through Upsert, logging
// progress after every batchChunkSize vouchers. It stops at the
// first error, returning how many vouchers were written successfully
// before the failure.
func (s *Store) UpsertBatch(ctx context.Context, vouchers []models.Voucher) (int, error) {
	written := 0
	for start := 0; start < len(vouchers); start += batchChunkSize {
		end := start + batchChunkSize
		if end > len(vouchers) {
			end = len(vouchers)
		}
		for _, v := range vouchers[start:end] {
			if err := s.Upsert(ctx, v); err != nil {
				return written, fmt.Errorf("batch upsert stopped at voucher %s (index %d): %w", v.ID, written, err)
			}
			written++
		}
		s.logger.Info("batch upsert progress", zap.Int("written", written), zap.Int("total", len(vouchers)))
	}
	return written, nil
}

// validateLocation enforces that a non-empty location is either the
// literal "unknown" or exactly a canonical registry name. Surface
// forms and aliases ("hanoi", "tp hcm") are rejected too: ingestion
// is expected to canonicalize before writing, and accepting aliases
// here would let the same city land in the index under several
// spellings.
func (s *Store) validateLocation(v models.Voucher) error {
	if v.Location == "" || v.Location == models.LocationUnknown {
		return nil
	}
	canon, ok := s.registry.Resolve(v.Location)
	if !ok || canon != v.Location {
		return models.NewInvalidDocument(fmt.Errorf("voucher %s location %q is not a canonical location name", v.ID, v.Location))
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.index.Delete(ctx, id); err != nil {
		return models.NewIndexUnavailable(fmt.Errorf("delete voucher %s: %w", id, err))
	}
	return nil
}

func serviceText(svc models.Service) string {
	text := svc.Category
	if svc.CuisineOrSubtype != "" {
		text += " " + svc.CuisineOrSubtype
	}
	if svc.RestaurantType != "" {
		text += " " + svc.RestaurantType
	}
	for _, tag := range svc.Tags {
		text += " " + tag
	}
	return text
}
