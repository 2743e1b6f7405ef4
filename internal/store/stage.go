// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/paperwatch/pkg/types"
)

// manifestKey is the reserved key holding the report manifest. It lives in
// the report namespace but is never treated as a snapshot.
const manifestKey = "_manifest"

// StageStore persists the three pipeline stages with their retention rules:
// raw and filtered keep exactly the current date, reports keep the most
// recent retention-count dates indexed by the manifest.
type StageStore struct {
	blobs     *BlobStore
	sinks     []Sink
	retention int
	log       *zap.Logger

	// now is a seam for tests that commit snapshots on synthetic dates.
	now func() time.Time
}

// New constructs a StageStore over the blob substrate. Mirror sinks are
// optional; a nil logger disables logging.
func New(blobs *BlobStore, cfg types.StoreConfig, sinks []Sink, log *zap.Logger) *StageStore {
	retention := cfg.ReportRetention
	if retention <= 0 {
		retention = 7
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &StageStore{
		blobs:     blobs,
		sinks:     sinks,
		retention: retention,
		log:       log,
		now:       time.Now,
	}
}

// CommitRaw persists the fetch output under date and sweeps every other key
// out of the raw namespace.
func (s *StageStore) CommitRaw(ctx context.Context, date string, papers []types.Paper) error {
	snap := types.RawSnapshot{DateKey: date, Timestamp: s.now(), Papers: papers}
	return s.commitSingleSlot(ctx, types.StageRaw, date, snap)
}

// CommitFiltered persists the filter output under date and sweeps every
// other key out of the filtered namespace.
func (s *StageStore) CommitFiltered(ctx context.Context, date string, papers []types.ScoredPaper) error {
	snap := types.FilteredSnapshot{DateKey: date, Timestamp: s.now(), Papers: papers}
	return s.commitSingleSlot(ctx, types.StageFiltered, date, snap)
}

// commitSingleSlot writes the snapshot and enforces today-only retention.
func (s *StageStore) commitSingleSlot(ctx context.Context, stage types.Stage, date string, snap any) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshaling %s snapshot: %w", stage, err)
	}
	if err := s.blobs.Put(ctx, string(stage), date, data); err != nil {
		return err
	}

	keys, err := s.blobs.ListKeys(ctx, string(stage))
	if err != nil {
		return err
	}
	for _, k := range keys {
		if k == date {
			continue
		}
		if err := s.blobs.Delete(ctx, string(stage), k); err != nil {
			return err
		}
	}

	s.mirror(ctx, stage, date, data)
	return nil
}

// CommitReport persists the analysis output under date, prepends date to the
// manifest if absent, and trims manifest and snapshots to the retention
// bound. Trimmed snapshots are deleted synchronously with the manifest write.
func (s *StageStore) CommitReport(ctx context.Context, date string, papers []types.AnalyzedPaper) error {
	snap := types.ReportSnapshot{DateKey: date, Timestamp: s.now(), Papers: papers}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshaling report snapshot: %w", err)
	}
	if err := s.blobs.Put(ctx, string(types.StageReport), date, data); err != nil {
		return err
	}

	manifest, err := s.loadManifest(ctx)
	if err != nil {
		return err
	}

	if !manifest.Contains(date) {
		manifest.Dates = append([]string{date}, manifest.Dates...)
	}
	if len(manifest.Dates) > s.retention {
		for _, old := range manifest.Dates[s.retention:] {
			if err := s.blobs.Delete(ctx, string(types.StageReport), old); err != nil {
				return err
			}
		}
		manifest.Dates = manifest.Dates[:s.retention]
	}

	manifestData, err := json.Marshal(manifest)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	if err := s.blobs.Put(ctx, string(types.StageReport), manifestKey, manifestData); err != nil {
		return err
	}

	s.mirror(ctx, types.StageReport, date, data)
	return nil
}

// LoadRaw reads the raw snapshot for date. A miss yields (nil, nil).
func (s *StageStore) LoadRaw(ctx context.Context, date string) (*types.RawSnapshot, error) {
	data, err := s.blobs.Get(ctx, string(types.StageRaw), date)
	if err != nil || data == nil {
		return nil, err
	}
	var snap types.RawSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing raw snapshot %s: %w", date, err)
	}
	return &snap, nil
}

// LoadFiltered reads the filtered snapshot for date. A miss yields (nil, nil).
func (s *StageStore) LoadFiltered(ctx context.Context, date string) (*types.FilteredSnapshot, error) {
	data, err := s.blobs.Get(ctx, string(types.StageFiltered), date)
	if err != nil || data == nil {
		return nil, err
	}
	var snap types.FilteredSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing filtered snapshot %s: %w", date, err)
	}
	return &snap, nil
}

// LoadReport reads the report snapshot for date. A miss yields (nil, nil).
func (s *StageStore) LoadReport(ctx context.Context, date string) (*types.ReportSnapshot, error) {
	data, err := s.blobs.Get(ctx, string(types.StageReport), date)
	if err != nil || data == nil {
		return nil, err
	}
	var snap types.ReportSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing report snapshot %s: %w", date, err)
	}
	return &snap, nil
}

// LoadHistory reads every report snapshot the manifest references, newest
// first, skipping dates whose snapshot is missing.
func (s *StageStore) LoadHistory(ctx context.Context) ([]types.ReportSnapshot, error) {
	manifest, err := s.loadManifest(ctx)
	if err != nil {
		return nil, err
	}

	var history []types.ReportSnapshot
	for _, date := range manifest.Dates {
		snap, err := s.LoadReport(ctx, date)
		if err != nil {
			return nil, err
		}
		if snap == nil {
			s.log.Warn("manifest references missing snapshot", zap.String("date", date))
			continue
		}
		history = append(history, *snap)
	}
	return history, nil
}

func (s *StageStore) loadManifest(ctx context.Context) (types.Manifest, error) {
	data, err := s.blobs.Get(ctx, string(types.StageReport), manifestKey)
	if err != nil {
		return types.Manifest{}, err
	}
	if data == nil {
		return types.Manifest{}, nil
	}
	var manifest types.Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return types.Manifest{}, fmt.Errorf("parsing manifest: %w", err)
	}
	return manifest, nil
}

// mirror replicates a committed snapshot to every configured sink. Mirror
// failures are logged and never affect local persistence.
func (s *StageStore) mirror(ctx context.Context, stage types.Stage, date string, payload []byte) {
	if len(s.sinks) == 0 {
		return
	}
	rec := MirrorRecord{
		Type:      string(stage),
		Key:       string(stage) + "/" + date,
		Timestamp: s.now(),
		Payload:   payload,
	}
	for _, sink := range s.sinks {
		if err := sink.Write(ctx, rec); err != nil {
			s.log.Warn("mirror write failed",
				zap.String("sink", sink.Name()), zap.String("key", rec.Key), zap.Error(err))
		}
	}
}
