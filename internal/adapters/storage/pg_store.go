package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jcmacallan-svg/ww1/internal/platform/obs"
	"github.com/jcmacallan-svg/ww1/internal/ports"
)

// SQLStore is a Postgres-backed key -> JSON document store.
type SQLStore struct {
	DB *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{DB: db}
}

func (s *SQLStore) Get(ctx context.Context, namespace, key string, out any) (_ bool, err error) {
	defer obs.Time(ctx, "kv.store.Get")(&err)

	if s.DB == nil {
		return false, errors.New("kv store: db is nil")
	}

	var raw string
	err = s.DB.QueryRowContext(ctx, `
	SELECT value
    FROM kv_store
    WHERE namespace = $1 AND key = $2;
	`, namespace, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get kv %s/%s: query kv_store table: %w", namespace, key, err)
	}

	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return false, fmt.Errorf("get kv %s/%s: decode value: %w", namespace, key, err)
	}
	return true, nil
}

func (s *SQLStore) Put(ctx context.Context, namespace, key string, val any) error {
	if s.DB == nil {
		return errors.New("kv store: db is nil")
	}

	raw, err := json.Marshal(val)
	if err != nil {
		return fmt.Errorf("put kv %s/%s: encode value: %w", namespace, key, err)
	}

	_, err = s.DB.ExecContext(ctx, `
	INSERT INTO kv_store (namespace, key, value)
    VALUES ($1, $2, $3)
	ON CONFLICT (namespace, key) DO UPDATE
	SET value = EXCLUDED.value;
	`, namespace, key, string(raw))
	if err != nil {
		return fmt.Errorf("put kv %s/%s: insert kv_store row: %w", namespace, key, err)
	}
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, namespace, key string) error {
	if s.DB == nil {
		return errors.New("kv store: db is nil")
	}

	_, err := s.DB.ExecContext(ctx, `
	DELETE FROM kv_store
    WHERE namespace = $1 AND key = $2;
	`, namespace, key)
	if err != nil {
		return fmt.Errorf("delete kv %s/%s: %w", namespace, key, err)
	}
	return nil
}

// SQLOverrides is a Postgres-backed coordinate-override cache.
type SQLOverrides struct {
	DB *sql.DB
}

func NewSQLOverrides(db *sql.DB) *SQLOverrides {
	return &SQLOverrides{DB: db}
}

func (s *SQLOverrides) Get(ctx context.Context, namespace, poiID string) (_ ports.ResolvedOverride, _ bool, err error) {
	defer obs.Time(ctx, "override.cache.Get")(&err)

	if s.DB == nil {
		return ports.ResolvedOverride{}, false, errors.New("override cache: db is nil")
	}

	var o ports.ResolvedOverride
	err = s.DB.QueryRowContext(ctx, `
	SELECT lat, lon, source
    FROM coord_overrides
    WHERE namespace = $1 AND poi_id = $2;
	`, namespace, poiID).Scan(&o.Coord.Lat, &o.Coord.Lon, &o.Source)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.ResolvedOverride{}, false, nil
	}
	if err != nil {
		return ports.ResolvedOverride{}, false, fmt.Errorf("get override %s/%s: query coord_overrides table: %w", namespace, poiID, err)
	}
	return o, true, nil
}

func (s *SQLOverrides) Put(ctx context.Context, namespace, poiID string, o ports.ResolvedOverride) error {
	if s.DB == nil {
		return errors.New("override cache: db is nil")
	}
	if err := o.Coord.Validate(); err != nil {
		return fmt.Errorf("put override %s/%s: %w", namespace, poiID, err)
	}

	_, err := s.DB.ExecContext(ctx, `
	INSERT INTO coord_overrides (namespace, poi_id, lat, lon, source)
    VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (namespace, poi_id) DO UPDATE
	SET lat = EXCLUDED.lat,
		lon = EXCLUDED.lon,
		source = EXCLUDED.source;
	`, namespace, poiID, o.Coord.Lat, o.Coord.Lon, o.Source)
	if err != nil {
		return fmt.Errorf("put override %s/%s: insert coord_overrides row: %w", namespace, poiID, err)
	}
	return nil
}

var (
	_ ports.KVStore       = (*SQLStore)(nil)
	_ ports.OverrideCache = (*SQLOverrides)(nil)
)
