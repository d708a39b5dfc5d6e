package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jcmacallan-svg/ww1/internal/ports"
)

// SQLite backed key -> JSON document store. One row per (namespace, key);
// namespaces are catalogue ids, so two catalogues never share state.
type SqliteStore struct {
	DB *sql.DB
}

func NewSqliteStore(db *sql.DB) *SqliteStore {
	return &SqliteStore{DB: db}
}

func (s *SqliteStore) Get(ctx context.Context, namespace, key string, out any) (bool, error) {
	if s.DB == nil {
		return false, errors.New("kv store: db is nil")
	}

	var raw string
	err := s.DB.QueryRowContext(ctx, `
	SELECT value
    FROM kv_store
    WHERE namespace = ? AND key = ?;
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

func (s *SqliteStore) Put(ctx context.Context, namespace, key string, val any) error {
	if s.DB == nil {
		return errors.New("kv store: db is nil")
	}

	raw, err := json.Marshal(val)
	if err != nil {
		return fmt.Errorf("put kv %s/%s: encode value: %w", namespace, key, err)
	}

	_, err = s.DB.ExecContext(ctx, `
	INSERT OR REPLACE INTO kv_store (
        namespace,
        key,
        value
    )
    VALUES (?, ?, ?);
	`, namespace, key, string(raw))
	if err != nil {
		return fmt.Errorf("put kv %s/%s: insert kv_store row: %w", namespace, key, err)
	}
	return nil
}

func (s *SqliteStore) Delete(ctx context.Context, namespace, key string) error {
	if s.DB == nil {
		return errors.New("kv store: db is nil")
	}

	_, err := s.DB.ExecContext(ctx, `
	DELETE FROM kv_store
    WHERE namespace = ? AND key = ?;
	`, namespace, key)
	if err != nil {
		return fmt.Errorf("delete kv %s/%s: %w", namespace, key, err)
	}
	return nil
}

// SQLite backed coordinate-override cache, one row per (namespace, POI).
type SqliteOverrides struct {
	DB *sql.DB
}

func NewSqliteOverrides(db *sql.DB) *SqliteOverrides {
	return &SqliteOverrides{DB: db}
}

func (s *SqliteOverrides) Get(ctx context.Context, namespace, poiID string) (ports.ResolvedOverride, bool, error) {
	if s.DB == nil {
		return ports.ResolvedOverride{}, false, errors.New("override cache: db is nil")
	}

	var o ports.ResolvedOverride
	err := s.DB.QueryRowContext(ctx, `
	SELECT lat, lon, source
    FROM coord_overrides
    WHERE namespace = ? AND poi_id = ?;
	`, namespace, poiID).Scan(&o.Coord.Lat, &o.Coord.Lon, &o.Source)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.ResolvedOverride{}, false, nil
	}
	if err != nil {
		return ports.ResolvedOverride{}, false, fmt.Errorf("get override %s/%s: query coord_overrides table: %w", namespace, poiID, err)
	}
	return o, true, nil
}

func (s *SqliteOverrides) Put(ctx context.Context, namespace, poiID string, o ports.ResolvedOverride) error {
	if s.DB == nil {
		return errors.New("override cache: db is nil")
	}
	if err := o.Coord.Validate(); err != nil {
		return fmt.Errorf("put override %s/%s: %w", namespace, poiID, err)
	}

	_, err := s.DB.ExecContext(ctx, `
	INSERT OR REPLACE INTO coord_overrides (
        namespace,
        poi_id,
        lat,
        lon,
        source
    )
    VALUES (?, ?, ?, ?, ?);
	`, namespace, poiID, o.Coord.Lat, o.Coord.Lon, o.Source)
	if err != nil {
		return fmt.Errorf("put override %s/%s: insert coord_overrides row: %w", namespace, poiID, err)
	}
	return nil
}

// Overrides returns every override in a namespace, keyed by POI id.
// The datatool uses this for inspection; planning reads one at a time.
func (s *SqliteOverrides) Overrides(ctx context.Context, namespace string) (map[string]ports.ResolvedOverride, error) {
	if s.DB == nil {
		return nil, errors.New("override cache: db is nil")
	}

	rows, err := s.DB.QueryContext(ctx, `
	SELECT poi_id, lat, lon, source
    FROM coord_overrides
    WHERE namespace = ?;
	`, namespace)
	if err != nil {
		return nil, fmt.Errorf("list overrides %s: query coord_overrides table: %w", namespace, err)
	}
	defer rows.Close()

	out := make(map[string]ports.ResolvedOverride)
	for rows.Next() {
		var id string
		var o ports.ResolvedOverride
		if err := rows.Scan(&id, &o.Coord.Lat, &o.Coord.Lon, &o.Source); err != nil {
			return nil, fmt.Errorf("list overrides %s: scan rows: %w", namespace, err)
		}
		out[id] = o
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list overrides %s: row iteration: %w", namespace, err)
	}
	return out, nil
}

var (
	_ ports.KVStore       = (*SqliteStore)(nil)
	_ ports.OverrideCache = (*SqliteOverrides)(nil)
)
