// Copyright (c) 2026 Cadenza. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package music

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/cadenza/internal/platform/database/schema"
	"github.com/taibuivan/cadenza/internal/platform/dberr"
	"github.com/taibuivan/cadenza/internal/platform/postgres"
	"github.com/taibuivan/cadenza/pkg/pagination"
)

// PostgresTrackRepository implements [Repository] over music.track and music.trackasset.
type PostgresTrackRepository struct {
	pool *pgxpool.Pool
}

// NewTrackRepository creates a new Postgres track store.
func NewTrackRepository(pool *pgxpool.Pool) *PostgresTrackRepository {
	return &PostgresTrackRepository{pool: pool}
}

var (
	trackTable = schema.MusicTrack
	assetTable = schema.MusicTrackAsset
)

var trackColumns = fmt.Sprintf("%s, %s, %s, %s, %s, %s",
	trackTable.ID, trackTable.Slug, trackTable.Title, trackTable.Artist, trackTable.UploaderID, trackTable.CreatedAt)

/*
Create inserts the track row and its asset rows in one transaction.
*/
func (repository *PostgresTrackRepository) Create(context context.Context, entity *Track) error {
	entity.CreatedAt = time.Now().UTC()

	insertTrack := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6)`, trackTable.Table, trackColumns)
	insertAsset := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s, %s, %s) VALUES ($1, $2, $3, $4, $5, $6)`,
		assetTable.Table, assetTable.TrackID, assetTable.Kind, assetTable.Path, assetTable.ContentType, assetTable.SizeBytes, assetTable.OriginalName)

	err := postgres.InTx(context, repository.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(context, insertTrack,
			entity.ID, entity.Slug, entity.Title, entity.Artist, entity.UploaderID, entity.CreatedAt,
		); err != nil {
			return err
		}

		batch := &pgx.Batch{}
		for _, item := range entity.Assets {
			batch.Queue(insertAsset, entity.ID, string(item.Kind), item.Key, item.ContentType, item.SizeBytes, item.OriginalName)
		}
		return tx.SendBatch(context, batch).Close()
	})

	return dberr.Wrap(err, "Track", "create_track")
}

/*
List returns one page of live tracks, newest first.
*/
func (repository *PostgresTrackRepository) List(context context.Context, params pagination.Params) ([]*Track, int, error) {
	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s IS NULL`, trackTable.Table, trackTable.DeletedAt)
	if err := repository.pool.QueryRow(context, countQuery).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "Track", "count_tracks")
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s IS NULL ORDER BY %s DESC, %s DESC LIMIT $1 OFFSET $2`,
		trackColumns, trackTable.Table, trackTable.DeletedAt, trackTable.CreatedAt, trackTable.ID)

	rows, err := repository.pool.Query(context, query, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "Track", "list_tracks")
	}

	tracks, err := pgx.CollectRows(rows, scanTrack)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "Track", "list_tracks")
	}

	if err := repository.attachAssets(context, repository.pool, tracks...); err != nil {
		return nil, 0, err
	}

	return tracks, total, nil
}

/*
FindByID retrieves a live track with its assets.
*/
func (repository *PostgresTrackRepository) FindByID(context context.Context, id string) (*Track, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s IS NULL`,
		trackColumns, trackTable.Table, trackTable.ID, trackTable.DeletedAt)

	rows, err := repository.pool.Query(context, query, id)
	if err != nil {
		return nil, dberr.Wrap(err, "Track", "find_track")
	}

	entity, err := pgx.CollectExactlyOneRow(rows, scanTrack)
	if err != nil {
		return nil, dberr.Wrap(err, "Track", "find_track")
	}

	if err := repository.attachAssets(context, repository.pool, entity); err != nil {
		return nil, err
	}
	return entity, nil
}

/*
SoftDelete stamps deletedat and returns the asset keys, all in one transaction.
*/
func (repository *PostgresTrackRepository) SoftDelete(context context.Context, id string) ([]string, error) {
	update := fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE %s = $1 AND %s IS NULL`,
		trackTable.Table, trackTable.DeletedAt, trackTable.ID, trackTable.DeletedAt)
	selectKeys := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, assetTable.Path, assetTable.Table, assetTable.TrackID)

	var keys []string
	err := postgres.InTx(context, repository.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(context, update, id, time.Now().UTC())
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}

		rows, err := tx.Query(context, selectKeys, id)
		if err != nil {
			return err
		}
		keys, err = pgx.CollectRows(rows, pgx.RowTo[string])
		return err
	})
	if err != nil {
		return nil, dberr.Wrap(err, "Track", "delete_track")
	}

	return keys, nil
}

// attachAssets loads the assets of tracks with a single query.
func (repository *PostgresTrackRepository) attachAssets(context context.Context, db postgres.Querier, tracks ...*Track) error {
	if len(tracks) == 0 {
		return nil
	}

	byID := make(map[string]*Track, len(tracks))
	ids := make([]string, 0, len(tracks))
	for _, entity := range tracks {
		entity.Assets = []Asset{}
		byID[entity.ID] = entity
		ids = append(ids, entity.ID)
	}

	query := fmt.Sprintf(`SELECT %s, %s, %s, %s, %s, %s FROM %s WHERE %s = ANY($1::uuid[]) ORDER BY %s`,
		assetTable.TrackID, assetTable.Kind, assetTable.Path, assetTable.ContentType, assetTable.SizeBytes, assetTable.OriginalName,
		assetTable.Table, assetTable.TrackID, assetTable.Kind)

	rows, err := db.Query(context, query, ids)
	if err != nil {
		return dberr.Wrap(err, "Track", "list_track_assets")
	}
	defer rows.Close()

	for rows.Next() {
		var trackID, kind string
		var item Asset
		if err := rows.Scan(&trackID, &kind, &item.Key, &item.ContentType, &item.SizeBytes, &item.OriginalName); err != nil {
			return dberr.Wrap(err, "Track", "scan_track_asset")
		}
		item.Kind = AssetKind(kind)
		if owner, ok := byID[trackID]; ok {
			owner.Assets = append(owner.Assets, item)
		}
	}

	return dberr.Wrap(rows.Err(), "Track", "list_track_assets")
}

func scanTrack(row pgx.CollectableRow) (*Track, error) {
	entity := &Track{}
	err := row.Scan(&entity.ID, &entity.Slug, &entity.Title, &entity.Artist, &entity.UploaderID, &entity.CreatedAt)
	return entity, err
}
