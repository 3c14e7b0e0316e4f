// Copyright (c) 2026 Cadenza. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package material

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/cadenza/internal/platform/apperr"
	"github.com/taibuivan/cadenza/internal/platform/database/schema"
	"github.com/taibuivan/cadenza/internal/platform/dberr"
	"github.com/taibuivan/cadenza/internal/platform/postgres"
)

// PostgresMaterialRepository implements [Repository] over learning.material.
type PostgresMaterialRepository struct {
	db postgres.Querier
}

// NewMaterialRepository creates a new Postgres material store.
func NewMaterialRepository(db postgres.Querier) *PostgresMaterialRepository {
	return &PostgresMaterialRepository{db: db}
}

var materialColumns = fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s, %s",
	schema.LearningMaterial.ID, schema.LearningMaterial.LessonID, schema.LearningMaterial.UploaderID,
	schema.LearningMaterial.Title, schema.LearningMaterial.Path, schema.LearningMaterial.ContentType,
	schema.LearningMaterial.SizeBytes, schema.LearningMaterial.OriginalName, schema.LearningMaterial.CreatedAt)

/*
Create inserts a material. A missing lesson surfaces as the foreign key
violation, reported as NOT_FOUND for "Lesson".
*/
func (repository *PostgresMaterialRepository) Create(context context.Context, material *Material) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		schema.LearningMaterial.Table, materialColumns)

	material.CreatedAt = time.Now().UTC()

	_, err := repository.db.Exec(context, query,
		material.ID, material.LessonID, material.UploaderID, material.Title, material.Key,
		material.ContentType, material.SizeBytes, material.OriginalName, material.CreatedAt,
	)

	wrapped := dberr.Wrap(err, "Material", "create_material")
	if apperr.HasCode(wrapped, apperr.CodeNotFound) {
		return apperr.NotFound("Lesson")
	}
	return wrapped
}

// ListByLesson returns the lesson's materials ordered by creation time.
func (repository *PostgresMaterialRepository) ListByLesson(context context.Context, lessonID string) ([]*Material, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s, %s`,
		materialColumns, schema.LearningMaterial.Table,
		schema.LearningMaterial.LessonID, schema.LearningMaterial.CreatedAt, schema.LearningMaterial.ID)

	rows, err := repository.db.Query(context, query, lessonID)
	if err != nil {
		return nil, dberr.Wrap(err, "Material", "list_materials")
	}

	materials, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Material, error) {
		material := &Material{}
		err := row.Scan(&material.ID, &material.LessonID, &material.UploaderID, &material.Title, &material.Key,
			&material.ContentType, &material.SizeBytes, &material.OriginalName, &material.CreatedAt)
		return material, err
	})
	if err != nil {
		return nil, dberr.Wrap(err, "Material", "list_materials")
	}

	return materials, nil
}
