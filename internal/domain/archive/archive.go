// Package archive implements the copy-then-modify / copy-then-delete pattern used across the
// domain whenever a live table has an archive counterpart: before a row in the live table T is
// mutated or removed, its current image is copied into the archive table A. The archive table's
// columns are T's columns plus {archive_id, archive_time, deleted_time}; it never carries FK
// constraints or eager-loaded relations, so every write here is a plain insert/delete, never a
// call into gorm's association machinery.
package archive

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ToArchive converts a live row of type T into its archive row of type A, stamping
// archiveTime and deletedTime (nil for a copy-before-update, set for a copy-before-delete).
type ToArchive[T any, A any] func(row T, archiveTime time.Time, deletedTime *time.Time) A

// CopyIntoArchive inserts the archive projection of rows into A, leaving A.deleted_time = NULL.
// Callers invoke this immediately before updating any row it covers, inside the same
// transaction as the update.
func CopyIntoArchive[T any, A any](ctx context.Context, tx *gorm.DB, rows []T, toArchive ToArchive[T, A], archiveTime time.Time) error {
	if len(rows) == 0 {
		return nil
	}

	archived := make([]A, 0, len(rows))
	for _, row := range rows {
		archived = append(archived, toArchive(row, archiveTime, nil))
	}

	if err := tx.WithContext(ctx).Create(&archived).Error; err != nil {
		return fmt.Errorf("failed to copy rows into archive: %w", err)
	}
	return nil
}

// DeleteIntoArchive transactionally copies rows into A with deleted_time = deletedTime, then
// deletes rows from the live table. db must be a handle that will delete exactly the rows
// passed in when deleteLive runs against it - callers typically build deleteLive as a closure
// over the same primary keys used to load rows.
func DeleteIntoArchive[T any, A any](
	ctx context.Context,
	db *gorm.DB,
	rows []T,
	toArchive ToArchive[T, A],
	deletedTime time.Time,
	deleteLive func(tx *gorm.DB) error,
) error {
	if len(rows) == 0 {
		return nil
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		archived := make([]A, 0, len(rows))
		for _, row := range rows {
			archived = append(archived, toArchive(row, deletedTime, &deletedTime))
		}

		if err := tx.Create(&archived).Error; err != nil {
			return fmt.Errorf("failed to copy rows into archive: %w", err)
		}

		if err := deleteLive(tx); err != nil {
			return fmt.Errorf("failed to delete live rows after archiving: %w", err)
		}

		return nil
	})
}

// ArchiveUpdate transactionally archives the pre-image of rows (with deleted_time left NULL,
// since the live row still exists after the update) and applies applyUpdate against the same
// transaction. Used by the DOE engine's supersede path, where marking a row superseded must
// still preserve its pre-image in the archive.
func ArchiveUpdate[T any, A any](
	ctx context.Context,
	db *gorm.DB,
	rows []T,
	toArchive ToArchive[T, A],
	archiveTime time.Time,
	applyUpdate func(tx *gorm.DB) error,
) error {
	if len(rows) == 0 {
		return applyUpdate(db.WithContext(ctx))
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := CopyIntoArchive(ctx, tx, rows, toArchive, archiveTime); err != nil {
			return err
		}
		return applyUpdate(tx)
	})
}
