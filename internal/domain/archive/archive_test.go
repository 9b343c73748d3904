package archive

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type widget struct {
	ID    uint `gorm:"primarykey"`
	Name  string
	Count int
}

type widgetArchive struct {
	ArchiveID   uint `gorm:"primarykey"`
	ID          uint
	Name        string
	Count       int
	ArchiveTime time.Time
	DeletedTime *time.Time
}

func widgetToArchive(w widget, archiveTime time.Time, deletedTime *time.Time) widgetArchive {
	return widgetArchive{
		ID:          w.ID,
		Name:        w.Name,
		Count:       w.Count,
		ArchiveTime: archiveTime,
		DeletedTime: deletedTime,
	}
}

func setupDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&widget{}, &widgetArchive{}))
	return db
}

func TestCopyIntoArchive_LeavesDeletedTimeNil(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	w := widget{Name: "pre-image", Count: 1}
	require.NoError(t, db.Create(&w).Error)

	err := CopyIntoArchive(ctx, db, []widget{w}, widgetToArchive, time.Now())
	require.NoError(t, err)

	var rows []widgetArchive
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, w.ID, rows[0].ID)
	assert.Nil(t, rows[0].DeletedTime)
}

func TestCopyIntoArchive_EmptyIsNoop(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	err := CopyIntoArchive[widget, widgetArchive](ctx, db, nil, widgetToArchive, time.Now())
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&widgetArchive{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDeleteIntoArchive_CopiesThenDeletes(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	w := widget{Name: "to-delete", Count: 2}
	require.NoError(t, db.Create(&w).Error)

	deletedTime := time.Now()
	err := DeleteIntoArchive(ctx, db, []widget{w}, widgetToArchive, deletedTime, func(tx *gorm.DB) error {
		return tx.Delete(&widget{}, w.ID).Error
	})
	require.NoError(t, err)

	var liveCount int64
	require.NoError(t, db.Model(&widget{}).Count(&liveCount).Error)
	assert.Zero(t, liveCount)

	var rows []widgetArchive
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].DeletedTime)
	assert.WithinDuration(t, deletedTime, *rows[0].DeletedTime, time.Second)
}

func TestDeleteIntoArchive_RollsBackOnDeleteFailure(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	w := widget{Name: "rollback", Count: 3}
	require.NoError(t, db.Create(&w).Error)

	err := DeleteIntoArchive(ctx, db, []widget{w}, widgetToArchive, time.Now(), func(tx *gorm.DB) error {
		return assert.AnError
	})
	require.Error(t, err)

	var archiveCount int64
	require.NoError(t, db.Model(&widgetArchive{}).Count(&archiveCount).Error)
	assert.Zero(t, archiveCount, "archive insert must roll back when the live delete fails")

	var liveCount int64
	require.NoError(t, db.Model(&widget{}).Count(&liveCount).Error)
	assert.Equal(t, int64(1), liveCount)
}

func TestArchiveUpdate_PreservesPreImageBeforeUpdate(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	w := widget{Name: "original", Count: 1}
	require.NoError(t, db.Create(&w).Error)

	err := ArchiveUpdate(ctx, db, []widget{w}, widgetToArchive, time.Now(), func(tx *gorm.DB) error {
		return tx.Model(&widget{}).Where("id = ?", w.ID).Update("count", 99).Error
	})
	require.NoError(t, err)

	var archived []widgetArchive
	require.NoError(t, db.Find(&archived).Error)
	require.Len(t, archived, 1)
	assert.Equal(t, 1, archived[0].Count, "archive row must preserve the pre-update value")
	assert.Nil(t, archived[0].DeletedTime)

	var live widget
	require.NoError(t, db.First(&live, w.ID).Error)
	assert.Equal(t, 99, live.Count)
}
