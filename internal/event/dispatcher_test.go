package event

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/blues/lps/internal/database"
	"github.com/blues/lps/internal/model"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func seedEvents(t *testing.T, db *gorm.DB, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, db.Create(&model.Event{
			CampaignId: "0xabc",
			EventType:  model.EventInvested,
			Account:    "0x1111111111111111111111111111111111111111",
		}).Error)
	}
}

func TestDispatchPending(t *testing.T) {
	db := newTestDB(t)
	seedEvents(t, db, 3)

	d, err := NewDispatcher(db, 4)
	require.NoError(t, err)
	defer d.Release()

	var mu sync.Mutex
	var seen []model.EventType
	d.Subscribe(func(evt model.Event) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, evt.EventType)
	})

	n, err := d.DispatchPending(10)
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Len(t, seen, 3)

	// 已处理的通知不再投递
	n, err = d.DispatchPending(10)
	require.NoError(t, err)
	require.Equal(t, 0, n)

	var pending int64
	require.NoError(t, db.Model(&model.Event{}).Where("processed = ?", false).Count(&pending).Error)
	require.Equal(t, int64(0), pending)
}

func TestDispatchPendingBatchLimit(t *testing.T) {
	db := newTestDB(t)
	seedEvents(t, db, 5)

	d, err := NewDispatcher(db, 2)
	require.NoError(t, err)
	defer d.Release()

	n, err := d.DispatchPending(2)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	var pending int64
	require.NoError(t, db.Model(&model.Event{}).Where("processed = ?", false).Count(&pending).Error)
	require.Equal(t, int64(3), pending)
}

func TestDispatchFanOut(t *testing.T) {
	db := newTestDB(t)
	seedEvents(t, db, 2)

	d, err := NewDispatcher(db, 4)
	require.NoError(t, err)
	defer d.Release()

	var mu sync.Mutex
	counts := map[string]int{}
	for _, name := range []string{"a", "b"} {
		name := name
		d.Subscribe(func(evt model.Event) {
			mu.Lock()
			defer mu.Unlock()
			counts[name]++
		})
	}

	n, err := d.DispatchPending(10)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, 2, counts["a"])
	require.Equal(t, 2, counts["b"])
}
