package services

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/yeremiapane/qr-menu-builder/models"
	"github.com/yeremiapane/qr-menu-builder/utils"
)

func TestAnalyticsWindow(t *testing.T) {
	svc := NewAnalyticsService(nil, nil)
	svc.now = func() time.Time { return time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC) }

	from, to, err := svc.Window(7)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2026, 3, 15, 23, 59, 59, 999999999, time.UTC), to)

	_, _, err = svc.Window(10)
	assert.True(t, utils.IsValidation(err))
}

func TestTableAnalytics(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	b := env.business(t, "owner")
	reg := NewTableRegistry(env.tables)
	now := time.Now().UTC()

	quiet, err := reg.Create(ctx, b.ID, CreateTableInput{Name: "Quiet", Capacity: 2})
	require.NoError(t, err)
	busy, err := reg.Create(ctx, b.ID, CreateTableInput{Name: "Busy", Capacity: 4})
	require.NoError(t, err)
	empty, err := reg.Create(ctx, b.ID, CreateTableInput{Name: "Empty", Capacity: 4})
	require.NoError(t, err)

	scan := func(tableID string, at time.Time) {
		require.NoError(t, env.scans.Create(ctx, &models.TableScan{TableID: tableID, ScannedAt: at}))
	}
	for i := 0; i < 4; i++ {
		scan(busy.ID, now.Add(-time.Duration(i)*time.Hour))
	}
	scan(quiet.ID, now.Add(-time.Hour))
	scan(quiet.ID, now.AddDate(0, 0, -20))

	svc := NewAnalyticsService(env.tables, env.scans)
	stats, err := svc.TableAnalytics(ctx, b.ID, 7)
	require.NoError(t, err)

	require.Len(t, stats.Tables, 3)
	assert.Equal(t, busy.ID, stats.Tables[0].Table.ID)
	assert.EqualValues(t, 4, stats.Tables[0].Scans)
	assert.Equal(t, 1.0, stats.Tables[0].Intensity)
	assert.Equal(t, quiet.ID, stats.Tables[1].Table.ID)
	assert.Equal(t, 0.25, stats.Tables[1].Intensity)
	assert.Equal(t, empty.ID, stats.Tables[2].Table.ID)
	assert.Zero(t, stats.Tables[2].Intensity)
	assert.EqualValues(t, 5, stats.TotalScans)
	assert.EqualValues(t, 2, stats.AverageScans, "5/3 rounds to 2")
	require.NotNil(t, stats.TopTable)
	assert.Equal(t, "Busy", stats.TopTable.Table.Name)

	wide, err := svc.TableAnalytics(ctx, b.ID, 30)
	require.NoError(t, err)
	assert.EqualValues(t, 6, wide.TotalScans)
}

func TestTableAnalyticsWithoutScans(t *testing.T) {
	env := setupTestEnv(t)
	b := env.business(t, "owner")
	_, err := NewTableRegistry(env.tables).Create(context.Background(), b.ID, CreateTableInput{Name: "T", Capacity: 1})
	require.NoError(t, err)

	stats, err := NewAnalyticsService(env.tables, env.scans).TableAnalytics(context.Background(), b.ID, 14)
	require.NoError(t, err)
	assert.Nil(t, stats.TopTable)
	assert.Zero(t, stats.Tables[0].Intensity)
}

func TestTableDetail(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	b := env.business(t, "owner")
	tbl, err := NewTableRegistry(env.tables).Create(ctx, b.ID, CreateTableInput{Name: "T", Capacity: 1})
	require.NoError(t, err)
	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 12; i++ {
		require.NoError(t, env.scans.Create(ctx, &models.TableScan{TableID: tbl.ID, ScannedAt: base.Add(time.Duration(i) * time.Minute)}))
	}

	detail, err := NewAnalyticsService(env.tables, env.scans).TableDetail(ctx, b.ID, tbl.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 12, detail.TotalScans)
	require.Len(t, detail.RecentScans, 10)
	assert.True(t, detail.RecentScans[0].ScannedAt.After(detail.RecentScans[9].ScannedAt))

	other := env.business(t, "other")
	_, err = NewAnalyticsService(env.tables, env.scans).TableDetail(ctx, other.ID, tbl.ID)
	assert.True(t, utils.IsNotFound(err))
}

func TestExportScans(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	b := env.business(t, "owner")
	tbl, err := NewTableRegistry(env.tables).Create(ctx, b.ID, CreateTableInput{Name: "Window", Capacity: 2})
	require.NoError(t, err)
	ua := "Mozilla/5.0"
	require.NoError(t, env.scans.Create(ctx, &models.TableScan{TableID: tbl.ID, UserAgent: &ua}))

	var buf bytes.Buffer
	require.NoError(t, NewAnalyticsService(env.tables, env.scans).ExportScans(ctx, b.ID, 7, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Summary", "Scans"}, f.GetSheetList())
	name, err := f.GetCellValue("Summary", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Window", name)
	rows, err := f.GetRows("Scans")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Window"}, rows[1][:1])
	assert.Equal(t, ua, rows[1][2])
}
