package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/yeremiapane/qr-menu-builder/models"
	"github.com/yeremiapane/qr-menu-builder/repositories"
	"github.com/yeremiapane/qr-menu-builder/utils"
)

// AnalyticsRanges are the day windows the dashboard offers.
var AnalyticsRanges = []int{7, 14, 30, 90}

const recentScanLimit = 10

type TableScanStat struct {
	Table     models.Table `json:"table"`
	Scans     int64        `json:"scans"`
	Intensity float64      `json:"intensity"`
}

type TableAnalytics struct {
	Days         int             `json:"days"`
	From         time.Time       `json:"from"`
	To           time.Time       `json:"to"`
	Tables       []TableScanStat `json:"tables"`
	TotalScans   int64           `json:"total_scans"`
	AverageScans int64           `json:"average_scans"`
	TopTable     *TableScanStat  `json:"top_table"`
}

type TableDetail struct {
	Table       models.Table       `json:"table"`
	TotalScans  int64              `json:"total_scans"`
	RecentScans []models.TableScan `json:"recent_scans"`
}

type AnalyticsService struct {
	tables repositories.TableRepository
	scans  repositories.TableScanRepository
	now    func() time.Time
}

func NewAnalyticsService(tables repositories.TableRepository, scans repositories.TableScanRepository) *AnalyticsService {
	return &AnalyticsService{tables: tables, scans: scans, now: time.Now}
}

// Window returns [start of day(now-days), end of day(now)].
func (s *AnalyticsService) Window(days int) (time.Time, time.Time, error) {
	if !validRange(days) {
		return time.Time{}, time.Time{}, utils.NewValidationError("days", fmt.Sprintf("must be one of %v", AnalyticsRanges))
	}
	now := s.now()
	start := now.AddDate(0, 0, -days)
	from := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, now.Location())
	to := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), now.Location())
	return from, to, nil
}

// TableAnalytics counts scans per table of the business over the window,
// busiest first. Intensity is count / max(count) for heat maps.
func (s *AnalyticsService) TableAnalytics(ctx context.Context, businessID string, days int) (*TableAnalytics, error) {
	from, to, err := s.Window(days)
	if err != nil {
		return nil, err
	}
	tables, err := s.tables.List(ctx, businessID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(tables))
	for i, t := range tables {
		ids[i] = t.ID
	}
	counts, err := s.scans.CountByTables(ctx, ids, from, to)
	if err != nil {
		return nil, err
	}

	out := &TableAnalytics{Days: days, From: from, To: to, Tables: make([]TableScanStat, 0, len(tables))}
	var max int64
	for _, t := range tables {
		n := counts[t.ID]
		out.TotalScans += n
		if n > max {
			max = n
		}
		out.Tables = append(out.Tables, TableScanStat{Table: t, Scans: n})
	}
	sort.SliceStable(out.Tables, func(i, j int) bool {
		return out.Tables[i].Scans > out.Tables[j].Scans
	})

	denom := float64(max)
	if denom < 1 {
		denom = 1
	}
	for i := range out.Tables {
		out.Tables[i].Intensity = float64(out.Tables[i].Scans) / denom
	}
	if len(out.Tables) > 0 {
		out.AverageScans = int64(math.Round(float64(out.TotalScans) / float64(len(out.Tables))))
		if out.Tables[0].Scans > 0 {
			top := out.Tables[0]
			out.TopTable = &top
		}
	}
	return out, nil
}

// TableDetail is the all-time scan count and the latest scans of one table.
func (s *AnalyticsService) TableDetail(ctx context.Context, businessID, tableID string) (*TableDetail, error) {
	table, err := s.tables.GetByID(ctx, businessID, tableID)
	if err != nil {
		return nil, err
	}
	total, err := s.scans.CountForTable(ctx, table.ID)
	if err != nil {
		return nil, err
	}
	recent, err := s.scans.Recent(ctx, table.ID, recentScanLimit)
	if err != nil {
		return nil, err
	}
	return &TableDetail{Table: *table, TotalScans: total, RecentScans: recent}, nil
}

func validRange(days int) bool {
	for _, d := range AnalyticsRanges {
		if d == days {
			return true
		}
	}
	return false
}
