package repository

import (
	"context"
	"errors"
	"time"

	"github.com/gusti-hub/mlb-borneo-be/internal/entity"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DashboardRepository runs the metric aggregations over the activity
// ledger and persists their snapshots.
type DashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository creates the dashboard repository.
func NewDashboardRepository(db *gorm.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

// PICActivityCounts aggregates per-status activity counts for every PIC
// in the window. The left join keeps PICs with zero activities.
func (r *DashboardRepository) PICActivityCounts(ctx context.Context, start, end time.Time) ([]entity.PICActivityCounts, error) {
	var rows []entity.PICActivityCounts
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			p.pic_name,
			p.pic_code,
			p.color_code,
			COUNT(CASE WHEN a.status = 'completed' THEN 1 END) AS completed_count,
			COUNT(CASE WHEN a.status = 'active' THEN 1 END) AS active_count,
			COUNT(CASE WHEN a.status = 'pending' THEN 1 END) AS pending_count,
			COUNT(a.id) AS total_count
		FROM pics p
		LEFT JOIN activities a ON p.id = a.pic_id
			AND a.created_at BETWEEN ? AND ?
		GROUP BY p.id, p.pic_name, p.pic_code, p.color_code
		ORDER BY completed_count DESC`, start, end).
		Scan(&rows).Error
	return rows, err
}

// ShipperTrend counts in-window activities per shipper per calendar month.
// Shippers without activity in the window do not appear.
func (r *DashboardRepository) ShipperTrend(ctx context.Context, start, end time.Time) ([]entity.ShipperTrend, error) {
	var rows []entity.ShipperTrend
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			s.shipper_name,
			COUNT(*) AS transaction_count,
			EXTRACT(MONTH FROM a.created_at)::int AS month
		FROM shippers s
		JOIN activities a ON s.id = a.shipper_id
		WHERE a.created_at BETWEEN ? AND ?
		GROUP BY s.id, s.shipper_name, EXTRACT(MONTH FROM a.created_at)
		ORDER BY transaction_count DESC`, start, end).
		Scan(&rows).Error
	return rows, err
}

// LoadingPortTrend counts in-window activities per loading port per
// calendar month.
func (r *DashboardRepository) LoadingPortTrend(ctx context.Context, start, end time.Time) ([]entity.LoadingPortTrend, error) {
	var rows []entity.LoadingPortTrend
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			lp.port_name,
			COUNT(*) AS usage_count,
			EXTRACT(MONTH FROM a.created_at)::int AS month
		FROM loading_ports lp
		JOIN activities a ON lp.id = a.loading_port_id
		WHERE a.created_at BETWEEN ? AND ?
		GROUP BY lp.id, lp.port_name, EXTRACT(MONTH FROM a.created_at)
		ORDER BY usage_count DESC`, start, end).
		Scan(&rows).Error
	return rows, err
}

// PICPerformance lists one PIC's in-window activities with their
// milestone dates. Duration fields are filled in by the service.
func (r *DashboardRepository) PICPerformance(ctx context.Context, picID string, start, end time.Time) ([]entity.PICPerformance, error) {
	var rows []entity.PICPerformance
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			v.vessel_name,
			a.inquiry_date,
			a.appointment_replied_date,
			a.eta_notice_shipper,
			a.loading_receipt,
			a.port_clearance_issued
		FROM activities a
		JOIN vessels v ON a.vessel_id = v.id
		WHERE a.pic_id = ?
			AND a.created_at BETWEEN ? AND ?
		ORDER BY a.created_at DESC`, picID, start, end).
		Scan(&rows).Error
	return rows, err
}

// SaveResult upserts a snapshot under (date, type), replacing the payload
// and refreshing created_at on conflict.
func (r *DashboardRepository) SaveResult(ctx context.Context, date time.Time, resultType string, payload datatypes.JSON) error {
	row := entity.DashboardResult{
		ID:              NewID(),
		CalculationDate: date,
		ResultType:      resultType,
		ResultData:      payload,
		CreatedAt:       time.Now(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "calculation_date"}, {Name: "result_type"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"result_data": payload,
			"created_at":  time.Now(),
		}),
	}).Create(&row).Error
}

// GetResult returns the snapshot payload for (date, type), or ErrNotFound
// when nothing has been computed for that key. A stored empty array is a
// hit, not a miss.
func (r *DashboardRepository) GetResult(ctx context.Context, date time.Time, resultType string) (datatypes.JSON, error) {
	var row entity.DashboardResult
	err := r.db.WithContext(ctx).
		Where("calculation_date = ? AND result_type = ?", date, resultType).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return row.ResultData, nil
}
