package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gusti-hub/mlb-borneo-be/internal/entity"
	"github.com/gusti-hub/mlb-borneo-be/internal/repository"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// Points per activity by status.
const (
	pointsCompleted = 5
	pointsActive    = 3
	pointsPending   = 1
)

// recomputeWindowDays is the trailing window the scheduled recompute
// aggregates over.
const recomputeWindowDays = 30

// DashboardService computes the dashboard metrics and manages their
// daily snapshots.
type DashboardService struct {
	repo   *repository.DashboardRepository
	logger *zap.Logger
}

// NewDashboardService creates the dashboard service.
func NewDashboardService(repo *repository.DashboardRepository, logger *zap.Logger) *DashboardService {
	return &DashboardService{repo: repo, logger: logger}
}

// snapshotDate truncates to a UTC calendar date, the snapshot key.
func snapshotDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// CalculatePICPoints scores every PIC over the window. Completed counts 5,
// active 3, pending 1. PICs without activities score zero but still appear.
func (s *DashboardService) CalculatePICPoints(ctx context.Context, start, end time.Time) ([]entity.PICPoints, error) {
	counts, err := s.repo.PICActivityCounts(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("pic activity counts: %w", err)
	}
	points := make([]entity.PICPoints, 0, len(counts))
	for _, c := range counts {
		points = append(points, entity.PICPoints{
			PICName:   c.PICName,
			PICCode:   c.PICCode,
			ColorCode: c.ColorCode,
			Points:    c.CompletedCount*pointsCompleted + c.ActiveCount*pointsActive + c.PendingCount*pointsPending,
			Completed: c.CompletedCount,
			Active:    c.ActiveCount,
			Pending:   c.PendingCount,
			Total:     c.TotalCount,
		})
	}
	return points, nil
}

// CalculateShipperTrend counts per-shipper, per-month activity in the window.
func (s *DashboardService) CalculateShipperTrend(ctx context.Context, start, end time.Time) ([]entity.ShipperTrend, error) {
	return s.repo.ShipperTrend(ctx, start, end)
}

// CalculateLoadingPortTrend counts per-port, per-month usage in the window.
func (s *DashboardService) CalculateLoadingPortTrend(ctx context.Context, start, end time.Time) ([]entity.LoadingPortTrend, error) {
	return s.repo.LoadingPortTrend(ctx, start, end)
}

// CalculatePICPerformance lists one PIC's in-window activities with derived
// durations. A duration is nil when either endpoint is missing or the
// interval comes out negative.
func (s *DashboardService) CalculatePICPerformance(ctx context.Context, picID string, start, end time.Time) ([]entity.PICPerformance, error) {
	rows, err := s.repo.PICPerformance(ctx, picID, start, end)
	if err != nil {
		return nil, fmt.Errorf("pic performance: %w", err)
	}
	for i := range rows {
		r := &rows[i]
		if r.InquiryDate != nil && r.AppointmentRepliedDate != nil {
			if h := r.AppointmentRepliedDate.Sub(*r.InquiryDate).Hours(); h >= 0 {
				r.InquiryDurationHours = &h
			}
		}
		if r.EtaNoticeShipper != nil && r.LoadingReceipt != nil {
			if d := r.LoadingReceipt.Sub(*r.EtaNoticeShipper).Hours() / 24; d >= 0 {
				r.EtaToLoadingDays = &d
			}
		}
	}
	return rows, nil
}

// SaveCalculationResults snapshots a computed payload under today's date
// and the result type, overwriting any same-day snapshot of that type.
func (s *DashboardService) SaveCalculationResults(ctx context.Context, resultType string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", resultType, err)
	}
	return s.repo.SaveResult(ctx, snapshotDate(time.Now()), resultType, datatypes.JSON(payload))
}

// GetCalculationResults reads the snapshot for a date (default today).
// Returns repository.ErrNotFound when that date and type were never computed.
func (s *DashboardService) GetCalculationResults(ctx context.Context, resultType string, date *time.Time) (datatypes.JSON, error) {
	at := time.Now()
	if date != nil {
		at = *date
	}
	return s.repo.GetResult(ctx, snapshotDate(at), resultType)
}

// RunAllCalculations recomputes every dashboard metric over the trailing
// window and snapshots each in turn: PIC points, shipper trend, loading
// port trend. The run stops at the first failure; snapshots already saved
// in the run stand.
func (s *DashboardService) RunAllCalculations(ctx context.Context) error {
	end := time.Now()
	start := end.AddDate(0, 0, -recomputeWindowDays)

	s.logger.Info("dashboard recompute started",
		zap.Time("window_start", start),
		zap.Time("window_end", end))

	picPoints, err := s.CalculatePICPoints(ctx, start, end)
	if err != nil {
		return fmt.Errorf("calculate pic points: %w", err)
	}
	if err := s.SaveCalculationResults(ctx, entity.ResultTypePICPoints, picPoints); err != nil {
		return fmt.Errorf("save pic points: %w", err)
	}

	shipperTrend, err := s.CalculateShipperTrend(ctx, start, end)
	if err != nil {
		return fmt.Errorf("calculate shipper trend: %w", err)
	}
	if err := s.SaveCalculationResults(ctx, entity.ResultTypeShipperTrend, shipperTrend); err != nil {
		return fmt.Errorf("save shipper trend: %w", err)
	}

	portTrend, err := s.CalculateLoadingPortTrend(ctx, start, end)
	if err != nil {
		return fmt.Errorf("calculate loading port trend: %w", err)
	}
	if err := s.SaveCalculationResults(ctx, entity.ResultTypeLoadingPortTrend, portTrend); err != nil {
		return fmt.Errorf("save loading port trend: %w", err)
	}

	s.logger.Info("dashboard recompute finished",
		zap.Int("pic_rows", len(picPoints)),
		zap.Int("shipper_rows", len(shipperTrend)),
		zap.Int("port_rows", len(portTrend)))
	return nil
}
