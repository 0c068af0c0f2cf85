package entity

import (
	"time"

	"gorm.io/datatypes"
)

// Dashboard result types. One snapshot per (calculation_date, type).
const (
	ResultTypePICPoints        = "pic_points"
	ResultTypeShipperTrend     = "shipper_trend"
	ResultTypeLoadingPortTrend = "loading_port_trend"
)

// DashboardResult is a point-in-time snapshot of a computed metric.
// It is a cache: always rebuildable from the activities table.
type DashboardResult struct {
	ID              string         `json:"id" gorm:"primaryKey;size:32"`
	CalculationDate time.Time      `json:"calculation_date" gorm:"type:date;not null;uniqueIndex:idx_dashboard_results_date_type;index"`
	ResultType      string         `json:"result_type" gorm:"size:100;not null;uniqueIndex:idx_dashboard_results_date_type;index"`
	ResultData      datatypes.JSON `json:"result_data" gorm:"type:jsonb;not null"`
	CreatedAt       time.Time      `json:"created_at"`
}

func (DashboardResult) TableName() string {
	return "dashboard_results"
}

// PICPoints is one scored row of the pic_points metric. A PIC with no
// in-window activities still appears with zero counts.
type PICPoints struct {
	PICName   string `json:"pic_name"`
	PICCode   string `json:"pic_code"`
	ColorCode string `json:"color_code"`
	Points    int    `json:"points"`
	Completed int    `json:"completed"`
	Active    int    `json:"active"`
	Pending   int    `json:"pending"`
	Total     int    `json:"total"`
}

// PICActivityCounts is the raw per-status aggregate behind PICPoints.
type PICActivityCounts struct {
	PICName        string `json:"pic_name"`
	PICCode        string `json:"pic_code"`
	ColorCode      string `json:"color_code"`
	CompletedCount int    `json:"completed_count"`
	ActiveCount    int    `json:"active_count"`
	PendingCount   int    `json:"pending_count"`
	TotalCount     int    `json:"total_count"`
}

// ShipperTrend is activity volume for one shipper in one calendar month.
type ShipperTrend struct {
	ShipperName      string `json:"shipper_name"`
	TransactionCount int    `json:"transaction_count"`
	Month            int    `json:"month"`
}

// LoadingPortTrend is usage volume for one loading port in one calendar month.
type LoadingPortTrend struct {
	PortName   string `json:"port_name"`
	UsageCount int    `json:"usage_count"`
	Month      int    `json:"month"`
}

// PICPerformance is one activity's milestone timings for a PIC.
// Durations are nil when either endpoint is missing or the delta is
// negative; they are never coerced to zero.
type PICPerformance struct {
	VesselName             string     `json:"vessel_name"`
	InquiryDate            *time.Time `json:"inquiry_date"`
	AppointmentRepliedDate *time.Time `json:"appointment_replied_date"`
	EtaNoticeShipper       *time.Time `json:"eta_notice_shipper"`
	LoadingReceipt         *time.Time `json:"loading_receipt"`
	PortClearanceIssued    *time.Time `json:"port_clearance_issued"`
	InquiryDurationHours   *float64   `json:"inquiry_duration_hours"`
	EtaToLoadingDays       *float64   `json:"eta_to_loading_days"`
}
