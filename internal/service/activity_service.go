package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gusti-hub/mlb-borneo-be/internal/entity"
	"github.com/gusti-hub/mlb-borneo-be/internal/repository"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ActivityService orchestrates activity ingestion. Reference resolution,
// the activity insert and its appointment inserts share one transaction:
// either the whole engagement lands or nothing does.
type ActivityService struct {
	db          *gorm.DB
	refs        *repository.ReferenceRepository
	activities  *repository.ActivityRepository
	attachments *AttachmentService
	logger      *zap.Logger
}

// NewActivityService creates the activity service.
func NewActivityService(db *gorm.DB, refs *repository.ReferenceRepository, activities *repository.ActivityRepository, attachments *AttachmentService, logger *zap.Logger) *ActivityService {
	return &ActivityService{
		db:          db,
		refs:        refs,
		activities:  activities,
		attachments: attachments,
		logger:      logger,
	}
}

// AppointmentInput is one scheduled appointment on an incoming activity.
type AppointmentInput struct {
	AppointmentDate string `json:"appointment_date"`
	Notes           string `json:"notes"`
}

// CreateActivityRequest carries a new engagement. References arrive as
// business names, not ids; the service resolves them.
type CreateActivityRequest struct {
	VesselName          string `json:"vessel_name" binding:"required"`
	PICCode             string `json:"pic_code"`
	ShipperName         string `json:"shipper_name" binding:"required"`
	BuyerName           string `json:"buyer_name" binding:"required"`
	LoadingPortName     string `json:"loading_port_name" binding:"required"`
	DischargingPortName string `json:"discharging_port_name" binding:"required"`

	ShipOwner     string   `json:"ship_owner"`
	StowagePlan   string   `json:"stowage_plan"`
	StowageFactor *float64 `json:"stowage_factor"`
	TaLoadPort    string   `json:"ta_load_port"`
	LocalAgent    string   `json:"local_agent"`

	InquiryDate            string `json:"inquiry_date"`
	AppointmentRepliedDate string `json:"appointment_replied_date"`

	EtaNoticeShipper           string `json:"eta_notice_shipper"`
	EtaNoticeBuyer             string `json:"eta_notice_buyer"`
	EtaNoticeShipOwner         string `json:"eta_notice_ship_owner"`
	EtaNoticeNominatedSurveyor string `json:"eta_notice_nominated_surveyor"`

	LoadingReceipt      string `json:"loading_receipt"`
	PortClearanceIssued string `json:"port_clearance_issued"`

	Status string `json:"status"`
	Notes  string `json:"notes"`

	Appointments []AppointmentInput `json:"appointments"`
}

// UpdateActivityRequest is a partial update. A nil field is untouched; a
// present-but-empty string clears the column to NULL.
type UpdateActivityRequest struct {
	ShipOwner     *string  `json:"ship_owner"`
	StowagePlan   *string  `json:"stowage_plan"`
	StowageFactor *float64 `json:"stowage_factor"`
	TaLoadPort    *string  `json:"ta_load_port"`
	LocalAgent    *string  `json:"local_agent"`

	InquiryDate            *string `json:"inquiry_date"`
	AppointmentRepliedDate *string `json:"appointment_replied_date"`

	EtaNoticeShipper           *string `json:"eta_notice_shipper"`
	EtaNoticeBuyer             *string `json:"eta_notice_buyer"`
	EtaNoticeShipOwner         *string `json:"eta_notice_ship_owner"`
	EtaNoticeNominatedSurveyor *string `json:"eta_notice_nominated_surveyor"`

	LoadingReceipt      *string `json:"loading_receipt"`
	PortClearanceIssued *string `json:"port_clearance_issued"`

	Status *string `json:"status"`
	Notes  *string `json:"notes"`
}

var dateLayouts = []string{"2006-01-02", time.RFC3339}

// parseDate accepts plain dates or RFC3339 timestamps. Empty is nil.
func parseDate(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: %s is not a valid date", ErrValidation, field)
}

func optionalText(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Create ingests one activity. Validation happens before the transaction
// opens; inside it, names are resolved to dimension ids, the activity row
// is inserted, then its appointments.
func (s *ActivityService) Create(ctx context.Context, userID string, req *CreateActivityRequest) (*entity.Activity, error) {
	required := map[string]string{
		"vessel_name":           req.VesselName,
		"shipper_name":          req.ShipperName,
		"buyer_name":            req.BuyerName,
		"loading_port_name":     req.LoadingPortName,
		"discharging_port_name": req.DischargingPortName,
	}
	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			return nil, fmt.Errorf("%w: %s is required", ErrValidation, field)
		}
	}

	status := req.Status
	if status == "" {
		status = entity.ActivityStatusActive
	}
	if !entity.ValidActivityStatus(status) {
		return nil, fmt.Errorf("%w: invalid status %q", ErrValidation, req.Status)
	}

	activity := &entity.Activity{
		ID:            repository.NewID(),
		CreatedBy:     userID,
		ShipOwner:     optionalText(req.ShipOwner),
		StowagePlan:   optionalText(req.StowagePlan),
		StowageFactor: req.StowageFactor,
		TaLoadPort:    optionalText(req.TaLoadPort),
		LocalAgent:    optionalText(req.LocalAgent),
		Status:        status,
		Notes:         optionalText(req.Notes),
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	dates := []struct {
		field string
		value string
		dst   **time.Time
	}{
		{"inquiry_date", req.InquiryDate, &activity.InquiryDate},
		{"appointment_replied_date", req.AppointmentRepliedDate, &activity.AppointmentRepliedDate},
		{"eta_notice_shipper", req.EtaNoticeShipper, &activity.EtaNoticeShipper},
		{"eta_notice_buyer", req.EtaNoticeBuyer, &activity.EtaNoticeBuyer},
		{"eta_notice_ship_owner", req.EtaNoticeShipOwner, &activity.EtaNoticeShipOwner},
		{"eta_notice_nominated_surveyor", req.EtaNoticeNominatedSurveyor, &activity.EtaNoticeNominatedSurveyor},
		{"loading_receipt", req.LoadingReceipt, &activity.LoadingReceipt},
		{"port_clearance_issued", req.PortClearanceIssued, &activity.PortClearanceIssued},
	}
	for _, d := range dates {
		t, err := parseDate(d.field, d.value)
		if err != nil {
			return nil, err
		}
		*d.dst = t
	}

	appointments := make([]entity.Appointment, 0, len(req.Appointments))
	for i, a := range req.Appointments {
		date, err := parseDate(fmt.Sprintf("appointments[%d].appointment_date", i), a.AppointmentDate)
		if err != nil {
			return nil, err
		}
		appointments = append(appointments, entity.Appointment{
			ID:              repository.NewID(),
			ActivityID:      activity.ID,
			AppointmentDate: date,
			Notes:           a.Notes,
			CreatedAt:       time.Now(),
		})
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if activity.VesselID, err = s.refs.ResolveVessel(tx, req.VesselName); err != nil {
			return err
		}
		if req.PICCode != "" {
			if activity.PICID, err = s.refs.LookupPICByCode(tx, req.PICCode); err != nil {
				return err
			}
		}
		if activity.ShipperID, err = s.refs.ResolveShipper(tx, req.ShipperName); err != nil {
			return err
		}
		if activity.BuyerID, err = s.refs.ResolveBuyer(tx, req.BuyerName); err != nil {
			return err
		}
		if activity.LoadingPortID, err = s.refs.ResolveLoadingPort(tx, req.LoadingPortName); err != nil {
			return err
		}
		if activity.DischargingPortID, err = s.refs.ResolveDischargingPort(tx, req.DischargingPortName); err != nil {
			return err
		}
		if err = s.activities.Create(tx, activity); err != nil {
			return fmt.Errorf("insert activity: %w", err)
		}
		return s.activities.CreateAppointments(tx, appointments)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("activity created",
		zap.String("activity_id", activity.ID),
		zap.String("vessel", req.VesselName),
		zap.Int("appointments", len(appointments)))

	return s.activities.FindByID(ctx, activity.ID)
}

// Get loads one activity with its references, appointments and attachments.
func (s *ActivityService) Get(ctx context.Context, id string) (*entity.Activity, error) {
	return s.activities.FindByID(ctx, id)
}

// List returns a filtered page of activities.
func (s *ActivityService) List(ctx context.Context, page, pageSize int, filters map[string]interface{}) ([]entity.Activity, int64, error) {
	return s.activities.List(ctx, page, pageSize, filters)
}

// Update applies a partial update. Fields absent from the request keep
// their value; fields present with an empty string become NULL.
func (s *ActivityService) Update(ctx context.Context, id string, req *UpdateActivityRequest) (*entity.Activity, error) {
	if _, err := s.activities.FindByID(ctx, id); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}

	texts := map[string]*string{
		"ship_owner":   req.ShipOwner,
		"stowage_plan": req.StowagePlan,
		"ta_load_port": req.TaLoadPort,
		"local_agent":  req.LocalAgent,
		"notes":        req.Notes,
	}
	for column, value := range texts {
		if value == nil {
			continue
		}
		if *value == "" {
			fields[column] = nil
		} else {
			fields[column] = *value
		}
	}

	dates := map[string]*string{
		"inquiry_date":                  req.InquiryDate,
		"appointment_replied_date":      req.AppointmentRepliedDate,
		"eta_notice_shipper":            req.EtaNoticeShipper,
		"eta_notice_buyer":              req.EtaNoticeBuyer,
		"eta_notice_ship_owner":         req.EtaNoticeShipOwner,
		"eta_notice_nominated_surveyor": req.EtaNoticeNominatedSurveyor,
		"loading_receipt":               req.LoadingReceipt,
		"port_clearance_issued":         req.PortClearanceIssued,
	}
	for column, value := range dates {
		if value == nil {
			continue
		}
		if *value == "" {
			fields[column] = nil
			continue
		}
		t, err := parseDate(column, *value)
		if err != nil {
			return nil, err
		}
		fields[column] = *t
	}

	if req.StowageFactor != nil {
		fields["stowage_factor"] = *req.StowageFactor
	}
	if req.Status != nil {
		if !entity.ValidActivityStatus(*req.Status) {
			return nil, fmt.Errorf("%w: invalid status %q", ErrValidation, *req.Status)
		}
		fields["status"] = *req.Status
	}

	if err := s.activities.UpdateFields(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.activities.FindByID(ctx, id)
}

// Delete removes an activity. Appointments and attachment rows cascade in
// the database; stored attachment objects are removed best-effort after
// the row is gone, so a storage failure only orphans bytes, never rows.
// Deleting a missing id is a successful no-op.
func (s *ActivityService) Delete(ctx context.Context, id string) error {
	activity, err := s.activities.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := s.activities.Delete(ctx, id); err != nil {
		return err
	}
	for _, att := range activity.Attachments {
		s.attachments.removeObject(ctx, att.FilePath)
	}
	s.logger.Info("activity deleted",
		zap.String("activity_id", id),
		zap.Int("attachments", len(activity.Attachments)))
	return nil
}

// ExportXLSX renders the filtered activity list as a spreadsheet.
func (s *ActivityService) ExportXLSX(ctx context.Context, filters map[string]interface{}) (*excelize.File, error) {
	activities, _, err := s.activities.List(ctx, 1, 10000, filters)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := "Activities"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Vessel", "PIC", "Shipper", "Buyer", "Loading Port", "Discharging Port",
		"Status", "Inquiry Date", "Appointment Replied", "Loading Receipt", "Port Clearance", "Created At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	formatDate := func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format("2006-01-02")
	}

	for row, a := range activities {
		var vessel, pic, shipper, buyer, loadPort, dischPort string
		if a.Vessel != nil {
			vessel = a.Vessel.VesselName
		}
		if a.PIC != nil {
			pic = a.PIC.PICName
		}
		if a.Shipper != nil {
			shipper = a.Shipper.ShipperName
		}
		if a.Buyer != nil {
			buyer = a.Buyer.BuyerName
		}
		if a.LoadingPort != nil {
			loadPort = a.LoadingPort.PortName
		}
		if a.DischargingPort != nil {
			dischPort = a.DischargingPort.PortName
		}
		values := []interface{}{
			vessel, pic, shipper, buyer, loadPort, dischPort,
			a.Status,
			formatDate(a.InquiryDate),
			formatDate(a.AppointmentRepliedDate),
			formatDate(a.LoadingReceipt),
			formatDate(a.PortClearanceIssued),
			a.CreatedAt.Format("2006-01-02 15:04"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	return f, nil
}
