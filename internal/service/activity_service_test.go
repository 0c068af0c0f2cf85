package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gusti-hub/mlb-borneo-be/internal/entity"
	"github.com/gusti-hub/mlb-borneo-be/internal/repository"
	"github.com/gusti-hub/mlb-borneo-be/internal/service"
	"github.com/gusti-hub/mlb-borneo-be/internal/testutil"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newActivityService(t *testing.T, db *gorm.DB) (*service.ActivityService, *repository.Repositories) {
	t.Helper()
	repos := repository.NewRepositories(db)
	attachments := service.NewAttachmentService(repos.Attachment, repos.Activity, nil, "", zap.NewNop())
	return service.NewActivityService(db, repos.Reference, repos.Activity, attachments, zap.NewNop()), repos
}

func TestCreateActivityResolvesReferences(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc, _ := newActivityService(t, db)
	user := testutil.SeedTestUser(t, db, "u-1", "desk", "desk@test.com")
	testutil.SeedTestPIC(t, db, "Alda", "ALDA")

	req := &service.CreateActivityRequest{
		VesselName:          "MV TEST",
		PICCode:             "ALDA",
		ShipperName:         "PT Shipper",
		BuyerName:           "Buyer Co",
		LoadingPortName:     "Tanjung Bara",
		DischargingPortName: "Qinhuangdao",
		InquiryDate:         "2026-08-01",
		Status:              "pending",
		Appointments: []service.AppointmentInput{
			{AppointmentDate: "2026-08-10", Notes: "survey"},
			{AppointmentDate: "2026-08-12", Notes: "loading"},
		},
	}

	activity, err := svc.Create(context.Background(), user.ID, req)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if activity.Vessel == nil || activity.Vessel.VesselName != "MV TEST" {
		t.Error("vessel was not resolved")
	}
	if activity.PIC == nil || activity.PIC.PICCode != "ALDA" {
		t.Error("pic was not attached")
	}
	if activity.Status != entity.ActivityStatusPending {
		t.Errorf("status = %q, want pending", activity.Status)
	}
	if len(activity.Appointments) != 2 {
		t.Fatalf("expected 2 appointments, got %d", len(activity.Appointments))
	}
	if activity.Appointments[0].Notes != "survey" {
		t.Errorf("appointments not ordered by date: first is %q", activity.Appointments[0].Notes)
	}

	// reusing names must not create duplicate dimension rows
	if _, err := svc.Create(context.Background(), user.ID, req); err != nil {
		t.Fatalf("second create: %v", err)
	}
	var vessels int64
	db.Model(&entity.Vessel{}).Count(&vessels)
	if vessels != 1 {
		t.Errorf("expected 1 vessel row after reuse, got %d", vessels)
	}
}

func TestCreateActivityUnknownPICCode(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc, _ := newActivityService(t, db)
	user := testutil.SeedTestUser(t, db, "u-1", "desk", "desk@test.com")

	activity, err := svc.Create(context.Background(), user.ID, &service.CreateActivityRequest{
		VesselName:          "MV TEST",
		PICCode:             "GHOST",
		ShipperName:         "PT Shipper",
		BuyerName:           "Buyer Co",
		LoadingPortName:     "Tanjung Bara",
		DischargingPortName: "Qinhuangdao",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if activity.PICID != nil {
		t.Error("unknown pic code must leave pic_id NULL")
	}
	var pics int64
	db.Model(&entity.PIC{}).Count(&pics)
	if pics != 0 {
		t.Errorf("unknown pic code must not create a PIC, found %d rows", pics)
	}
}

func TestCreateActivityValidation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc, _ := newActivityService(t, db)

	_, err := svc.Create(context.Background(), "u-1", &service.CreateActivityRequest{
		VesselName:          "  ",
		ShipperName:         "PT Shipper",
		BuyerName:           "Buyer Co",
		LoadingPortName:     "Tanjung Bara",
		DischargingPortName: "Qinhuangdao",
	})
	if !errors.Is(err, service.ErrValidation) {
		t.Errorf("blank vessel name: got %v, want validation error", err)
	}

	_, err = svc.Create(context.Background(), "u-1", &service.CreateActivityRequest{
		VesselName:          "MV TEST",
		ShipperName:         "PT Shipper",
		BuyerName:           "Buyer Co",
		LoadingPortName:     "Tanjung Bara",
		DischargingPortName: "Qinhuangdao",
		Status:              "done",
	})
	if !errors.Is(err, service.ErrValidation) {
		t.Errorf("bad status: got %v, want validation error", err)
	}

	_, err = svc.Create(context.Background(), "u-1", &service.CreateActivityRequest{
		VesselName:          "MV TEST",
		ShipperName:         "PT Shipper",
		BuyerName:           "Buyer Co",
		LoadingPortName:     "Tanjung Bara",
		DischargingPortName: "Qinhuangdao",
		InquiryDate:         "yesterday",
	})
	if !errors.Is(err, service.ErrValidation) {
		t.Errorf("bad date: got %v, want validation error", err)
	}

	// nothing may have leaked into the dimension tables
	var vessels int64
	db.Model(&entity.Vessel{}).Count(&vessels)
	if vessels != 0 {
		t.Errorf("validation failures must not write rows, found %d vessels", vessels)
	}
}

func TestUpdateActivityPartial(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc, _ := newActivityService(t, db)
	user := testutil.SeedTestUser(t, db, "u-1", "desk", "desk@test.com")

	created, err := svc.Create(context.Background(), user.ID, &service.CreateActivityRequest{
		VesselName:          "MV TEST",
		ShipperName:         "PT Shipper",
		BuyerName:           "Buyer Co",
		LoadingPortName:     "Tanjung Bara",
		DischargingPortName: "Qinhuangdao",
		ShipOwner:           "Owner Ltd",
		InquiryDate:         "2026-08-01",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	status := "completed"
	updated, err := svc.Update(context.Background(), created.ID, &service.UpdateActivityRequest{
		Status: &status,
	})
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.Status != "completed" {
		t.Errorf("status = %q, want completed", updated.Status)
	}
	if updated.InquiryDate == nil {
		t.Error("untouched inquiry_date was cleared")
	}
	if updated.ShipOwner == nil || *updated.ShipOwner != "Owner Ltd" {
		t.Error("untouched ship_owner was changed")
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Error("updated_at was not bumped")
	}

	// explicit empty string clears to NULL
	empty := ""
	updated, err = svc.Update(context.Background(), created.ID, &service.UpdateActivityRequest{
		ShipOwner:   &empty,
		InquiryDate: &empty,
	})
	if err != nil {
		t.Fatalf("update to null: %v", err)
	}
	if updated.ShipOwner != nil {
		t.Errorf("ship_owner = %v, want NULL", *updated.ShipOwner)
	}
	if updated.InquiryDate != nil {
		t.Error("inquiry_date should be NULL after empty-string update")
	}
}

func TestUpdateActivityNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc, _ := newActivityService(t, db)

	status := "active"
	_, err := svc.Update(context.Background(), "missing-id", &service.UpdateActivityRequest{Status: &status})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestDeleteActivityCascades(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc, repos := newActivityService(t, db)
	user := testutil.SeedTestUser(t, db, "u-1", "desk", "desk@test.com")

	created, err := svc.Create(context.Background(), user.ID, &service.CreateActivityRequest{
		VesselName:          "MV TEST",
		ShipperName:         "PT Shipper",
		BuyerName:           "Buyer Co",
		LoadingPortName:     "Tanjung Bara",
		DischargingPortName: "Qinhuangdao",
		Appointments: []service.AppointmentInput{
			{AppointmentDate: "2026-08-10", Notes: "survey"},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	att := &entity.Attachment{
		ID:         repository.NewID(),
		ActivityID: created.ID,
		FileName:   "stowage.pdf",
		FilePath:   "attachments/2026/08/28/abc.pdf",
		FileSize:   1024,
		UploadedBy: user.ID,
		CreatedAt:  time.Now(),
	}
	if err := repos.Attachment.Create(context.Background(), att); err != nil {
		t.Fatalf("seed attachment: %v", err)
	}

	if err := svc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := svc.Get(context.Background(), created.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("get after delete: got %v, want ErrNotFound", err)
	}
	var appointments, attachments int64
	db.Model(&entity.Appointment{}).Where("activity_id = ?", created.ID).Count(&appointments)
	db.Model(&entity.Attachment{}).Where("activity_id = ?", created.ID).Count(&attachments)
	if appointments != 0 || attachments != 0 {
		t.Errorf("cascade failed: %d appointments, %d attachments remain", appointments, attachments)
	}

	// dimension rows survive the delete
	var vessels int64
	db.Model(&entity.Vessel{}).Count(&vessels)
	if vessels != 1 {
		t.Errorf("vessel row should survive activity delete, found %d", vessels)
	}
}

func TestDeleteActivityMissingIDIsNoOp(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc, _ := newActivityService(t, db)

	if err := svc.Delete(context.Background(), "missing-id"); err != nil {
		t.Errorf("got %v, want nil", err)
	}
}
