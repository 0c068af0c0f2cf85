package entity

import (
	"time"
)

// Activity statuses. Transitions are unconstrained: the desk re-opens
// engagements when a clearance bounces, so completed→pending is legal.
const (
	ActivityStatusPending   = "pending"
	ActivityStatusActive    = "active"
	ActivityStatusCompleted = "completed"
)

// ValidActivityStatus reports whether s is a known status value.
func ValidActivityStatus(s string) bool {
	switch s {
	case ActivityStatusPending, ActivityStatusActive, ActivityStatusCompleted:
		return true
	}
	return false
}

// Activity is one chartering engagement, inquiry through port clearance.
// All milestone dates are optional; absence is NULL, never "".
type Activity struct {
	ID                string  `json:"id" gorm:"primaryKey;size:32"`
	VesselID          string  `json:"vessel_id" gorm:"size:32;not null;index"`
	PICID             *string `json:"pic_id" gorm:"size:32;index"`
	ShipperID         string  `json:"shipper_id" gorm:"size:32;not null"`
	BuyerID           string  `json:"buyer_id" gorm:"size:32;not null"`
	LoadingPortID     string  `json:"loading_port_id" gorm:"size:32;not null"`
	DischargingPortID string  `json:"discharging_port_id" gorm:"size:32;not null"`
	CreatedBy         string  `json:"created_by" gorm:"size:32;not null;index"`

	ShipOwner     *string  `json:"ship_owner" gorm:"size:255"`
	StowagePlan   *string  `json:"stowage_plan" gorm:"size:255"`
	StowageFactor *float64 `json:"stowage_factor" gorm:"type:decimal(10,2)"`
	TaLoadPort    *string  `json:"ta_load_port" gorm:"size:255"`
	LocalAgent    *string  `json:"local_agent" gorm:"size:255"`

	InquiryDate            *time.Time `json:"inquiry_date"`
	AppointmentRepliedDate *time.Time `json:"appointment_replied_date"`

	EtaNoticeShipper           *time.Time `json:"eta_notice_shipper" gorm:"type:date"`
	EtaNoticeBuyer             *time.Time `json:"eta_notice_buyer" gorm:"type:date"`
	EtaNoticeShipOwner         *time.Time `json:"eta_notice_ship_owner" gorm:"type:date"`
	EtaNoticeNominatedSurveyor *time.Time `json:"eta_notice_nominated_surveyor" gorm:"type:date"`

	LoadingReceipt      *time.Time `json:"loading_receipt" gorm:"type:date"`
	PortClearanceIssued *time.Time `json:"port_clearance_issued" gorm:"type:date"`

	Status    string    `json:"status" gorm:"size:50;not null;default:active;index"`
	Notes     *string   `json:"notes" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Associations
	Vessel          *Vessel          `json:"vessel,omitempty" gorm:"foreignKey:VesselID"`
	PIC             *PIC             `json:"pic,omitempty" gorm:"foreignKey:PICID"`
	Shipper         *Shipper         `json:"shipper,omitempty" gorm:"foreignKey:ShipperID"`
	Buyer           *Buyer           `json:"buyer,omitempty" gorm:"foreignKey:BuyerID"`
	LoadingPort     *LoadingPort     `json:"loading_port,omitempty" gorm:"foreignKey:LoadingPortID"`
	DischargingPort *DischargingPort `json:"discharging_port,omitempty" gorm:"foreignKey:DischargingPortID"`
	Creator         *User            `json:"creator,omitempty" gorm:"foreignKey:CreatedBy"`
	Appointments    []Appointment    `json:"appointments,omitempty" gorm:"foreignKey:ActivityID;constraint:OnDelete:CASCADE"`
	Attachments     []Attachment     `json:"attachments,omitempty" gorm:"foreignKey:ActivityID;constraint:OnDelete:CASCADE"`
}

func (Activity) TableName() string {
	return "activities"
}

// Appointment is owned by exactly one activity and only ever created
// as part of activity ingestion.
type Appointment struct {
	ID              string     `json:"id" gorm:"primaryKey;size:32"`
	ActivityID      string     `json:"activity_id" gorm:"size:32;not null;index"`
	AppointmentDate *time.Time `json:"appointment_date" gorm:"type:date"`
	Notes           string     `json:"notes" gorm:"type:text"`
	CreatedAt       time.Time  `json:"created_at"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// Attachment is a stored file descriptor. The bytes live in object
// storage under FilePath; the row only carries the descriptor.
type Attachment struct {
	ID         string    `json:"id" gorm:"primaryKey;size:32"`
	ActivityID string    `json:"activity_id" gorm:"size:32;not null;index"`
	FileName   string    `json:"file_name" gorm:"size:255;not null"`
	FilePath   string    `json:"file_path" gorm:"size:512;not null"`
	FileType   string    `json:"file_type" gorm:"size:100"`
	FileSize   int64     `json:"file_size" gorm:"not null"`
	UploadedBy string    `json:"uploaded_by" gorm:"size:32;not null"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Attachment) TableName() string {
	return "attachments"
}
