package entity

import (
	"time"
)

// Reference kinds used by the registry.
const (
	KindVessel          = "vessel"
	KindPIC             = "person_in_charge"
	KindShipper         = "shipper"
	KindBuyer           = "buyer"
	KindLoadingPort     = "loading_port"
	KindDischargingPort = "discharging_port"
)

// Vessel dimension row, deduplicated by name.
type Vessel struct {
	ID         string    `json:"id" gorm:"primaryKey;size:32"`
	VesselName string    `json:"vessel_name" gorm:"size:255;not null;uniqueIndex"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Vessel) TableName() string {
	return "vessels"
}

// PIC person-in-charge. Provisioned out-of-band, resolved by code.
type PIC struct {
	ID        string    `json:"id" gorm:"primaryKey;size:32"`
	PICName   string    `json:"pic_name" gorm:"size:100;not null;uniqueIndex"`
	PICCode   string    `json:"pic_code" gorm:"size:50;not null;uniqueIndex"`
	ColorCode string    `json:"color_code" gorm:"size:20;default:#8B9FDE"`
	CreatedAt time.Time `json:"created_at"`
}

func (PIC) TableName() string {
	return "pics"
}

// Shipper dimension row.
type Shipper struct {
	ID          string    `json:"id" gorm:"primaryKey;size:32"`
	ShipperName string    `json:"shipper_name" gorm:"size:255;not null;uniqueIndex"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Shipper) TableName() string {
	return "shippers"
}

// Buyer dimension row.
type Buyer struct {
	ID        string    `json:"id" gorm:"primaryKey;size:32"`
	BuyerName string    `json:"buyer_name" gorm:"size:255;not null;uniqueIndex"`
	CreatedAt time.Time `json:"created_at"`
}

func (Buyer) TableName() string {
	return "buyers"
}

// LoadingPort dimension row.
type LoadingPort struct {
	ID        string    `json:"id" gorm:"primaryKey;size:32"`
	PortName  string    `json:"port_name" gorm:"size:255;not null;uniqueIndex"`
	CreatedAt time.Time `json:"created_at"`
}

func (LoadingPort) TableName() string {
	return "loading_ports"
}

// DischargingPort dimension row.
type DischargingPort struct {
	ID        string    `json:"id" gorm:"primaryKey;size:32"`
	PortName  string    `json:"port_name" gorm:"size:255;not null;uniqueIndex"`
	CreatedAt time.Time `json:"created_at"`
}

func (DischargingPort) TableName() string {
	return "discharging_ports"
}
