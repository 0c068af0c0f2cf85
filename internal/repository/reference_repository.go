package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gusti-hub/mlb-borneo-be/internal/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReferenceRepository is the only write path into the dimension tables.
// Resolution is insert-on-conflict-do-nothing followed by a lookup, so a
// uniqueness race with a concurrent caller degrades to reusing their row.
type ReferenceRepository struct {
	db *gorm.DB
}

// NewReferenceRepository creates the reference registry repository.
func NewReferenceRepository(db *gorm.DB) *ReferenceRepository {
	return &ReferenceRepository{db: db}
}

func conflictOnName(column string) clause.Expression {
	return clause.OnConflict{
		Columns:   []clause.Column{{Name: column}},
		DoNothing: true,
	}
}

// ResolveVessel returns the id for a vessel name, creating the row if needed.
func (r *ReferenceRepository) ResolveVessel(tx *gorm.DB, name string) (string, error) {
	v := entity.Vessel{ID: NewID(), VesselName: name, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	if err := tx.Clauses(conflictOnName("vessel_name")).Create(&v).Error; err != nil {
		return "", fmt.Errorf("insert vessel: %w", err)
	}
	var row entity.Vessel
	if err := tx.Where("vessel_name = ?", name).First(&row).Error; err != nil {
		return "", fmt.Errorf("lookup vessel: %w", err)
	}
	return row.ID, nil
}

// ResolveShipper returns the id for a shipper name, creating the row if needed.
func (r *ReferenceRepository) ResolveShipper(tx *gorm.DB, name string) (string, error) {
	s := entity.Shipper{ID: NewID(), ShipperName: name, CreatedAt: time.Now()}
	if err := tx.Clauses(conflictOnName("shipper_name")).Create(&s).Error; err != nil {
		return "", fmt.Errorf("insert shipper: %w", err)
	}
	var row entity.Shipper
	if err := tx.Where("shipper_name = ?", name).First(&row).Error; err != nil {
		return "", fmt.Errorf("lookup shipper: %w", err)
	}
	return row.ID, nil
}

// ResolveBuyer returns the id for a buyer name, creating the row if needed.
func (r *ReferenceRepository) ResolveBuyer(tx *gorm.DB, name string) (string, error) {
	b := entity.Buyer{ID: NewID(), BuyerName: name, CreatedAt: time.Now()}
	if err := tx.Clauses(conflictOnName("buyer_name")).Create(&b).Error; err != nil {
		return "", fmt.Errorf("insert buyer: %w", err)
	}
	var row entity.Buyer
	if err := tx.Where("buyer_name = ?", name).First(&row).Error; err != nil {
		return "", fmt.Errorf("lookup buyer: %w", err)
	}
	return row.ID, nil
}

// ResolveLoadingPort returns the id for a loading port name, creating the row if needed.
func (r *ReferenceRepository) ResolveLoadingPort(tx *gorm.DB, name string) (string, error) {
	p := entity.LoadingPort{ID: NewID(), PortName: name, CreatedAt: time.Now()}
	if err := tx.Clauses(conflictOnName("port_name")).Create(&p).Error; err != nil {
		return "", fmt.Errorf("insert loading port: %w", err)
	}
	var row entity.LoadingPort
	if err := tx.Where("port_name = ?", name).First(&row).Error; err != nil {
		return "", fmt.Errorf("lookup loading port: %w", err)
	}
	return row.ID, nil
}

// ResolveDischargingPort returns the id for a discharging port name, creating the row if needed.
func (r *ReferenceRepository) ResolveDischargingPort(tx *gorm.DB, name string) (string, error) {
	p := entity.DischargingPort{ID: NewID(), PortName: name, CreatedAt: time.Now()}
	if err := tx.Clauses(conflictOnName("port_name")).Create(&p).Error; err != nil {
		return "", fmt.Errorf("insert discharging port: %w", err)
	}
	var row entity.DischargingPort
	if err := tx.Where("port_name = ?", name).First(&row).Error; err != nil {
		return "", fmt.Errorf("lookup discharging port: %w", err)
	}
	return row.ID, nil
}

// LookupPICByCode finds a PIC id by code. People are provisioned
// out-of-band, so an unknown code yields (nil, nil), never a new row.
func (r *ReferenceRepository) LookupPICByCode(tx *gorm.DB, code string) (*string, error) {
	var pic entity.PIC
	err := tx.Where("pic_code = ?", code).First(&pic).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("lookup pic: %w", err)
	}
	return &pic.ID, nil
}

// Resolve is the standalone (self-transaction) form of the per-kind
// resolvers, keyed by reference kind.
func (r *ReferenceRepository) Resolve(ctx context.Context, kind, name string) (string, error) {
	tx := r.db.WithContext(ctx)
	switch kind {
	case entity.KindVessel:
		return r.ResolveVessel(tx, name)
	case entity.KindShipper:
		return r.ResolveShipper(tx, name)
	case entity.KindBuyer:
		return r.ResolveBuyer(tx, name)
	case entity.KindLoadingPort:
		return r.ResolveLoadingPort(tx, name)
	case entity.KindDischargingPort:
		return r.ResolveDischargingPort(tx, name)
	}
	return "", fmt.Errorf("unknown reference kind %q", kind)
}

// FindPICByID returns a PIC row by id.
func (r *ReferenceRepository) FindPICByID(ctx context.Context, id string) (*entity.PIC, error) {
	var pic entity.PIC
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&pic).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &pic, nil
}

// ListVessels returns all vessels ordered by name.
func (r *ReferenceRepository) ListVessels(ctx context.Context) ([]entity.Vessel, error) {
	var rows []entity.Vessel
	err := r.db.WithContext(ctx).Order("vessel_name ASC").Find(&rows).Error
	return rows, err
}

// ListPICs returns all PICs ordered by name.
func (r *ReferenceRepository) ListPICs(ctx context.Context) ([]entity.PIC, error) {
	var rows []entity.PIC
	err := r.db.WithContext(ctx).Order("pic_name ASC").Find(&rows).Error
	return rows, err
}

// ListShippers returns all shippers ordered by name.
func (r *ReferenceRepository) ListShippers(ctx context.Context) ([]entity.Shipper, error) {
	var rows []entity.Shipper
	err := r.db.WithContext(ctx).Order("shipper_name ASC").Find(&rows).Error
	return rows, err
}

// ListBuyers returns all buyers ordered by name.
func (r *ReferenceRepository) ListBuyers(ctx context.Context) ([]entity.Buyer, error) {
	var rows []entity.Buyer
	err := r.db.WithContext(ctx).Order("buyer_name ASC").Find(&rows).Error
	return rows, err
}

// ListLoadingPorts returns all loading ports ordered by name.
func (r *ReferenceRepository) ListLoadingPorts(ctx context.Context) ([]entity.LoadingPort, error) {
	var rows []entity.LoadingPort
	err := r.db.WithContext(ctx).Order("port_name ASC").Find(&rows).Error
	return rows, err
}

// ListDischargingPorts returns all discharging ports ordered by name.
func (r *ReferenceRepository) ListDischargingPorts(ctx context.Context) ([]entity.DischargingPort, error) {
	var rows []entity.DischargingPort
	err := r.db.WithContext(ctx).Order("port_name ASC").Find(&rows).Error
	return rows, err
}
