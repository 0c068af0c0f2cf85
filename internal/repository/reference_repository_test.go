package repository_test

import (
	"context"
	"sync"
	"testing"

	"github.com/gusti-hub/mlb-borneo-be/internal/entity"
	"github.com/gusti-hub/mlb-borneo-be/internal/repository"
	"github.com/gusti-hub/mlb-borneo-be/internal/testutil"
)

func TestResolveVesselReusesExistingRow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	refs := repository.NewReferenceRepository(db)

	first, err := refs.ResolveVessel(db, "MV OCEAN GLORY")
	if err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	second, err := refs.ResolveVessel(db, "MV OCEAN GLORY")
	if err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	if first != second {
		t.Errorf("expected same id for repeated name, got %s and %s", first, second)
	}

	var count int64
	db.Model(&entity.Vessel{}).Where("vessel_name = ?", "MV OCEAN GLORY").Count(&count)
	if count != 1 {
		t.Errorf("expected 1 vessel row, got %d", count)
	}
}

func TestResolveVesselNamesAreCaseSensitive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	refs := repository.NewReferenceRepository(db)

	upper, err := refs.ResolveVessel(db, "MV BORNEO")
	if err != nil {
		t.Fatalf("resolve upper: %v", err)
	}
	lower, err := refs.ResolveVessel(db, "mv borneo")
	if err != nil {
		t.Fatalf("resolve lower: %v", err)
	}
	if upper == lower {
		t.Error("expected distinct rows for names differing in case")
	}
}

func TestResolveShipperConcurrent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	refs := repository.NewReferenceRepository(db)

	const workers = 8
	ids := make([]string, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i], errs[i] = refs.ResolveShipper(db, "PT Kaltim Coal")
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		if errs[i] != nil {
			t.Fatalf("worker %d: %v", i, errs[i])
		}
		if ids[i] != ids[0] {
			t.Errorf("worker %d resolved %s, want %s", i, ids[i], ids[0])
		}
	}

	var count int64
	db.Model(&entity.Shipper{}).Where("shipper_name = ?", "PT Kaltim Coal").Count(&count)
	if count != 1 {
		t.Errorf("expected 1 shipper row, got %d", count)
	}
}

func TestLookupPICByCode(t *testing.T) {
	db := testutil.SetupTestDB(t)
	refs := repository.NewReferenceRepository(db)
	pic := testutil.SeedTestPIC(t, db, "Alda", "ALDA")

	id, err := refs.LookupPICByCode(db, "ALDA")
	if err != nil {
		t.Fatalf("lookup known code: %v", err)
	}
	if id == nil || *id != pic.ID {
		t.Errorf("expected id %s, got %v", pic.ID, id)
	}

	id, err = refs.LookupPICByCode(db, "NOBODY")
	if err != nil {
		t.Fatalf("lookup unknown code: %v", err)
	}
	if id != nil {
		t.Errorf("unknown code must not create or return a PIC, got %v", *id)
	}

	var count int64
	db.Model(&entity.PIC{}).Count(&count)
	if count != 1 {
		t.Errorf("expected 1 pic row, got %d", count)
	}
}

func TestResolveByKind(t *testing.T) {
	db := testutil.SetupTestDB(t)
	refs := repository.NewReferenceRepository(db)
	ctx := context.Background()

	cases := []struct {
		kind string
		name string
	}{
		{entity.KindVessel, "MV TANJUNG"},
		{entity.KindShipper, "PT Shipper"},
		{entity.KindBuyer, "Buyer Co"},
		{entity.KindLoadingPort, "Tanjung Bara"},
		{entity.KindDischargingPort, "Qinhuangdao"},
	}
	for _, tc := range cases {
		id, err := refs.Resolve(ctx, tc.kind, tc.name)
		if err != nil {
			t.Fatalf("resolve %s: %v", tc.kind, err)
		}
		if id == "" {
			t.Errorf("resolve %s returned empty id", tc.kind)
		}
	}

	if _, err := refs.Resolve(ctx, "cargo", "coal"); err == nil {
		t.Error("expected error for unknown kind")
	}
}
