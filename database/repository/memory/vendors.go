// File: database/repository/memory/vendors.go
package memoryRepo

import (
	"context"

	"marketplace/database"
	vendorRepo "marketplace/database/repository/vendor"
	"marketplace/models"
)

// VendorRepo is an in-process VendorRepository.
type VendorRepo struct {
	t *table[models.Vendor]
}

func NewVendorRepo() *VendorRepo {
	return &VendorRepo{t: newTable[models.Vendor]()}
}

func (r *VendorRepo) Create(_ context.Context, vendor *models.Vendor) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	for _, v := range r.t.rows {
		if v.UserID == vendor.UserID {
			return vendorRepo.ErrDuplicate
		}
	}
	r.t.put(vendor.ID, *vendor)
	return nil
}

func (r *VendorRepo) GetByID(_ context.Context, id string) (*models.Vendor, error) {
	v, ok := r.t.get(id)
	if !ok {
		return nil, database.ErrNotFound
	}
	return &v, nil
}

func (r *VendorRepo) GetByUserID(_ context.Context, userID string) (*models.Vendor, error) {
	found := r.t.filter(func(v models.Vendor) bool { return v.UserID == userID })
	if len(found) == 0 {
		return nil, database.ErrNotFound
	}
	return &found[0], nil
}

func (r *VendorRepo) Update(_ context.Context, vendor *models.Vendor) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	if _, ok := r.t.rows[vendor.ID]; !ok {
		return database.ErrNotFound
	}
	r.t.put(vendor.ID, *vendor)
	return nil
}

func (r *VendorRepo) EnsureIndexes() error { return nil }
