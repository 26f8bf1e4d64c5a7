// File: database/repository/memory/catalog.go
package memoryRepo

import (
	"context"
	"time"

	"marketplace/database"
	"marketplace/models"
)

// GiftCardRepo is an in-process GiftCardRepository.
type GiftCardRepo struct {
	cards      *table[models.GiftCard]
	promotions *table[models.GiftCardPromotion]
}

func NewGiftCardRepo() *GiftCardRepo {
	return &GiftCardRepo{
		cards:      newTable[models.GiftCard](),
		promotions: newTable[models.GiftCardPromotion](),
	}
}

func (r *GiftCardRepo) InsertGiftCard(_ context.Context, card *models.GiftCard) error {
	r.cards.mu.Lock()
	defer r.cards.mu.Unlock()
	r.cards.put(card.ID, *card)
	return nil
}

func (r *GiftCardRepo) InsertPromotion(_ context.Context, promo *models.GiftCardPromotion) error {
	r.promotions.mu.Lock()
	defer r.promotions.mu.Unlock()
	r.promotions.put(promo.ID, *promo)
	return nil
}

func (r *GiftCardRepo) ListGiftCards(_ context.Context, vendorID string) ([]models.GiftCard, error) {
	return r.cards.filter(func(c models.GiftCard) bool { return c.VendorID == vendorID }), nil
}

func (r *GiftCardRepo) ListPromotions(_ context.Context, vendorID string) ([]models.GiftCardPromotion, error) {
	return r.promotions.filter(func(p models.GiftCardPromotion) bool { return p.VendorID == vendorID }), nil
}

func (r *GiftCardRepo) ToggleGiftCard(_ context.Context, vendorID, id string) (*models.GiftCard, error) {
	return update(r.cards, vendorID, id, func(c *models.GiftCard) { c.IsActive = !c.IsActive; c.UpdatedAt = time.Now() })
}

func (r *GiftCardRepo) TogglePromotion(_ context.Context, vendorID, id string) (*models.GiftCardPromotion, error) {
	return update(r.promotions, vendorID, id, func(p *models.GiftCardPromotion) { p.IsActive = !p.IsActive; p.UpdatedAt = time.Now() })
}

func (r *GiftCardRepo) SetGiftCardActive(_ context.Context, vendorID, id string, active bool) (*models.GiftCard, error) {
	return update(r.cards, vendorID, id, func(c *models.GiftCard) { c.IsActive = active; c.UpdatedAt = time.Now() })
}

func (r *GiftCardRepo) SetPromotionActive(_ context.Context, vendorID, id string, active bool) (*models.GiftCardPromotion, error) {
	return update(r.promotions, vendorID, id, func(p *models.GiftCardPromotion) { p.IsActive = active; p.UpdatedAt = time.Now() })
}

func (r *GiftCardRepo) SlugExists(_ context.Context, slug string) (bool, error) {
	if r.cards.exists(func(c models.GiftCard) bool { return c.Slug == slug }) {
		return true, nil
	}
	return r.promotions.exists(func(p models.GiftCardPromotion) bool { return p.Slug == slug }), nil
}

func (r *GiftCardRepo) EnsureIndexes() error { return nil }

type owned interface {
	models.GiftCard | models.GiftCardPromotion
}

func update[T owned](t *table[T], vendorID, id string, apply func(*T)) (*T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	row, ok := t.rows[id]
	if !ok || vendorOf(row) != vendorID {
		return nil, database.ErrNotFound
	}
	apply(&row)
	t.put(id, row)
	return &row, nil
}

func vendorOf(row interface{}) string {
	switch v := row.(type) {
	case models.GiftCard:
		return v.VendorID
	case models.GiftCardPromotion:
		return v.VendorID
	}
	return ""
}
