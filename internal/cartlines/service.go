package cartlines

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/feastly-app/feastly-backend/pkg/config"
	"github.com/feastly-app/feastly-backend/pkg/db"
	"github.com/feastly-app/feastly-backend/pkg/db/models"
	"github.com/feastly-app/feastly-backend/pkg/enums"
	pkgerrors "github.com/feastly-app/feastly-backend/pkg/errors"
	"github.com/feastly-app/feastly-backend/pkg/keylock"
	"github.com/feastly-app/feastly-backend/pkg/metrics"
	"github.com/feastly-app/feastly-backend/pkg/types"
)

const dedupConstraint = "idx_cart_lines_dedup"

// OutcomeKind tags what the resolver did with an add-to-cart request.
type OutcomeKind string

const (
	// OutcomeCreated means a new line was inserted.
	OutcomeCreated OutcomeKind = "created"
	// OutcomeMerged means the request was folded into an existing identical
	// line by summing quantities. This is a success, not an error.
	OutcomeMerged OutcomeKind = "merged"
)

// Outcome carries the surviving line and how it came to be.
type Outcome struct {
	Kind OutcomeKind
	Line *models.CartLine
}

type merchantLoader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Merchant, error)
}

type productLoader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service resolves cart line writes: validation, dedup merge and pricing.
type Service interface {
	AddLine(ctx context.Context, customerID uuid.UUID, input AddLineInput) (*Outcome, error)
	UpdateLine(ctx context.Context, customerID, lineID uuid.UUID, input UpdateLineInput) (*models.CartLine, error)
	RemoveLine(ctx context.Context, customerID, lineID uuid.UUID) error
	ListLines(ctx context.Context, customerID uuid.UUID) (*CartSummary, error)
}

type service struct {
	repo      Repository
	merchants merchantLoader
	products  productLoader
	locks     *keylock.KeyedMutex
	cfg       config.CartConfig
	now       func() time.Time
}

// NewService builds a cart line service backed by the provided stack.
func NewService(repo Repository, merchants merchantLoader, products productLoader, cfg config.CartConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart line repository required")
	}
	if merchants == nil {
		return nil, fmt.Errorf("merchant loader required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{
		repo:      repo,
		merchants: merchants,
		products:  products,
		locks:     keylock.New(),
		cfg:       cfg,
		now:       time.Now,
	}, nil
}

// AddLineInput is the proposed field set for a new cart line.
type AddLineInput struct {
	MerchantID          uuid.UUID
	ProductID           uuid.UUID
	MerchantProductID   uuid.UUID
	Quantity            int
	PriceAtAdd          decimal.Decimal
	CompareAtPrice      *decimal.Decimal
	ProductSize         *enums.ProductSize
	SelectedVariationID *uuid.UUID
	SelectedModifiers   types.SelectedModifiers
	SelectedAddons      types.SelectedAddons
	SpecialInstructions *string
	NotesForRider       *string
	SessionID           *string
}

// UpdateLineInput carries the mutable fields of an existing line. Nil means
// unchanged. Price, merchant and product references are never updatable.
type UpdateLineInput struct {
	Quantity            *int
	ProductSize         *enums.ProductSize
	SelectedVariationID *uuid.UUID
	SelectedModifiers   *types.SelectedModifiers
	SelectedAddons      *types.SelectedAddons
	SpecialInstructions *string
	NotesForRider       *string
}

// CartSummary is a customer's live cart with a cart-level subtotal.
type CartSummary struct {
	Lines    []models.CartLine
	Subtotal decimal.Decimal
}

// AddLine validates, fingerprints and persists an add-to-cart request,
// merging quantities into an existing identical line when one exists.
func (s *service) AddLine(ctx context.Context, customerID uuid.UUID, input AddLineInput) (*Outcome, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	if input.MerchantID == uuid.Nil || input.ProductID == uuid.Nil || input.MerchantProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "merchant, product and merchant product ids are required")
	}
	if err := s.validateQuantity(input.Quantity); err != nil {
		return nil, err
	}
	if input.PriceAtAdd.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price at add must be non-negative")
	}
	if err := s.validateCustomization(input.ProductSize, input.SpecialInstructions, input.NotesForRider); err != nil {
		return nil, err
	}

	product, err := s.checkVendorIntegrity(ctx, input.ProductID, input.MerchantID)
	if err != nil {
		return nil, err
	}

	line := &models.CartLine{
		CustomerID:          customerID,
		MerchantID:          input.MerchantID,
		ProductID:           input.ProductID,
		MerchantProductID:   input.MerchantProductID,
		Quantity:            input.Quantity,
		PriceAtAdd:          input.PriceAtAdd,
		CompareAtPrice:      input.CompareAtPrice,
		ProductSize:         input.ProductSize,
		SelectedVariationID: input.SelectedVariationID,
		SelectedModifiers:   input.SelectedModifiers,
		SelectedAddons:      input.SelectedAddons,
		SpecialInstructions: trimmedOrNil(input.SpecialInstructions),
		NotesForRider:       trimmedOrNil(input.NotesForRider),
		SessionID:           input.SessionID,
	}
	line.ItemHash = Fingerprint(line)
	line.ExpiresAt = s.now().Add(s.cfg.LineTTL())
	applyAvailabilitySnapshot(line, product)

	// Serialize the find-then-write sequence per dedup tuple so two
	// concurrent identical adds cannot both observe "no existing line".
	unlock := s.locks.Lock(dedupKey(customerID, input.MerchantID, line.ItemHash))
	defer unlock()

	existing, err := s.repo.FindByFingerprint(ctx, customerID, input.MerchantID, line.ItemHash)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up existing cart line")
	}
	if existing != nil {
		return s.mergeInto(ctx, existing, input.Quantity)
	}

	line.Subtotal = s.computeSubtotal(line)
	if err := s.repo.Create(ctx, line); err != nil {
		// The unique index is the durable backstop when another instance
		// raced us past the in-process lock.
		if db.IsUniqueViolation(err, dedupConstraint) {
			winner, findErr := s.repo.FindByFingerprint(ctx, customerID, input.MerchantID, line.ItemHash)
			if findErr != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, findErr, "reload merged cart line")
			}
			return s.mergeInto(ctx, winner, input.Quantity)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist cart line")
	}

	metrics.CartLinesCreated.Inc()
	return &Outcome{Kind: OutcomeCreated, Line: line}, nil
}

// UpdateLine mutates quantity/customization on an owned line, refreshing the
// fingerprint, subtotal and sliding expiration. The vendor integrity check is
// create-only: updates cannot change merchant or product references at all.
func (s *service) UpdateLine(ctx context.Context, customerID, lineID uuid.UUID, input UpdateLineInput) (*models.CartLine, error) {
	line, err := s.repo.FindByIDAndCustomer(ctx, lineID, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart line")
	}

	if input.Quantity != nil {
		if err := s.validateQuantity(*input.Quantity); err != nil {
			return nil, err
		}
		line.Quantity = *input.Quantity
	}
	if input.ProductSize != nil {
		line.ProductSize = input.ProductSize
	}
	if input.SelectedVariationID != nil {
		line.SelectedVariationID = input.SelectedVariationID
	}
	if input.SelectedModifiers != nil {
		line.SelectedModifiers = *input.SelectedModifiers
	}
	if input.SelectedAddons != nil {
		line.SelectedAddons = *input.SelectedAddons
	}
	if input.SpecialInstructions != nil {
		line.SpecialInstructions = trimmedOrNil(input.SpecialInstructions)
	}
	if input.NotesForRider != nil {
		line.NotesForRider = trimmedOrNil(input.NotesForRider)
	}
	if err := s.validateCustomization(line.ProductSize, line.SpecialInstructions, line.NotesForRider); err != nil {
		return nil, err
	}

	line.ItemHash = Fingerprint(line)
	line.Subtotal = s.computeSubtotal(line)
	line.ExpiresAt = s.now().Add(s.cfg.LineTTL())

	if err := s.repo.Update(ctx, line); err != nil {
		if db.IsUniqueViolation(err, dedupConstraint) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "an identical cart line already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist cart line")
	}
	return line, nil
}

// RemoveLine deletes an owned line.
func (s *service) RemoveLine(ctx context.Context, customerID, lineID uuid.UUID) error {
	affected, err := s.repo.Delete(ctx, lineID, customerID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart line")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}
	return nil
}

// ListLines returns the customer's non-expired lines and cart subtotal.
func (s *service) ListLines(ctx context.Context, customerID uuid.UUID) (*CartSummary, error) {
	lines, err := s.repo.ListActiveByCustomer(ctx, customerID, s.now())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart lines")
	}

	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Subtotal)
	}
	return &CartSummary{Lines: lines, Subtotal: total}, nil
}

func (s *service) mergeInto(ctx context.Context, existing *models.CartLine, incomingQty int) (*Outcome, error) {
	merged := existing.Quantity + incomingQty
	if merged > s.maxQuantity() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "merged quantity exceeds the per-line maximum").
			WithDetails(map[string]any{"existing": existing.Quantity, "incoming": incomingQty, "max": s.maxQuantity()})
	}

	existing.Quantity = merged
	existing.Subtotal = s.computeSubtotal(existing)
	existing.ExpiresAt = s.now().Add(s.cfg.LineTTL())

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "merge cart line quantities")
	}

	metrics.CartLinesMerged.Inc()
	return &Outcome{Kind: OutcomeMerged, Line: existing}, nil
}

func (s *service) checkVendorIntegrity(ctx context.Context, productID, merchantID uuid.UUID) (*models.Product, error) {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	merchant, err := s.merchants.GetByID(ctx, merchantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "merchant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load merchant")
	}

	if product.VendorID != merchant.VendorID {
		return nil, pkgerrors.New(pkgerrors.CodeConflict,
			fmt.Sprintf("product %s does not belong to merchant %s", productID, merchantID))
	}
	return product, nil
}

// computeSubtotal recomputes the line subtotal from its parts. The client
// never supplies this value. It stays zero until both price and quantity are
// set.
func (s *service) computeSubtotal(line *models.CartLine) decimal.Decimal {
	if line.Quantity <= 0 || !line.PriceAtAdd.IsPositive() {
		return decimal.Zero
	}
	return Subtotal(line.PriceAtAdd, line.Quantity, line.SelectedModifiers, line.SelectedAddons)
}

func (s *service) validateQuantity(quantity int) error {
	if quantity < 1 || quantity > s.maxQuantity() {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity out of range").
			WithDetails(map[string]any{"min": 1, "max": s.maxQuantity()})
	}
	return nil
}

func (s *service) validateCustomization(size *enums.ProductSize, instructions, riderNotes *string) error {
	if size != nil && !size.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid product size")
	}
	if instructions != nil && len(*instructions) > s.maxInstructionsLength() {
		return pkgerrors.New(pkgerrors.CodeValidation, "special instructions too long").
			WithDetails(map[string]any{"max": s.maxInstructionsLength()})
	}
	if riderNotes != nil && len(*riderNotes) > s.maxRiderNotesLength() {
		return pkgerrors.New(pkgerrors.CodeValidation, "notes for rider too long").
			WithDetails(map[string]any{"max": s.maxRiderNotesLength()})
	}
	return nil
}

func (s *service) maxQuantity() int {
	if s.cfg.MaxQuantity > 0 {
		return s.cfg.MaxQuantity
	}
	return 999
}

func (s *service) maxInstructionsLength() int {
	if s.cfg.MaxInstructionsLength > 0 {
		return s.cfg.MaxInstructionsLength
	}
	return 500
}

func (s *service) maxRiderNotesLength() int {
	if s.cfg.MaxRiderNotesLength > 0 {
		return s.cfg.MaxRiderNotesLength
	}
	return 300
}

func applyAvailabilitySnapshot(line *models.CartLine, product *models.Product) {
	switch {
	case !product.IsActive:
		line.IsAvailable = false
		reason := enums.UnavailableReasonInactive
		line.UnavailableReason = &reason
	case !product.InStock:
		line.IsAvailable = false
		reason := enums.UnavailableReasonOutOfStock
		line.UnavailableReason = &reason
	default:
		line.IsAvailable = true
		line.UnavailableReason = nil
	}
}

func dedupKey(customerID, merchantID uuid.UUID, itemHash string) string {
	return customerID.String() + "|" + merchantID.String() + "|" + itemHash
}

func trimmedOrNil(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
