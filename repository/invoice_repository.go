package repository

import (
	"context"
	"database/sql"
	"fmt"

	"facturacion-backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InvoiceRepository struct {
	db     *gorm.DB
	txOpts *sql.TxOptions
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{
		db:     db,
		txOpts: &sql.TxOptions{Isolation: sql.LevelReadCommitted},
	}
}

// CreateInvoice writes the header and every line as one unit. On success
// invoice.ID and invoice.Fecha hold the values assigned by the database and
// each line carries the new FacturaID. On any error nothing is persisted.
//
// The transaction is bound to ctx: cancelling it rolls everything back.
func (r *InvoiceRepository) CreateInvoice(ctx context.Context, invoice *models.Invoice) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureExist(tx, &models.Customer{}, []uint{invoice.ClienteID}); err != nil {
			return fmt.Errorf("cliente %d: %w", invoice.ClienteID, err)
		}
		if err := ensureExist(tx, &models.Product{}, productIDs(invoice.Lines)); err != nil {
			return fmt.Errorf("productos: %w", err)
		}

		if err := tx.Omit(clause.Associations).Create(invoice).Error; err != nil {
			return err
		}

		if len(invoice.Lines) == 0 {
			return nil
		}
		for i := range invoice.Lines {
			invoice.Lines[i].FacturaID = invoice.ID
		}
		return tx.Omit(clause.Associations).Create(&invoice.Lines).Error
	}, r.txOpts)

	return classify(err)
}

// FindByID loads an invoice with its lines in insertion order.
func (r *InvoiceRepository) FindByID(ctx context.Context, id uint) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&invoice, id).Error
	if err != nil {
		return nil, classify(err)
	}
	return &invoice, nil
}

// ensureExist fails with ErrReferentialIntegrity unless every id has a row in
// model's table. It runs inside the caller's transaction.
func ensureExist(tx *gorm.DB, model any, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	var n int64
	if err := tx.Model(model).Where("id IN ?", ids).Count(&n).Error; err != nil {
		return err
	}
	if n != int64(len(ids)) {
		return ErrReferentialIntegrity
	}
	return nil
}

// productIDs returns the distinct product ids referenced by lines.
func productIDs(lines []models.InvoiceLine) []uint {
	seen := make(map[uint]struct{}, len(lines))
	ids := make([]uint, 0, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.ProductoID]; ok {
			continue
		}
		seen[l.ProductoID] = struct{}{}
		ids = append(ids, l.ProductoID)
	}
	return ids
}
