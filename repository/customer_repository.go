package repository

import (
	"context"

	"facturacion-backend/models"

	"gorm.io/gorm"
)

type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// Create inserts the customer and fills in its ID. A repeated documento
// yields ErrDuplicate.
func (r *CustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	return classify(r.db.WithContext(ctx).Create(customer).Error)
}

func (r *CustomerRepository) FindByDocument(ctx context.Context, documento string) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).Where("documento = ?", documento).First(&customer).Error
	if err != nil {
		return nil, classify(err)
	}
	return &customer, nil
}
