package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/erp/custadmin/internal/domain/customer"
	"github.com/erp/custadmin/internal/domain/shared"
	"github.com/erp/custadmin/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// defaultOrder applies when the directory query names no sort column
const defaultOrder = "created_at DESC"

// GormCustomerRepository implements customer.Repository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// Create inserts a new customer row
func (r *GormCustomerRepository) Create(ctx context.Context, c *customer.Customer) error {
	model := models.CustomerModelFromDomain(c)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isDuplicateKey(err) {
			return shared.ErrAlreadyExists.Wrap(err)
		}
		return err
	}
	return nil
}

// Update replaces every editable column of an existing customer.
// created_at is never rewritten.
func (r *GormCustomerRepository) Update(ctx context.Context, c *customer.Customer) error {
	model := models.CustomerModelFromDomain(c)
	result := r.db.WithContext(ctx).
		Model(&models.CustomerModel{}).
		Where("id = ?", c.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a customer by its ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, id string) (*customer.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Delete deletes a customer
func (r *GormCustomerRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.CustomerModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// List returns one page of the customer directory
func (r *GormCustomerRepository) List(ctx context.Context, q customer.NormalizedDirectoryQuery) (shared.Paginated[customer.Customer], error) {
	var total int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&models.CustomerModel{}), q).Count(&total).Error; err != nil {
		return shared.Paginated[customer.Customer]{}, err
	}

	var rows []models.CustomerModel
	query := r.applyFilter(r.db.WithContext(ctx), q)
	if err := r.applyPaging(query, q).Find(&rows).Error; err != nil {
		return shared.Paginated[customer.Customer]{}, err
	}

	items := make([]customer.Customer, len(rows))
	for i := range rows {
		items[i] = *rows[i].ToDomain()
	}
	return shared.NewPaginated(items, total, q.Page, q.PageSize), nil
}

// applyFilter applies the search filter to the query
func (r *GormCustomerRepository) applyFilter(query *gorm.DB, q customer.NormalizedDirectoryQuery) *gorm.DB {
	if q.Filter == nil {
		return query
	}
	pattern := "%" + escapeLike(q.Filter.Text) + "%"
	return query.Where(q.Filter.Column+" "+r.likeOperator()+` ? ESCAPE '\'`, pattern)
}

// applyPaging applies ordering and pagination to the query
func (r *GormCustomerRepository) applyPaging(query *gorm.DB, q customer.NormalizedDirectoryQuery) *gorm.DB {
	if q.Sort != nil {
		orderDir := "ASC"
		if q.Sort.Order == customer.SortDesc {
			orderDir = "DESC"
		}
		query = query.Order(q.Sort.Column + " " + orderDir)
	} else {
		query = query.Order(defaultOrder)
	}

	if q.Page > 0 && q.PageSize > 0 {
		query = query.Offset(q.Offset()).Limit(q.PageSize)
	}
	return query
}

// likeOperator returns the case-insensitive match operator of the connected dialect.
// SQLite has no ILIKE but its LIKE already folds ASCII case.
func (r *GormCustomerRepository) likeOperator() string {
	if r.db.Dialector != nil && r.db.Dialector.Name() == "sqlite" {
		return "LIKE"
	}
	return "ILIKE"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes wildcard characters in user text match literally
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// isDuplicateKey reports whether err is a primary key or unique violation
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}

// Ensure GormCustomerRepository implements customer.Repository
var _ customer.Repository = (*GormCustomerRepository)(nil)
