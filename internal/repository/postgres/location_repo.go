package postgres

import (
	"oms-books-sync/internal/models"

	"github.com/jinzhu/gorm"
)

const upsertMapping = `ON CONFLICT (books_location_id) DO UPDATE SET
	books_location_name = EXCLUDED.books_location_name,
	oms_location_id = EXCLUDED.oms_location_id,
	oms_location_name = EXCLUDED.oms_location_name,
	updated_at = EXCLUDED.updated_at`

type LocationMappingPostgresRepo struct {
	db *gorm.DB
}

func NewLocationMappingPostgres(db *gorm.DB) *LocationMappingPostgresRepo {
	return &LocationMappingPostgresRepo{db: db}
}

func (r *LocationMappingPostgresRepo) Upsert(m models.LocationMapping) (models.LocationMapping, error) {
	if err := r.db.Set("gorm:insert_option", upsertMapping).Create(&m).Error; err != nil {
		return models.LocationMapping{}, err
	}
	return r.Get(m.BooksLocationID)
}

func (r *LocationMappingPostgresRepo) Get(booksLocationID string) (models.LocationMapping, error) {
	var m models.LocationMapping
	q := r.db.Where("books_location_id = ?", booksLocationID).First(&m)
	return m, q.Error
}

func (r *LocationMappingPostgresRepo) FindByOMSLocationID(omsLocationID string) (models.LocationMapping, error) {
	var m models.LocationMapping
	q := r.db.Where("oms_location_id = ?", omsLocationID).
		Order("updated_at desc").
		First(&m)
	return m, q.Error
}

func (r *LocationMappingPostgresRepo) List() ([]models.LocationMapping, error) {
	var out []models.LocationMapping
	q := r.db.Order("books_location_name asc").Find(&out)
	return out, q.Error
}
