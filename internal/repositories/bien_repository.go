package repositories

import (
	"errors"

	"gorm.io/gorm"

	"kupanga_backend/internal/models"
)

var ErrBienNotFound = errors.New("bien not found")

type BienRepository interface {
	Create(bien *models.Bien) error
	FindByID(id string) (*models.Bien, error)
	FindByProprietaire(proprietaireID string) ([]models.Bien, error)
	Update(bien *models.Bien) error
	Delete(bien *models.Bien) error
}

type bienRepository struct {
	db *gorm.DB
}

func NewBienRepository(db *gorm.DB) BienRepository {
	return &bienRepository{db: db}
}

func (r *bienRepository) Create(bien *models.Bien) error {
	return r.db.Create(bien).Error
}

func (r *bienRepository) FindByID(id string) (*models.Bien, error) {
	var bien models.Bien
	if err := r.db.First(&bien, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBienNotFound
		}
		return nil, err
	}
	return &bien, nil
}

func (r *bienRepository) FindByProprietaire(proprietaireID string) ([]models.Bien, error) {
	var biens []models.Bien
	err := r.db.Where("proprietaire_id = ?", proprietaireID).
		Order("created_at DESC").Find(&biens).Error
	return biens, err
}

func (r *bienRepository) Update(bien *models.Bien) error {
	return r.db.Save(bien).Error
}

func (r *bienRepository) Delete(bien *models.Bien) error {
	return r.db.Delete(bien).Error
}
