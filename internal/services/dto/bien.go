package dto

import "kupanga_backend/internal/models"

type BienCreateRequest struct {
	Adresse     string  `json:"adresse" validate:"required"`
	Ville       string  `json:"ville" validate:"required"`
	Surface     float64 `json:"surface" validate:"gt=0"`
	Loyer       float64 `json:"loyer" validate:"gt=0"`
	Description string  `json:"description"`
}

type BienUpdateRequest struct {
	Adresse     string  `json:"adresse" validate:"required"`
	Ville       string  `json:"ville" validate:"required"`
	Surface     float64 `json:"surface" validate:"gt=0"`
	Loyer       float64 `json:"loyer" validate:"gt=0"`
	Description string  `json:"description"`
}

type BienResponse struct {
	ID             string  `json:"id"`
	Adresse        string  `json:"adresse"`
	Ville          string  `json:"ville"`
	Surface        float64 `json:"surface"`
	Loyer          float64 `json:"loyer"`
	Description    string  `json:"description"`
	ProprietaireID string  `json:"proprietaireId"`
}

func NewBienResponse(b *models.Bien) *BienResponse {
	return &BienResponse{
		ID:             b.ID,
		Adresse:        b.Adresse,
		Ville:          b.Ville,
		Surface:        b.Surface,
		Loyer:          b.Loyer,
		Description:    b.Description,
		ProprietaireID: b.ProprietaireID,
	}
}
