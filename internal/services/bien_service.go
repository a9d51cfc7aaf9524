package services

import (
	"kupanga_backend/internal/apperrors"
	"kupanga_backend/internal/models"
	"kupanga_backend/internal/repositories"
	"kupanga_backend/internal/services/dto"
)

// BienService manages property listings. Mutations are restricted to the
// owning proprietaire.
type BienService interface {
	Create(proprietaire *models.User, req *dto.BienCreateRequest) (*dto.BienResponse, error)
	GetByID(id string) (*dto.BienResponse, error)
	ListByProprietaire(proprietaireID string) ([]dto.BienResponse, error)
	Update(proprietaireID, bienID string, req *dto.BienUpdateRequest) (*dto.BienResponse, error)
	Delete(proprietaireID, bienID string) error
}

type bienService struct {
	biens repositories.BienRepository
}

func NewBienService(biens repositories.BienRepository) BienService {
	return &bienService{biens: biens}
}

func (s *bienService) Create(proprietaire *models.User, req *dto.BienCreateRequest) (*dto.BienResponse, error) {
	if proprietaire.Role != models.RoleOwner {
		return nil, apperrors.ErrForbidden
	}

	bien := &models.Bien{
		Adresse:        req.Adresse,
		Ville:          req.Ville,
		Surface:        req.Surface,
		Loyer:          req.Loyer,
		Description:    req.Description,
		ProprietaireID: proprietaire.ID,
	}
	if err := s.biens.Create(bien); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.NewBienResponse(bien), nil
}

func (s *bienService) GetByID(id string) (*dto.BienResponse, error) {
	bien, err := s.findBien(id)
	if err != nil {
		return nil, err
	}
	return dto.NewBienResponse(bien), nil
}

func (s *bienService) ListByProprietaire(proprietaireID string) ([]dto.BienResponse, error) {
	biens, err := s.biens.FindByProprietaire(proprietaireID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]dto.BienResponse, 0, len(biens))
	for i := range biens {
		responses = append(responses, *dto.NewBienResponse(&biens[i]))
	}
	return responses, nil
}

func (s *bienService) Update(proprietaireID, bienID string, req *dto.BienUpdateRequest) (*dto.BienResponse, error) {
	bien, err := s.findOwnedBien(proprietaireID, bienID)
	if err != nil {
		return nil, err
	}

	bien.Adresse = req.Adresse
	bien.Ville = req.Ville
	bien.Surface = req.Surface
	bien.Loyer = req.Loyer
	bien.Description = req.Description

	if err := s.biens.Update(bien); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.NewBienResponse(bien), nil
}

func (s *bienService) Delete(proprietaireID, bienID string) error {
	bien, err := s.findOwnedBien(proprietaireID, bienID)
	if err != nil {
		return err
	}
	if err := s.biens.Delete(bien); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *bienService) findBien(id string) (*models.Bien, error) {
	bien, err := s.biens.FindByID(id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrBienNotFound) {
			return nil, apperrors.ErrBienNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return bien, nil
}

func (s *bienService) findOwnedBien(proprietaireID, bienID string) (*models.Bien, error) {
	bien, err := s.findBien(bienID)
	if err != nil {
		return nil, err
	}
	if bien.ProprietaireID != proprietaireID {
		return nil, apperrors.ErrNotBienOwner
	}
	return bien, nil
}
