package models

// Bien is a property listing owned by an OWNER user.
type Bien struct {
	BaseModel
	Adresse        string  `gorm:"not null" json:"adresse"`
	Ville          string  `gorm:"not null;index" json:"ville"`
	Surface        float64 `json:"surface"`
	Loyer          float64 `json:"loyer"`
	Description    string  `json:"description"`
	ProprietaireID string  `gorm:"not null;index" json:"proprietaireId"`
}
