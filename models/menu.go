package models

type Menu struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Name        string  `gorm:"type:varchar(255);not null" json:"name"`
	Price       float64 `gorm:"type:decimal(10,2);not null" json:"price"`
	Description *string `gorm:"type:text" json:"description,omitempty"`
	Image       *string `gorm:"type:varchar(255)" json:"image,omitempty"`
	Category    string  `gorm:"type:varchar(100);not null;index" json:"category"`
	ImageURL    string  `gorm:"-" json:"image_url,omitempty"`
}

// SetImageURL fills ImageURL from the stored file name.
func (m *Menu) SetImageURL(urlFor func(string) string) {
	if m.Image == nil || *m.Image == "" {
		m.ImageURL = ""
		return
	}
	m.ImageURL = urlFor(*m.Image)
}
