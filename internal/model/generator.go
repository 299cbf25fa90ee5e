package model

// Generator is the physical asset tickets are raised against.
type Generator struct {
	GeneratorID    string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"generator_id"`
	Model          string `gorm:"type:varchar(100);not null"                     json:"model"`
	Name           string `gorm:"type:varchar(150);not null"                     json:"name"`
	Capacity       string `gorm:"type:varchar(50)"                               json:"capacity"`
	LocationName   string `gorm:"type:varchar(255)"                              json:"location_name"`
	OwnerEmail     string `gorm:"type:varchar(255)"                              json:"owner_email"`
	WhatsAppNumber string `gorm:"column:whatsapp_number;type:varchar(20)"        json:"whatsapp_number"`
	LandlineNumber string `gorm:"type:varchar(20)"                               json:"landline_number"`
	Note           string `gorm:"type:text"                                      json:"note"`
	BaseModel
}

// TableName generators
func (Generator) TableName() string { return "generators" }
