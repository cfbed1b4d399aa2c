package models

import (
	"github.com/worldoflottery/archive-backend/pkg/enums"
)

// Ticket is the persisted unit representing one collected lottery ticket.
// Image payloads are stored inline as encoded data URLs, not external files.
type Ticket struct {
	ID            string                `gorm:"column:id;primaryKey" json:"id"`
	AutoID        string                `gorm:"column:auto_id;not null" json:"autoId"`
	Country       string                `gorm:"column:country;not null" json:"country"`
	Continent     enums.Continent       `gorm:"column:continent;not null" json:"continent"`
	Entity        string                `gorm:"column:entity;not null" json:"entity"`
	Type          string                `gorm:"column:type;not null" json:"type"`
	ExtractionNo  string                `gorm:"column:extraction_no" json:"extractionNo"`
	DrawDate      string                `gorm:"column:draw_date" json:"drawDate"`
	Value         string                `gorm:"column:value" json:"value"`
	Dimensions    string                `gorm:"column:dimensions" json:"dimensions"`
	State         enums.TicketCondition `gorm:"column:state;not null" json:"state"`
	Notes         string                `gorm:"column:notes" json:"notes,omitempty"`
	FrontImageURL string                `gorm:"column:front_image_url;not null" json:"frontImageUrl"`
	BackImageURL  string                `gorm:"column:back_image_url" json:"backImageUrl,omitempty"`
	IsFavorite    bool                  `gorm:"column:is_favorite;not null;default:false" json:"isFavorite"`
	CreatedAt     int64                 `gorm:"column:created_at;not null" json:"createdAt"`
}

// TableName pins the table so renames of the struct never touch the schema.
func (Ticket) TableName() string {
	return "tickets"
}
