package models

// CollectorProfile is the single local profile gating the archive UI. It is
// deliberately plaintext: the gate is a convenience, not a security boundary.
type CollectorProfile struct {
	ID       int    `gorm:"column:id;primaryKey" json:"-"`
	Name     string `gorm:"column:name;not null" json:"name"`
	Password string `gorm:"column:password;not null" json:"-"`
}

func (CollectorProfile) TableName() string {
	return "collector_profiles"
}
