package models

// DocumentSequenceModel holds the last number issued per document kind and day
type DocumentSequenceModel struct {
	Scope     string `gorm:"type:varchar(20);primaryKey"`
	Day       string `gorm:"type:char(8);primaryKey"`
	LastValue int64  `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DocumentSequenceModel) TableName() string {
	return "document_sequences"
}
