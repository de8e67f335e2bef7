package models

import (
	"time"
)

type ReportComment struct {
	ID        uint         `json:"id" gorm:"primaryKey"`
	ReportID  uint         `json:"reportId" gorm:"not null;index"`
	Report    DefectReport `json:"-" gorm:"foreignKey:ReportID;constraint:OnDelete:CASCADE"`
	AuthorID  uint         `json:"authorId" gorm:"not null"`
	Author    User         `json:"author" gorm:"foreignKey:AuthorID"`
	Text      string       `json:"text" gorm:"type:text;not null"`
	CreatedAt time.Time    `json:"createdAt"`
}

func (ReportComment) TableName() string {
	return "defect_report_comments"
}
