package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/equiptrack/backend/internal/models"
	"gorm.io/gorm"
)

// ReportFilter narrows and orders the report listing. Zero values mean
// "no filter".
type ReportFilter struct {
	ReporterID  *uint
	EquipmentID *uint
	Statuses    []models.ReportStatus
	Priorities  []models.ReportPriority
	Category    models.ReportCategory
	From        *time.Time
	To          *time.Time
	// Search matches description, equipment name and reporter name,
	// case-insensitive.
	Search   string
	Assigned *bool
	// Overdue selects open reports older than their repair estimate.
	Overdue  bool
	SortBy   string
	SortDesc bool
	Offset   int
	Limit    int
}

// ReportListItem carries the report plus display fields denormalized
// for listings.
type ReportListItem struct {
	models.DefectReport
	EquipmentName string  `json:"equipmentName"`
	ReporterName  string  `json:"reporterName"`
	AgeHours      float64 `json:"ageHours"`
}

type ReportList struct {
	Items []ReportListItem `json:"items"`
	Total int64            `json:"total"`
}

var reportSortColumns = map[string]string{
	"created_at":            "defect_reports.created_at",
	"priority":              "defect_reports.priority",
	"status":                "defect_reports.status",
	"estimated_repair_time": "defect_reports.estimated_repair_time",
	"completed_date":        "defect_reports.completed_date",
}

// List returns reports matching the filter with offset/limit
// pagination. The overdue predicate depends on the current clock, so
// it is evaluated in-process after the database filter and before
// pagination.
func (rs *ReportService) List(filter ReportFilter) (*ReportList, error) {
	query := rs.buildListQuery(filter)

	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 50
	}

	order := rs.sortClause(filter)

	if filter.Overdue {
		var candidates []models.DefectReport
		if err := query.Order(order).Find(&candidates).Error; err != nil {
			return nil, fmt.Errorf("failed to fetch reports: %w", err)
		}
		now := time.Now()
		var overdue []models.DefectReport
		for _, r := range candidates {
			if !r.Status.IsTerminal() && now.Sub(r.CreatedAt).Hours() > r.EstimatedRepairTime {
				overdue = append(overdue, r)
			}
		}
		total := int64(len(overdue))
		start := filter.Offset
		if start > len(overdue) {
			start = len(overdue)
		}
		end := start + filter.Limit
		if end > len(overdue) {
			end = len(overdue)
		}
		return &ReportList{Items: rs.toListItems(overdue[start:end], now), Total: total}, nil
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count reports: %w", err)
	}

	var reports []models.DefectReport
	if err := query.Order(order).Offset(filter.Offset).Limit(filter.Limit).Find(&reports).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch reports: %w", err)
	}

	return &ReportList{Items: rs.toListItems(reports, time.Now()), Total: total}, nil
}

func (rs *ReportService) buildListQuery(filter ReportFilter) *gorm.DB {
	query := rs.db.Model(&models.DefectReport{}).
		Preload("Reporter").Preload("Equipment").Preload("Handler")

	if filter.ReporterID != nil {
		query = query.Where("defect_reports.reporter_id = ?", *filter.ReporterID)
	}
	if filter.EquipmentID != nil {
		query = query.Where("defect_reports.equipment_id = ?", *filter.EquipmentID)
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("defect_reports.status IN ?", filter.Statuses)
	}
	if len(filter.Priorities) > 0 {
		query = query.Where("defect_reports.priority IN ?", filter.Priorities)
	}
	if filter.Category != "" {
		query = query.Where("defect_reports.category = ?", filter.Category)
	}
	if filter.From != nil {
		query = query.Where("defect_reports.created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("defect_reports.created_at <= ?", *filter.To)
	}
	if filter.Assigned != nil {
		if *filter.Assigned {
			query = query.Where("defect_reports.assigned_to IS NOT NULL")
		} else {
			query = query.Where("defect_reports.assigned_to IS NULL")
		}
	}
	if filter.Search != "" {
		needle := "%" + strings.ToLower(filter.Search) + "%"
		query = query.
			Joins("LEFT JOIN equipment ON equipment.id = defect_reports.equipment_id").
			Joins("LEFT JOIN users reporters ON reporters.id = defect_reports.reporter_id").
			Where("LOWER(defect_reports.description) LIKE ? OR LOWER(equipment.name) LIKE ? OR LOWER(reporters.first_name || ' ' || reporters.last_name) LIKE ?",
				needle, needle, needle)
	}
	return query
}

func (rs *ReportService) sortClause(filter ReportFilter) string {
	column, ok := reportSortColumns[filter.SortBy]
	if !ok {
		column = reportSortColumns["created_at"]
		filter.SortDesc = true
	}
	direction := "asc"
	if filter.SortDesc {
		direction = "desc"
	}
	return column + " " + direction
}

func (rs *ReportService) toListItems(reports []models.DefectReport, now time.Time) []ReportListItem {
	items := make([]ReportListItem, 0, len(reports))
	for _, r := range reports {
		items = append(items, ReportListItem{
			DefectReport:  r,
			EquipmentName: r.Equipment.Name,
			ReporterName:  r.Reporter.FullName(),
			AgeHours:      roundHours(now.Sub(r.CreatedAt).Hours()),
		})
	}
	return items
}
