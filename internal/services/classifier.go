package services

import (
	"math"
	"strings"

	"github.com/equiptrack/backend/internal/models"
)

// Keyword classification for new reports. Each list is scanned in
// declared order against the lowercased description; the first tier or
// category with a matching substring wins.

var priorityKeywords = []struct {
	Priority models.ReportPriority
	Keywords []string
}{
	{models.PriorityCritical, []string{
		"fire", "smoke", "explosion", "broken", "destroyed", "not working",
		"completely broken", "urgent", "emergency", "dangerous", "hazard", "sparking",
	}},
	{models.PriorityHigh, []string{
		"cracked", "damaged", "leaking", "overheating", "malfunction",
		"error", "failed", "critical",
	}},
	{models.PriorityMedium, []string{
		"slow", "issue", "problem", "concern", "defect", "minor damage", "needs repair",
	}},
}

var categoryKeywords = []struct {
	Category models.ReportCategory
	Keywords []string
}{
	{models.CategoryHardware, []string{
		"keyboard", "mouse", "cable", "port", "battery", "charger",
		"power supply", "hardware", "component", "circuit", "motherboard",
	}},
	{models.CategorySoftware, []string{
		"software", "application", "program", "operating system", "crash",
		"freeze", "frozen", "boot", "install", "update", "virus", "license",
	}},
	{models.CategoryPhysicalDamage, []string{
		"crack", "cracked", "broken", "dent", "scratch", "shatter",
		"bent", "torn", "hole", "smash",
	}},
	{models.CategoryPerformance, []string{
		"slow", "lag", "lagging", "performance", "speed", "hang",
		"unresponsive", "overheat",
	}},
}

var priorityBaseHours = map[models.ReportPriority]float64{
	models.PriorityCritical: 2,
	models.PriorityHigh:     4,
	models.PriorityMedium:   8,
	models.PriorityLow:      24,
}

var categoryMultipliers = map[models.ReportCategory]float64{
	models.CategoryHardware:       1.0,
	models.CategorySoftware:       0.8,
	models.CategoryPhysicalDamage: 1.5,
	models.CategoryPerformance:    1.2,
	models.CategoryOther:          1.0,
}

// DetectPriority scans the description for priority keywords, checking
// critical first. Defaults to low.
func DetectPriority(description string) models.ReportPriority {
	text := strings.ToLower(description)
	for _, tier := range priorityKeywords {
		for _, kw := range tier.Keywords {
			if strings.Contains(text, kw) {
				return tier.Priority
			}
		}
	}
	return models.PriorityLow
}

// DetectCategory scans the description for category keywords in the
// declared category order. Defaults to other.
func DetectCategory(description string) models.ReportCategory {
	text := strings.ToLower(description)
	for _, set := range categoryKeywords {
		for _, kw := range set.Keywords {
			if strings.Contains(text, kw) {
				return set.Category
			}
		}
	}
	return models.CategoryOther
}

// EstimateRepairHours derives the repair estimate from base hours per
// priority scaled by a category multiplier, rounded to one decimal.
func EstimateRepairHours(priority models.ReportPriority, category models.ReportCategory) float64 {
	base, ok := priorityBaseHours[priority]
	if !ok {
		base = priorityBaseHours[models.PriorityLow]
	}
	mult, ok := categoryMultipliers[category]
	if !ok {
		mult = 1.0
	}
	return roundHours(base * mult)
}

func roundHours(h float64) float64 {
	return math.Round(h*10) / 10
}

// ValidReportPriority reports whether p is a known priority value.
func ValidReportPriority(p models.ReportPriority) bool {
	_, ok := priorityBaseHours[p]
	return ok
}

// ValidReportCategory reports whether c is a known category value.
func ValidReportCategory(c models.ReportCategory) bool {
	_, ok := categoryMultipliers[c]
	return ok
}
