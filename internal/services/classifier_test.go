package services

import (
	"testing"

	"github.com/equiptrack/backend/internal/models"
)

func TestDetectPriority(t *testing.T) {
	tests := []struct {
		description string
		expected    models.ReportPriority
	}{
		{"There is a fire coming out of the projector", models.PriorityCritical},
		{"The socket is sparking when plugged in", models.PriorityCritical},
		{"Emergency: lab door panel jammed shut", models.PriorityCritical},
		{"The screen is completely broken", models.PriorityCritical},
		{"Monitor is not working anymore", models.PriorityCritical},
		{"The casing is cracked on one side", models.PriorityHigh},
		{"Coolant is leaking from the unit", models.PriorityHigh},
		{"Device keeps overheating under load", models.PriorityHigh},
		{"There is a minor issue with the volume knob", models.PriorityMedium},
		{"Reporting a defect in the projector lens cap", models.PriorityMedium},
		{"The chair wheel squeaks a little", models.PriorityLow},
		{"", models.PriorityLow},
	}

	for _, tt := range tests {
		if got := DetectPriority(tt.description); got != tt.expected {
			t.Errorf("DetectPriority(%q) = %s, want %s", tt.description, got, tt.expected)
		}
	}
}

func TestDetectPriorityTierOrder(t *testing.T) {
	// "broken" (critical) and "cracked" (high) both match; critical is
	// checked first.
	if got := DetectPriority("cracked and broken"); got != models.PriorityCritical {
		t.Errorf("expected CRITICAL when critical and high keywords both match, got %s", got)
	}
}

func TestDetectCategory(t *testing.T) {
	tests := []struct {
		description string
		expected    models.ReportCategory
	}{
		{"The keyboard has three dead keys", models.CategoryHardware},
		{"Charging cable is frayed at the port", models.CategoryHardware},
		{"The application crashes on startup", models.CategorySoftware},
		{"License activation keeps failing", models.CategorySoftware},
		{"There is a dent and a scratch on the lid", models.CategoryPhysicalDamage},
		{"Everything is lagging and unresponsive", models.CategoryPerformance},
		{"It smells odd near the desk", models.CategoryOther},
		{"", models.CategoryOther},
	}

	for _, tt := range tests {
		if got := DetectCategory(tt.description); got != tt.expected {
			t.Errorf("DetectCategory(%q) = %s, want %s", tt.description, got, tt.expected)
		}
	}
}

func TestEstimateRepairHours(t *testing.T) {
	tests := []struct {
		priority models.ReportPriority
		category models.ReportCategory
		expected float64
	}{
		{models.PriorityCritical, models.CategoryHardware, 2.0},
		{models.PriorityCritical, models.CategorySoftware, 1.6},
		{models.PriorityHigh, models.CategoryPhysicalDamage, 6.0},
		{models.PriorityHigh, models.CategoryPerformance, 4.8},
		{models.PriorityMedium, models.CategoryOther, 8.0},
		{models.PriorityLow, models.CategorySoftware, 19.2},
		{models.PriorityLow, models.CategoryPhysicalDamage, 36.0},
	}

	for _, tt := range tests {
		if got := EstimateRepairHours(tt.priority, tt.category); got != tt.expected {
			t.Errorf("EstimateRepairHours(%s, %s) = %v, want %v", tt.priority, tt.category, got, tt.expected)
		}
	}
}

func TestClassifierScenarioCrackedMonitor(t *testing.T) {
	description := "Monitor screen cracked and leaking"

	priority := DetectPriority(description)
	if priority != models.PriorityHigh {
		t.Errorf("expected HIGH priority, got %s", priority)
	}

	category := DetectCategory(description)
	if category != models.CategoryPhysicalDamage {
		t.Errorf("expected PHYSICAL_DAMAGE category, got %s", category)
	}

	if got := EstimateRepairHours(priority, category); got != 6.0 {
		t.Errorf("expected 6.0 hours for HIGH physical damage, got %v", got)
	}
}

func TestClassifierCategoryOrder(t *testing.T) {
	// "crack" is checked in the physical_damage set before the
	// performance set sees "slow".
	description := "Big crack along the side, everything slow"

	if got := DetectCategory(description); got != models.CategoryPhysicalDamage {
		t.Errorf("expected PHYSICAL_DAMAGE category, got %s", got)
	}
}
