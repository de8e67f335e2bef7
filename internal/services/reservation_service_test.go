package services

import (
	"errors"
	"testing"
	"time"

	"github.com/equiptrack/backend/internal/models"
)

func reservationWindow(startIn, length time.Duration) (time.Time, time.Time) {
	start := time.Now().Add(startIn)
	return start, start.Add(length)
}

func TestCreateReservationValidation(t *testing.T) {
	env := newTestEnv(t)
	student := env.seedUser(t, models.RoleStudent)
	projector := env.seedEquipment(t, "Projector")

	start, end := reservationWindow(time.Hour, 2*time.Hour)

	cases := []struct {
		name  string
		input CreateReservationInput
		field string
	}{
		{
			name:  "missing equipment",
			input: CreateReservationInput{UserID: student.ID, StartTime: start, EndTime: end},
			field: "equipmentId",
		},
		{
			name: "unknown equipment",
			input: CreateReservationInput{
				UserID: student.ID, EquipmentID: 9999, StartTime: start, EndTime: end,
			},
			field: "equipmentId",
		},
		{
			name: "end before start",
			input: CreateReservationInput{
				UserID: student.ID, EquipmentID: projector.ID, StartTime: end, EndTime: start,
			},
			field: "endTime",
		},
		{
			name: "start in the past",
			input: CreateReservationInput{
				UserID: student.ID, EquipmentID: projector.ID,
				StartTime: time.Now().Add(-time.Hour), EndTime: end,
			},
			field: "startTime",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.reservations.Create(tc.input)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if verr.Field != tc.field {
				t.Errorf("expected field %q, got %q", tc.field, verr.Field)
			}
		})
	}
}

func TestCreateReservationRejectsUnusableEquipment(t *testing.T) {
	env := newTestEnv(t)
	student := env.seedUser(t, models.RoleStudent)
	start, end := reservationWindow(time.Hour, 2*time.Hour)

	for _, status := range []models.EquipmentStatus{models.EquipmentDefective, models.EquipmentRetired} {
		equipment := env.seedEquipment(t, "Broken "+string(status))
		if err := env.db.Model(equipment).Update("status", status).Error; err != nil {
			t.Fatalf("failed to set equipment status: %v", err)
		}

		_, err := env.reservations.Create(CreateReservationInput{
			UserID: student.ID, EquipmentID: equipment.ID, StartTime: start, EndTime: end,
		})
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected validation error for %s equipment, got %v", status, err)
		}
	}
}

func TestReservationOverlapAgainstApprovedOnly(t *testing.T) {
	env := newTestEnv(t)
	alice := env.seedUser(t, models.RoleStudent)
	bob := env.seedUser(t, models.RoleStudent)
	handler := env.seedUser(t, models.RoleHandler)
	camera := env.seedEquipment(t, "Camera")

	start, end := reservationWindow(time.Hour, 3*time.Hour)

	first, err := env.reservations.Create(CreateReservationInput{
		UserID: alice.ID, EquipmentID: camera.ID, StartTime: start, EndTime: end,
	})
	if err != nil {
		t.Fatalf("first reservation failed: %v", err)
	}

	// Pending reservations do not block a competing request.
	if _, err := env.reservations.Create(CreateReservationInput{
		UserID: bob.ID, EquipmentID: camera.ID,
		StartTime: start.Add(time.Hour), EndTime: end.Add(time.Hour),
	}); err != nil {
		t.Fatalf("competing pending reservation should be allowed: %v", err)
	}

	if _, err := env.reservations.Decide(first.ID, true, "", handler.ID); err != nil {
		t.Fatalf("approval failed: %v", err)
	}

	// Once approved, an overlapping window is rejected.
	_, err = env.reservations.Create(CreateReservationInput{
		UserID: bob.ID, EquipmentID: camera.ID,
		StartTime: start.Add(30 * time.Minute), EndTime: end.Add(30 * time.Minute),
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected overlap rejection, got %v", err)
	}

	// A window after the approved one is still fine.
	if _, err := env.reservations.Create(CreateReservationInput{
		UserID: bob.ID, EquipmentID: camera.ID,
		StartTime: end.Add(time.Hour), EndTime: end.Add(2 * time.Hour),
	}); err != nil {
		t.Fatalf("non-overlapping reservation rejected: %v", err)
	}
}

func TestReservationDecisionFlow(t *testing.T) {
	env := newTestEnv(t)
	student := env.seedUser(t, models.RoleStudent)
	handler := env.seedUser(t, models.RoleHandler)
	laptop := env.seedEquipment(t, "Laptop")

	start, end := reservationWindow(time.Hour, 2*time.Hour)
	reservation, err := env.reservations.Create(CreateReservationInput{
		UserID: student.ID, EquipmentID: laptop.ID, StartTime: start, EndTime: end, Purpose: "thesis demo",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	decided, err := env.reservations.Decide(reservation.ID, true, "picked up at front desk", handler.ID)
	if err != nil {
		t.Fatalf("approval failed: %v", err)
	}
	if decided.Status != models.ReservationApproved {
		t.Errorf("expected approved, got %s", decided.Status)
	}
	if decided.HandlerNotes == nil || *decided.HandlerNotes != "picked up at front desk" {
		t.Errorf("handler notes not stored: %v", decided.HandlerNotes)
	}
	if got := env.equipmentStatus(t, laptop.ID); got != models.EquipmentReserved {
		t.Errorf("expected equipment reserved after approval, got %s", got)
	}

	// Only pending reservations can be decided.
	if _, err := env.reservations.Decide(reservation.ID, false, "", handler.ID); err == nil {
		t.Error("expected error deciding an already approved reservation")
	}

	// Requester gets notified of the decision.
	notifications, err := env.notifier.ListForUser(student.ID, models.RoleStudent, false, 50)
	if err != nil {
		t.Fatalf("failed to list notifications: %v", err)
	}
	found := false
	for _, n := range notifications {
		if n.Type == models.NotifyReservation {
			found = true
		}
	}
	if !found {
		t.Error("expected a reservation notification for the requester")
	}
}

func TestReservationRejectLeavesEquipmentAlone(t *testing.T) {
	env := newTestEnv(t)
	student := env.seedUser(t, models.RoleStudent)
	handler := env.seedUser(t, models.RoleHandler)
	tripod := env.seedEquipment(t, "Tripod")

	start, end := reservationWindow(time.Hour, time.Hour)
	reservation, err := env.reservations.Create(CreateReservationInput{
		UserID: student.ID, EquipmentID: tripod.ID, StartTime: start, EndTime: end,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	decided, err := env.reservations.Decide(reservation.ID, false, "needed for a class", handler.ID)
	if err != nil {
		t.Fatalf("rejection failed: %v", err)
	}
	if decided.Status != models.ReservationRejected {
		t.Errorf("expected rejected, got %s", decided.Status)
	}
	if got := env.equipmentStatus(t, tripod.ID); got != models.EquipmentAvailable {
		t.Errorf("rejection must not touch equipment status, got %s", got)
	}
}

func TestReservationReturnReleasesEquipment(t *testing.T) {
	env := newTestEnv(t)
	student := env.seedUser(t, models.RoleStudent)
	handler := env.seedUser(t, models.RoleHandler)
	scope := env.seedEquipment(t, "Oscilloscope")

	start, end := reservationWindow(time.Hour, 2*time.Hour)
	reservation, err := env.reservations.Create(CreateReservationInput{
		UserID: student.ID, EquipmentID: scope.ID, StartTime: start, EndTime: end,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// Return before approval is rejected.
	if err := env.reservations.Return(reservation.ID, handler.ID); err == nil {
		t.Error("expected error returning a pending reservation")
	}

	if _, err := env.reservations.Decide(reservation.ID, true, "", handler.ID); err != nil {
		t.Fatalf("approval failed: %v", err)
	}
	if err := env.reservations.Return(reservation.ID, handler.ID); err != nil {
		t.Fatalf("return failed: %v", err)
	}

	var reloaded models.Reservation
	if err := env.db.First(&reloaded, reservation.ID).Error; err != nil {
		t.Fatalf("failed to reload reservation: %v", err)
	}
	if reloaded.Status != models.ReservationReturned {
		t.Errorf("expected returned, got %s", reloaded.Status)
	}
	if got := env.equipmentStatus(t, scope.ID); got != models.EquipmentAvailable {
		t.Errorf("expected equipment released after return, got %s", got)
	}
}

func TestReservationCancel(t *testing.T) {
	env := newTestEnv(t)
	student := env.seedUser(t, models.RoleStudent)
	other := env.seedUser(t, models.RoleStudent)
	handler := env.seedUser(t, models.RoleHandler)
	mixer := env.seedEquipment(t, "Audio Mixer")

	start, end := reservationWindow(time.Hour, time.Hour)
	reservation, err := env.reservations.Create(CreateReservationInput{
		UserID: student.ID, EquipmentID: mixer.ID, StartTime: start, EndTime: end,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// Only the requester may cancel.
	if err := env.reservations.Cancel(reservation.ID, other.ID); err == nil {
		t.Error("expected error cancelling someone else's reservation")
	}

	if _, err := env.reservations.Decide(reservation.ID, true, "", handler.ID); err != nil {
		t.Fatalf("approval failed: %v", err)
	}
	if err := env.reservations.Cancel(reservation.ID, student.ID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if got := env.equipmentStatus(t, mixer.ID); got != models.EquipmentAvailable {
		t.Errorf("cancelling an approved reservation must release equipment, got %s", got)
	}

	// Cancelling twice is rejected.
	if err := env.reservations.Cancel(reservation.ID, student.ID); err == nil {
		t.Error("expected error cancelling an already cancelled reservation")
	}

	if err := env.reservations.Cancel(9999, student.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown reservation, got %v", err)
	}
}

func TestReservationListFilters(t *testing.T) {
	env := newTestEnv(t)
	alice := env.seedUser(t, models.RoleStudent)
	bob := env.seedUser(t, models.RoleStudent)
	printer := env.seedEquipment(t, "3D Printer")
	drone := env.seedEquipment(t, "Drone")

	for i, setup := range []struct {
		user      *models.User
		equipment *models.Equipment
	}{
		{alice, printer},
		{alice, drone},
		{bob, printer},
	} {
		start, end := reservationWindow(time.Duration(i+1)*24*time.Hour, 2*time.Hour)
		if _, err := env.reservations.Create(CreateReservationInput{
			UserID: setup.user.ID, EquipmentID: setup.equipment.ID, StartTime: start, EndTime: end,
		}); err != nil {
			t.Fatalf("seed reservation %d failed: %v", i, err)
		}
	}

	byUser, total, err := env.reservations.List(ReservationFilter{UserID: &alice.ID})
	if err != nil {
		t.Fatalf("list by user failed: %v", err)
	}
	if total != 2 || len(byUser) != 2 {
		t.Errorf("expected 2 reservations for alice, got total=%d len=%d", total, len(byUser))
	}

	byEquipment, total, err := env.reservations.List(ReservationFilter{EquipmentID: &printer.ID})
	if err != nil {
		t.Fatalf("list by equipment failed: %v", err)
	}
	if total != 2 || len(byEquipment) != 2 {
		t.Errorf("expected 2 reservations for printer, got total=%d len=%d", total, len(byEquipment))
	}

	pending, total, err := env.reservations.List(ReservationFilter{Status: models.ReservationPending})
	if err != nil {
		t.Fatalf("list by status failed: %v", err)
	}
	if total != 3 || len(pending) != 3 {
		t.Errorf("expected 3 pending reservations, got total=%d len=%d", total, len(pending))
	}
}
