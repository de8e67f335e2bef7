package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/equiptrack/backend/internal/models"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// memoryPhotoStore stands in for the disk photo store in tests.
type memoryPhotoStore struct {
	files  map[string][]byte
	seq    int
	calls  int
	failAt int // 1-based Store call that fails; 0 means never
}

func newMemoryPhotoStore() *memoryPhotoStore {
	return &memoryPhotoStore{files: map[string][]byte{}}
}

func (m *memoryPhotoStore) Store(data []byte, mimeType string) (string, error) {
	m.calls++
	if m.failAt > 0 && m.calls >= m.failAt {
		return "", errors.New("disk full")
	}
	m.seq++
	name := fmt.Sprintf("photo-%d.jpg", m.seq)
	m.files[name] = data
	return name, nil
}

func (m *memoryPhotoStore) Remove(path string) error {
	if _, ok := m.files[path]; !ok {
		return errors.New("no such photo")
	}
	delete(m.files, path)
	return nil
}

type testEnv struct {
	db           *gorm.DB
	photos       *memoryPhotoStore
	reports      *ReportService
	reservations *ReservationService
	equipment    *EquipmentService
	notifier     *NotificationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Equipment{},
		&models.DefectReport{},
		&models.ReportStatusHistory{},
		&models.ReportComment{},
		&models.Notification{},
		&models.Reservation{},
		&models.ActivityLog{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	photos := newMemoryPhotoStore()
	activity := NewActivityService(db)
	notifier := NewNotificationService(db)
	equipment := NewEquipmentService(db, activity)
	reports := NewReportService(db, photos, notifier, equipment, activity)
	reservations := NewReservationService(db, notifier, activity)

	return &testEnv{
		db:           db,
		photos:       photos,
		reports:      reports,
		reservations: reservations,
		equipment:    equipment,
		notifier:     notifier,
	}
}

var fixtureSeq int

func (e *testEnv) seedUser(t *testing.T, role models.UserRole) *models.User {
	t.Helper()
	fixtureSeq++
	user := models.User{
		Email:     fmt.Sprintf("user%d@campus.edu", fixtureSeq),
		Password:  "hashed",
		FirstName: "Test",
		LastName:  fmt.Sprintf("User%d", fixtureSeq),
		Role:      role,
	}
	if err := e.db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return &user
}

func (e *testEnv) seedEquipment(t *testing.T, name string) *models.Equipment {
	t.Helper()
	fixtureSeq++
	equipment := models.Equipment{
		Name:         name,
		SerialNumber: fmt.Sprintf("EQ-%04d", fixtureSeq),
		Category:     "lab",
		Location:     "Room 301",
		Status:       models.EquipmentAvailable,
	}
	if err := e.db.Create(&equipment).Error; err != nil {
		t.Fatalf("failed to seed equipment: %v", err)
	}
	return &equipment
}

func (e *testEnv) reportCount(t *testing.T, equipmentID uint) int64 {
	t.Helper()
	var count int64
	if err := e.db.Model(&models.DefectReport{}).Where("equipment_id = ?", equipmentID).Count(&count).Error; err != nil {
		t.Fatalf("failed to count reports: %v", err)
	}
	return count
}

func (e *testEnv) equipmentStatus(t *testing.T, id uint) models.EquipmentStatus {
	t.Helper()
	var equipment models.Equipment
	if err := e.db.First(&equipment, id).Error; err != nil {
		t.Fatalf("failed to fetch equipment: %v", err)
	}
	return equipment.Status
}
