package database

import (
	"context"
	"path/filepath"
	"testing"

	"collegesite/internal/models"

	"golang.org/x/crypto/bcrypt"
)

func openTestDB(t *testing.T) *Database {
	t.Helper()
	db, err := NewDatabase(Options{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "db", "test.db")})
	if err != nil {
		t.Fatalf("ошибка открытия базы: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestNewDatabase_Migrates(t *testing.T) {
	db := openTestDB(t)

	if err := db.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	for _, table := range []string{"news", "documents", "lessons", "uploaded_files", "site_settings"} {
		if !db.DB.Migrator().HasTable(table) {
			t.Errorf("таблица %s не создана", table)
		}
	}
}

func TestNewDatabase_UnknownDriver(t *testing.T) {
	if _, err := NewDatabase(Options{Driver: "oracle"}); err == nil {
		t.Error("ожидалась ошибка для неизвестного драйвера")
	}
}

func TestCreateDefaultAdmin(t *testing.T) {
	db := openTestDB(t)

	if err := db.CreateDefaultAdmin("admin", "secret"); err != nil {
		t.Fatalf("ошибка создания администратора: %v", err)
	}
	if err := db.CreateDefaultAdmin("other", "secret2"); err != nil {
		t.Fatalf("повторный вызов: %v", err)
	}

	var users []models.AdminUser
	db.DB.Find(&users)
	if len(users) != 1 || users[0].Username != "admin" {
		t.Fatalf("ожидался один администратор admin, получено %+v", users)
	}
	if bcrypt.CompareHashAndPassword([]byte(users[0].PasswordHash), []byte("secret")) != nil {
		t.Error("пароль должен храниться как bcrypt-хэш")
	}
}

func TestForeignKeysEnforced(t *testing.T) {
	db := openTestDB(t)

	group := models.ScheduleGroup{Code: "ИС-21"}
	if err := db.DB.Create(&group).Error; err != nil {
		t.Fatal(err)
	}
	lesson := models.Lesson{GroupID: group.ID, DayOfWeek: 1, LessonNumber: 1, Subject: "Математика"}
	if err := db.DB.Create(&lesson).Error; err != nil {
		t.Fatal(err)
	}

	if err := db.DB.Delete(&group).Error; err != nil {
		t.Fatal(err)
	}
	var count int64
	db.DB.Model(&models.Lesson{}).Count(&count)
	if count != 0 {
		t.Errorf("пары группы должны удаляться каскадно, осталось %d", count)
	}
}
