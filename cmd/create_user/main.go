package main

import (
	"fmt"
	"os"
	"strings"

	"labelcheck/models"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Small admin utility: create (or reset the password of) a user directly in
// the database. Usage: create_user <username> <password>
func main() {
	if len(os.Args) != 3 {
		fmt.Fprintln(os.Stderr, "usage: create_user <username> <password>")
		os.Exit(2)
	}
	username := strings.TrimSpace(os.Args[1])
	password := os.Args[2]
	if username == "" || len(password) < 6 {
		logrus.Fatal("username required and password must be at least 6 chars")
	}

	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		logrus.Fatal("DB_DSN is not set")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("connect: %v", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logrus.Fatalf("hash: %v", err)
	}

	var user models.User
	if err := db.Where("username = ?", username).First(&user).Error; err == nil {
		user.HashedPassword = hashed
		if err := db.Save(&user).Error; err != nil {
			logrus.Fatalf("update: %v", err)
		}
		fmt.Printf("updated password for %s\n", username)
		return
	}

	var role models.Role
	_ = db.Where("name = ?", "user").FirstOrCreate(&role, models.Role{Name: "user", Description: "regular user"}).Error
	rid := role.ID
	user = models.User{Username: username, HashedPassword: hashed, RoleID: &rid}
	if err := db.Create(&user).Error; err != nil {
		logrus.Fatalf("create: %v", err)
	}
	fmt.Printf("created user %s\n", username)
}
