// Bootstrap script to create or update an administrator account
// cmd/create-admin/main.go
package main

import (
	"errors"
	"flag"
	"log"

	"research-directory-api/config"
	"research-directory-api/models"
	"research-directory-api/utils"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	name := flag.String("name", "", "full name of the administrator")
	email := flag.String("email", "", "login email")
	password := flag.String("password", "", "initial password")
	role := flag.Int("role", models.RoleAdmin, "role id (1=editor, 2=admin)")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("both -email and -password are required")
	}
	if !utils.ValidateEmail(*email) {
		log.Fatal("invalid email format")
	}
	if ok, msg := utils.ValidatePassword(*password); !ok {
		log.Fatal(msg)
	}

	config.InitDB()

	hashed, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	var user models.User
	err = config.DB.Where("email = ?", *email).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.User{
			FullName: *name,
			Email:    *email,
			Password: string(hashed),
			RoleID:   *role,
		}
		if err := config.DB.Create(&user).Error; err != nil {
			log.Fatal("Failed to create user:", err)
		}
		log.Printf("Created user %s (role %d)\n", user.Email, user.RoleID)
	case err != nil:
		log.Fatal("Failed to look up user:", err)
	default:
		updates := map[string]interface{}{
			"password": string(hashed),
			"role_id":  *role,
		}
		if *name != "" {
			updates["full_name"] = *name
		}
		if err := config.DB.Model(&user).Updates(updates).Error; err != nil {
			log.Fatal("Failed to update user:", err)
		}
		log.Printf("Updated user %s (role %d)\n", user.Email, *role)
	}
}
