package main

import (
	"fmt"
	"log"

	"github.com/smarttransit/route-booking/internal/utils"
)

func main() {
	fmt.Println("===========================================")
	fmt.Println("Secret Generator for the route booking API")
	fmt.Println("===========================================")
	fmt.Println()

	jwtSecret, adminPassword, err := utils.GenerateAdminSecrets()
	if err != nil {
		log.Fatalf("Failed to generate secrets: %v", err)
	}

	fmt.Println("Add these to your .env file:")
	fmt.Println()
	fmt.Printf("JWT_SECRET=%s\n", jwtSecret)
	fmt.Printf("ADMIN_PASSWORD=%s\n", adminPassword)
	fmt.Println()
	fmt.Println("Keep these secrets out of version control.")
	fmt.Println("===========================================")
}
