// Command hashgen prints a bcrypt digest for a password. Useful for
// seeding admin accounts directly in the database.
package main

import (
	"flag"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"

	"github.com/healthtrack/backend/internal/utils"
)

func main() {
	password := flag.String("password", "", "plaintext password to hash")
	cost := flag.Int("cost", bcrypt.DefaultCost, "bcrypt cost (4-31)")
	flag.Parse()

	if *password == "" {
		log.Fatal("usage: hashgen -password <plaintext> [-cost N]")
	}

	hash, err := utils.HashPassword(*password, *cost)
	if err != nil {
		log.Fatalf("hash failed: %v", err)
	}
	fmt.Println(hash)
}
