package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/stallbacken/stallplan/pkg/auth"
)

// Offline tenant key minting, for operators without admin API access.
func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")

	if len(os.Args) < 2 {
		fmt.Println("Usage: keygen <tenant>")
		os.Exit(1)
	}

	if os.Getenv("API_MASTER_SECRET") == "" {
		fmt.Println("Error: API_MASTER_SECRET not set")
		os.Exit(1)
	}

	tenant := os.Args[1]
	fmt.Printf("Generated key for %s:\n%s\n", tenant, auth.GenerateHMACKey(tenant))
}
