package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// LoadEnv pulls variables from a local .env file when one is present.
// A missing file is fine; deployed environments set real variables.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file loaded:", err)
	}
}

// CheckEnv returns the value of a required environment variable and
// aborts when it is unset.
func CheckEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Fatalf("WARNING: %s environment variable is required!", key)
	}
	return value
}
