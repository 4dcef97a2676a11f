// Command hashpin provisions the auth secrets: a bcrypt hash of the
// shared PIN, the fixed session token, and the cron secret for the
// scheduled backup/maintenance triggers.
//
//	go run ./cmd/hashpin 1234
package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"regexp"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const saltRounds = 12

var rePIN = regexp.MustCompile(`^\d{4,8}$`)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: hashpin <pin>")
		fmt.Println("Example: hashpin 1234")
		fmt.Println()
		fmt.Println("Prints AUTH_PIN_HASH, AUTH_TOKEN and CRON_SECRET for the environment.")
		os.Exit(1)
	}

	pin := os.Args[1]
	if !rePIN.MatchString(pin) {
		log.Fatal("pin must be 4-8 digits")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pin), saltRounds)
	if err != nil {
		log.Fatal(err)
	}

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		log.Fatal(err)
	}

	fmt.Println()
	fmt.Println("Copy these to the environment (or a local .env):")
	fmt.Println()
	fmt.Printf("AUTH_PIN_HASH=%s\n", hash)
	fmt.Printf("AUTH_TOKEN=%s\n", hex.EncodeToString(tokenBytes))
	fmt.Printf("CRON_SECRET=%s\n", uuid.NewString())
	fmt.Println()
}
