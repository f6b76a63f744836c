package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"log"

	"horizonva/opsdesk/internal/auth"
	"horizonva/opsdesk/internal/db"
	"horizonva/opsdesk/internal/db/repositories"
	"horizonva/opsdesk/internal/models/entities"
)

// Mints an API key and stores its hash. The raw key is printed exactly
// once; there is no way to recover it later.
func main() {
	pilotID := flag.String("pilot", "", "pilot id the key acts as (empty for a service key)")
	label := flag.String("label", "cli", "label shown in audit logs")
	roles := flag.String("roles", "pilot", "comma separated roles (pilot,dispatcher,admin)")
	flag.Parse()

	if err := db.InitPostgres(); err != nil {
		log.Fatalf("connect: %v", err)
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		log.Fatalf("entropy: %v", err)
	}
	rawKey := hex.EncodeToString(buf)

	key := &entities.ApiKey{
		ID:    auth.HashAPIKey(rawKey),
		Label: *label,
		Roles: *roles,
	}
	if *pilotID != "" {
		key.PilotID = pilotID
	}

	keysRepo := repositories.NewApiKeysRepo(db.DB)
	if err := keysRepo.InsertKey(context.Background(), key); err != nil {
		log.Fatalf("insert api key: %v", err)
	}

	fmt.Println("New API Key:", rawKey)
}
