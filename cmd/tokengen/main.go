package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/ftsilveira/dailydiet/internal/auth"
	"github.com/ftsilveira/dailydiet/internal/config"
)

// tokengen mints an access token for a subject so the API can be exercised
// locally. Token issuance is deliberately not part of the HTTP surface.
func main() {
	subject := flag.String("subject", "", "token subject (required)")
	ttl := flag.Duration("ttl", 0, "token lifetime, defaults to JWT_ACCESS_TTL_MINUTES")

	flag.Parse()

	if *subject == "" {
		log.Fatal("missing -subject")
	}

	cfg := config.Load()

	accessTTL := *ttl

	if accessTTL <= 0 {
		accessTTL = time.Duration(cfg.JWTAccessTTLMinutes) * time.Minute
	}

	manager := auth.NewManager(cfg.JWTSecret, accessTTL)

	token, err := manager.GenerateAccessToken(*subject)

	if err != nil {
		log.Fatalf("could not sign token: %v", err)
	}

	fmt.Println(token)
}
