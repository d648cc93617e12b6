// cmd/devtoken/main.go: prints a signed access token for local development.
// Usage: go run ./cmd/devtoken -user <uuid> -features cost_lines,price_schemas
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"hppkit/internal/config"
	"hppkit/internal/middleware"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

func main() {
	allFeatures := strings.Join([]string{
		middleware.FeatureCatalogWrites,
		middleware.FeatureCostLines,
		middleware.FeaturePriceSchemas,
		middleware.FeatureSimulations,
		middleware.FeatureExports,
	}, ",")

	userID := flag.String("user", "", "user id (random when empty)")
	email := flag.String("email", "dev@hppkit.local", "email claim")
	plan := flag.String("plan", "pro", "plan claim")
	features := flag.String("features", allFeatures, "comma separated feature list")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	if *userID == "" {
		*userID = uuid.NewString()
	} else if _, err := uuid.Parse(*userID); err != nil {
		log.Fatal().Err(err).Msg("user must be a uuid")
	}

	var granted []string
	for _, f := range strings.Split(*features, ",") {
		if f = strings.TrimSpace(f); f != "" {
			granted = append(granted, f)
		}
	}

	now := time.Now()
	claims := middleware.JWTClaims{
		UserID:   *userID,
		Email:    *email,
		Plan:     *plan,
		Features: granted,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   *userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(*ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to sign token")
	}

	fmt.Fprintf(os.Stderr, "user_id: %s\n", *userID)
	fmt.Println(token)
}
