// Command token mints a bearer token for the admin endpoints.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"obsdb/internal/config"
	"obsdb/internal/platform/crypto"
)

func main() {
	var (
		subject = flag.String("sub", "", "Operator name recorded with admin actions")
		role    = flag.String("role", crypto.RoleAdmin, "Token role")
		ttl     = flag.Duration("ttl", 24*time.Hour, "Token lifetime")
	)
	flag.Parse()

	config.LoadEnvFiles()

	if *subject == "" {
		log.Fatal("-sub is required")
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	token, jti, err := crypto.GenerateToken(secret, *subject, *role, *ttl)
	if err != nil {
		log.Fatalf("sign token: %v", err)
	}
	fmt.Fprintf(os.Stderr, "jti=%s expires=%s\n", jti, time.Now().Add(*ttl).Format(time.RFC3339))
	fmt.Println(token)
}
