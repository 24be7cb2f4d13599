package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func main() {
	subject := flag.String("sub", "ops", "token subject")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	// Read JWT secret from environment
	secret := os.Getenv("ADMIN_JWT_SECRET")
	if secret == "" {
		fmt.Fprintln(os.Stderr, "Error: ADMIN_JWT_SECRET environment variable must be set")
		fmt.Fprintln(os.Stderr, "Usage: ADMIN_JWT_SECRET=secret go run scripts/generate-jwt.go [-sub ops] [-ttl 1h]")
		os.Exit(1)
	}

	// Claims accepted by middleware.AdminAuth
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  *subject,
		"role": "admin",
		"iat":  now.Unix(),
		"exp":  now.Add(*ttl).Unix(),
		"iss":  "yeschef",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error signing token: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(tokenString)
}
