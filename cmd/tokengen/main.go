// Copyright (c) 2026 FilmArchive. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command tokengen mints an RS256 access token for the mutation routes.
//
// Usage:
//
//	tokengen -priv keys/private.pem -pub keys/public.pem -sub alice -role editor -ttl 24h
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/taibuivan/filmarchive/internal/platform/constants"
	"github.com/taibuivan/filmarchive/internal/platform/sec"
)

func main() {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil)).With(slog.String("app", "tokengen"))

	privateKeyPath := flag.String("priv", os.Getenv("JWT_PRIVATE_KEY_PATH"), "path to the RSA private key (PEM)")
	publicKeyPath := flag.String("pub", os.Getenv("JWT_PUBLIC_KEY_PATH"), "path to the RSA public key (PEM)")
	subject := flag.String("sub", "editor", "token subject")
	role := flag.String("role", string(sec.RoleEditor), "admin, editor or viewer")
	timeToLive := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	userRole := sec.UserRole(*role)
	if !userRole.IsValid() {
		log.Error("invalid role", slog.String("role", *role))
		os.Exit(2)
	}

	if *privateKeyPath == "" || *publicKeyPath == "" {
		log.Error("both -priv and -pub are required")
		os.Exit(2)
	}

	tokens, err := sec.NewTokenService(*privateKeyPath, *publicKeyPath, constants.AuthIssuer)
	if err != nil {
		log.Error("load keys", slog.Any("error", err))
		os.Exit(1)
	}

	token, err := tokens.GenerateAccessToken(*subject, userRole, *timeToLive)
	if err != nil {
		log.Error("sign token", slog.Any("error", err))
		os.Exit(1)
	}

	fmt.Println(token)
}
