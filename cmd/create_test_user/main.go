package main

import (
	"context"
	"errors"
	"log"
	"os"

	"rps_arena/internal/db"
	"rps_arena/internal/domain"
	"rps_arena/internal/repository"
	"rps_arena/internal/service"
)

func main() {
	// expects DATABASE_URL and JWT_SECRET env vars
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET not set")
	}

	pool := db.Connect(dsn)
	defer pool.Close()

	repo := repository.NewPlayerRepository(pool)
	ctx := context.Background()

	username := "testplayer"
	if len(os.Args) > 1 {
		username = os.Args[1]
	}

	p, err := repo.GetByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		p = &domain.Player{Username: username}
		if err := repo.Create(ctx, p); err != nil {
			log.Fatalf("create player failed: %v", err)
		}
		log.Printf("player created id=%d\n", p.ID)
	} else if err != nil {
		log.Fatalf("get player failed: %v", err)
	} else {
		log.Printf("player already exists id=%d\n", p.ID)
	}

	service.InitJWT(secret)
	token, err := service.GenerateJWT(p.ID)
	if err != nil {
		log.Fatalf("failed to generate token: %v", err)
	}
	log.Printf("token=%s\n", token)
}
