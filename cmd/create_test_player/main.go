package main

import (
	"context"
	"log"
	"os"

	"petshop_tycoon/internal/db"
	"petshop_tycoon/internal/domain"
	"petshop_tycoon/internal/repository"
	"petshop_tycoon/internal/service"
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

	tgID := int64(1234567890)

	existing, err := repo.GetByTgID(ctx, tgID)
	var p *domain.Player
	if err == nil {
		p = existing
		log.Printf("player already exists id=%d\n", p.ID)
	} else {
		p = &domain.Player{
			TgID:      tgID,
			Username:  "testplayer",
			FirstName: "Tester",
		}

		if err := repo.Create(ctx, p); err != nil {
			log.Fatalf("create player failed: %v", err)
		}

		log.Printf("player created id=%d\n", p.ID)
	}

	p2, err := repo.GetByTgID(ctx, p.TgID)
	if err != nil {
		log.Fatalf("get by tg id failed: %v", err)
	}
	log.Printf("fetched player id=%d username=%s level=%d crystals=%.1f\n", p2.ID, p2.Username, p2.Level, p2.Crystals)

	service.InitJWT(secret)
	token, err := service.GenerateJWT(p2.ID)
	if err != nil {
		log.Fatalf("failed to generate token: %v", err)
	}
	log.Printf("token=%s\n", token)
}
