package main

import (
	"log"
	"os"
	"time"

	"ai-studyaid-be/internal/model"
	"ai-studyaid-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// Seeds a demo user with a few study sessions and a short chat transcript so
// the context assembler has something to pull from on a fresh database.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Seeding demo study data...")

	userId := uuid.MustParse("66a32015-43b7-4f30-a4c9-6f4c74a0d3c3")
	now := time.Now()

	sessions := []model.StudySession{
		{
			Id:        uuid.New(),
			UserId:    userId,
			Title:     "Photosynthesis Basics",
			Content:   "Photosynthesis converts light energy into chemical energy. Chlorophyll absorbs light in the chloroplasts. The light reactions produce ATP and NADPH.",
			Summary:   "Light reactions and the role of chlorophyll.",
			CreatedAt: now.Add(-48 * time.Hour),
		},
		{
			Id:        uuid.New(),
			UserId:    userId,
			Title:     "Calvin Cycle",
			Content:   "The Calvin cycle fixes carbon dioxide into glucose using ATP and NADPH from the light reactions. Rubisco catalyzes carbon fixation.",
			Summary:   "Carbon fixation and glucose synthesis.",
			CreatedAt: now.Add(-24 * time.Hour),
		},
		{
			Id:        uuid.New(),
			UserId:    userId,
			Title:     "Leaf Anatomy",
			Content:   "Stomata regulate gas exchange in leaves. Guard cells open and close the stomata in response to water availability.",
			Summary:   "Stomata and gas exchange.",
			CreatedAt: now.Add(-2 * time.Hour),
		},
	}

	for i := range sessions {
		if err := db.Create(&sessions[i]).Error; err != nil {
			log.Fatal("Error: Failed to seed study session:", err)
		}
	}

	chat := []model.ChatMessage{
		{Id: uuid.New(), SessionId: sessions[2].Id, Role: "user", Chat: "What do guard cells do?", CreatedAt: now.Add(-90 * time.Minute)},
		{Id: uuid.New(), SessionId: sessions[2].Id, Role: "assistant", Chat: "Guard cells open and close the stomata to regulate gas exchange and water loss.", CreatedAt: now.Add(-89 * time.Minute)},
	}

	for i := range chat {
		if err := db.Create(&chat[i]).Error; err != nil {
			log.Fatal("Error: Failed to seed chat message:", err)
		}
	}

	log.Printf("Seeded %d sessions and %d chat messages for user %s", len(sessions), len(chat), userId)
}
