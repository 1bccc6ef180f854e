package main

import (
	"context"
	"log"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/groupflow-app/groupflow/internal/adapter/repository"
	"github.com/groupflow-app/groupflow/internal/domain/entities"
	"github.com/groupflow-app/groupflow/internal/infrastructure/database"
	meetingUsecase "github.com/groupflow-app/groupflow/internal/usecase/meeting"
	"github.com/groupflow-app/groupflow/pkg/config"
	"github.com/groupflow-app/groupflow/pkg/jwt"
)

// Seeds a demo meeting with a brainstorming and a voting activity so a fresh
// environment has something to poke at.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	store := repository.NewStore(db)
	meetingService := meetingUsecase.NewMeetingService(store, logger)

	ctx := context.Background()
	facilitator := entities.CallerIdentity{
		UserID:      uuid.New(),
		DisplayName: "Demo Facilitator",
	}

	m, err := meetingService.CreateMeeting(ctx, meetingUsecase.CreateMeetingInput{
		Title:  "Weekly Retrospective (demo)",
		Caller: facilitator,
	})
	if err != nil {
		log.Fatalf("Failed to create demo meeting: %v", err)
	}

	if _, err := meetingService.AddActivity(ctx, meetingUsecase.AddActivityInput{
		MeetingID: m.ID,
		ToolType:  entities.ToolTypeBrainstorming,
		Title:     "What went well?",
		Config: entities.ActivityConfig{
			AllowSubcomments: true,
			AllowAnonymous:   true,
			ShowResults:      true,
		},
		Caller: facilitator,
	}); err != nil {
		log.Fatalf("Failed to add brainstorming activity: %v", err)
	}

	if _, err := meetingService.AddActivity(ctx, meetingUsecase.AddActivityInput{
		MeetingID: m.ID,
		ToolType:  entities.ToolTypeVoting,
		Title:     "Pick our next improvement",
		Config: entities.ActivityConfig{
			Options: []entities.VoteOption{
				{ID: "ci", Label: "Speed up CI"},
				{ID: "docs", Label: "Improve onboarding docs"},
				{ID: "oncall", Label: "Rework on-call rotation"},
			},
			MaxVotes:    2,
			ShowResults: false,
		},
		Caller: facilitator,
	}); err != nil {
		log.Fatalf("Failed to add voting activity: %v", err)
	}

	// Mint a bearer token so the seeded meeting is usable immediately.
	token, err := jwt.NewManager(cfg.JWT.AccessSecret, cfg.JWT.AccessExpiry).
		GenerateAccessToken(facilitator.UserID, facilitator.DisplayName)
	if err != nil {
		log.Fatalf("Failed to mint facilitator token: %v", err)
	}

	log.Printf("Seeded demo meeting %s (facilitator user %s)", m.ID, facilitator.UserID)
	log.Printf("Facilitator bearer token: %s", token)
}
