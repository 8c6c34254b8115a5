package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"helpmarket/internal/auth"
	"helpmarket/internal/config"
	"helpmarket/internal/db"
	"helpmarket/internal/models"
	"helpmarket/internal/repository"
	"helpmarket/internal/server"
	"helpmarket/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		utils.Fatal("cannot load config", map[string]any{"error": err.Error()})
	}
	if err := utils.SetLevel(cfg.LogLevel); err != nil {
		utils.Warn("unknown log level, keeping info", map[string]any{"level": cfg.LogLevel})
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeRepo, err := openStore(ctx, cfg)
	if err != nil {
		utils.Fatal("cannot open entity store", map[string]any{"driver": cfg.StoreDriver, "error": err.Error()})
	}
	defer closeRepo()

	svc := server.NewServices(repo, auth.NewSessionStore())
	if cfg.SeedDemoData && cfg.StoreDriver == config.StoreMemory {
		if err := prepopulate(ctx, svc); err != nil {
			utils.Fatal("cannot seed demo data", map[string]any{"error": err.Error()})
		}
	}

	srv := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           server.SetupRouter(svc),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		utils.Info("starting help marketplace server", map[string]any{
			"addr":  cfg.ServerAddress,
			"env":   cfg.Environment,
			"store": cfg.StoreDriver,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Fatal("server failed", map[string]any{"error": err.Error()})
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.Error("graceful shutdown failed", map[string]any{"error": err.Error()})
		return
	}
	utils.Info("server stopped", nil)
}

// openStore returns the configured entity store and its cleanup function
func openStore(ctx context.Context, cfg config.Config) (repository.MarketDB, func(), error) {
	if cfg.StoreDriver == config.StoreMemory {
		return repository.NewMemoryRepo(), func() {}, nil
	}

	pool, err := db.Connect(ctx, cfg.PostgresConn)
	if err != nil {
		return nil, nil, err
	}

	if cfg.RunMigrations {
		migrator, err := db.NewMigrator(pool)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		err = migrator.Up(ctx)
		_ = migrator.Close()
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
	}

	return repository.NewPostgresRepo(pool), pool.Close, nil
}

type seedRequest struct {
	student models.Identity
	draft   models.RequestDraft
	bids    []seedBid
	// accept is the index of the bid to accept, -1 keeps the request open
	accept   int
	complete bool
}

type seedBid struct {
	helper       models.Identity
	price        float64
	deliveryTime string
	message      string
}

func budget(v float64) *float64 { return &v }

// prepopulate adds sample requests, bids and a conversation through the services
func prepopulate(ctx context.Context, svc server.Services) error {
	var (
		sarah   = models.Identity{UserID: "student-sarah", DisplayName: "Sarah Johnson", Rating: 4.6}
		michael = models.Identity{UserID: "student-michael", DisplayName: "Michael Chen", Rating: 4.4}
		emma    = models.Identity{UserID: "student-emma", DisplayName: "Emma Wilson", Rating: 4.7}
		david   = models.Identity{UserID: "student-david", DisplayName: "David Rodriguez", Rating: 4.2}
		ashley  = models.Identity{UserID: "student-ashley", DisplayName: "Ashley Thompson", Rating: 4.9}
		jordan  = models.Identity{UserID: "student-jordan", DisplayName: "Jordan Lee", Rating: 4.5}

		alex    = models.Identity{UserID: "helper-alex", DisplayName: "Alex Mathematics", Rating: 4.8}
		maria   = models.Identity{UserID: "helper-maria", DisplayName: "Maria Calculus Expert", Rating: 4.9}
		coder   = models.Identity{UserID: "helper-codemaster", DisplayName: "CodeMaster Pro", Rating: 4.7}
		physics = models.Identity{UserID: "helper-drphysics", DisplayName: "Dr. Physics", Rating: 5.0}
	)

	now := time.Now()
	day := 24 * time.Hour

	seeds := []seedRequest{
		{
			student: sarah,
			draft: models.RequestDraft{
				Title:         "Help with Calculus Integration Problems",
				Subject:       models.SubjectMathematics,
				Description:   "I need help understanding integration by parts and substitution methods. Specifically struggling with problems involving trigonometric functions.",
				DeliveryTypes: []models.DeliveryType{models.DeliveryText, models.DeliveryAudio},
				Deadline:      now.Add(2 * day),
				Budget:        budget(25),
			},
			bids: []seedBid{
				{alex, 20, "Within 24 hours", "I'm a graduate student in applied mathematics with 3+ years of tutoring experience. I specialize in calculus and can provide clear explanations with step-by-step solutions."},
				{maria, 25, "Within 12 hours", "PhD in Mathematics with extensive experience in calculus tutoring. I can provide both written explanations and audio recordings explaining each step clearly."},
			},
			accept: -1,
		},
		{
			student: michael,
			draft: models.RequestDraft{
				Title:         "Python Data Structures Assignment",
				Subject:       models.SubjectComputerScience,
				Description:   "Need assistance with implementing binary trees and graph algorithms in Python. Assignment due in 3 days.",
				DeliveryTypes: []models.DeliveryType{models.DeliveryScreen, models.DeliveryText},
				Deadline:      now.Add(3 * day),
				Budget:        budget(40),
			},
			bids: []seedBid{
				{coder, 35, "Within 48 hours", "Senior software engineer with expertise in Python and data structures. I can provide live coding sessions and detailed explanations."},
			},
			accept: -1,
		},
		{
			student: emma,
			draft: models.RequestDraft{
				Title:         "Chemistry Lab Report Review",
				Subject:       models.SubjectChemistry,
				Description:   "Looking for someone to review my organic chemistry lab report and help with analysis section.",
				DeliveryTypes: []models.DeliveryType{models.DeliveryText},
				Deadline:      now.Add(day),
				Budget:        budget(15),
			},
			bids: []seedBid{
				{maria, 15, "Within 24 hours", "I review lab reports every week and can annotate the analysis section directly."},
			},
			accept: 0,
		},
		{
			student: david,
			draft: models.RequestDraft{
				Title:         "Physics Quantum Mechanics Concepts",
				Subject:       models.SubjectPhysics,
				Description:   "Need explanation of wave-particle duality and uncertainty principle with practical examples.",
				DeliveryTypes: []models.DeliveryType{models.DeliveryAudio, models.DeliveryText},
				Deadline:      now.Add(4 * day),
				Budget:        budget(30),
			},
			bids: []seedBid{
				{physics, 28, "Within 36 hours", "Physics professor with specialization in quantum mechanics. I can explain complex concepts in simple terms with real-world analogies."},
			},
			accept: -1,
		},
		{
			student: ashley,
			draft: models.RequestDraft{
				Title:         "English Essay Proofreading",
				Subject:       models.SubjectEnglish,
				Description:   "Need someone to proofread my argumentative essay on climate change and provide feedback on structure.",
				DeliveryTypes: []models.DeliveryType{models.DeliveryText},
				Deadline:      now.Add(12 * time.Hour),
				Budget:        budget(20),
			},
			bids: []seedBid{
				{alex, 18, "Within 6 hours", "I can proofread tonight and send structural notes with the corrections."},
			},
			accept:   0,
			complete: true,
		},
		{
			student: jordan,
			draft: models.RequestDraft{
				Title:         "Biology Cell Division Process",
				Subject:       models.SubjectBiology,
				Description:   "Help understanding mitosis and meiosis differences with diagrams and explanations.",
				DeliveryTypes: []models.DeliveryType{models.DeliveryScreen, models.DeliveryAudio},
				Deadline:      now.Add(5 * day),
			},
			accept: -1,
		},
	}

	for _, seed := range seeds {
		req, err := svc.Bidding.PostRequest(ctx, seed.student, seed.draft)
		if err != nil {
			return err
		}

		var bids []models.Bid
		for _, b := range seed.bids {
			bid, err := svc.Bidding.SubmitBid(ctx, req.RequestID, b.helper, b.price, b.deliveryTime, b.message)
			if err != nil {
				return err
			}
			bids = append(bids, bid)
		}

		if seed.accept < 0 {
			continue
		}
		conv, err := svc.Bidding.AcceptBid(ctx, req.RequestID, bids[seed.accept].BidID, seed.student.UserID)
		if err != nil {
			return err
		}

		helper := seed.bids[seed.accept].helper
		thread := []struct {
			from models.Identity
			body string
		}{
			{helper, "Hi! I saw you accepted my bid. I'm excited to work with you!"},
			{seed.student, "Great! When can we start?"},
			{helper, "I can start right away. Could you share the material you're struggling with?"},
		}
		for _, m := range thread {
			if _, err := svc.Messaging.SendMessage(ctx, conv.ConversationID, m.from, m.body); err != nil {
				return err
			}
		}

		if seed.complete {
			if _, err := svc.Bidding.CompleteRequest(ctx, req.RequestID, seed.student.UserID); err != nil {
				return err
			}
		}
	}

	utils.Info("seeded demo data", map[string]any{"requests": len(seeds)})
	return nil
}
