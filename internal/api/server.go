package api

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/schemeseva/scheme-service/config"
	"github.com/schemeseva/scheme-service/infra/queue"
	"github.com/schemeseva/scheme-service/internal/api/rest/handlers"
	"github.com/schemeseva/scheme-service/internal/domain"
	"github.com/schemeseva/scheme-service/internal/helper"
	"github.com/schemeseva/scheme-service/internal/repository"
	"github.com/schemeseva/scheme-service/internal/services"
	"github.com/schemeseva/scheme-service/internal/storage"
)

func StartServer(cfg config.Config) {
	app := fiber.New(fiber.Config{
		BodyLimit: 64 << 20, // multipart submissions carry several documents
	})

	// ---------- CORS ----------
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.BaseURL,
		AllowHeaders:     "Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	// ---------- DB ----------
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DatabaseDSN,
		PreferSimpleProtocol: true,
	}), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("database connection error: %v", err)
	}
	log.Println("database connected")

	// ---------- MIGRATION + SEED (guarded by advisory lock) ----------
	const migrateLockID int64 = 20260115

	if err := db.Exec("SELECT pg_advisory_lock(?)", migrateLockID).Error; err != nil {
		log.Fatalf("migration lock error: %v", err)
	}
	defer func() {
		_ = db.Exec("SELECT pg_advisory_unlock(?)", migrateLockID).Error
	}()

	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Scheme{},
		&domain.UserFavorite{},
		&domain.Application{},
		&domain.ApplicationDocument{},
	); err != nil {
		log.Fatalf("migration error: %v", err)
	}
	log.Println("migration successful")

	seedAdmin(db, cfg)

	// ---------- Infra ----------
	kafkaProducer := queue.NewProducer(
		cfg.KafkaBroker,
		cfg.KafkaTopic,
		cfg.KafkaUsername,
		cfg.KafkaPassword,
	)
	store, err := storage.NewLocalStore(cfg.MediaRoot)
	if err != nil {
		log.Fatalf("document store init error: %v", err)
	}

	authHelper := helper.SetupAuth(cfg.AccessSecret)

	// ---------- Repositories ----------
	userRepo := repository.NewUserRepository(db)
	schemeRepo := repository.NewSchemeRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)
	applicationRepo := repository.NewApplicationRepository(db)

	// ---------- Services ----------
	userSvc := services.NewUserService(userRepo, kafkaProducer, authHelper)
	schemeSvc := services.NewSchemeService(schemeRepo, favoriteRepo, applicationRepo)
	applicationSvc := services.NewApplicationService(applicationRepo, schemeRepo, store, kafkaProducer, cfg.BaseURL)
	adminSvc := services.NewAdminService(userRepo, schemeRepo, applicationRepo, userSvc)

	// ---------- Handlers ----------
	handlers.NewUserHandler(userSvc, authHelper).SetupRoutes(app)
	handlers.NewSchemeHandler(schemeSvc, authHelper).SetupRoutes(app)
	handlers.NewApplicationHandler(applicationSvc, authHelper).SetupRoutes(app)
	handlers.NewAdminHandler(adminSvc, authHelper).SetupRoutes(app)

	// ---------- Health ----------
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// ---------- Listen ----------
	addr := cfg.ServerPort
	log.Println("listening on", addr)
	log.Fatal(app.Listen(addr))
}

// seedAdmin creates the bootstrap staff account from ADMIN_* env vars.
// An existing account with the same username is promoted, not recreated.
func seedAdmin(db *gorm.DB, cfg config.Config) {
	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		return
	}

	var existing domain.User
	err := db.Where("username = ?", cfg.AdminUsername).First(&existing).Error
	if err == nil {
		if !existing.IsStaff || !existing.IsSuperuser {
			existing.IsStaff = true
			existing.IsSuperuser = true
			if err := db.Save(&existing).Error; err != nil {
				log.Printf("admin promote error: %v", err)
			}
		}
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("admin seed lookup error: %v", err)
		return
	}

	hashed, err := helper.HashPassword(cfg.AdminPassword)
	if err != nil {
		log.Printf("admin seed hash error: %v", err)
		return
	}

	admin := domain.User{
		Username:     cfg.AdminUsername,
		Email:        cfg.AdminEmail,
		PasswordHash: hashed,
		FirstName:    "Admin",
		IsStaff:      true,
		IsSuperuser:  true,
		Status:       "active",
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Printf("admin seed error: %v", err)
		return
	}
	log.Printf("admin account %q created", cfg.AdminUsername)
}
