package main

import (
	"log"
	"os"

	"jejak-monev-backend/app/repository"
	"jejak-monev-backend/app/service"
	"jejak-monev-backend/database"
	"jejak-monev-backend/routes"
	"jejak-monev-backend/storage"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {

	// =================================================================
	// LOAD ENV
	// =================================================================
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env tidak ditemukan, menggunakan environment default")
	}

	// =================================================================
	// INIT DB (POSTGRES + MONGODB)
	// =================================================================
	dbConn, err := database.InitDB()
	if err != nil {
		log.Fatalf("❌ Gagal koneksi database: %v", err)
	}

	// =================================================================
	// SEED DATA (SUPERADMIN + USER CONTOH)
	// =================================================================
	database.RunSeeders(dbConn.Postgres)

	// =================================================================
	// STORAGE (LOCAL / ALIYUN OSS)
	// =================================================================
	fileStorage, err := storage.NewFromEnv()
	if err != nil {
		log.Fatalf("❌ Gagal inisialisasi storage: %v", err)
	}

	// =================================================================
	// REPOSITORIES
	// =================================================================
	userRepo := repository.NewUserRepository(dbConn.Postgres)
	periodRepo := repository.NewPeriodRepository(dbConn.Postgres)
	recordRepo := repository.NewRecordRepository(dbConn.Postgres)
	reviewRepo := repository.NewReviewRepository(dbConn.Mongo)

	// =================================================================
	// SERVICES
	// =================================================================
	authService := service.NewAuthService(userRepo)
	adminService := service.NewUserAdminService(userRepo)
	menteeService := service.NewMenteeService(userRepo, periodRepo, recordRepo)
	mentorService := service.NewMentorService(periodRepo, recordRepo, reviewRepo)

	// =================================================================
	// ROUTER
	// =================================================================
	routes.RegisterCustomValidators()
	r := gin.Default()

	routes.NewAuthHandler(authService).SetupAuthRoutes(r)
	routes.NewUserHandler(adminService).SetupUserRoutes(r)
	routes.NewMenteeHandler(menteeService, fileStorage).SetupMenteeRoutes(r)
	routes.NewMentorHandler(mentorService).SetupMentorRoutes(r)

	// File bukti disajikan langsung dari disk saat memakai storage lokal;
	// di mode OSS URL-nya menunjuk bucket, bukan server ini.
	if os.Getenv("STORAGE_DRIVER") != "oss" {
		uploadDir := os.Getenv("UPLOAD_DIR")
		if uploadDir == "" {
			uploadDir = "uploads"
		}
		r.Static("/uploads", uploadDir)
	}

	// Root endpoint (optional)
	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "Jejak Monev API RUNNING",
			"version": "1.0.0",
		})
	})

	// =================================================================
	// START SERVER
	// =================================================================
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	log.Println("🚀 Server running at http://localhost:" + port)

	if err := r.Run(":" + port); err != nil {
		log.Fatalf("❌ Gagal menjalankan server: %v", err)
	}
}
