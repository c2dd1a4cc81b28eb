package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	_ "github.com/go-sql-driver/mysql"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "LARS-backend/docs"
	"LARS-backend/internal/library/books"
	"LARS-backend/internal/library/customers"
	"LARS-backend/internal/library/loans"
	"LARS-backend/internal/library/reports"
	"LARS-backend/internal/library/validate"
	"LARS-backend/internal/platform/auth"
	"LARS-backend/internal/platform/db"
	"LARS-backend/internal/platform/web"
)

func main() {
	// 設定読み込み
	cfg, err := db.LoadConfig("config/config.yaml")
	if err != nil {
		panic(err)
	}

	// 動作モード取得
	mode := cfg.Mode
	log.Printf("[INFO] mode:%s\n", mode)

	if cfg.Mode != "dev" && cfg.Mode != "release" {
		fmt.Println("Usage: go run main.go [dev|release]")
		return
	}

	conn, err := db.Connect(cfg.DB)
	if err != nil {
		panic(err)
	}
	defer conn.Close()

	log.Printf("[INFO] connected to DB: %s", cfg.DB.DBName)

	// 貸出種別は貸出作成より前に必ず存在していること
	if err := db.SeedLoanTypes(context.Background(), conn); err != nil {
		panic(err)
	}
	log.Println("[INFO] loan types seeded")

	// binding用のカスタムバリデータ
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			return validate.IsPhone(fl.Field().String())
		})
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), web.RequestID())
	_ = r.SetTrustedProxies(nil)

	if mode == "dev" {
		// CORS（開発中のみ必要）
		r.Use(cors.New(cors.Config{
			AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:5502"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", web.HeaderRequestID},
			ExposeHeaders:    []string{"Content-Length", web.HeaderRequestID},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowCredentials: true,
		}))
	}

	// ヘルス
	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	// API docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	authSvc := auth.NewService(conn, cfg.JWT.Secret, cfg.JWT.ExpiryMinutes)
	bookSvc := books.NewService(conn)
	custSvc := customers.NewService(conn)
	loanSvc := loans.NewService(conn)
	reportSvc := reports.NewService(conn)

	// /api/v1
	api := r.Group("/api/v1")
	auth.RegisterRoutes(api, authSvc)
	books.RegisterRoutes(api, bookSvc)
	books.RegisterGuestRoutes(api, bookSvc)
	customers.RegisterRoutes(api, custSvc)
	loans.RegisterRoutes(api, loanSvc)
	reports.RegisterRoutes(api, reportSvc)

	// 認証必須のルート
	secured := api.Group("", auth.RequireAuth(authSvc.Secret()))
	loans.RegisterCustomerRoutes(secured, loanSvc)

	srv := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: r,
	}

	go func() {
		log.Printf("[INFO] listening on %s", cfg.HTTP.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	log.Println("[INFO] shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal(err)
	}
}
