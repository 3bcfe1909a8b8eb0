package main

import (
	"log"
	"time"

	"shop/internal/config"
	"shop/internal/domain/model"
	"shop/internal/handler"
	"shop/internal/infra/db"
	infraRepo "shop/internal/infra/repository"
	"shop/internal/server"
	"shop/internal/usecase"

	"github.com/joho/godotenv"
)

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

func main() {
	//.envは無くてもよい（本番は環境変数で渡す）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		log.Fatal(err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.Address{},
		&model.Product{},
		&model.ProductVariant{},
		&model.ProductImage{},
		&model.Cart{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.OrderCounter{},
		&model.Coupon{},
		&model.CouponUsage{},
		&model.AuditLog{},
	); err != nil {
		log.Fatal(err)
	}

	//Repository（GORM実装）生成
	txManager := infraRepo.NewTxManagerGorm(gormDB)
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	rtRepo := infraRepo.NewRefreshTokenGormRepository(gormDB)
	cartRepo := infraRepo.NewCartGormRepository(gormDB)
	cartItemRepo := infraRepo.NewCartItemGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	addressRepo := infraRepo.NewAddressGormRepository(gormDB)
	couponRepo := infraRepo.NewCouponGormRepository(gormDB)
	couponUsageRepo := infraRepo.NewCouponUsageGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)

	clock := &realClock{}

	//Usecase生成
	authUC := usecase.NewAuthUsecase(cfg, userRepo, rtRepo, cartRepo, clock)
	cartUC := usecase.NewCartUsecase(cartRepo, cartItemRepo, productRepo)
	addressUC := usecase.NewAddressUsecase(addressRepo)
	orderUC := usecase.NewOrderUsecase(txManager, clock, cfg)
	couponUC := usecase.NewCouponUsecase(couponRepo, couponUsageRepo, clock)
	adminOrderUC := usecase.NewAdminOrderUsecase(txManager, auditRepo, clock)
	adminCouponUC := usecase.NewAdminCouponUsecase(couponRepo, couponUsageRepo, auditRepo, clock)
	adminAuditUC := usecase.NewAdminAuditUsecase(auditRepo)

	//Handler生成
	handlers := server.Handlers{
		Auth:        handler.NewAuthHandler(authUC),
		Cart:        handler.NewCartHandler(cartUC),
		Address:     handler.NewAddressHandler(addressUC),
		Order:       handler.NewOrderHandler(orderUC),
		Coupon:      handler.NewCouponHandler(couponUC),
		AdminOrder:  handler.NewAdminOrderHandler(adminOrderUC),
		AdminCoupon: handler.NewAdminCouponHandler(adminCouponUC),
		AdminAudit:  handler.NewAdminAuditHandler(adminAuditUC),
	}

	e := server.New(cfg, handlers)

	if err := server.Start(e, cfg.Port); err != nil {
		log.Fatal(err)
	}
}
