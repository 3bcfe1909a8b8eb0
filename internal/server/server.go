package server

import (
	"shop/internal/config"
	"shop/internal/handler"
	"shop/internal/middleware"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

type Handlers struct {
	Auth        *handler.AuthHandler
	Cart        *handler.CartHandler
	Address     *handler.AddressHandler
	Order       *handler.OrderHandler
	Coupon      *handler.CouponHandler
	AdminOrder  *handler.AdminOrderHandler
	AdminCoupon *handler.AdminCouponHandler
	AdminAudit  *handler.AdminAuditHandler
}

// Newはルートを登録済みのechoを返す。
func New(cfg config.Config, h Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	authMW := middleware.AuthJWT(cfg)
	adminMW := middleware.AdminRoleGuard()

	h.Auth.RegisterRoutes(e, authMW)
	h.Cart.RegisterRoutes(e, authMW)
	h.Address.RegisterRoutes(e, authMW)
	h.Order.RegisterRoutes(e, authMW)
	h.Coupon.RegisterRoutes(e, authMW)
	h.AdminOrder.RegisterRoutes(e, authMW, adminMW)
	h.AdminCoupon.RegisterRoutes(e, authMW, adminMW)
	h.AdminAudit.RegisterRoutes(e, authMW, adminMW)

	return e
}

func Start(e *echo.Echo, port string) error {
	addr := port
	if addr == "" {
		addr = "8080"
	}
	if addr[0] != ':' {
		addr = ":" + addr
	}
	return e.Start(addr)
}
