package api

import (
	"fmt"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/superbett/bancas-api/docs"
	v1 "github.com/superbett/bancas-api/internal/api/handler/v1"
	"github.com/superbett/bancas-api/internal/api/middleware"
	"github.com/superbett/bancas-api/internal/config"
	"github.com/superbett/bancas-api/internal/domain"
	"github.com/superbett/bancas-api/internal/metrics"
	"github.com/superbett/bancas-api/internal/pkg/ids"
	"github.com/superbett/bancas-api/internal/pkg/jwthelper"
	"github.com/superbett/bancas-api/internal/pkg/ratelimit"
	"github.com/superbett/bancas-api/internal/repository"
	"github.com/superbett/bancas-api/internal/repository/dao"
	"github.com/superbett/bancas-api/internal/service"
)

const basePath = "/api/v1"

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine

	signer  *jwthelper.Signer
	limiter ratelimit.Limiter
	clock   *service.Clock
}

type handlers struct {
	auth    *v1.AuthHandler
	tickets *v1.TicketHandler
	rounds  *v1.RoundHandler
	prizes  *v1.PrizeHandler
	tenants *v1.TenantHandler
	reports *v1.ReportHandler
	admin   *v1.AdminHandler
}

// NewServer wires every handler on top of db. limiter throttles logins; nil
// disables throttling.
func NewServer(conf *config.AppConfig, db *gorm.DB, limiter ratelimit.Limiter) (*Server, error) {
	loc, err := time.LoadLocation(conf.Scheduler.Timezone)
	if err != nil {
		return nil, fmt.Errorf("time.LoadLocation(%s) -> %w", conf.Scheduler.Timezone, err)
	}

	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config:  conf,
		Router:  engine,
		signer:  jwthelper.NewSigner(conf.Auth.JWTSigningKey, conf.Auth.TokenTTL, conf.Auth.TrustedTokenTTL),
		limiter: limiter,
		clock:   service.NewClock(loc),
	}

	s.MountMiddlewares()
	s.MountHandlers(s.initHandlers(db))

	return s, nil
}

func (s *Server) initHandlers(db *gorm.DB) handlers {
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	tenantSvc := service.NewTenantService(repository.NewTenantRepository(dao.NewTenantDAO(db)))
	ticketRepo := repository.NewTicketRepository(dao.NewAtomic(db), dao.NewTicketDAO(db))

	return handlers{
		auth:    v1.NewAuthHandler(service.NewAuthService(userRepo, s.signer), s.limiter, s.Config.Auth.TrustedTerminalKey),
		tickets: v1.NewTicketHandler(service.NewTicketService(ticketRepo, s.clock)),
		rounds:  v1.NewRoundHandler(service.NewRoundService(repository.NewRoundRepository(dao.NewRoundDAO(db)))),
		prizes:  v1.NewPrizeHandler(service.NewPrizeService(repository.NewPrizeRepository(dao.NewPrizeDAO(db)))),
		tenants: v1.NewTenantHandler(tenantSvc),
		reports: v1.NewReportHandler(service.NewReportService(repository.NewReportRepository(dao.NewReportDAO(db)))),
		admin: v1.NewAdminHandler(
			service.NewUserService(userRepo),
			tenantSvc,
			service.NewLotteryService(repository.NewLotteryRepository(dao.NewLotteryDAO(db))),
		),
	}
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New(requestid.WithGenerator(ids.New)))
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
	s.Router.Use(middleware.Instrument())
	s.Router.Use(middleware.LimitBody(s.Config.API.MaxBodyBytes))
}

func (s *Server) MountHandlers(h handlers) {
	office := middleware.RequireRoles(domain.OfficeRoles...)
	adminOnly := middleware.RequireRoles(domain.RoleAdmin)

	s.Router.POST(basePath+"/auth/login", h.auth.HandleLogin)

	authed := s.Router.Group(basePath, middleware.NewAuthenticator(s.signer).VerifyJWT())
	authed.GET("/auth/me", h.auth.HandleMe)

	tickets := authed.Group("/tickets")
	{
		tickets.POST("", h.tickets.HandleCreateTicket)
		tickets.POST("/super-pale", h.tickets.HandleCreateSuperPale)
		tickets.GET("/ventas-lista", h.tickets.HandleSalesList)
		tickets.GET("/:id", h.tickets.HandleLookupTicket)
		tickets.POST("/:id/anular", h.tickets.HandleVoidTicket)
		tickets.POST("/:id/pagar", h.tickets.HandlePayTicket)
	}

	rounds := authed.Group("/jornadas")
	{
		rounds.GET("/abiertas", h.rounds.HandleOpen)
		rounds.GET("/incompletas", office, h.rounds.HandleIncomplete)
		rounds.GET("", office, h.rounds.HandleList)
		rounds.POST("/generar", adminOnly, h.rounds.HandleGenerate)
		rounds.POST("/:id/cerrar", office, h.rounds.HandleClose)
		rounds.POST("/:id/reabrir", adminOnly, h.rounds.HandleReopen)
		rounds.PATCH("/:id", office, h.rounds.HandleUpdate)
	}

	prizes := authed.Group("/premios", office)
	{
		prizes.POST("/registrar", h.prizes.HandleRegister)
		prizes.POST("/activar", h.prizes.HandleActivate)
		prizes.GET("", h.prizes.HandleList)
	}

	authed.GET("/bancas/config", h.tenants.HandleConfig)

	reports := authed.Group("/reportes")
	{
		reports.GET("/ganadores", middleware.RequireRoles(domain.RoleAdmin, domain.RoleCentral, domain.RoleRifero), h.reports.HandleWinners)
		reports.GET("/resumen", office, h.reports.HandleDailySummary)
		reports.GET("/banca", h.reports.HandleTenantReport)
		reports.GET("/exposicion", office, h.reports.HandleExposure)
	}

	admin := authed.Group("/admin", adminOnly)
	{
		admin.GET("/usuarios", h.admin.HandleListUsers)
		admin.POST("/usuarios", h.admin.HandleCreateUser)
		admin.GET("/usuarios/:id", h.admin.HandleGetUser)
		admin.PATCH("/usuarios/:id", h.admin.HandleUpdateUser)
		admin.POST("/usuarios/:id/bancas", h.admin.HandleAssignTenant)
		admin.GET("/bancas", h.admin.HandleListTenants)
		admin.POST("/bancas", h.admin.HandleCreateTenant)
		admin.PATCH("/bancas/:id", h.admin.HandleUpdateTenant)
		admin.GET("/loterias", h.admin.HandleListLotteries)
		admin.POST("/loterias", h.admin.HandleCreateLottery)
		admin.GET("/esquemas/precios", h.admin.HandleListPriceSchemes)
		admin.GET("/esquemas/pagos", h.admin.HandleListPayoutSchemes)
	}

	s.Router.GET("/", v1.HandleHealthcheck)
	s.Router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Bancas POS API"
	docs.SwaggerInfo.Description = "Ticket sales, jornadas and settlement for lottery bancas."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
