// Package app assembles the HTTP application: services, handlers,
// middleware and routes.
package app

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"fintrack/internal/config"
	_ "fintrack/internal/docs" // swagger spec
	"fintrack/internal/handlers"
	"fintrack/internal/middleware"
	"fintrack/internal/services"
)

// Options tunes NewRouter. The zero value is what production uses.
type Options struct {
	// Now overrides the clock used by reports.
	Now func() time.Time
}

// NewRouter builds the engine for db and cfg.
func NewRouter(db *gorm.DB, cfg *config.Config, opts Options) *gin.Engine {
	userService := services.NewUserService(db)
	categoryService := services.NewCategoryService(db)
	transactionService := services.NewTransactionService(db)
	budgetService := services.NewBudgetService(db)
	reportService := services.NewReportService(db, opts.Now)
	auditService := services.NewAuditService(db)

	authHandler := handlers.NewAuthHandler(userService, auditService)
	categoryHandler := handlers.NewCategoryHandler(categoryService, auditService)
	transactionHandler := handlers.NewTransactionHandler(transactionService, auditService)
	budgetHandler := handlers.NewBudgetHandler(budgetService, auditService)
	reportHandler := handlers.NewReportHandler(reportService)

	router := gin.New()
	// Collection and item routes are registered with and without the slash.
	router.RedirectTrailingSlash = false
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	handle(auth, http.MethodPost, "/register", authHandler.Register)
	handle(auth, http.MethodPost, "/login", authHandler.Login)
	handle(auth, http.MethodPost, "/refresh", authHandler.Refresh)

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware())
	protected.Use(middleware.ReadOnly(cfg.ReadOnly))

	handle(protected, http.MethodGet, "/profile", authHandler.GetProfile)
	handle(protected, http.MethodDelete, "/profile", authHandler.DeleteProfile)
	handle(protected, http.MethodPut, "/profile/password", authHandler.ChangePassword)

	categories := protected.Group("/categories")
	handle(categories, http.MethodGet, "/", categoryHandler.GetUserCategories)
	handle(categories, http.MethodPost, "/", categoryHandler.CreateCategory)
	handle(categories, http.MethodGet, "/:id/", categoryHandler.GetCategoryByID)
	handle(categories, http.MethodPut, "/:id/", categoryHandler.ReplaceCategory)
	handle(categories, http.MethodPatch, "/:id/", categoryHandler.UpdateCategory)
	handle(categories, http.MethodDelete, "/:id/", categoryHandler.DeleteCategory)

	transactions := protected.Group("/transactions")
	handle(transactions, http.MethodGet, "/", transactionHandler.GetUserTransactions)
	handle(transactions, http.MethodPost, "/", transactionHandler.CreateTransaction)
	handle(transactions, http.MethodGet, "/:id/", transactionHandler.GetTransactionByID)
	handle(transactions, http.MethodPut, "/:id/", transactionHandler.ReplaceTransaction)
	handle(transactions, http.MethodPatch, "/:id/", transactionHandler.UpdateTransaction)
	handle(transactions, http.MethodDelete, "/:id/", transactionHandler.DeleteTransaction)

	budgets := protected.Group("/budgets")
	handle(budgets, http.MethodGet, "/", budgetHandler.GetBudgets)
	handle(budgets, http.MethodPost, "/", budgetHandler.CreateBudget)
	handle(budgets, http.MethodGet, "/:id/", budgetHandler.GetBudget)
	handle(budgets, http.MethodPut, "/:id/", budgetHandler.ReplaceBudget)
	handle(budgets, http.MethodPatch, "/:id/", budgetHandler.UpdateBudget)
	handle(budgets, http.MethodDelete, "/:id/", budgetHandler.DeleteBudget)

	handle(protected, http.MethodGet, "/summary/", reportHandler.GetSummary)
	handle(protected, http.MethodGet, "/summary/export", reportHandler.ExportSummary)
	handle(protected, http.MethodGet, "/dashboard/", reportHandler.GetDashboard)

	return router
}

// handle registers h under path both with and without a trailing slash.
func handle(g *gin.RouterGroup, method, path string, h gin.HandlerFunc) {
	bare := strings.TrimSuffix(path, "/")
	g.Handle(method, bare, h)
	g.Handle(method, bare+"/", h)
}
