// Package api exposes the control API: a small gin server to list
// integrations and trigger runs over HTTP instead of the CLI.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/sutter-pierre/dialog-integrations/internal/api/docs"
	"github.com/sutter-pierre/dialog-integrations/internal/model"
)

// Runner is the integration facade the API drives
type Runner interface {
	Organizations() []string
	Integrate(ctx context.Context, organization string) (*model.IntegrationReport, error)
	Publish(ctx context.Context, organization string) (*model.PublishReport, error)
}

// API represents the REST control API for the integration service
type API struct {
	runner Runner
	router *gin.Engine
	server *http.Server
	port   int
	host   string
}

// NewAPI creates a new API instance
// @title           Dialog Integrations API
// @version         1.0
// @description     API for running traffic-regulation integrations

// @host      localhost:8080
// @BasePath  /
func NewAPI(runner Runner, port int, host string) *API {
	docs.SwaggerInfo.Title = "Dialog Integrations API"
	docs.SwaggerInfo.Description = "API for running traffic-regulation integrations"
	docs.SwaggerInfo.Version = "1.0"
	docs.SwaggerInfo.Host = fmt.Sprintf("%s:%d", host, port)
	docs.SwaggerInfo.BasePath = ""
	docs.SwaggerInfo.Schemes = []string{"http", "https"}

	api := &API{
		runner: runner,
		router: gin.Default(),
		port:   port,
		host:   host,
	}
	api.setupRoutes()
	return api
}

// setupRoutes configures all the API routes
func (a *API) setupRoutes() {
	a.router.GET("/health", a.healthCheck)
	a.router.GET("/status", a.getStatus)

	integrations := a.router.Group("/integrations")
	{
		integrations.GET("", a.getIntegrations)
		integrations.POST("/:organization/run", a.runIntegration)
		integrations.POST("/:organization/publish", a.publishIntegration)
	}

	a.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// ServeHTTP dispatches to the underlying router, so the API can be
// exercised without binding a port.
func (a *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

// Start starts the API server
func (a *API) Start() error {
	a.server = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", a.host, a.port),
		Handler: a.router,
	}
	return a.server.ListenAndServe()
}

// Stop stops the API server
func (a *API) Stop(ctx context.Context) error {
	return a.server.Shutdown(ctx)
}

// healthCheck handles GET /health
// @Summary      Health check
// @Description  Check if the API is running
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /health [get]
func (a *API) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now(),
	})
}

// getStatus handles GET /status
// @Summary      Get service status
// @Description  Get the registered organizations and service status
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /status [get]
func (a *API) getStatus(c *gin.Context) {
	organizations := a.runner.Organizations()
	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"organizations": organizations,
		"count":         len(organizations),
	})
}

// getIntegrations handles GET /integrations
// @Summary      List integrations
// @Description  List the organizations an integration is registered for
// @Tags         integrations
// @Produce      json
// @Success      200  {array}  string
// @Router       /integrations [get]
func (a *API) getIntegrations(c *gin.Context) {
	c.JSON(http.StatusOK, a.runner.Organizations())
}

// runIntegration handles POST /integrations/:organization/run
// @Summary      Run an integration
// @Description  Fetch, clean and submit the regulations of one organization
// @Tags         integrations
// @Produce      json
// @Param        organization  path  string  true  "Organization key"
// @Success      200  {object}  model.IntegrationReport
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /integrations/{organization}/run [post]
func (a *API) runIntegration(c *gin.Context) {
	organization := c.Param("organization")
	if !a.knownOrganization(organization) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Integration not found"})
		return
	}

	report, err := a.runner.Integrate(c.Request.Context(), organization)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, report)
}

// publishIntegration handles POST /integrations/:organization/publish
// @Summary      Publish regulations
// @Description  Publish every known regulation of one organization
// @Tags         integrations
// @Produce      json
// @Param        organization  path  string  true  "Organization key"
// @Success      200  {object}  model.PublishReport
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /integrations/{organization}/publish [post]
func (a *API) publishIntegration(c *gin.Context) {
	organization := c.Param("organization")
	if !a.knownOrganization(organization) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Integration not found"})
		return
	}

	report, err := a.runner.Publish(c.Request.Context(), organization)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, report)
}

func (a *API) knownOrganization(organization string) bool {
	for _, known := range a.runner.Organizations() {
		if known == organization {
			return true
		}
	}
	return false
}
