package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/phrazzld/squad-api/internal/api"
	"github.com/phrazzld/squad-api/internal/api/docs"
	apiMiddleware "github.com/phrazzld/squad-api/internal/api/middleware"
)

// accessTokenParam is the query parameter logout accepts in place of the
// Authorization header.
const accessTokenParam = "accessToken"

// setupRouter creates the router with every route and middleware.
func (app *application) setupRouter() (http.Handler, error) {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.MetricsMiddleware(app.metrics))

	bodyLimit := app.config.Server.BodyLimitBytes
	authHandler := api.NewAuthHandler(app.accountService)
	accountHandler := api.NewAccountHandler(app.accountService, bodyLimit, app.metrics)
	bearer := apiMiddleware.NewAuthMiddleware(app.jwtService, app.metrics)
	local := apiMiddleware.NewLocalAuth(app.accountService, bodyLimit, app.metrics)

	r.Route(docs.BasePath, func(r chi.Router) {
		r.With(local.Authenticate).Post("/auth", authHandler.Login)
		r.With(bearer.AuthenticateWithQuery(accessTokenParam)).Get("/auth", authHandler.Logout)

		r.Post("/user", accountHandler.Register)
		r.Group(func(r chi.Router) {
			r.Use(bearer.Authenticate)
			r.Get("/user/{id}", accountHandler.Get)
			r.Delete("/user/{id}", accountHandler.Delete)
		})
	})

	if app.config.Docs.Enabled {
		doc, err := docs.Build(app.config.Docs)
		if err != nil {
			return nil, err
		}
		docsHandler, err := docs.NewHandler(doc, "/swagger.json")
		if err != nil {
			return nil, err
		}
		r.Get("/swagger.json", docsHandler.JSON)
		r.Get("/swagger.yaml", docsHandler.YAML)
		r.Get(docs.BasePath+"/docs", docsHandler.UI)
	}

	r.Method(http.MethodGet, "/health", api.NewHealthHandler(app.accounts, app.config.Database.QueryTimeout))
	r.Method(http.MethodGet, "/metrics", app.metrics.Handler())

	return r, nil
}
