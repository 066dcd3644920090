// Package docs builds the Swagger 2.0 description of the HTTP API and serves
// it as JSON, YAML and a Swagger UI page.
package docs

import (
	"encoding/json"
	"fmt"

	"github.com/go-openapi/spec"
	"github.com/invopop/jsonschema"

	"github.com/phrazzld/squad-api/internal/api"
	"github.com/phrazzld/squad-api/internal/api/middleware"
	"github.com/phrazzld/squad-api/internal/api/shared"
	"github.com/phrazzld/squad-api/internal/config"
	"github.com/phrazzld/squad-api/internal/domain"
)

// BasePath is the prefix of every documented route.
const BasePath = "/v1"

const bearerScheme = "AccessToken"

// definitions lists the Go types reflected into the document.
var definitions = map[string]any{
	"RegisterRequest": api.RegisterRequest{},
	"Credentials":     middleware.Credentials{},
	"PublicAccount":   domain.PublicAccount{},
	"LoginData":       api.LoginData{},
	"RegisterData":    api.RegisterData{},
	"Envelope":        shared.Envelope{},
	"LookupEnvelope":  api.LookupEnvelope{},
	"RemovedResponse": api.RemovedResponse{},
}

// Build assembles the document for the configured title and version.
func Build(cfg config.DocsConfig) (*spec.Swagger, error) {
	defs, err := reflectDefinitions()
	if err != nil {
		return nil, err
	}

	token := spec.APIKeyAuth("Authorization", "header")
	token.Description = "JWT issued by POST /auth, optionally prefixed with Bearer"

	return &spec.Swagger{
		SwaggerProps: spec.SwaggerProps{
			Swagger: "2.0",
			Info: &spec.Info{
				InfoProps: spec.InfoProps{
					Title:       cfg.Title,
					Version:     cfg.Version,
					Description: "Squad user accounts: registration, login and lookup.",
				},
			},
			BasePath:            BasePath,
			Consumes:            []string{"application/json"},
			Produces:            []string{"application/json"},
			Paths:               &spec.Paths{Paths: paths()},
			Definitions:         defs,
			SecurityDefinitions: spec.SecurityDefinitions{bearerScheme: token},
		},
	}, nil
}

// reflectDefinitions reflects every definition with jsonschema and converts
// the result into Swagger schemas.
func reflectDefinitions() (spec.Definitions, error) {
	reflector := &jsonschema.Reflector{
		DoNotReference:            true,
		AllowAdditionalProperties: true,
	}

	defs := make(spec.Definitions, len(definitions))
	for name, v := range definitions {
		reflected := reflector.Reflect(v)
		if reflected == nil {
			return nil, fmt.Errorf("failed to reflect schema for %s", name)
		}
		// Swagger 2.0 definitions do not carry JSON Schema dialect keywords.
		reflected.Version = ""
		reflected.ID = ""

		data, err := json.Marshal(reflected)
		if err != nil {
			return nil, fmt.Errorf("failed to encode schema for %s: %w", name, err)
		}
		var schema spec.Schema
		if err := json.Unmarshal(data, &schema); err != nil {
			return nil, fmt.Errorf("failed to convert schema for %s: %w", name, err)
		}
		defs[name] = schema
	}
	return defs, nil
}

func ref(name string) *spec.Schema {
	return spec.RefSchema("#/definitions/" + name)
}

func respond(description, definition string) *spec.Response {
	return spec.NewResponse().WithDescription(description).WithSchema(ref(definition))
}

func failure(description string) *spec.Response {
	return respond(description, "Envelope")
}

// secured requires the bearer token. Scopes are an empty list, never null.
func secured(op *spec.Operation) *spec.Operation {
	op.Security = []map[string][]string{{bearerScheme: {}}}
	return op
}

func idParam() *spec.Parameter {
	return spec.PathParam("id").Typed("string", "").WithDescription("account id")
}

func paths() map[string]spec.PathItem {
	login := spec.NewOperation("login").
		WithTags("auth").
		WithSummary("Log in with e-mail and password").
		AddParam(spec.BodyParam("credentials", ref("Credentials")).AsRequired()).
		RespondsWith(200, respond(api.MessageAuthenticated, "Envelope")).
		RespondsWith(401, failure(middleware.AuthenticationFailedMessage)).
		RespondsWith(409, failure(middleware.MalformedBodyMessage))

	logout := secured(spec.NewOperation("logout").
		WithTags("auth").
		WithSummary("Log out").
		WithProduces("text/plain").
		AddParam(spec.QueryParam("accessToken").Typed("string", "").
			WithDescription("token, when no Authorization header is sent")).
		RespondsWith(200, spec.NewResponse().
			WithDescription(api.MessageLoggedOut).
			WithSchema(spec.StringProperty())).
		RespondsWith(401, failure(middleware.UnauthorizedMessage)))

	register := spec.NewOperation("register").
		WithTags("user").
		WithSummary("Register an account").
		AddParam(spec.BodyParam("account", ref("RegisterRequest")).AsRequired()).
		RespondsWith(201, respond(api.MessageRegistered, "Envelope")).
		RespondsWith(401, failure("missing credentials, duplicate e-mail or invalid fields")).
		RespondsWith(409, failure(api.MessageMalformedBody)).
		RespondsWith(413, failure(api.MessageBodyTooLarge))

	getUser := secured(spec.NewOperation("getUser").
		WithTags("user").
		WithSummary("Look up an account").
		AddParam(idParam()).
		RespondsWith(200, respond("account found", "LookupEnvelope")).
		RespondsWith(401, respond("unauthorized, malformed or unknown id", "LookupEnvelope")))

	deleteUser := secured(spec.NewOperation("deleteUser").
		WithTags("user").
		WithSummary("Remove an account").
		AddParam(idParam()).
		RespondsWith(200, respond(api.MessageRemoved, "RemovedResponse")).
		RespondsWith(401, failure("unauthorized or malformed id")))

	return map[string]spec.PathItem{
		"/auth": {PathItemProps: spec.PathItemProps{Post: login, Get: logout}},
		"/user": {PathItemProps: spec.PathItemProps{Post: register}},
		"/user/{id}": {PathItemProps: spec.PathItemProps{
			Get:    getUser,
			Delete: deleteUser,
		}},
	}
}

// Operations returns every operation of doc keyed by "METHOD /path", with
// the base path prepended.
func Operations(doc *spec.Swagger) map[string]*spec.Operation {
	ops := make(map[string]*spec.Operation)
	if doc.Paths == nil {
		return ops
	}
	for path, item := range doc.Paths.Paths {
		for method, op := range map[string]*spec.Operation{
			"GET":     item.Get,
			"PUT":     item.Put,
			"POST":    item.Post,
			"DELETE":  item.Delete,
			"PATCH":   item.Patch,
			"HEAD":    item.Head,
			"OPTIONS": item.Options,
		} {
			if op != nil {
				ops[method+" "+doc.BasePath+path] = op
			}
		}
	}
	return ops
}

// Routes returns the documented routes as "METHOD /path" strings, for checks
// against the router.
func Routes(doc *spec.Swagger) []string {
	ops := Operations(doc)
	routes := make([]string, 0, len(ops))
	for route := range ops {
		routes = append(routes, route)
	}
	return routes
}
