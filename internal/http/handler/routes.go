package handler

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"tratativas/internal/model"
	"tratativas/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Keep handlers minimal and free of business logic.
func RegisterRoutes(app *fiber.App, db *sql.DB, svc service.TratativaService) {
	// Serve OpenAPI spec and Swagger UI
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})

	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	app.Post("/tratativas", CreateTratativa(svc))
	app.Get("/tratativas", ListTratativas(svc))
	// Registered before /tratativas/:id so "pending" is not read as an id.
	app.Get("/tratativas/pending", ListPendingTratativas(svc))
	app.Get("/tratativas/:id", GetTratativa(svc))
	app.Post("/tratativas/:id/pdf", GenerateDocument(svc))
}

// HealthCheck checks DB connectivity only.
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe is a backward-compatible simple liveness probe.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// CreateTratativa registers a new disciplinary case (JSON body).
func CreateTratativa(svc service.TratativaService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var t model.Tratativa
		if err := c.BodyParser(&t); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		stored, err := svc.Create(c.UserContext(), &t)
		if err != nil {
			if errors.Is(err, service.ErrNumeroRequired) {
				return writeError(c, fiber.StatusBadRequest, "NUMERO_REQUIRED", "numero is required")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.Status(fiber.StatusCreated).JSON(stored)
	}
}

// ListTratativas lists cases with limit & offset.
func ListTratativas(svc service.TratativaService) fiber.Handler {
	return listHandler(func(c *fiber.Ctx, limit, offset int) (*service.TratativaListResult, error) {
		return svc.List(c.UserContext(), limit, offset)
	})
}

// ListPendingTratativas lists cases still lacking a published document.
func ListPendingTratativas(svc service.TratativaService) fiber.Handler {
	return listHandler(func(c *fiber.Ctx, limit, offset int) (*service.TratativaListResult, error) {
		return svc.ListPending(c.UserContext(), limit, offset)
	})
}

func listHandler(list func(c *fiber.Ctx, limit, offset int) (*service.TratativaListResult, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}
		res, err := list(c, limit, offset)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(res)
	}
}

// GetTratativa fetches a case by ID.
func GetTratativa(svc service.TratativaService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		t, err := svc.Get(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "tratativa not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(t)
	}
}

// pipelineResult is the caller-facing contract of the document pipeline:
// either a complete URL or a complete failure, never partial success.
type pipelineResult struct {
	Status  string `json:"status"`
	URL     string `json:"url,omitempty"`
	Message string `json:"message,omitempty"`
}

// GenerateDocument runs the render/merge/publish pipeline for one case.
func GenerateDocument(svc service.TratativaService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return pipelineError(c, fiber.StatusBadRequest, "invalid id format")
		}

		url, err := svc.GenerateDocument(c.UserContext(), id)
		if err != nil {
			var vErr *service.ValidationError
			switch {
			case errors.As(err, &vErr):
				return pipelineError(c, fiber.StatusUnprocessableEntity, vErr.Error())
			case errors.Is(err, service.ErrNotFound):
				return pipelineError(c, fiber.StatusNotFound, "tratativa not found")
			case errors.Is(err, service.ErrAlreadyPublished):
				return pipelineError(c, fiber.StatusConflict, "document already published for this tratativa")
			case errors.Is(err, service.ErrRunInFlight):
				return pipelineError(c, fiber.StatusConflict, "a document run is already in flight for this tratativa")
			default:
				// The failing stage and its cause; never credentials or
				// stack traces.
				return pipelineError(c, fiber.StatusBadGateway, err.Error())
			}
		}

		return c.JSON(pipelineResult{Status: "success", URL: url})
	}
}

func pipelineError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(pipelineResult{Status: "error", Message: message})
}
