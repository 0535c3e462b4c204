package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tratativas/internal/model"
	"tratativas/internal/service"
	serviceMocks "tratativas/internal/service/mocks"
)

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New()
	app.Get("/health", HealthCheck(db))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "SERVICE_UNAVAILABLE", body.Error.Code)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCreateTratativa(t *testing.T) {
	mockSvc := new(serviceMocks.MockTratativaService)
	app := fiber.New()
	app.Post("/tratativas", CreateTratativa(mockSvc))

	t.Run("created", func(t *testing.T) {
		in := model.Tratativa{Numero: "15508", Funcionario: "Fulano"}
		stored := in
		stored.ID = uuid.New().String()
		mockSvc.On("Create", mock.Anything, mock.MatchedBy(func(tr *model.Tratativa) bool {
			return tr.Numero == "15508"
		})).Return(&stored, nil).Once()

		body, _ := json.Marshal(in)
		req := httptest.NewRequest(http.MethodPost, "/tratativas", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var out model.Tratativa
		json.NewDecoder(resp.Body).Decode(&out)
		assert.Equal(t, stored.ID, out.ID)
	})

	t.Run("numero required", func(t *testing.T) {
		mockSvc.On("Create", mock.Anything, mock.Anything).
			Return(nil, service.ErrNumeroRequired).Once()

		req := httptest.NewRequest(http.MethodPost, "/tratativas", bytes.NewReader([]byte(`{}`)))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("invalid body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/tratativas", bytes.NewReader([]byte(`not-json`)))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	mockSvc.AssertExpectations(t)
}

func TestListTratativas(t *testing.T) {
	mockSvc := new(serviceMocks.MockTratativaService)
	app := fiber.New()
	app.Get("/tratativas", ListTratativas(mockSvc))

	t.Run("success", func(t *testing.T) {
		expected := &service.TratativaListResult{
			Items: []model.Tratativa{{ID: uuid.New().String(), Numero: "15508"}},
			Total: 1,
		}
		mockSvc.On("List", mock.Anything, 10, 0).Return(expected, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/tratativas", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var out service.TratativaListResult
		json.NewDecoder(resp.Body).Decode(&out)
		assert.Equal(t, 1, out.Total)
		require.Len(t, out.Items, 1)
		assert.Equal(t, "15508", out.Items[0].Numero)
	})

	t.Run("invalid limit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/tratativas?limit=abc", nil)
		resp, _ := app.Test(req)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	mockSvc.AssertExpectations(t)
}

func TestListPendingTratativas(t *testing.T) {
	mockSvc := new(serviceMocks.MockTratativaService)
	app := fiber.New()
	app.Get("/tratativas/pending", ListPendingTratativas(mockSvc))

	expected := &service.TratativaListResult{
		Items: []model.Tratativa{{ID: uuid.New().String(), Numero: "15509"}},
		Total: 1,
	}
	mockSvc.On("ListPending", mock.Anything, 10, 0).Return(expected, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/tratativas/pending", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	mockSvc.AssertExpectations(t)
}

func TestGetTratativa(t *testing.T) {
	mockSvc := new(serviceMocks.MockTratativaService)
	app := fiber.New()
	app.Get("/tratativas/:id", GetTratativa(mockSvc))

	t.Run("found", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Get", mock.Anything, id).
			Return(&model.Tratativa{ID: id, Numero: "15508"}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/tratativas/"+id, nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Get", mock.Anything, id).Return(nil, service.ErrNotFound).Once()

		req := httptest.NewRequest(http.MethodGet, "/tratativas/"+id, nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("invalid id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/tratativas/not-a-uuid", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	mockSvc.AssertExpectations(t)
}

func TestGenerateDocument(t *testing.T) {
	newApp := func(mockSvc *serviceMocks.MockTratativaService) *fiber.App {
		app := fiber.New()
		app.Post("/tratativas/:id/pdf", GenerateDocument(mockSvc))
		return app
	}

	decode := func(t *testing.T, resp *http.Response) pipelineResult {
		t.Helper()
		var out pipelineResult
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		return out
	}

	t.Run("success returns the published url", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockTratativaService)
		id := uuid.New().String()
		const url = "https://cdn.example.com/documentos/15508/doc.pdf"
		mockSvc.On("GenerateDocument", mock.Anything, id).Return(url, nil).Once()

		resp, _ := newApp(mockSvc).Test(httptest.NewRequest(http.MethodPost, "/tratativas/"+id+"/pdf", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		out := decode(t, resp)
		assert.Equal(t, "success", out.Status)
		assert.Equal(t, url, out.URL)
		mockSvc.AssertExpectations(t)
	})

	t.Run("validation failure lists missing fields", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockTratativaService)
		id := uuid.New().String()
		mockSvc.On("GenerateDocument", mock.Anything, id).
			Return("", &service.ValidationError{Page: 1, Missing: []string{"DOP_LIDER"}}).Once()

		resp, _ := newApp(mockSvc).Test(httptest.NewRequest(http.MethodPost, "/tratativas/"+id+"/pdf", nil))

		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		out := decode(t, resp)
		assert.Equal(t, "error", out.Status)
		assert.Contains(t, out.Message, "DOP_LIDER")
	})

	t.Run("already published", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockTratativaService)
		id := uuid.New().String()
		mockSvc.On("GenerateDocument", mock.Anything, id).
			Return("", service.ErrAlreadyPublished).Once()

		resp, _ := newApp(mockSvc).Test(httptest.NewRequest(http.MethodPost, "/tratativas/"+id+"/pdf", nil))

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("pipeline failure surfaces the failing stage", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockTratativaService)
		id := uuid.New().String()
		mockSvc.On("GenerateDocument", mock.Anything, id).
			Return("", errors.New("render folha 2: render service returned 500: boom")).Once()

		resp, _ := newApp(mockSvc).Test(httptest.NewRequest(http.MethodPost, "/tratativas/"+id+"/pdf", nil))

		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
		out := decode(t, resp)
		assert.Equal(t, "error", out.Status)
		assert.Contains(t, out.Message, "render folha 2")
	})

	t.Run("invalid id", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockTratativaService)
		resp, _ := newApp(mockSvc).Test(httptest.NewRequest(http.MethodPost, "/tratativas/nope/pdf", nil))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		mockSvc.AssertNotCalled(t, "GenerateDocument", mock.Anything, mock.Anything)
	})
}

func TestDocsRoutes(t *testing.T) {
	// SendFile resolves openapi.yaml against the working directory.
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "openapi.yaml"), []byte("openapi: 3.0.3\n"), 0o644))
	t.Chdir(dir)

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New()
	RegisterRoutes(app, db, new(serviceMocks.MockTratativaService))

	t.Run("swagger ui", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/docs", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
		body, _ := io.ReadAll(resp.Body)
		assert.Contains(t, string(body), "/openapi.yaml")
	})

	t.Run("openapi spec", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body, _ := io.ReadAll(resp.Body)
		assert.Contains(t, string(body), "openapi:")
	})
}
