package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"facturacion-backend/config"
	"facturacion-backend/models"
	"facturacion-backend/repository"
	"facturacion-backend/services"
	"facturacion-backend/testutil"
	"facturacion-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type testServer struct {
	router *gin.Engine
	token  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, utils.RegisterValidators())

	db := testutil.NewSQLiteDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)

	cfg := &config.Config{
		Token: config.TokenConfig{Secret: "routes-test-secret", Algorithm: "HS256", TTL: time.Hour},
		HTTP:  config.HTTPConfig{AllowedOrigins: []string{"http://localhost:3000"}},
	}
	hash, err := utils.HashPassword("clave123", bcrypt.MinCost)
	require.NoError(t, err)

	credentials, err := services.NewCredentialStore(
		services.NewStaticIdentities(models.Operator{Username: "admin", PasswordHash: hash}),
		bcrypt.MinCost,
	)
	require.NoError(t, err)
	tokens, err := services.NewTokenService(cfg.Token)
	require.NoError(t, err)
	invoices := repository.NewInvoiceRepository(db)

	router := SetupRouter(Dependencies{
		Config:    cfg,
		Log:       zap.NewNop(),
		DB:        sqlDB,
		Auth:      services.NewAuthService(credentials, tokens),
		Tokens:    tokens,
		Customers: repository.NewCustomerRepository(db),
		Products:  repository.NewProductRepository(db),
		Engine:    services.NewInvoiceEngine(invoices),
		Invoices:  invoices,
	})
	return &testServer{router: router}
}

func (s *testServer) login(t *testing.T, username, password string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{"username": {username}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestInvoicingFlow(t *testing.T) {
	s := newTestServer(t)

	w := s.login(t, "admin", "clave123")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "bearer", body["token_type"])
	s.token = body["access_token"].(string)
	require.NotEmpty(t, s.token)

	w = s.do(t, http.MethodPost, "/clientes", map[string]any{
		"nombre": "Juan Pérez", "documento": "001-0000001-1", "direccion": "Calle 1",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body = decode(t, w)
	assert.Equal(t, "Cliente creado", body["mensaje"])
	clienteID := body["id"].(float64)

	w = s.do(t, http.MethodGet, "/cliente/001-0000001-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = decode(t, w)
	assert.Equal(t, clienteID, body["id"])
	assert.Equal(t, "Juan Pérez", body["nombre"])
	assert.Equal(t, "Calle 1", body["direccion"])

	productIDs := make([]float64, 0, 2)
	for _, p := range []map[string]any{{"nombre": "Café", "precio": 10.00}, {"nombre": "Pan", "precio": 5.00}} {
		w = s.do(t, http.MethodPost, "/productos", p)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		body = decode(t, w)
		assert.Equal(t, "Producto creado", body["mensaje"])
		productIDs = append(productIDs, body["id"].(float64))
	}

	w = s.do(t, http.MethodGet, "/productos", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var products []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &products))
	require.Len(t, products, 2)
	assert.Equal(t, "Café", products[0]["nombre"])
	assert.Equal(t, 10.0, products[0]["precio"])

	w = s.do(t, http.MethodPost, "/facturas", map[string]any{
		"cliente_id":     clienteID,
		"metodo_pago":    "efectivo",
		"monto_recibido": 25.00,
		"descuento":      5.00,
		"items": []map[string]any{
			{"producto_id": productIDs[0], "cantidad": 2, "precio_unitario": 10.00},
			{"producto_id": productIDs[1], "cantidad": 1, "precio_unitario": 5.00},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body = decode(t, w)
	assert.Equal(t, "Factura creada", body["mensaje"])
	assert.InDelta(t, 23.6, body["total"], 1e-9)
	assert.InDelta(t, 1.4, body["cambio"], 1e-9)
	facturaID := body["factura_id"].(float64)

	w = s.do(t, http.MethodGet, "/facturas/"+jsonNumber(facturaID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body = decode(t, w)
	assert.InDelta(t, 25.0, body["subtotal"], 1e-9)
	assert.InDelta(t, 3.6, body["itbis"], 1e-9)
	assert.InDelta(t, 5.0, body["descuento"], 1e-9)
	assert.Len(t, body["items"], 2)
}

func jsonNumber(f float64) string {
	b, _ := json.Marshal(f)
	return string(b)
}

func TestLogin_Rejects(t *testing.T) {
	s := newTestServer(t)

	for _, tc := range []struct{ name, user, pass string }{
		{"wrong password", "admin", "otra"},
		{"unknown user", "cajero", "clave123"},
		{"missing fields", "", ""},
	} {
		t.Run(tc.name, func(t *testing.T) {
			w := s.login(t, tc.user, tc.pass)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "Credenciales inválidas", decode(t, w)["error"])
		})
	}
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	s := newTestServer(t)

	routes := []struct{ method, path string }{
		{http.MethodPost, "/clientes"},
		{http.MethodGet, "/cliente/001"},
		{http.MethodPost, "/productos"},
		{http.MethodGet, "/productos"},
		{http.MethodPost, "/facturas"},
		{http.MethodGet, "/facturas/1"},
	}
	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			w := s.do(t, rt.method, rt.path, nil)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, "Token inválido", decode(t, w)["error"])
		})
	}

	t.Run("garbage token", func(t *testing.T) {
		s.token = "abc.def.ghi"
		defer func() { s.token = "" }()

		w := s.do(t, http.MethodGet, "/productos", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestBusinessErrors(t *testing.T) {
	s := newTestServer(t)
	w := s.login(t, "admin", "clave123")
	require.Equal(t, http.StatusOK, w.Code)
	s.token = decode(t, w)["access_token"].(string)

	customer := map[string]any{"nombre": "Ana", "documento": "402-1234567-8", "direccion": "Av. Duarte 10"}
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/clientes", customer).Code)

	t.Run("duplicate documento", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/clientes", customer)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("any documento format is accepted", func(t *testing.T) {
		for _, doc := range []string{"001 1234567 8", "A/B-1", strings.Repeat("X", 35)} {
			w := s.do(t, http.MethodPost, "/clientes", map[string]any{
				"nombre": "Cliente " + doc, "documento": doc, "direccion": "Calle 2",
			})
			require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		}

		w := s.do(t, http.MethodGet, "/cliente/"+url.PathEscape("001 1234567 8"), nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("blank documento", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/clientes", map[string]any{
			"nombre": "X", "documento": "   ", "direccion": "Calle 3",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Datos inválidos: campo 'documento'", decode(t, w)["error"])
	})

	t.Run("missing direccion", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/clientes", map[string]any{"nombre": "X", "documento": "X-1"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Datos inválidos: campo 'direccion'", decode(t, w)["error"])
	})

	t.Run("wrong type names the field only", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/clientes", map[string]any{"nombre": 5, "documento": "X-2", "direccion": "Calle 4"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		msg := decode(t, w)["error"].(string)
		assert.Equal(t, "Datos inválidos: campo 'nombre'", msg)
		assert.NotContains(t, msg, "CreateCustomerInput")
	})

	t.Run("unknown customer", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/cliente/999", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Cliente no encontrado", decode(t, w)["error"])
	})

	t.Run("negative price", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/productos", map[string]any{"nombre": "X", "precio": -1})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invoice with unknown product", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/facturas", map[string]any{
			"cliente_id":  1,
			"metodo_pago": "tarjeta",
			"items":       []map[string]any{{"producto_id": 99, "cantidad": 1, "precio_unitario": 1}},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = s.do(t, http.MethodGet, "/facturas/1", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("invoice without items", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/facturas", map[string]any{
			"cliente_id": 1, "metodo_pago": "tarjeta", "items": []any{},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid invoice id", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/facturas/abc", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPublicRoutes(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "facturacion_http_requests_total")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
