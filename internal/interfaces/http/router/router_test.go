package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func echo(body string, status int) gin.HandlerFunc {
	return func(c *gin.Context) { c.String(status, body) }
}

func TestNewRouter_Defaults(t *testing.T) {
	r := NewRouter(gin.New())

	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)
}

func TestWithAPIVersion(t *testing.T) {
	r := NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouter_Setup_MountsUnderVersionPrefix(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v2"))

	edi := NewDomainGroup("edi", "/edi")
	edi.GET("/standards", echo("ORDERS D.01B", http.StatusOK))
	r.Register(edi).Setup()

	w := serve(engine, "GET", "/api/v2/edi/standards")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ORDERS D.01B", w.Body.String())

	assert.Equal(t, http.StatusNotFound, serve(engine, "GET", "/api/v1/edi/standards").Code)
}

func TestDomainGroup_NameAndPrefix(t *testing.T) {
	g := NewDomainGroup("catalog", "/catalog")
	assert.Equal(t, "catalog", g.Name())
	assert.Equal(t, "/catalog", g.Prefix())
}

func TestDomainGroup_Verbs(t *testing.T) {
	cases := []struct {
		register func(*DomainGroup)
		method   string
		path     string
		status   int
	}{
		{func(g *DomainGroup) { g.GET("/interchanges", echo("list", http.StatusOK)) },
			"GET", "/api/v1/edi/interchanges", http.StatusOK},
		{func(g *DomainGroup) { g.POST("/inbound", echo("accepted", http.StatusAccepted)) },
			"POST", "/api/v1/edi/inbound", http.StatusAccepted},
		{func(g *DomainGroup) { g.PUT("/partners/:code", echo("updated", http.StatusOK)) },
			"PUT", "/api/v1/edi/partners/ACME-DE", http.StatusOK},
		{func(g *DomainGroup) { g.PATCH("/interchanges/:id", echo("patched", http.StatusOK)) },
			"PATCH", "/api/v1/edi/interchanges/42", http.StatusOK},
		{func(g *DomainGroup) { g.DELETE("/interchanges/:id", echo("", http.StatusNoContent)) },
			"DELETE", "/api/v1/edi/interchanges/42", http.StatusNoContent},
	}

	for _, tc := range cases {
		t.Run(tc.method, func(t *testing.T) {
			engine := gin.New()
			g := NewDomainGroup("edi", "/edi")
			tc.register(g)
			g.RegisterRoutes(engine.Group("/api/v1"))

			assert.Equal(t, tc.status, serve(engine, tc.method, tc.path).Code)
		})
	}
}

func TestDomainGroup_Middleware(t *testing.T) {
	engine := gin.New()
	g := NewDomainGroup("edi", "/edi")
	g.Use(func(c *gin.Context) {
		c.Header("X-EDI-Gateway", "tradelink")
		c.Next()
	})
	g.GET("/interchanges", echo("ok", http.StatusOK))
	g.RegisterRoutes(engine.Group("/api/v1"))

	w := serve(engine, "GET", "/api/v1/edi/interchanges")
	assert.Equal(t, "tradelink", w.Header().Get("X-EDI-Gateway"))
}

func TestDomainGroup_Subgroups(t *testing.T) {
	engine := gin.New()
	g := NewDomainGroup("edi", "/edi")

	g.Group("interchanges", "/interchanges").
		GET("", echo("interchange list", http.StatusOK))
	g.Group("standards", "/standards").
		GET("", echo("standards list", http.StatusOK))

	g.RegisterRoutes(engine.Group("/api/v1"))

	w := serve(engine, "GET", "/api/v1/edi/interchanges")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "interchange list", w.Body.String())

	w = serve(engine, "GET", "/api/v1/edi/standards")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "standards list", w.Body.String())
}

func TestRouter_MultipleContexts(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	catalog := NewDomainGroup("catalog", "/catalog")
	catalog.GET("/products", echo("products", http.StatusOK))

	partner := NewDomainGroup("partner", "/partner")
	partner.GET("/partners", echo("partners", http.StatusOK))

	r.Register(catalog).Register(partner).Setup()

	w := serve(engine, "GET", "/api/v1/catalog/products")
	assert.Equal(t, "products", w.Body.String())

	w = serve(engine, "GET", "/api/v1/partner/partners")
	assert.Equal(t, "partners", w.Body.String())
}

func TestDomainGroup_Chaining(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	g := NewDomainGroup("trade", "/trade")
	g.GET("/orders", echo("orders", http.StatusOK)).
		POST("/orders", echo("created", http.StatusCreated)).
		PUT("/orders/:id", echo("updated", http.StatusOK))

	r.Register(g).Setup()

	assert.Equal(t, http.StatusOK, serve(engine, "GET", "/api/v1/trade/orders").Code)
	assert.Equal(t, http.StatusCreated, serve(engine, "POST", "/api/v1/trade/orders").Code)
	assert.Equal(t, http.StatusOK, serve(engine, "PUT", "/api/v1/trade/orders/42").Code)
}
