package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func inboundRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(mw)
	router.POST("/api/v1/edi/inbound", func(c *gin.Context) {
		c.JSON(http.StatusAccepted, gin.H{"success": true})
	})
	return router
}

func postInbound(router *gin.Engine, gln, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/api/v1/edi/inbound", nil)
	if gln != "" {
		req.Header.Set("X-Sender-GLN", gln)
	}
	if remoteAddr != "" {
		req.RemoteAddr = remoteAddr
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_Allow(t *testing.T) {
	t.Run("within limit", func(t *testing.T) {
		limiter := NewRateLimiter(5, time.Minute)
		for i := 0; i < 5; i++ {
			assert.True(t, limiter.Allow("ACME-DE"), "request %d", i+1)
		}
	})

	t.Run("exceeding limit", func(t *testing.T) {
		limiter := NewRateLimiter(3, time.Minute)
		for i := 0; i < 3; i++ {
			assert.True(t, limiter.Allow("ACME-DE"))
		}
		assert.False(t, limiter.Allow("ACME-DE"))
	})

	t.Run("keys budget separately", func(t *testing.T) {
		limiter := NewRateLimiter(2, time.Minute)

		assert.True(t, limiter.Allow("ACME-DE"))
		assert.True(t, limiter.Allow("ACME-DE"))
		assert.False(t, limiter.Allow("ACME-DE"))

		assert.True(t, limiter.Allow("NORDWARE-SE"))
		assert.True(t, limiter.Allow("NORDWARE-SE"))
	})

	t.Run("window rollover refills", func(t *testing.T) {
		limiter := NewRateLimiter(2, 50*time.Millisecond)

		assert.True(t, limiter.Allow("ACME-DE"))
		assert.True(t, limiter.Allow("ACME-DE"))
		assert.False(t, limiter.Allow("ACME-DE"))

		time.Sleep(60 * time.Millisecond)
		assert.True(t, limiter.Allow("ACME-DE"))
	})
}

func TestRateLimiter_Remaining(t *testing.T) {
	limiter := NewRateLimiter(5, time.Minute)

	assert.Equal(t, 5, limiter.Remaining("ACME-DE"), "unseen key has the full budget")

	limiter.Allow("ACME-DE")
	limiter.Allow("ACME-DE")
	assert.Equal(t, 3, limiter.Remaining("ACME-DE"))
}

func TestRateLimiter_Concurrent(t *testing.T) {
	limiter := NewRateLimiter(100, time.Minute)

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0

	for i := 0; i < 150; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if limiter.Allow("ACME-DE") {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, allowed)
}

func TestRateLimit_AllowsThenRejects(t *testing.T) {
	router := inboundRouter(RateLimit(NewRateLimiter(2, time.Minute)))

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusAccepted, postInbound(router, "", "").Code)
	}

	w := postInbound(router, "", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "RATE_LIMIT_EXCEEDED")
}

func TestRateLimit_KeysBySenderGLN(t *testing.T) {
	router := inboundRouter(RateLimit(NewRateLimiter(1, time.Minute)))

	assert.Equal(t, http.StatusAccepted, postInbound(router, "4012345000009", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, postInbound(router, "4012345000009", "").Code)

	// a different partner gateway keeps its own budget
	assert.Equal(t, http.StatusAccepted, postInbound(router, "4098765000003", "").Code)
}

func TestRateLimit_KeysByClientIP(t *testing.T) {
	router := inboundRouter(RateLimit(NewRateLimiter(2, time.Minute)))

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusAccepted, postInbound(router, "", "192.168.1.1:12345").Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, postInbound(router, "", "192.168.1.1:12345").Code)

	assert.Equal(t, http.StatusAccepted, postInbound(router, "", "192.168.1.2:12345").Code)
}

func TestRateLimit_Headers(t *testing.T) {
	router := inboundRouter(RateLimit(NewRateLimiter(5, time.Minute)))

	w := postInbound(router, "", "192.168.1.100:12345")

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "5", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "4", w.Header().Get("X-RateLimit-Remaining"))
}

func TestRateLimitByKey(t *testing.T) {
	limiter := NewRateLimiter(1, time.Minute)
	router := inboundRouter(RateLimitByKey(limiter, func(c *gin.Context) string {
		return c.GetHeader("X-Partner-Code")
	}))

	hit := func(partner string) int {
		req := httptest.NewRequest("POST", "/api/v1/edi/inbound", nil)
		req.Header.Set("X-Partner-Code", partner)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusAccepted, hit("ACME-DE"))
	assert.Equal(t, http.StatusTooManyRequests, hit("ACME-DE"))
	assert.Equal(t, http.StatusAccepted, hit("NORDWARE-SE"))
}
