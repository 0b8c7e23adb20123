package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

func privateApp() *fiber.App {
	app := fiber.New()
	app.Get("/private", JWTMiddleware("secret"), func(c *fiber.Ctx) error {
		id, _ := c.Locals("rider_id").(string)
		name, _ := c.Locals("rider_name").(string)
		return c.JSON(fiber.Map{"rider_id": id, "rider_name": name})
	})
	return app
}

func request(t *testing.T, app *fiber.App, token string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	return resp.StatusCode
}

func TestJWTMiddleware(t *testing.T) {
	app := privateApp()

	if code := request(t, app, ""); code != http.StatusUnauthorized {
		t.Fatalf("expected unauthorized without token, got %d", code)
	}

	token, err := SignToken("secret", "rider-1", "Ana", time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if code := request(t, app, token); code != http.StatusOK {
		t.Fatalf("expected ok, got %d", code)
	}

	wrongKey, _ := SignToken("other", "rider-1", "Ana", time.Hour)
	if code := request(t, app, wrongKey); code != http.StatusUnauthorized {
		t.Fatalf("expected unauthorized for foreign key, got %d", code)
	}

	expired, _ := SignToken("secret", "rider-1", "Ana", -time.Minute)
	if code := request(t, app, expired); code != http.StatusUnauthorized {
		t.Fatalf("expected unauthorized for expired token, got %d", code)
	}

	anonymous, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"name": "Ana"}).SignedString([]byte("secret"))
	if code := request(t, app, anonymous); code != http.StatusUnauthorized {
		t.Fatalf("expected unauthorized without rider id, got %d", code)
	}
}

func TestJWTMiddlewareParseError(t *testing.T) {
	orig := parseMiddlewareClaimsFn
	defer func() { parseMiddlewareClaimsFn = orig }()
	parseMiddlewareClaimsFn = func(string, jwt.Claims, jwt.Keyfunc, ...jwt.ParserOption) (*jwt.Token, error) {
		return nil, errors.New("boom")
	}

	if code := request(t, privateApp(), "anything"); code != http.StatusUnauthorized {
		t.Fatalf("expected unauthorized, got %d", code)
	}
}

func TestSignTokenRequiresRider(t *testing.T) {
	if _, err := SignToken("secret", "", "Ana", time.Hour); !errors.Is(err, ErrMissingRider) {
		t.Fatalf("expected ErrMissingRider, got %v", err)
	}
}

func TestBearerFromHeader(t *testing.T) {
	cases := map[string]string{
		"Bearer abc":  "abc",
		"bearer abc ": "abc",
		"Basic abc":   "",
		"abc":         "",
	}
	for header, want := range cases {
		if got := bearerFromHeader(header); got != want {
			t.Fatalf("bearerFromHeader(%q) = %q, want %q", header, got, want)
		}
	}
}
