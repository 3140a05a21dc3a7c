package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/session-service/internal/config"
)

func guardApp() *fiber.App {
	guard := NewGuard(config.GuardConfig{
		ProtectedPrefixes: []string{"/profile", "/settings", "/dashboard"},
		LoginPath:         "/login",
	}, "token")

	app := fiber.New()
	app.Use(guard.Handle)
	app.All("/*", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func TestGuard_Redirects(t *testing.T) {
	app := guardApp()

	tests := []struct {
		name         string
		path         string
		withCookie   bool
		wantStatus   int
		wantLocation string
	}{
		{
			name:         "protected descendant without cookie",
			path:         "/dashboard/settings",
			wantStatus:   http.StatusFound,
			wantLocation: "/login?callbackUrl=%2Fdashboard%2Fsettings",
		},
		{
			name:         "protected root without cookie",
			path:         "/profile",
			wantStatus:   http.StatusFound,
			wantLocation: "/login?callbackUrl=%2Fprofile",
		},
		{
			name:         "trailing slash is normalized",
			path:         "/settings/",
			wantStatus:   http.StatusFound,
			wantLocation: "/login?callbackUrl=%2Fsettings%2F",
		},
		{
			name:       "protected with cookie",
			path:       "/dashboard",
			withCookie: true,
			wantStatus: http.StatusOK,
		},
		{
			name:       "unprotected path",
			path:       "/about",
			wantStatus: http.StatusOK,
		},
		{
			name:       "prefix is not a string match",
			path:       "/profiles",
			wantStatus: http.StatusOK,
		},
		{
			name:       "root path",
			path:       "/",
			wantStatus: http.StatusOK,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.withCookie {
				req.AddCookie(&http.Cookie{Name: "token", Value: "present"})
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			require.Equal(t, tc.wantStatus, resp.StatusCode)
			if tc.wantLocation != "" {
				require.Equal(t, tc.wantLocation, resp.Header.Get("Location"))
			}
		})
	}
}

func TestGuard_ChecksPresenceOnly(t *testing.T) {
	// The guard does not decode the token: a garbage cookie still passes,
	// leaving expiry checks to downstream handlers.
	app := guardApp()

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "garbage"})

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
