package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"stockledger/internal/model"
	"stockledger/internal/repository"
	"stockledger/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

func setupApp(t *testing.T) (*fiber.App, *model.User) {
	t.Helper()
	store := repository.NewMemoryStore()
	users := repository.NewMemoryUsers(store)

	user := &model.User{
		Username:   "operator",
		Name:       "Operator",
		Department: "Boiler",
		Role:       model.RoleUser,
		IsActive:   true,
	}
	user.SetPassword("secret123")
	if err := users.Create(context.Background(), user); err != nil {
		t.Fatalf("create err: %v", err)
	}

	app := fiber.New()
	app.Get("/open", RequireAuth(users), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"department": c.Locals("user_department")})
	})
	app.Get("/gated", RequireAuth(users), RequirePermission(model.PermPurgeData), func(c *fiber.Ctx) error {
		return c.SendStatus(200)
	})
	return app, user
}

func tokenFor(t *testing.T, user *model.User, permissions []string) string {
	t.Helper()
	token, err := jwt.GenerateToken(user.ID, user.Username, user.Name, user.Department, string(user.Role), permissions)
	if err != nil {
		t.Fatalf("token err: %v", err)
	}
	return token
}

func doRequest(t *testing.T, app *fiber.App, path, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request err: %v", err)
	}
	return resp
}

func TestRequireAuth_MissingOrMalformedToken(t *testing.T) {
	app, _ := setupApp(t)

	if resp := doRequest(t, app, "/open", ""); resp.StatusCode != 401 {
		t.Fatalf("expected 401 without token, got %d", resp.StatusCode)
	}
	if resp := doRequest(t, app, "/open", "Basic abc"); resp.StatusCode != 401 {
		t.Fatalf("expected 401 for non-bearer scheme, got %d", resp.StatusCode)
	}
	if resp := doRequest(t, app, "/open", "Bearer garbage"); resp.StatusCode != 401 {
		t.Fatalf("expected 401 for invalid token, got %d", resp.StatusCode)
	}
}

func TestRequireAuth_ValidToken(t *testing.T) {
	app, user := setupApp(t)
	token := tokenFor(t, user, []string{model.PermInvView})

	resp := doRequest(t, app, "/open", "Bearer "+token)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestRequirePermission(t *testing.T) {
	app, user := setupApp(t)

	without := tokenFor(t, user, []string{model.PermInvView})
	if resp := doRequest(t, app, "/gated", "Bearer "+without); resp.StatusCode != 403 {
		t.Fatalf("expected 403 without permission, got %d", resp.StatusCode)
	}

	with := tokenFor(t, user, []string{model.PermInvView, model.PermPurgeData})
	if resp := doRequest(t, app, "/gated", "Bearer "+with); resp.StatusCode != 200 {
		t.Fatalf("expected 200 with permission, got %d", resp.StatusCode)
	}
}
