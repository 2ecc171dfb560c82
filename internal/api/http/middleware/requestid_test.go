package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"

	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/pkg/reqctx"
)

func TestRequestIDThreadsMetaThroughContext(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())

	var fromCtx *reqctx.Meta
	app.Get("/", func(c fiber.Ctx) error {
		meta, ok := reqctx.FromContext(c.Context())
		if !ok {
			t.Error("request context is missing metadata")
		}
		fromCtx = meta

		local, ok := MetaFromFiber(c)
		if !ok || local != meta {
			t.Error("locals and context should hold the same metadata")
		}
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest(fiber.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "req-7")
	req.Header.Set(HeaderOperatorID, "op-1")

	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer res.Body.Close()

	if fromCtx == nil {
		t.Fatal("handler never saw metadata")
	}
	if fromCtx.RequestID != "req-7" {
		t.Errorf("request id = %q, want req-7", fromCtx.RequestID)
	}
	if fromCtx.OperatorID != "op-1" {
		t.Errorf("operator id = %q, want op-1", fromCtx.OperatorID)
	}
	if got := res.Header.Get(HeaderRequestID); got != "req-7" {
		t.Errorf("echoed request id = %q, want req-7", got)
	}
}

func TestRequestIDGeneratesWhenAbsent(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())
	app.Get("/", func(c fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	res, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer res.Body.Close()

	if res.Header.Get(HeaderRequestID) == "" {
		t.Error("response should carry a generated request id")
	}
}
