package middleware

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/pkg/reqctx"
)

const (
	HeaderRequestID  = "X-Request-Id"
	HeaderOperatorID = "X-Operator-Id"

	localRequestID = "request_id"
	localMeta      = "request_meta"
)

// RequestID generates or preserves the request id and captures request
// metadata for log correlation. The id is echoed back to the client.
func RequestID() fiber.Handler {
	return func(c fiber.Ctx) error {
		rid := c.Get(HeaderRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}

		c.Locals(localRequestID, rid)
		c.Set(HeaderRequestID, rid)
		// visible to adaptor-wrapped http handlers as well
		c.Request().Header.Set(HeaderRequestID, rid)

		meta := &reqctx.Meta{
			RequestID:   rid,
			OperatorID:  c.Get(HeaderOperatorID),
			ClientIP:    c.IP(),
			RequestedAt: time.Now(),
		}
		c.Locals(localMeta, meta)
		// thread through the request context so upstream calls can
		// correlate their log lines with this request
		c.SetContext(reqctx.WithMeta(c.Context(), meta))
		return c.Next()
	}
}

// MetaFromFiber retrieves the metadata stored by RequestID.
func MetaFromFiber(c fiber.Ctx) (*reqctx.Meta, bool) {
	meta, ok := c.Locals(localMeta).(*reqctx.Meta)
	return meta, ok && meta != nil
}
