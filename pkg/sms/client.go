package sms

import (
	"context"
	"fmt"

	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/config"
	"github.com/arsmn/go-smsir/smsir"
)

// Client sends booking-confirmation SMS messages via sms.ir.
type Client struct {
	client     *smsir.Client
	templateID string
	enabled    bool
}

// NewFromConfig creates a new SMS client from the application configuration.
// If SMS is disabled, returns a client that no-ops on all operations.
func NewFromConfig(cfg config.SMSConfig) (*Client, error) {
	if !cfg.Enabled {
		return &Client{enabled: false}, nil
	}

	if cfg.SMSIR.APIKey == "" {
		return nil, fmt.Errorf("sms.ir API key required when SMS enabled")
	}

	client := smsir.NewClient().WithAuthentication(cfg.SMSIR.APIKey, cfg.SMSIR.SecretKey)

	return &Client{
		client:     client,
		templateID: cfg.SMSIR.TemplateID,
		enabled:    true,
	}, nil
}

// SendBookingConfirmation sends the booking token number to the patient's
// phone using the configured template. The template must have a parameter
// named "token". If SMS is disabled, this is a no-op and returns nil.
func (c *Client) SendBookingConfirmation(ctx context.Context, phoneNumber, tokenNumber string) error {
	if !c.enabled {
		// No-op when disabled (useful for development)
		return nil
	}

	if phoneNumber == "" {
		return fmt.Errorf("phone number is required")
	}
	if c.templateID == "" {
		return fmt.Errorf("template ID is required")
	}
	if tokenNumber == "" {
		return fmt.Errorf("token number is required")
	}

	req := &smsir.UltraFastSendRequest{
		Mobile:     phoneNumber,
		TemplateID: c.templateID,
		Parameters: []smsir.UltraFastParameter{
			{Key: "token", Value: tokenNumber},
		},
	}

	_, err := c.client.Verification.UltraFastSend(ctx, req)
	if err != nil {
		return fmt.Errorf("sms.ir send failed: %w", err)
	}

	return nil
}

// IsEnabled returns whether SMS sending is enabled.
func (c *Client) IsEnabled() bool {
	return c.enabled
}
