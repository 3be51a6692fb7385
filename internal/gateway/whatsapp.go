package gateway

import (
	"context"
	"fmt"
)

type vendorReplyRequest struct {
	SessionID string `json:"sesion_id"`
	Message   string `json:"mensaje"`
	UserID    string `json:"user_id"`
}

type vendorReplyResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// SendReply delivers a staff message to the customer over WhatsApp. The
// acting user id lets the collaborator auto-assign the conversation.
func (c *Client) SendReply(ctx context.Context, sessionID, message, userID string) error {
	var resp vendorReplyResponse
	err := c.post(ctx, "vendor-reply-v2", vendorReplyRequest{
		SessionID: sessionID,
		Message:   message,
		UserID:    userID,
	}, &resp)
	if err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("vendor reply rejected: %s", resp.Error)
	}
	return nil
}
