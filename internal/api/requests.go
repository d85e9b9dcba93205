package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pminsight/client/internal/models"
)

// ListPendingRequests fetches the requests slice for a reviewer and/or
// state. Zero destinatarioID or empty estado omits that filter.
func (c *Client) ListPendingRequests(ctx context.Context, destinatarioID int, estado models.State) ([]models.Request, error) {
	query := url.Values{}
	if destinatarioID > 0 {
		query.Set("destinatario_id", strconv.Itoa(destinatarioID))
	}
	if estado != "" {
		query.Set("estado", string(estado))
	}
	var list []models.Request
	if err := c.do(ctx, http.MethodGet, "/solicitudes_pendientes/", query, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// ListMyRequests fetches every request created by a requester, across the
// whole lifecycle.
func (c *Client) ListMyRequests(ctx context.Context, solicitanteID int) ([]models.Request, error) {
	query := url.Values{}
	query.Set("solicitante_id", strconv.Itoa(solicitanteID))
	var list []models.Request
	if err := c.do(ctx, http.MethodGet, "/solicitudes/", query, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// GetRequest fetches one request by id.
func (c *Client) GetRequest(ctx context.Context, id int) (*models.Request, error) {
	var req models.Request
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/solicitudes/%d/", id), nil, nil, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// CreateRequest submits a new expense request.
func (c *Client) CreateRequest(ctx context.Context, form models.CreateRequestForm) (*models.Request, error) {
	var req models.Request
	if err := c.do(ctx, http.MethodPost, "/solicitudes/", nil, form, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// UpdateRequestState patches only the estado field.
func (c *Client) UpdateRequestState(ctx context.Context, id int, estado models.State) (*models.Request, error) {
	body := map[string]string{"estado": string(estado)}
	var req models.Request
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/solicitudes/%d/estado/", id), nil, body, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// Decide records a reviewer decision (atender/rechazar) with an optional
// comment.
func (c *Client) Decide(ctx context.Context, id int, decision, comentario string) (*models.Request, error) {
	body := map[string]string{"decision": decision, "comentario": comentario}
	var req models.Request
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/solicitudes/%d/decision/", id), nil, body, &req); err != nil {
		return nil, err
	}
	return &req, nil
}
