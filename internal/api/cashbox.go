package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/pminsight/client/internal/models"
)

// GetCashBox fetches the cash box for a calendar day (YYYY-MM-DD), or
// today's when fecha is empty.
func (c *Client) GetCashBox(ctx context.Context, fecha string) (*models.CashBox, error) {
	path := "/caja_diaria/"
	if fecha != "" {
		path = fmt.Sprintf("/caja_diaria/%s/", fecha)
	}
	var box models.CashBox
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &box); err != nil {
		return nil, err
	}
	return &box, nil
}

// AddCashBoxMovement posts a movement, optionally attaching a supporting
// document. The endpoint takes multipart form data so the document image
// travels with the movement fields.
func (c *Client) AddCashBoxMovement(ctx context.Context, boxID int, tipo models.MovementType, concepto string, monto decimal.Decimal, docName string, doc io.Reader) (*models.Movement, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	writer.WriteField("tipo", string(tipo))
	writer.WriteField("concepto", concepto)
	writer.WriteField("monto", monto.StringFixed(2))
	if doc != nil {
		part, err := writer.CreateFormFile("documento", docName)
		if err != nil {
			return nil, err
		}
		if _, err := io.Copy(part, doc); err != nil {
			return nil, err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	path := fmt.Sprintf("/caja_diaria/%d/movimientos/", boxID)
	var movement models.Movement
	if err := c.doMultipart(ctx, path, &buf, writer.FormDataContentType(), &movement); err != nil {
		return nil, err
	}
	return &movement, nil
}

// CloseCashBox closes the box; the server freezes it and returns the final
// ledger.
func (c *Client) CloseCashBox(ctx context.Context, boxID int) (*models.CashBox, error) {
	var box models.CashBox
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/caja_diaria/%d/cerrar/", boxID), nil, nil, &box); err != nil {
		return nil, err
	}
	return &box, nil
}

// doMultipart mirrors do for multipart bodies. The body buffer is rebuilt
// by the caller when a retry needs it, so the 401 retry re-sends from a
// copy taken up front.
func (c *Client) doMultipart(ctx context.Context, path string, body *bytes.Buffer, contentType string, out any) error {
	payload := body.Bytes()

	attempt := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(path, nil), bytes.NewReader(payload))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer "+c.session.AccessToken())

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 400 {
			return decodeError(resp)
		}
		if out == nil {
			io.Copy(io.Discard, resp.Body)
			return nil
		}
		return json.NewDecoder(resp.Body).Decode(out)
	}

	err := attempt()
	var apiErr *Error
	if asAPIError(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
		if refreshErr := c.refresh(ctx); refreshErr != nil {
			return refreshErr
		}
		return attempt()
	}
	return err
}
