package oms

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"oms-books-sync/internal/auth"
	"oms-books-sync/internal/models"
	"oms-books-sync/internal/remote"
)

const openOrdersPageSize = 200

var ErrSKUNotFound = errors.New("sku not found in oms")

// SKUNotFoundError names the SKU the OMS did not recognise.
type SKUNotFoundError struct {
	SKU string
}

func (e *SKUNotFoundError) Error() string { return fmt.Sprintf("sku %q not found in oms", e.SKU) }
func (e *SKUNotFoundError) Is(target error) bool {
	return target == ErrSKUNotFound
}

type Credentials struct {
	ApplicationID     string
	ApplicationSecret string
	InstallToken      string
}

func (c Credentials) complete() bool {
	return c.ApplicationID != "" && c.ApplicationSecret != "" && c.InstallToken != ""
}

// Authorizer exchanges application credentials for a session token.
type Authorizer struct {
	rc    *remote.Client
	creds Credentials
}

func NewAuthorizer(rc *remote.Client, creds Credentials) *Authorizer {
	return &Authorizer{rc: rc, creds: creds}
}

func (a *Authorizer) Authorize(ctx context.Context) (auth.Session, error) {
	if !a.creds.complete() {
		return auth.Session{}, auth.ErrMissingCredentials
	}
	var raw json.RawMessage
	err := a.rc.Do(ctx, remote.Request{
		Op:     "oms.AuthorizeByApplication",
		Method: http.MethodPost,
		Path:   "/Auth/AuthorizeByApplication",
		Body: authorizeRequest{
			ApplicationID:     a.creds.ApplicationID,
			ApplicationSecret: a.creds.ApplicationSecret,
			Token:             a.creds.InstallToken,
		},
	}, &raw)
	if err != nil {
		return auth.Session{}, err
	}
	var resp authorizeResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return auth.Session{}, errors.Wrap(err, "oms.AuthorizeByApplication: decode")
	}
	return auth.Session{
		Token: resp.Token,
		TTL:   time.Duration(resp.TTL) * time.Second,
		Raw:   raw,
	}, nil
}

type Client struct {
	rc     *remote.Client
	tokens remote.TokenSource
}

func NewClient(rc *remote.Client, tokens remote.TokenSource) *Client {
	return &Client{rc: rc, tokens: tokens}
}

func (c *Client) do(ctx context.Context, req remote.Request, out any) error {
	return remote.WithAuthRetry(ctx, c.tokens, func(token string) error {
		r := req
		r.Header = http.Header{}
		r.Header.Set("Authorization", token)
		return c.rc.Do(ctx, r, out)
	})
}

// GetAllOpenOrderIDs walks every page of open orders for a location.
func (c *Client) GetAllOpenOrderIDs(ctx context.Context, locationID string) ([]string, error) {
	var ids []string
	for page := 1; ; page++ {
		var resp openOrderIDsResponse
		err := c.do(ctx, remote.Request{
			Op:     "oms.GetOpenOrderIds",
			Method: http.MethodPost,
			Path:   "/OpenOrders/GetOpenOrderIds",
			Body: openOrderIDsRequest{
				LocationID:     locationID,
				EntriesPerPage: openOrdersPageSize,
				PageNumber:     page,
			},
		}, &resp)
		if err != nil {
			return nil, errors.Wrapf(err, "open orders page %d", page)
		}
		ids = append(ids, resp.Data...)
		if len(resp.Data) == 0 || page >= resp.TotalPages {
			return ids, nil
		}
	}
}

func (c *Client) GetOpenOrderDetails(ctx context.Context, ids []string) ([]models.Order, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out []models.Order
	err := c.do(ctx, remote.Request{
		Op:     "oms.GetOrdersById",
		Method: http.MethodPost,
		Path:   "/Orders/GetOrdersById",
		Body:   ordersByIDRequest{OrderIDs: ids},
	}, &out)
	return out, err
}

func (c *Client) SetOrderShippingInfo(ctx context.Context, orderID, trackingNumber string) error {
	return c.do(ctx, remote.Request{
		Op:     "oms.SetOrderShippingInfo",
		Method: http.MethodPost,
		Path:   "/Orders/SetOrderShippingInfo",
		Body: shippingInfoRequest{
			OrderID: orderID,
			Info:    shippingInfo{TrackingNumber: trackingNumber},
		},
	}, nil)
}

func (c *Client) ProcessOrder(ctx context.Context, orderID, locationID string, scanPerformed bool) (ProcessResult, error) {
	var res ProcessResult
	err := c.do(ctx, remote.Request{
		Op:     "oms.ProcessOrder",
		Method: http.MethodPost,
		Path:   "/Orders/ProcessOrder",
		Body: processOrderRequest{
			OrderID:       orderID,
			LocationID:    locationID,
			ScanPerformed: scanPerformed,
		},
	}, &res)
	return res, err
}

func (c *Client) GetStockLocations(ctx context.Context) ([]StockLocation, error) {
	var out []StockLocation
	err := c.do(ctx, remote.Request{
		Op:     "oms.GetStockLocations",
		Method: http.MethodPost,
		Path:   "/Inventory/GetStockLocations",
	}, &out)
	return out, err
}

// SetStockLevel pushes absolute stock levels. Negative levels are sent as 0. When the OMS rejects the
// call with a not-found message naming the SKU, the returned error matches ErrSKUNotFound. Any 2xx
// answer counts as applied; its body is not inspected.
func (c *Client) SetStockLevel(ctx context.Context, levels []StockLevel) error {
	if len(levels) == 0 {
		return nil
	}
	body := make([]StockLevel, len(levels))
	for i, l := range levels {
		if l.Level < 0 {
			l.Level = 0
		}
		body[i] = l
	}

	err := c.do(ctx, remote.Request{
		Op:     "oms.SetStockLevel",
		Method: http.MethodPost,
		Path:   "/Stock/SetStockLevel",
		Body:   setStockLevelRequest{StockLevels: body},
	}, nil)
	if sku := missingSKU(err, body); sku != "" {
		return &SKUNotFoundError{SKU: sku}
	}
	return err
}

func missingSKU(err error, levels []StockLevel) string {
	var apiErr *remote.APIError
	if !errors.As(err, &apiErr) {
		return ""
	}
	if apiErr.Kind != remote.KindValidation && apiErr.Kind != remote.KindNotFound {
		return ""
	}
	body := strings.ToLower(apiErr.Body)
	if !strings.Contains(body, "not found") && !strings.Contains(body, "does not exist") {
		return ""
	}
	for _, l := range levels {
		if strings.Contains(body, strings.ToLower(l.SKU)) {
			return l.SKU
		}
	}
	if len(levels) == 1 {
		return levels[0].SKU
	}
	return ""
}

func (c *Client) GetStockItems(ctx context.Context, page, perPage int) ([]StockItem, error) {
	var out []StockItem
	err := c.do(ctx, remote.Request{
		Op:     "oms.GetStockItemsFull",
		Method: http.MethodPost,
		Path:   "/Stock/GetStockItemsFull",
		Body:   stockItemsRequest{EntriesPerPage: perPage, PageNumber: page},
	}, &out)
	return out, err
}
