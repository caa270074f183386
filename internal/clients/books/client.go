package books

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"

	"oms-books-sync/internal/auth"
	"oms-books-sync/internal/remote"
)

const DefaultDetailsBatch = 50

var ErrItemNotFound = errors.New("item not found in books")

type OAuthCredentials struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
}

// Authorizer trades the long-lived refresh token for an access token.
type Authorizer struct {
	rc    *remote.Client
	creds OAuthCredentials
}

// NewAuthorizer expects rc to point at the full token endpoint URL.
func NewAuthorizer(rc *remote.Client, creds OAuthCredentials) *Authorizer {
	return &Authorizer{rc: rc, creds: creds}
}

func (a *Authorizer) Authorize(ctx context.Context) (auth.Session, error) {
	if a.creds.ClientID == "" || a.creds.ClientSecret == "" || a.creds.RefreshToken == "" {
		return auth.Session{}, auth.ErrMissingCredentials
	}
	var raw json.RawMessage
	err := a.rc.Do(ctx, remote.Request{
		Op:     "books.RefreshToken",
		Method: http.MethodPost,
		Form: url.Values{
			"refresh_token": {a.creds.RefreshToken},
			"client_id":     {a.creds.ClientID},
			"client_secret": {a.creds.ClientSecret},
			"grant_type":    {"refresh_token"},
		},
	}, &raw)
	if err != nil {
		return auth.Session{}, err
	}
	var resp tokenResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return auth.Session{}, errors.Wrap(err, "books.RefreshToken: decode")
	}
	if resp.Error != "" {
		return auth.Session{}, errors.Errorf("books.RefreshToken: %s", resp.Error)
	}
	return auth.Session{
		Token: resp.AccessToken,
		TTL:   time.Duration(resp.ExpiresIn) * time.Second,
	}, nil
}

type Client struct {
	rc           *remote.Client
	tokens       remote.TokenSource
	orgID        string
	detailsBatch int
}

func NewClient(rc *remote.Client, tokens remote.TokenSource, organizationID string, detailsBatch int) *Client {
	if detailsBatch <= 0 {
		detailsBatch = DefaultDetailsBatch
	}
	return &Client{rc: rc, tokens: tokens, orgID: organizationID, detailsBatch: detailsBatch}
}

func (c *Client) do(ctx context.Context, req remote.Request, out any) error {
	q := url.Values{}
	for k, v := range req.Query {
		q[k] = v
	}
	q.Set("organization_id", c.orgID)
	req.Query = q

	var raw json.RawMessage
	// a 200 with an invalid-token envelope must go through the same clear-and-retry as a 401
	err := remote.WithAuthRetry(ctx, c.tokens, func(token string) error {
		r := req
		r.Header = http.Header{}
		r.Header.Set("Authorization", "Zoho-oauthtoken "+token)
		raw = nil
		if err := c.rc.Do(ctx, r, &raw); err != nil {
			return err
		}
		return checkEnvelope(req, raw)
	})
	if err != nil {
		return err
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return errors.Wrapf(err, "%s: decode response", req.Op)
	}
	return nil
}

func checkEnvelope(req remote.Request, raw json.RawMessage) error {
	if len(raw) == 0 {
		return nil
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return errors.Wrapf(err, "%s: decode envelope", req.Op)
	}
	if env.Code == 0 {
		return nil
	}
	return &remote.APIError{
		Op:         req.Op,
		Method:     req.Method,
		URL:        req.Path,
		StatusCode: http.StatusOK,
		Kind:       remote.Classify(http.StatusBadRequest, env.Message),
		Body:       env.Message,
	}
}

// SearchContactsByEmail returns active contacts matching the email, in the order Books returns them.
func (c *Client) SearchContactsByEmail(ctx context.Context, email string) ([]Contact, error) {
	var resp struct {
		Contacts []Contact `json:"contacts"`
	}
	err := c.do(ctx, remote.Request{
		Op:     "books.SearchContacts",
		Method: http.MethodGet,
		Path:   "/contacts",
		Query:  url.Values{"email": {email}, "status": {"active"}},
	}, &resp)
	return resp.Contacts, err
}

func (c *Client) CreateContact(ctx context.Context, req ContactRequest) (Contact, error) {
	if req.ContactType == "" {
		req.ContactType = "customer"
	}
	var resp struct {
		Contact Contact `json:"contact"`
	}
	err := c.do(ctx, remote.Request{
		Op:     "books.CreateContact",
		Method: http.MethodPost,
		Path:   "/contacts",
		Body:   req,
	}, &resp)
	if err != nil {
		return Contact{}, err
	}
	if resp.Contact.ContactID == "" {
		return Contact{}, errors.New("books.CreateContact: response has no contact id")
	}
	return resp.Contact, nil
}

func (c *Client) GetItemBySKU(ctx context.Context, sku string) (Item, error) {
	var resp struct {
		Items []Item `json:"items"`
	}
	err := c.do(ctx, remote.Request{
		Op:     "books.GetItemBySKU",
		Method: http.MethodGet,
		Path:   "/items",
		Query:  url.Values{"sku": {sku}},
	}, &resp)
	if err != nil {
		return Item{}, err
	}
	for _, it := range resp.Items {
		if strings.EqualFold(it.SKU, sku) {
			return it, nil
		}
	}
	return Item{}, errors.Wrapf(ErrItemNotFound, "sku %s", sku)
}

func (c *Client) GetItem(ctx context.Context, itemID string) (Item, error) {
	var resp struct {
		Item Item `json:"item"`
	}
	err := c.do(ctx, remote.Request{
		Op:     "books.GetItem",
		Method: http.MethodGet,
		Path:   "/items/" + url.PathEscape(itemID),
	}, &resp)
	if remote.IsNotFound(err) {
		return Item{}, errors.Wrapf(ErrItemNotFound, "item %s", itemID)
	}
	return resp.Item, err
}

// GetItemDetails fetches items with their per-warehouse stock. Ids are trimmed and deduplicated and
// blank ids dropped before they are split into batches.
func (c *Client) GetItemDetails(ctx context.Context, itemIDs []string) ([]Item, error) {
	ids := UniqueIDs(itemIDs)
	out := make([]Item, 0, len(ids))
	for start := 0; start < len(ids); start += c.detailsBatch {
		end := start + c.detailsBatch
		if end > len(ids) {
			end = len(ids)
		}
		var resp struct {
			Items []Item `json:"items"`
		}
		err := c.do(ctx, remote.Request{
			Op:     "books.GetItemDetails",
			Method: http.MethodGet,
			Path:   "/itemdetails",
			Query:  url.Values{"item_ids": {strings.Join(ids[start:end], ",")}},
		}, &resp)
		if err != nil {
			return nil, errors.Wrapf(err, "item details batch %d-%d", start, end)
		}
		out = append(out, resp.Items...)
	}
	return out, nil
}

func (c *Client) CreateSalesOrder(ctx context.Context, req SalesOrderRequest) (SalesOrder, error) {
	var resp struct {
		SalesOrder SalesOrder `json:"salesorder"`
	}
	err := c.do(ctx, remote.Request{
		Op:     "books.CreateSalesOrder",
		Method: http.MethodPost,
		Path:   "/salesorders",
		Body:   req,
	}, &resp)
	if err != nil {
		return SalesOrder{}, err
	}
	if resp.SalesOrder.SalesOrderID == "" {
		return SalesOrder{}, errors.New("books.CreateSalesOrder: response has no salesorder id")
	}
	return resp.SalesOrder, nil
}

func (c *Client) ApproveSalesOrder(ctx context.Context, id string) error {
	return c.do(ctx, remote.Request{
		Op:     "books.ApproveSalesOrder",
		Method: http.MethodPost,
		Path:   "/salesorders/" + url.PathEscape(id) + "/approve",
	}, nil)
}

func (c *Client) ConfirmSalesOrder(ctx context.Context, id string) error {
	return c.do(ctx, remote.Request{
		Op:     "books.ConfirmSalesOrder",
		Method: http.MethodPost,
		Path:   "/salesorders/" + url.PathEscape(id) + "/status/confirmed",
	}, nil)
}

func UniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
