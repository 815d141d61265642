// Package odoo implements a JSON-RPC client for fetching records from a
// remote Odoo instance. Sessions are established lazily and reused across
// the pages of one fetch run.
package odoo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/jonesrussell/north-cloud/odoo-mirror/internal/logger"
	"github.com/jonesrussell/north-cloud/odoo-mirror/internal/retry"
)

const (
	authenticatePath = "/web/session/authenticate"
	jsonrpcPath      = "/jsonrpc"

	// DefaultPageSize is the page size used by FetchAll calls when the
	// configured value is zero.
	DefaultPageSize = 100

	sessionCookieName = "session_id"
)

var (
	// ErrAuthFailed is returned when Odoo rejects the configured credentials
	// or does not issue a session.
	ErrAuthFailed = errors.New("odoo authentication failed")

	// ErrNoSession is returned when a fetch is attempted without a session
	// and re-authentication did not produce one.
	ErrNoSession = errors.New("odoo session not established")
)

var contactFields = []string{"id", "name", "email", "phone", "write_date"}

var invoiceFields = []string{
	"id", "name", "move_type", "invoice_date", "partner_id",
	"amount_total", "amount_residual", "state", "currency_id",
	"write_date", "create_date",
}

// Record is one raw remote record as decoded from the JSON-RPC response.
type Record map[string]any

// Config holds the remote connection settings.
type Config struct {
	URL      string
	Database string
	Username string
	Password string
	PageSize int
}

// Client talks to one Odoo instance and is shared by every syncer, so sync
// runs for different entities may fetch concurrently. Session state is
// guarded by mu: at most one worker authenticates, the rest reuse the
// session it established.
type Client struct {
	cfg    Config
	http   *http.Client
	logger logger.Logger

	mu        sync.Mutex
	uid       int64
	sessionID string
}

func NewClient(cfg Config, httpClient *http.Client, log logger.Logger) *Client {
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	return &Client{
		cfg:    cfg,
		http:   httpClient,
		logger: log,
	}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method,omitempty"`
	Params  any    `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("odoo rpc error %d: %s", e.Code, e.Message)
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

// Authenticate establishes a session with Odoo and stores the user id and
// session cookie for subsequent calls.
func (c *Client) Authenticate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.authenticate(ctx)
}

// authenticate performs the handshake. Callers must hold mu.
func (c *Client) authenticate(ctx context.Context) error {
	payload := rpcRequest{
		JSONRPC: "2.0",
		Params: map[string]any{
			"db":       c.cfg.Database,
			"login":    c.cfg.Username,
			"password": c.cfg.Password,
		},
	}

	resp, body, err := c.post(ctx, c.cfg.URL+authenticatePath, payload, "")
	if err != nil {
		return fmt.Errorf("authenticate: %w", err)
	}

	if body.Error != nil {
		return fmt.Errorf("%w: %s", ErrAuthFailed, body.Error.Message)
	}

	var result struct {
		UID int64 `json:"uid"`
	}
	if len(body.Result) > 0 {
		if err := json.Unmarshal(body.Result, &result); err != nil {
			return fmt.Errorf("decode authenticate result: %w", err)
		}
	}
	if result.UID == 0 {
		return ErrAuthFailed
	}

	sessionID := ""
	for _, cookie := range resp.Cookies() {
		if cookie.Name == sessionCookieName {
			sessionID = cookie.Value
			break
		}
	}
	if sessionID == "" {
		return fmt.Errorf("%w: no session cookie returned", ErrAuthFailed)
	}

	c.uid = result.UID
	c.sessionID = sessionID

	c.logger.Info("Odoo session established",
		logger.Int64("uid", result.UID),
		logger.String("database", c.cfg.Database),
	)
	return nil
}

// ensureSession authenticates once if no session exists. Concurrent callers
// serialize here; whichever wins authenticates and the rest see its session.
func (c *Client) ensureSession(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sessionID != "" && c.uid != 0 {
		return nil
	}
	if err := c.authenticate(ctx); err != nil {
		return err
	}
	if c.sessionID == "" {
		return ErrNoSession
	}
	return nil
}

// session returns the current credentials under the lock.
func (c *Client) session() (int64, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.uid, c.sessionID
}

// searchRead executes an execute_kw search_read call against one model.
func (c *Client) searchRead(
	ctx context.Context,
	model string,
	domain []any,
	fields []string,
	limit, offset int,
	order string,
) ([]Record, error) {
	if domain == nil {
		domain = []any{}
	}

	kwargs := map[string]any{
		"fields": fields,
		"limit":  limit,
		"offset": offset,
	}
	if order != "" {
		kwargs["order"] = order
	}

	uid, sessionID := c.session()

	payload := rpcRequest{
		JSONRPC: "2.0",
		Method:  "call",
		Params: map[string]any{
			"service": "object",
			"method":  "execute_kw",
			"args": []any{
				c.cfg.Database,
				uid,
				c.cfg.Password,
				model,
				"search_read",
				[]any{domain},
				kwargs,
			},
		},
	}

	_, body, err := c.post(ctx, c.cfg.URL+jsonrpcPath, payload, sessionID)
	if err != nil {
		return nil, fmt.Errorf("search_read %s: %w", model, err)
	}

	if body.Error != nil {
		return nil, fmt.Errorf("search_read %s: %w", model, body.Error)
	}

	records := make([]Record, 0)
	if len(body.Result) > 0 {
		if err := json.Unmarshal(body.Result, &records); err != nil {
			return nil, fmt.Errorf("decode %s records: %w", model, err)
		}
	}
	return records, nil
}

// FetchContacts fetches one page of contact records.
func (c *Client) FetchContacts(ctx context.Context, limit, offset int) ([]Record, error) {
	if err := c.ensureSession(ctx); err != nil {
		return nil, err
	}
	return c.searchRead(ctx, "res.partner", nil, contactFields, limit, offset, "")
}

// FetchInvoices fetches one page of customer invoice records, newest
// write_date first.
func (c *Client) FetchInvoices(ctx context.Context, limit, offset int) ([]Record, error) {
	if err := c.ensureSession(ctx); err != nil {
		return nil, err
	}
	domain := []any{
		[]any{"move_type", "=", "out_invoice"},
	}
	return c.searchRead(ctx, "account.move", domain, invoiceFields, limit, offset, "write_date desc")
}

// FetchAllContacts pages through all contacts starting at offset 0. A page
// shorter than the page size (including an empty one) ends the run.
func (c *Client) FetchAllContacts(ctx context.Context) ([]Record, error) {
	return c.fetchAll(ctx, c.FetchContacts)
}

// FetchAllInvoices pages through all customer invoices.
func (c *Client) FetchAllInvoices(ctx context.Context) ([]Record, error) {
	return c.fetchAll(ctx, c.FetchInvoices)
}

func (c *Client) fetchAll(
	ctx context.Context,
	fetchPage func(ctx context.Context, limit, offset int) ([]Record, error),
) ([]Record, error) {
	all := make([]Record, 0)
	offset := 0
	limit := c.cfg.PageSize

	for {
		var page []Record
		err := retry.Retry(ctx, retry.DefaultConfig(), func() error {
			var fetchErr error
			page, fetchErr = fetchPage(ctx, limit, offset)
			return fetchErr
		})
		if err != nil {
			return nil, fmt.Errorf("fetch page at offset %d: %w", offset, err)
		}

		all = append(all, page...)

		if len(page) < limit {
			break
		}
		offset += limit
	}

	return all, nil
}

func (c *Client) post(ctx context.Context, url string, payload rpcRequest, sessionID string) (*http.Response, *rpcResponse, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: sessionID})
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var body rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, nil, fmt.Errorf("decode response: %w", err)
	}

	return resp, &body, nil
}
