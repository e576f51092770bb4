// Package warehouse implements the Databricks side of the uploader: the
// volume file push (Files API) and CREATE TABLE execution (Statement
// Execution API), behind a lazily authenticated client.
package warehouse

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"csv2delta/internal/core"

	"github.com/databricks/databricks-sdk-go"
	"github.com/databricks/databricks-sdk-go/service/files"
	"github.com/databricks/databricks-sdk-go/service/sql"
)

// Config carries the Databricks connection settings.
type Config struct {
	// Host is the workspace URL.
	Host string

	// Token is a personal access token. May be empty inside a
	// Databricks Apps environment where the SDK resolves credentials
	// from the runtime.
	Token string

	// HTTPPath is the SQL warehouse HTTP path, e.g.
	// /sql/1.0/warehouses/abcd1234567890ef.
	HTTPPath string
}

// WarehouseID extracts the warehouse identifier from HTTPPath.
func (c Config) WarehouseID() string {
	p := strings.TrimRight(c.HTTPPath, "/")
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return p[i+1:]
	}
	return p
}

// Client is the warehouse capability handed to core.Service. It
// authenticates lazily on first use and at most once per process: after
// a failed attempt every later call reports the same error instead of
// retrying, mirroring how the uploader treats warehouse auth as a
// process-lifetime decision.
type Client struct {
	cfg Config

	mu        sync.Mutex
	attempted bool
	authErr   error
	ws        *databricks.WorkspaceClient
}

var _ core.Warehouse = (*Client)(nil)

// NewClient creates a Client. No network or auth work happens until the
// first warehouse operation.
func NewClient(cfg Config) *Client {
	return &Client{cfg: cfg}
}

// workspace returns the authenticated SDK client, performing the single
// authentication attempt if it has not happened yet.
func (c *Client) workspace() (*databricks.WorkspaceClient, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ws != nil {
		return c.ws, nil
	}
	if c.attempted {
		return nil, c.authErr
	}
	c.attempted = true

	slog.Info("authenticating with databricks", "host", c.cfg.Host)

	ws, err := databricks.NewWorkspaceClient(&databricks.Config{
		Host:  c.cfg.Host,
		Token: c.cfg.Token,
	})
	if err != nil {
		c.authErr = fmt.Errorf("databricks authentication: %w", err)
		slog.Warn("databricks authentication failed", "error", err)
		return nil, c.authErr
	}

	c.ws = ws
	slog.Info("databricks authentication succeeded")
	return ws, nil
}

// Status reports the authentication state for the UI's connection
// banner.
func (c *Client) Status() core.AuthStatus {
	c.mu.Lock()
	defer c.mu.Unlock()

	status := core.AuthStatus{
		Attempted: c.attempted,
		Connected: c.ws != nil,
	}
	if c.authErr != nil {
		status.Error = c.authErr.Error()
	}
	return status
}

// UploadFile writes data to a Unity Catalog volume path, overwriting
// any existing file.
func (c *Client) UploadFile(ctx context.Context, path string, data []byte) error {
	ws, err := c.workspace()
	if err != nil {
		return err
	}

	return ws.Files.Upload(ctx, files.UploadRequest{
		FilePath:  path,
		Contents:  io.NopCloser(bytes.NewReader(data)),
		Overwrite: true,
	})
}

// ExecuteStatement runs one SQL statement on the configured warehouse,
// waiting synchronously for the result. Non-success terminal states are
// reported as errors with the warehouse's message.
func (c *Client) ExecuteStatement(ctx context.Context, statement string) (string, error) {
	ws, err := c.workspace()
	if err != nil {
		return "", err
	}

	warehouseID := c.cfg.WarehouseID()
	if warehouseID == "" {
		return "", fmt.Errorf("warehouse ID is not configured; set DATABRICKS_HTTP_PATH")
	}

	resp, err := ws.StatementExecution.ExecuteStatement(ctx, sql.ExecuteStatementRequest{
		WarehouseId: warehouseID,
		Statement:   statement,
		WaitTimeout: "50s",
	})
	if err != nil {
		return "", err
	}

	if resp.Status != nil && resp.Status.State != sql.StatementStateSucceeded {
		msg := string(resp.Status.State)
		if resp.Status.Error != nil && resp.Status.Error.Message != "" {
			msg = resp.Status.Error.Message
		}
		return resp.StatementId, fmt.Errorf("statement %s: %s", resp.StatementId, msg)
	}

	return resp.StatementId, nil
}
