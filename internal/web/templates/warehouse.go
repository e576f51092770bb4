package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"csv2delta/internal/core"
)

// WarehouseData carries the destination form state for the warehouse
// panel.
type WarehouseData struct {
	Catalog   string
	Schema    string
	Volume    string
	FileName  string
	TableName string
	Auth      core.AuthStatus
}

// WarehousePanel renders the push-to-volume and table registration
// section below the editor.
func WarehousePanel(data WarehouseData) templ.Component {
	return component(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<div id="warehouse"><h2>Push to Databricks</h2>`); err != nil {
			return err
		}
		if err := AuthBadge(data.Auth).Render(ctx, w); err != nil {
			return err
		}

		if _, err := fmt.Fprintf(w,
			`<form class="destination">`+
				`<label>Catalog <input type="text" name="catalog" value="%s" `+
				`hx-get="/api/volume-path" hx-include="closest form" hx-target="#volume-path" hx-trigger="change"></label>`+
				`<label>Schema <input type="text" name="schema" value="%s" `+
				`hx-get="/api/volume-path" hx-include="closest form" hx-target="#volume-path" hx-trigger="change"></label>`+
				`<label>Volume <input type="text" name="volume" value="%s" `+
				`hx-get="/api/volume-path" hx-include="closest form" hx-target="#volume-path" hx-trigger="change"></label>`+
				`<label>File name <input type="text" name="filename" value="%s" placeholder="%s"></label>`+
				`<label>Table name <input type="text" name="table" value="%s"></label>`,
			esc(data.Catalog), esc(data.Schema), esc(data.Volume),
			esc(data.FileName), esc(core.DefaultUploadFileName), esc(data.TableName)); err != nil {
			return err
		}

		if err := VolumePathLabel(core.VolumePath(data.Catalog, data.Schema, data.Volume)).Render(ctx, w); err != nil {
			return err
		}

		_, err := io.WriteString(w,
			`<div class="toolbar">`+
				`<button hx-post="/api/push" hx-include="closest form" hx-target="#warehouse-status">Push file to volume</button>`+
				`<button hx-post="/api/sql/generate" hx-include="closest form" hx-target="#sql-preview">Generate SQL</button>`+
				`</div></form>`+
				`<div id="sql-preview"></div>`+
				`<div id="warehouse-status"></div>`+
				`</div>`)
		return err
	})
}

// VolumePathLabel shows the volume path that the destination fields
// currently resolve to.
func VolumePathLabel(path string) templ.Component {
	return component(func(ctx context.Context, w io.Writer) error {
		if path == "" {
			_, err := io.WriteString(w,
				`<div id="volume-path" class="volume-path muted">Fill in catalog, schema, and volume to see the target path.</div>`)
			return err
		}
		_, err := fmt.Fprintf(w,
			`<div id="volume-path" class="volume-path"><code>%s</code></div>`, esc(path))
		return err
	})
}

// AuthBadge shows the warehouse authentication state. Authentication is
// attempted on first use, so the badge starts out neutral.
func AuthBadge(status core.AuthStatus) templ.Component {
	return component(func(ctx context.Context, w io.Writer) error {
		switch {
		case !status.Attempted:
			_, err := io.WriteString(w,
				`<div class="auth-badge muted">Warehouse connection not yet attempted.</div>`)
			return err
		case status.Connected:
			_, err := io.WriteString(w,
				`<div class="auth-badge ok">Connected to Databricks.</div>`)
			return err
		default:
			_, err := fmt.Fprintf(w,
				`<div class="auth-badge failed">Warehouse connection failed: %s</div>`, esc(status.Error))
			return err
		}
	})
}

// SQLPreview shows a generated CREATE TABLE statement with an execute
// button, so the user can review the SQL before it runs.
func SQLPreview(statement, tableName string) templ.Component {
	return component(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<div id="sql-preview"><h3>Generated SQL for <code>%s</code></h3>`+
				`<pre>%s</pre>`+
				`<button hx-post="/api/sql/execute" hx-target="#warehouse-status">Execute</button>`+
				`</div>`,
			esc(tableName), esc(statement))
		return err
	})
}

// PushOutcome reports a completed volume push.
func PushOutcome(result *core.PushResult) templ.Component {
	return SuccessAlert(fmt.Sprintf("Pushed %s (%d bytes) to %s", result.FileName, result.Bytes, result.Path))
}

// RegistrationOutcome reports a completed table registration.
func RegistrationOutcome(result *core.RegistrationResult) templ.Component {
	return SuccessAlert(fmt.Sprintf("Delta table %s registered.", result.TableName))
}
