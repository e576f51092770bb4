package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// PageData carries the full page state for the initial render.
type PageData struct {
	Editor    EditorData
	Warehouse WarehouseData
}

const pageStyle = `
body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; margin: 0; background: #f5f6f8; color: #1f2633; }
main { max-width: 1100px; margin: 0 auto; padding: 24px; }
h1 { font-size: 1.4rem; }
h2 { font-size: 1.1rem; margin-top: 32px; }
.card { background: #fff; border: 1px solid #dde1e7; border-radius: 8px; padding: 16px; margin-bottom: 16px; }
.toolbar { display: flex; gap: 8px; flex-wrap: wrap; margin: 12px 0; }
.settings { display: flex; gap: 16px; align-items: center; margin: 12px 0; }
.destination { display: flex; gap: 12px; flex-wrap: wrap; align-items: flex-end; }
.destination label { display: flex; flex-direction: column; font-size: 0.85rem; gap: 4px; }
button, .button { background: #1b62d6; color: #fff; border: 0; border-radius: 6px; padding: 8px 14px; cursor: pointer; text-decoration: none; font-size: 0.9rem; }
button.small { padding: 4px 8px; font-size: 0.8rem; background: #5a6475; }
table.preview { border-collapse: collapse; width: 100%; margin-top: 12px; }
table.preview th, table.preview td { border: 1px solid #dde1e7; padding: 4px 6px; }
table.preview th { background: #eef1f5; text-align: left; }
table.preview input { border: 0; width: 100%; min-width: 80px; font: inherit; background: transparent; }
tr.header-source { background: #fff7dd; }
.alert { border-radius: 6px; padding: 10px 14px; margin: 12px 0; }
.alert-error { background: #fdecec; border: 1px solid #e6a1a1; }
.alert-success { background: #e9f7ee; border: 1px solid #9fd4b0; }
.alert-warning { background: #fff7dd; border: 1px solid #e4cf8a; }
.alert-code { float: right; color: #7a8291; font-size: 0.8rem; }
.auth-badge { margin: 8px 0; font-size: 0.9rem; }
.auth-badge.ok { color: #1e7a3c; }
.auth-badge.failed { color: #b23030; }
.muted { color: #7a8291; }
.volume-path { margin: 10px 0; }
.col-actions { display: flex; gap: 6px; flex-wrap: wrap; margin-top: 8px; }
.col-actions form.inline { display: inline; }
.empty-state { color: #7a8291; padding: 24px 0; }
pre { background: #272c35; color: #e6e9ef; padding: 12px; border-radius: 6px; overflow-x: auto; }
`

const pageScript = `
async function applyTableEdits() {
  const table = document.getElementById('preview-table');
  if (!table) { return; }
  const columns = [];
  const seen = new Set();
  const rows = [];
  table.querySelectorAll('input[data-col]').forEach(function (inp) {
    const col = inp.dataset.col;
    if (!seen.has(col)) { seen.add(col); columns.push(col); }
    const idx = parseInt(inp.dataset.row, 10);
    while (rows.length <= idx) { rows.push({}); }
    rows[idx][col] = inp.value;
  });
  const resp = await fetch('/table', {
    method: 'POST',
    headers: { 'Content-Type': 'application/json', 'HX-Request': 'true' },
    body: JSON.stringify({ columns: columns, rows: rows })
  });
  const html = await resp.text();
  const editor = document.getElementById('editor');
  if (resp.ok) {
    editor.outerHTML = html;
    htmx.process(document.getElementById('editor'));
  } else {
    editor.insertAdjacentHTML('afterbegin', html);
  }
}
`

// Page renders the complete editor page.
func Page(data PageData) templ.Component {
	return component(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w,
			`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`+
				`<meta name="viewport" content="width=device-width, initial-scale=1">`+
				`<title>CSV to Delta</title>`+
				`<script src="https://unpkg.com/htmx.org@1.9.12"></script>`+
				`<style>`+pageStyle+`</style>`+
				`<script>`+pageScript+`</script>`+
				`</head><body><main>`+
				`<h1>CSV to Delta</h1>`+
				`<p class="muted">Upload a CSV, edit it in place, then push it to a Databricks volume and register it as a Delta table.</p>`); err != nil {
			return err
		}

		if _, err := io.WriteString(w,
			`<section class="card">`+
				`<form hx-post="/upload" hx-encoding="multipart/form-data" hx-target="#editor" hx-swap="outerHTML">`+
				`<input type="file" name="file" accept=".csv,text/csv" required>`+
				`<button type="submit">Upload</button>`+
				`</form></section>`+
				`<section class="card">`); err != nil {
			return err
		}

		if err := Editor(data.Editor).Render(ctx, w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `</section><section class="card">`); err != nil {
			return err
		}
		if err := WarehousePanel(data.Warehouse).Render(ctx, w); err != nil {
			return err
		}

		_, err := io.WriteString(w, `</section></main></body></html>`)
		return err
	})
}
