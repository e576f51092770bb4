package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"csv2delta/internal/core"
)

// EditorData carries everything the editor fragment needs to render.
type EditorData struct {
	Active    bool
	FileName  string
	Display   core.DisplaySnapshot
	UndoSteps int
	Settings  core.ParseSettings
	Warning   string
}

// Editor renders the editing surface: parse settings, the toolbar, and
// the preview table. It is the fragment HTMX swaps into #editor after
// every mutation.
func Editor(data EditorData) templ.Component {
	return component(func(ctx context.Context, w io.Writer) error {
		if !data.Active {
			_, err := io.WriteString(w,
				`<div id="editor"><p class="empty-state">Upload a CSV file to begin editing.</p></div>`)
			return err
		}

		if _, err := fmt.Fprintf(w,
			`<div id="editor"><div class="file-info">Editing <strong>%s</strong></div>`,
			esc(data.FileName)); err != nil {
			return err
		}

		if data.Warning != "" {
			if err := WarningAlert(data.Warning).Render(ctx, w); err != nil {
				return err
			}
		}

		if err := settingsForm(w, data.Settings); err != nil {
			return err
		}
		if err := toolbar(w, data.UndoSteps); err != nil {
			return err
		}
		if err := previewTable(w, data.Display); err != nil {
			return err
		}

		_, err := io.WriteString(w, `</div>`)
		return err
	})
}

func settingsForm(w io.Writer, settings core.ParseSettings) error {
	if _, err := io.WriteString(w,
		`<form class="settings" hx-post="/settings" hx-target="#editor" hx-swap="outerHTML">`+
			`<label>Delimiter <select name="delimiter">`); err != nil {
		return err
	}

	options := []struct {
		value rune
		name  string
		label string
	}{
		{',', ",", "Comma (,)"},
		{';', ";", "Semicolon (;)"},
		{'\t', "tab", "Tab"},
		{'|', "|", "Pipe (|)"},
	}
	for _, opt := range options {
		selected := ""
		if settings.Delimiter == opt.value {
			selected = " selected"
		}
		if _, err := fmt.Fprintf(w, `<option value=%q%s>%s</option>`,
			opt.name, selected, esc(opt.label)); err != nil {
			return err
		}
	}

	checked := ""
	if settings.HeaderFirstRow {
		checked = " checked"
	}
	_, err := fmt.Fprintf(w,
		`</select></label>`+
			`<label><input type="checkbox" name="header" value="true"%s> First row is header</label>`+
			`<button type="submit">Apply settings</button>`+
			`</form>`, checked)
	return err
}

func toolbar(w io.Writer, undoSteps int) error {
	undoLabel := fmt.Sprintf("Undo (%d)", undoSteps)
	_, err := fmt.Fprintf(w,
		`<div class="toolbar">`+
			`<button hx-post="/rows" hx-target="#editor" hx-swap="outerHTML">Add row</button>`+
			`<button hx-post="/columns" hx-target="#editor" hx-swap="outerHTML">Add column</button>`+
			`<button onclick="applyTableEdits()">Save edits</button>`+
			`<button hx-post="/undo" hx-target="#editor" hx-swap="outerHTML">%s</button>`+
			`<button hx-post="/revert" hx-target="#editor" hx-swap="outerHTML">Revert to original</button>`+
			`<button hx-post="/remove" hx-target="#editor" hx-swap="outerHTML" `+
			`hx-confirm="Remove the uploaded file and all edits?">Remove file</button>`+
			`<a class="button" href="/export">Export CSV</a>`+
			`</div>`, undoLabel)
	return err
}

func previewTable(w io.Writer, display core.DisplaySnapshot) error {
	if _, err := io.WriteString(w, `<table class="preview" id="preview-table"><thead><tr>`); err != nil {
		return err
	}
	for _, name := range display.HeaderNames {
		if _, err := fmt.Fprintf(w, `<th>%s</th>`, esc(name)); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, `<th class="row-actions"></th></tr></thead><tbody>`); err != nil {
		return err
	}

	for i, row := range display.BodyRows {
		rowClass := ""
		if i == 0 && display.HeaderSourceRowRetained {
			rowClass = ` class="header-source"`
		}
		if _, err := fmt.Fprintf(w, `<tr%s>`, rowClass); err != nil {
			return err
		}
		for _, col := range display.Columns {
			if _, err := fmt.Fprintf(w,
				`<td><input type="text" data-row="%d" data-col="%s" value="%s"></td>`,
				i, esc(col), esc(row[col])); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `<td class="row-actions"></td></tr>`); err != nil {
			return err
		}
	}

	if _, err := io.WriteString(w, `</tbody></table><div class="col-actions">`); err != nil {
		return err
	}
	for _, col := range display.Columns {
		if _, err := fmt.Fprintf(w,
			`<form hx-post="/columns/delete" hx-target="#editor" hx-swap="outerHTML" class="inline">`+
				`<input type="hidden" name="name" value="%s">`+
				`<button type="submit" class="small">Delete %s</button></form>`,
			esc(col), esc(col)); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, `</div>`)
	return err
}
