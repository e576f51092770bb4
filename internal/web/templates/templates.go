// Package templates holds the templ components for the CSV editor UI.
// Components are written directly against the templ runtime; the page
// shell renders once and HTMX swaps the editor and warehouse fragments
// in place as the user works.
package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// esc escapes a string for safe embedding in HTML text or attribute
// values.
func esc(s string) string {
	return templ.EscapeString(s)
}

// component wraps a render function as a templ.Component.
func component(fn func(ctx context.Context, w io.Writer) error) templ.Component {
	return templ.ComponentFunc(fn)
}

// ErrorAlert renders an error banner with the user-facing message, a
// suggested action, and the error code for support reference.
func ErrorAlert(message, action, code string) templ.Component {
	return component(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w,
			`<div class="alert alert-error" role="alert"><strong>%s</strong>`,
			esc(message)); err != nil {
			return err
		}
		if action != "" {
			if _, err := fmt.Fprintf(w, `<p>%s</p>`, esc(action)); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintf(w, `<span class="alert-code">%s</span></div>`, esc(code))
		return err
	})
}

// SuccessAlert renders a success banner.
func SuccessAlert(message string) templ.Component {
	return component(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<div class="alert alert-success" role="status">%s</div>`, esc(message))
		return err
	})
}

// WarningAlert renders a non-fatal notice, used for no-op outcomes such
// as undoing with an empty history.
func WarningAlert(message string) templ.Component {
	return component(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<div class="alert alert-warning" role="status">%s</div>`, esc(message))
		return err
	})
}
