// Package renderer draws the blank grid to a terminal.
//
// The renderer is responsible for:
//   - Drawing grid lines one rune per screen column
//   - Dimming directive text in place
//   - Showing block selections and secondary carets
//   - The status line with display settings and caret position
//   - Mapping directive configurations to themes (Display)
//
// Architecture:
//
//	┌─────────────────────────────────────────┐
//	│      Renderer (Facade) │ Display        │
//	├─────────────────────────────────────────┤
//	│  Viewport │ StatusLine │ Theme          │
//	├─────────────────────────────────────────┤
//	│           Backend Abstraction           │
//	├─────────────────────────────────────────┤
//	│  Terminal (tcell) │ Null (tests)        │
//	└─────────────────────────────────────────┘
//
// Usage:
//
//	term, _ := backend.NewTerminal()
//	display := renderer.NewDisplay()
//	display.Detect()
//	_ = term.Init()
//	r := renderer.New(term, display)
//	r.SetGrid(grid)
//	r.Render()
package renderer
