package cli

import (
	stderrors "errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/tbeckers/floatdeck/pkg/grid"
)

// Editor cell glyphs. Two runes per cell keeps the plan roughly square
// in a terminal font.
const (
	glyphEmpty  = "··"
	glyphModule = "██"
	glyphGhost  = "▒▒"
)

var (
	editorCursorStyle = lipgloss.NewStyle().Reverse(true)
	editorWaterStyle  = lipgloss.NewStyle().Foreground(colorDim)
	editorMsgOK       = lipgloss.NewStyle().Foreground(colorGreen)
	editorMsgErr      = lipgloss.NewStyle().Foreground(colorRed)
)

// deckModel is the bubbletea model for the interactive layout editor.
// All edits go through the engine; the model only tracks the cursor,
// the placement palette, and the latest status message.
type deckModel struct {
	name string
	g    *grid.Grid
	save func(*grid.Grid) error

	cursor  grid.Position // cursor.Y is the visible level
	typ     grid.ModuleType
	color   grid.Color
	orient  grid.Orientation
	grabbed string // module id picked up for a move, empty otherwise

	dirty   bool
	message string
	failed  bool
}

// newDeckModel creates an editor for the named layout.
func newDeckModel(name string, g *grid.Grid, save func(*grid.Grid) error) deckModel {
	return deckModel{
		name:   name,
		g:      g,
		save:   save,
		typ:    grid.TypeCompact,
		color:  grid.ColorAzure,
		orient: grid.OrientationNorth,
	}
}

func (m deckModel) Init() tea.Cmd {
	return nil
}

func (m deckModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit

	case "up", "k":
		m.moveCursor(0, -1)
	case "down", "j":
		m.moveCursor(0, 1)
	case "left", "h":
		m.moveCursor(-1, 0)
	case "right", "l":
		m.moveCursor(1, 0)

	case "pgup", "+":
		if m.cursor.Y < m.g.Levels()-1 {
			m.cursor.Y++
		}
	case "pgdown", "-":
		if m.cursor.Y > 0 {
			m.cursor.Y--
		}

	case "t":
		if m.typ == grid.TypeCompact {
			m.typ = grid.TypeExtended
		} else {
			m.typ = grid.TypeCompact
		}
	case "c":
		m.color = m.color.Next()
	case "o":
		m.orient = m.orient.Rotated()

	case "enter", " ":
		m.apply()
	case "x", "backspace", "delete":
		m.removeAtCursor()
	case "g":
		m.grabAtCursor()
	case "r":
		m.rotateAtCursor()
	case "p":
		m.recolorAtCursor()

	case "s":
		if err := m.save(m.g); err != nil {
			m.setError("save failed: %v", err)
		} else {
			m.dirty = false
			m.setOK("saved %s", m.name)
		}
	}

	return m, nil
}

func (m *deckModel) moveCursor(dx, dz int) {
	x, z := m.cursor.X+dx, m.cursor.Z+dz
	if x >= 0 && x < m.g.Width() {
		m.cursor.X = x
	}
	if z >= 0 && z < m.g.Depth() {
		m.cursor.Z = z
	}
}

// apply places a new module at the cursor, or drops the grabbed one.
func (m *deckModel) apply() {
	if m.grabbed != "" {
		next, err := m.g.MoveModule(m.grabbed, m.cursor)
		if err != nil {
			m.setRejection(err)
			return
		}
		m.g = next
		m.dirty = true
		m.setOK("moved %s to %s", shortLabel(m.grabbed), m.cursor)
		m.grabbed = ""
		return
	}

	next, placed, err := m.g.PlaceModule(m.cursor, m.typ, m.color, m.orient)
	if err != nil {
		m.setRejection(err)
		return
	}
	m.g = next
	m.dirty = true
	m.setOK("placed %s %s at %s", placed.Color(), placed.Type(), placed.Position())
}

func (m *deckModel) removeAtCursor() {
	next, err := m.g.RemoveModuleAt(m.cursor)
	if err != nil {
		m.setError("%v", err)
		return
	}
	m.g = next
	m.dirty = true
	m.setOK("removed module at %s", m.cursor)
}

func (m *deckModel) grabAtCursor() {
	if m.grabbed != "" {
		m.grabbed = ""
		m.setOK("dropped grab")
		return
	}
	mod, ok := m.g.ModuleAt(m.cursor)
	if !ok {
		m.setError("no module at %s", m.cursor)
		return
	}
	m.grabbed = mod.ID()
	m.setOK("grabbed %s; enter drops it at the cursor", shortLabel(mod.ID()))
}

func (m *deckModel) rotateAtCursor() {
	mod, ok := m.g.ModuleAt(m.cursor)
	if !ok {
		m.setError("no module at %s", m.cursor)
		return
	}
	next, err := m.g.RotateModule(mod.ID(), mod.Orientation().Rotated())
	if err != nil {
		m.setRejection(err)
		return
	}
	m.g = next
	m.dirty = true
	m.setOK("rotated %s", shortLabel(mod.ID()))
}

func (m *deckModel) recolorAtCursor() {
	mod, ok := m.g.ModuleAt(m.cursor)
	if !ok {
		m.setError("no module at %s", m.cursor)
		return
	}
	next, err := m.g.RecolorModule(mod.ID(), mod.Color().Next())
	if err != nil {
		m.setError("%v", err)
		return
	}
	m.g = next
	m.dirty = true
	m.setOK("recolored %s", shortLabel(mod.ID()))
}

func (m *deckModel) setOK(format string, args ...any) {
	m.message = fmt.Sprintf(format, args...)
	m.failed = false
}

func (m *deckModel) setError(format string, args ...any) {
	m.message = fmt.Sprintf(format, args...)
	m.failed = true
}

// setRejection summarizes a validation failure on the status line.
func (m *deckModel) setRejection(err error) {
	var rej *grid.RejectionError
	if stderrors.As(err, &rej) {
		rules := make([]string, len(rej.Result.Violations))
		for i, v := range rej.Result.Violations {
			rules[i] = string(v.Rule)
		}
		m.setError("rejected: %s", strings.Join(rules, ", "))
		return
	}
	m.setError("%v", err)
}

func (m deckModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(fmt.Sprintf("%s — level %d/%d", m.name, m.cursor.Y, m.g.Levels()-1)))
	if m.dirty {
		b.WriteString(StyleWarning.Render(" *"))
	}
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("arrows move  +/- level  enter place/drop  g grab  x remove  r rotate  p recolor  t type  c color  o orient  s save  q quit"))
	b.WriteString("\n\n")

	for z := 0; z < m.g.Depth(); z++ {
		b.WriteString("  ")
		for x := 0; x < m.g.Width(); x++ {
			b.WriteString(m.renderCell(grid.Position{X: x, Y: m.cursor.Y, Z: z}))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n  ")
	b.WriteString(StyleDim.Render("next: "))
	b.WriteString(fmt.Sprintf("%s %s facing %s", colorSwatch(m.color), m.typ, m.orient))
	if m.grabbed != "" {
		b.WriteString(StyleWarning.Render(fmt.Sprintf("  [moving %s]", shortLabel(m.grabbed))))
	}
	b.WriteString("\n")

	if m.message != "" {
		style := editorMsgOK
		if m.failed {
			style = editorMsgErr
		}
		b.WriteString("  " + style.Render(m.message) + "\n")
	}

	return b.String()
}

// renderCell draws one cell of the current level.
func (m deckModel) renderCell(p grid.Position) string {
	glyph := glyphEmpty
	style := editorWaterStyle

	if mod, ok := m.g.ModuleAt(p); ok {
		glyph = glyphModule
		style = lipgloss.NewStyle().Foreground(moduleColors[mod.Color()])
		if mod.ID() == m.grabbed {
			glyph = glyphGhost
		}
	}

	if p.X == m.cursor.X && p.Z == m.cursor.Z {
		return editorCursorStyle.Render(glyph)
	}
	return style.Render(glyph)
}

// shortLabel truncates module identities for the status line.
func shortLabel(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}

// newEditCmd creates the edit command: interactive per-level editor.
func newEditCmd(r *run) *cobra.Command {
	return &cobra.Command{
		Use:   "edit [layout]",
		Short: "Edit a layout interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadLayout(cmd.Context(), r, args[0])
			if err != nil {
				return err
			}

			save := func(g *grid.Grid) error {
				return saveLayout(cmd.Context(), r, args[0], g)
			}
			model := newDeckModel(args[0], g, save)

			final, err := tea.NewProgram(model, tea.WithContext(cmd.Context())).Run()
			if err != nil {
				return err
			}
			if dm, ok := final.(deckModel); ok && dm.dirty {
				printWarning("unsaved changes discarded (use 's' in the editor to save)")
			}
			return nil
		},
	}
}
