package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/circles/internal/metrics"
	"github.com/san-kum/circles/internal/scene"
)

const (
	canvasWidth     = 60
	canvasHeight    = 24
	historyCapacity = 600
	moveStep        = 1
	resizeStep      = 1
	tickRate        = time.Second / 10
)

type TickMsg time.Time

// Model is the viewer state. The initial scene is kept so the layout can
// be reset and its steps replayed.
type Model struct {
	sc        scene.Scene
	world     *scene.World
	frame     scene.Frame
	frames    int
	next      int
	selected  int
	playing   bool
	err       error
	canvas    *Canvas
	theme     int
	styles    styles
	clearance []float64
}

// NewModel fails when the scene's bodies cannot be built, for example on a
// negative radius.
func NewModel(sc scene.Scene) (Model, error) {
	w, err := scene.NewWorld(sc.Bodies)
	if err != nil {
		return Model{}, err
	}
	m := Model{
		sc:        sc,
		world:     w,
		canvas:    NewCanvas(canvasWidth, canvasHeight),
		styles:    newStyles(Themes[0]),
		clearance: make([]float64, 0, historyCapacity),
	}
	m.refresh()
	return m, nil
}

// WithTheme returns m using the named theme. Unknown names fall back to
// the first theme.
func (m Model) WithTheme(name string) Model {
	t := GetTheme(name)
	for i := range Themes {
		if Themes[i].Name == t.Name {
			m.theme = i
		}
	}
	m.styles = newStyles(t)
	return m
}

func tick() tea.Cmd {
	return tea.Tick(tickRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles input events and advances playback.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		name := m.world.Names()[m.selected]
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "left", "h":
			m.apply(scene.Mutation{Body: name, Op: scene.OpTranslate, X: -moveStep})
		case "right", "l":
			m.apply(scene.Mutation{Body: name, Op: scene.OpTranslate, X: moveStep})
		case "up", "k":
			m.apply(scene.Mutation{Body: name, Op: scene.OpTranslate, Y: moveStep})
		case "down", "j":
			m.apply(scene.Mutation{Body: name, Op: scene.OpTranslate, Y: -moveStep})
		case "+", "=":
			m.resize(name, resizeStep)
		case "-", "_":
			m.resize(name, -resizeStep)
		case "tab":
			m.selected = (m.selected + 1) % m.world.Len()
		case "n":
			m.advance()
		case " ":
			m.playing = !m.playing
		case "t":
			m.theme = (m.theme + 1) % len(Themes)
			m.styles = newStyles(Themes[m.theme])
		case "r":
			m.reset()
		}
	case TickMsg:
		if m.playing {
			m.advance()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) apply(mut scene.Mutation) {
	m.err = m.world.Apply(mut)
	m.refresh()
}

func (m *Model) resize(name string, delta float32) {
	c, _ := m.world.Circle(name)
	m.apply(scene.Mutation{Body: name, Op: scene.OpResize, R: c.Radius() + delta})
}

// advance applies the next scene step. Playback stops at the end or on
// the first failing mutation.
func (m *Model) advance() {
	if m.next >= len(m.sc.Steps) {
		m.playing = false
		return
	}
	step := m.next
	m.next++
	m.err = nil
	for _, mut := range m.sc.Steps[step].Mutations {
		if err := m.world.Apply(mut); err != nil {
			m.err = &scene.StepError{Step: step, Body: mut.Body, Wrapped: err}
			m.playing = false
			break
		}
	}
	m.refresh()
}

// reset restores the initial layout.
func (m *Model) reset() {
	w, err := scene.NewWorld(m.sc.Bodies)
	if err != nil {
		m.err = err
		return
	}
	m.world = w
	m.next = 0
	m.frames = 0
	m.playing = false
	m.err = nil
	m.clearance = m.clearance[:0]
	m.refresh()
}

// refresh re-evaluates all pairs and records the tightest clearance.
func (m *Model) refresh() {
	m.frame = m.world.Frame(m.frames)
	m.frames++
	if len(m.frame.Contacts) == 0 {
		return
	}
	tightest := math.Inf(1)
	for _, c := range m.frame.Contacts {
		tightest = math.Min(tightest, metrics.Clearance(c))
	}
	m.clearance = append(m.clearance, tightest)
	if len(m.clearance) > historyCapacity {
		m.clearance = m.clearance[1:]
	}
}

func (m Model) Frame() scene.Frame { return m.frame }
func (m Model) Selected() string   { return m.world.Names()[m.selected] }
func (m Model) Err() error         { return m.err }
func (m Model) Playing() bool      { return m.playing }

// draw projects the current bodies onto the canvas, keeping aspect ratio.
func (m *Model) draw() {
	m.canvas.Clear()
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, b := range m.frame.Bodies {
		x, y, r := float64(b.X), float64(b.Y), float64(b.R)
		minX, maxX = math.Min(minX, x-r), math.Max(maxX, x+r)
		minY, maxY = math.Min(minY, y-r), math.Max(maxY, y+r)
	}
	spanX, spanY := (maxX-minX)*1.1, (maxY-minY)*1.1
	cw, ch := float64(m.canvas.Width*2), float64(m.canvas.Height*4)
	scale := math.Min(cw/math.Max(spanX, 1e-9), ch/math.Max(spanY, 1e-9))
	if math.IsInf(scale, 0) || math.IsNaN(scale) || scale > 1e6 {
		scale = 1
	}
	midX, midY := (minX+maxX)/2, (minY+maxY)/2
	project := func(x, y float64) (int, int) {
		return int(math.Round(cw/2 + (x-midX)*scale)), int(math.Round(ch/2 - (y-midY)*scale))
	}

	for i, b := range m.frame.Bodies {
		px, py := project(float64(b.X), float64(b.Y))
		m.canvas.DrawCircle(px, py, int(math.Round(float64(b.R)*scale)))
		if i == m.selected {
			m.canvas.DrawCross(px, py)
		}
	}
}

// View renders the canvas and the side panel.
func (m Model) View() string {
	m.draw()
	st := m.styles
	var s strings.Builder

	title := m.sc.Name
	if title == "" {
		title = "scene"
	}
	s.WriteString(st.header.Render(strings.ToUpper(title)) + "\n")

	status := "PAUSED"
	if m.playing {
		status = "PLAYING"
	}
	s.WriteString(st.label.Render("Status") + st.value.Render(status) + "\n")
	s.WriteString(st.label.Render("Step") + st.value.Render(fmt.Sprintf("%d/%d", m.next, len(m.sc.Steps))) + "\n\n")

	s.WriteString("BODIES\n")
	for i, b := range m.frame.Bodies {
		line := fmt.Sprintf("%-8s (%.1f, %.1f) r=%.1f", b.Name, b.X, b.Y, b.R)
		if i == m.selected {
			s.WriteString(st.selected.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + st.value.Render(line) + "\n")
		}
	}

	s.WriteString("\nPAIRS\n")
	if len(m.frame.Contacts) == 0 {
		s.WriteString(st.label.Render("  (none)") + "\n")
	}
	for _, c := range m.frame.Contacts {
		rel := st.relation[c.Relation].Render(fmt.Sprintf("%-9s", c.Relation))
		s.WriteString(fmt.Sprintf("  %s-%s %s gap %.2f\n", c.A, c.B, rel, metrics.Clearance(c)))
	}

	if len(m.clearance) > 1 {
		chart := asciigraph.Plot(m.clearance, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Clearance"))
		s.WriteString(st.graph.Render(chart) + "\n")
	}

	if m.err != nil {
		s.WriteString("\n" + st.errorMsg.Render(m.err.Error()) + "\n")
	}

	s.WriteString(st.help.Render("←↓↑→:Move +/-:Size Tab:Select\nN:Step SP:Play T:Theme R:Reset Q:Quit"))

	canvasView := st.canvas.Render(m.canvas.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, st.panel.Render(s.String()))
}
