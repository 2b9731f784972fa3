package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/gasviz/internal/chart"
	"github.com/san-kum/gasviz/internal/config"
	"github.com/san-kum/gasviz/internal/experiment"
	"github.com/san-kum/gasviz/internal/pipeline"
	"github.com/san-kum/gasviz/internal/storage"
)

const (
	chartCols     = 36
	chartRows     = 12
	minChartCols  = 24
	maxChartCols  = 60
	minChartRows  = 8
	maxChartRows  = 24
	particleCols  = 24
	particleRows  = 12
	sidePanelCols = 46
	driftCapacity = 300
)

type TickMsg time.Time

// Options configure an App. Zero values take defaults.
type Options struct {
	Experiment  string
	Params      *config.Params
	Theme       string
	FPS         int
	Store       *storage.Store
	Logger      log.Logger
	Instruments pipeline.Instruments
}

// App is the bubbletea model of the live view. It owns the session and is
// the only caller of Tick.
type App struct {
	session  *pipeline.Session
	registry *experiment.Registry
	store    *storage.Store
	logger   log.Logger

	exp    experiment.Experiment
	params config.Params

	theme     Theme
	st        styles
	charts    [4]*ChartCanvas
	particles *Canvas
	interval  time.Duration

	showParticles bool
	showHelp      bool
	picker        *picker

	drift []float64
	info  string
	err   error
}

// NewApp resets a session for the chosen experiment. A failed reset is
// reported in the info line rather than returned, so the user can pick
// another experiment.
func NewApp(reg *experiment.Registry, factory pipeline.EngineFactory, opts Options) *App {
	if opts.Logger == nil {
		opts.Logger = log.NewNopLogger()
	}
	if opts.FPS <= 0 {
		opts.FPS = config.DefaultFPS
	}
	theme := GetTheme(opts.Theme)

	a := &App{
		registry:      reg,
		store:         opts.Store,
		logger:        opts.Logger,
		theme:         theme,
		st:            newStyles(theme),
		particles:     NewCanvas(particleCols, particleRows),
		interval:      time.Second / time.Duration(opts.FPS),
		showParticles: true,
	}
	for i := range a.charts {
		a.charts[i] = NewChartCanvas(chartCols, chartRows)
		a.charts[i].Background = chart.Color(theme.ChartBack)
	}

	a.session = pipeline.New(factory,
		pipeline.Surfaces{Vx: a.charts[0], Vy: a.charts[1], AvgVx: a.charts[2], AvgVy: a.charts[3]},
		pipeline.WithLogger(opts.Logger),
		pipeline.WithInstruments(opts.Instruments),
		pipeline.WithPalette(theme.Charts),
	)

	name := opts.Experiment
	if name == "" {
		name = config.DefaultExperiment
	}
	exp, lookupErr := reg.Get(name)
	if lookupErr != nil {
		exp = reg.Next("")
	}
	p := exp.Params
	if opts.Params != nil {
		p = *opts.Params
	}
	a.reset(exp, p)
	if lookupErr != nil && a.err == nil {
		a.err = lookupErr
	}
	return a
}

// Session exposes the driven session, mainly for tests.
func (a *App) Session() *pipeline.Session { return a.session }

func (a *App) reset(exp experiment.Experiment, p config.Params) {
	a.exp, a.params = exp, p
	a.drift = a.drift[:0]
	if err := a.session.Reset(exp, p); err != nil {
		a.err = err
		a.info = ""
		return
	}
	a.err = nil
	a.info = fmt.Sprintf("loaded %s", exp.Name)
}

func (a *App) tick() tea.Cmd {
	return tea.Tick(a.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (a *App) Init() tea.Cmd {
	return a.tick()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if a.picker != nil {
			name, done := a.picker.key(msg)
			if done {
				a.picker = nil
			}
			if name != "" {
				if exp, err := a.registry.Get(name); err == nil {
					a.reset(exp, exp.Params)
				}
			}
			return a, nil
		}
		return a.handleKey(msg)

	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)

	case TickMsg:
		if !a.session.Paused() {
			a.step()
		}
		return a, a.tick()
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case " ":
		if a.session.Ready() {
			a.session.TogglePause()
		}
	case "r":
		a.reset(a.exp, a.params)
	case "n":
		next := a.registry.Next(a.exp.Name)
		a.reset(next, next.Params)
	case "e":
		a.picker = newPicker(a.registry, a.exp.Name)
	case "t":
		a.setTheme(NextTheme(a.theme.Name))
	case "v":
		a.showParticles = !a.showParticles
	case "s":
		a.save()
	case "?":
		a.showHelp = !a.showHelp
	}
	return a, nil
}

// step runs one session tick. Errors pause the session.
func (a *App) step() {
	drawn, err := a.session.Tick()
	if err != nil {
		a.err = err
		a.session.Pause()
		level.Error(a.logger).Log("msg", "tick failed", "err", err)
		return
	}
	if drawn {
		a.drift = append(a.drift, a.session.EnergyDrift())
		if len(a.drift) > driftCapacity {
			a.drift = a.drift[1:]
		}
	}
}

func (a *App) setTheme(t Theme) {
	a.theme = t
	a.st = newStyles(t)
	for _, c := range a.charts {
		c.Background = chart.Color(t.ChartBack)
	}
	if err := a.session.SetPalette(t.Charts); err != nil {
		a.err = err
	}
}

func (a *App) save() {
	if a.store == nil {
		a.info = "no archive configured"
		return
	}
	if !a.session.Ready() {
		return
	}
	id, err := a.store.Save(storage.Capture(a.session))
	if err != nil {
		a.err = err
		level.Error(a.logger).Log("msg", "save failed", "err", err)
		return
	}
	a.info = "saved " + id
	level.Info(a.logger).Log("msg", "snapshot saved", "id", id)
}

// resize fits the 2x2 chart grid next to the side panel. Charts keep drawing
// on the same surfaces, so a redraw is enough.
func (a *App) resize(width, height int) {
	cols := min(max((width-sidePanelCols-4)/2, minChartCols), maxChartCols)
	rows := min(max((height-4)/2, minChartRows), maxChartRows)
	if cols == a.charts[0].Width && rows == a.charts[0].Height {
		return
	}
	for _, c := range a.charts {
		c.Resize(cols, rows)
	}
	if err := a.session.SetPalette(a.theme.Charts); err != nil {
		a.err = err
	}
}

func (a *App) drawParticles() bool {
	ps, radius, ok := a.session.Particles()
	if !ok {
		return false
	}
	c := a.particles
	c.Clear()
	c.Background = chart.Color(a.theme.ChartBack)

	w, h := float64(c.SubWidth()-1), float64(c.SubHeight()-1)
	col := chart.Color(a.theme.Particle)
	dots := int(math.Ceil(radius * w))
	for _, p := range ps {
		x := int(math.Round(p.X * w))
		y := int(math.Round((1 - p.Y) * h))
		c.Set(x, y, col)
		if dots > 1 {
			for dx := -dots / 2; dx <= dots/2; dx++ {
				c.Set(x+dx, y, col)
			}
		}
	}
	return true
}

func (a *App) View() string {
	if a.picker != nil {
		return a.picker.view(a.registry, a.st)
	}

	top := lipgloss.JoinHorizontal(lipgloss.Top, a.charts[0].Render(), " ", a.charts[1].Render())
	bottom := lipgloss.JoinHorizontal(lipgloss.Top, a.charts[2].Render(), " ", a.charts[3].Render())
	grid := lipgloss.JoinVertical(lipgloss.Left, top, "", bottom)

	main := lipgloss.JoinHorizontal(lipgloss.Top, grid, "  ", a.sidePanel())
	if a.showHelp {
		return a.st.panel.Render(helpText) + "\n" + main
	}
	return main
}

const helpText = `KEYBOARD SHORTCUTS

  Space  pause / resume
  R      reset experiment
  N      next experiment
  E      experiment menu
  T      cycle themes
  V      toggle particle view
  S      save snapshot
  ?      toggle this help
  Q      quit`

func (a *App) sidePanel() string {
	var s strings.Builder

	title := GradientText("GASVIZ", chart.Color(a.theme.Primary), chart.Color(a.theme.Accent))
	s.WriteString(a.st.header.Render(title+"  "+a.exp.Name) + "\n")
	s.WriteString(a.st.keyHint.Render(a.exp.Description) + "\n\n")

	status := a.st.running.Render("RUNNING")
	if a.session.Paused() {
		status = a.st.paused.Render("PAUSED")
	}
	s.WriteString(status + "\n\n")

	p := a.params
	sc := a.session.Scale()
	rows := [][2]string{
		{"Frame", fmt.Sprintf("%d", a.session.Frame())},
		{"Particles", fmt.Sprintf("%d", p.Particles)},
		{"Δt", fmt.Sprintf("%g", p.DeltaTime)},
		{"Radius", fmt.Sprintf("%g", p.ParticleRadius)},
		{"Buckets", fmt.Sprintf("%d", p.Buckets)},
		{"Width", fmt.Sprintf("±%g", p.HistogramWidth)},
		{"Delay", fmt.Sprintf("%d", p.HistogramDelay)},
		{"Weight", fmt.Sprintf("%d", p.AveragingWeight)},
		{"Height", fmt.Sprintf("%d (grid %d)", sc.Height, sc.GridStep)},
		{"Drift", fmt.Sprintf("%.2e", a.session.EnergyDrift())},
	}
	for _, r := range rows {
		s.WriteString(a.st.label.Render(r[0]) + a.st.value.Render(r[1]) + "\n")
	}

	if p.AveragingWeight > 0 {
		warm := float64(a.session.Frame()) / float64(p.AveragingWeight)
		s.WriteString(a.st.label.Render("Averaging") + a.st.ProgressBar(math.Min(warm, 1), 20) + "\n")
	}

	if len(a.drift) > 1 {
		plot := asciigraph.Plot(a.drift, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("energy drift"))
		s.WriteString("\n" + a.st.graph.Render(plot) + "\n")
	}

	if a.showParticles && a.drawParticles() {
		s.WriteString("\n" + a.particles.Render() + "\n")
	}

	s.WriteString("\n")
	if a.err != nil {
		s.WriteString(a.st.errLine.Render(a.err.Error()) + "\n")
	} else if a.info != "" {
		s.WriteString(a.st.keyHint.Render(a.info) + "\n")
	}
	s.WriteString(a.st.Separator(30) + "\n")
	s.WriteString(a.st.keyHint.Render("SP:Pause R:Reset N:Next E:Menu\nT:Theme V:Particles S:Save ?:Help Q:Quit"))

	return a.st.panel.Width(sidePanelCols).Render(s.String())
}
