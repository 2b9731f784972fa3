package viz

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/gasviz/internal/config"
	"github.com/san-kum/gasviz/internal/dynamo"
	"github.com/san-kum/gasviz/internal/experiment"
	"github.com/san-kum/gasviz/internal/physics"
	"github.com/san-kum/gasviz/internal/storage"
)

func gasFactory(p dynamo.Params) (dynamo.Engine, error) {
	return physics.New(p)
}

func smallParams() *config.Params {
	p := config.DefaultParams()
	p.Particles = 150
	p.Buckets = 11
	p.Seed = 3
	return &p
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestApp(t *testing.T, opts Options) *App {
	t.Helper()
	if opts.Params == nil {
		opts.Params = smallParams()
	}
	if opts.Experiment == "" {
		opts.Experiment = "uniform"
	}
	a := NewApp(experiment.NewRegistry(), gasFactory, opts)
	if a.err != nil {
		t.Fatalf("app reset failed: %v", a.err)
	}
	return a
}

func TestAppStartsPaused(t *testing.T) {
	a := newTestApp(t, Options{})
	if !a.Session().Paused() {
		t.Error("expected a paused session after start")
	}

	a.Update(TickMsg{})
	if a.Session().Frame() != 0 {
		t.Errorf("paused app should not tick, frame=%d", a.Session().Frame())
	}
}

func TestAppTicksWhenRunning(t *testing.T) {
	a := newTestApp(t, Options{})
	a.Update(key(" "))
	if a.Session().Paused() {
		t.Fatal("space should resume")
	}

	for i := 0; i < 3; i++ {
		_, cmd := a.Update(TickMsg{})
		if cmd == nil {
			t.Fatal("tick should schedule the next tick")
		}
	}
	if a.Session().Frame() != 3 {
		t.Errorf("expected frame 3, got %d", a.Session().Frame())
	}
	if len(a.drift) != 3 {
		t.Errorf("expected 3 drift samples, got %d", len(a.drift))
	}
}

func TestAppResetKey(t *testing.T) {
	a := newTestApp(t, Options{})
	a.Update(key(" "))
	a.Update(TickMsg{})
	a.Update(key("r"))

	if a.Session().Frame() != 0 || !a.Session().Paused() {
		t.Errorf("reset should pause at frame 0, got frame %d paused %v", a.Session().Frame(), a.Session().Paused())
	}
	if a.Session().Params().Particles != 150 {
		t.Error("reset should keep the current params")
	}
}

func TestAppNextExperiment(t *testing.T) {
	a := newTestApp(t, Options{Experiment: "big_particles"})
	a.Update(key("n"))
	if a.exp.Name != "bullet" {
		t.Errorf("expected bullet after big_particles, got %s", a.exp.Name)
	}
	if a.Session().Params().Particles != 1000 {
		t.Errorf("next experiment should use its own params, got %d particles", a.Session().Params().Particles)
	}
}

func TestAppPicker(t *testing.T) {
	a := newTestApp(t, Options{})
	a.Update(key("e"))
	if a.picker == nil {
		t.Fatal("e should open the picker")
	}
	if !strings.Contains(a.View(), "EXPERIMENTS") {
		t.Error("picker view expected")
	}

	a.Update(tea.KeyMsg{Type: tea.KeyDown})
	a.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if a.picker != nil {
		t.Fatal("enter should close the picker")
	}
	if a.exp.Name != "uniform_central" {
		t.Errorf("expected uniform_central, got %s", a.exp.Name)
	}
}

func TestAppThemeCycle(t *testing.T) {
	a := newTestApp(t, Options{Theme: "paper"})
	a.Update(key("t"))
	if a.theme.Name != "phosphor" {
		t.Errorf("expected phosphor, got %s", a.theme.Name)
	}
	if a.charts[0].Background != "#001100" {
		t.Errorf("chart background not updated: %q", a.charts[0].Background)
	}
}

func TestAppBadParamsShowError(t *testing.T) {
	p := smallParams()
	p.Buckets = 0
	a := NewApp(experiment.NewRegistry(), gasFactory, Options{Experiment: "uniform", Params: p})
	if !errors.Is(a.err, config.ErrOutOfRange) {
		t.Fatalf("expected range error, got %v", a.err)
	}

	a.Update(key(" "))
	if !a.Session().Paused() {
		t.Error("a session without configuration must stay paused")
	}
	if !strings.Contains(a.View(), "buckets") {
		t.Error("error should be shown in the view")
	}
}

func TestAppUnknownExperiment(t *testing.T) {
	a := NewApp(experiment.NewRegistry(), gasFactory, Options{Experiment: "nope"})
	if a.err == nil {
		t.Error("expected unknown experiment error")
	}
	if !a.Session().Ready() {
		t.Error("app should fall back to the first experiment")
	}
}

func TestAppResize(t *testing.T) {
	a := newTestApp(t, Options{})
	a.Update(tea.WindowSizeMsg{Width: 200, Height: 60})
	if a.charts[0].Width != 60 || a.charts[0].Height != 24 {
		t.Errorf("unexpected chart size %dx%d", a.charts[0].Width, a.charts[0].Height)
	}
	a.Update(tea.WindowSizeMsg{Width: 10, Height: 5})
	if a.charts[0].Width != minChartCols || a.charts[0].Height != minChartRows {
		t.Errorf("charts should not shrink below the minimum, got %dx%d", a.charts[0].Width, a.charts[0].Height)
	}
}

func TestAppSave(t *testing.T) {
	dir := t.TempDir()
	st := storage.New(dir)
	a := newTestApp(t, Options{Store: st})
	a.Update(key("s"))
	if a.err != nil {
		t.Fatalf("save failed: %v", a.err)
	}
	runs, err := st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Errorf("expected 1 archived run, got %d", len(runs))
	}
}

func TestAppSaveWithoutStore(t *testing.T) {
	a := newTestApp(t, Options{})
	a.Update(key("s"))
	if a.info != "no archive configured" {
		t.Errorf("unexpected info %q", a.info)
	}
}

func TestAppQuit(t *testing.T) {
	a := newTestApp(t, Options{})
	_, cmd := a.Update(key("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestAppView(t *testing.T) {
	a := newTestApp(t, Options{})
	out := a.View()
	for _, want := range []string{"uniform", "PAUSED", "Distribution of v_x", "Averaged distr. of v_y"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
