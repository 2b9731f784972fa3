package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/gasviz/internal/analysis"
	"github.com/san-kum/gasviz/internal/config"
	"github.com/san-kum/gasviz/internal/export"
)

const (
	metadataFile  = "metadata.json"
	bucketsFile   = "buckets.csv"
	chartsFile    = "charts.png"
	particlesFile = "particles.svg"
)

// Store archives snapshots, one directory per run.
type Store struct {
	baseDir     string
	chartWidth  int
	chartHeight int
}

func New(baseDir string) *Store {
	return &Store{
		baseDir:     baseDir,
		chartWidth:  config.DefaultChartWidth,
		chartHeight: config.DefaultChartHeight,
	}
}

// WithChartSize sets the size of every archived chart.
func (s *Store) WithChartSize(width, height int) *Store {
	s.chartWidth, s.chartHeight = width, height
	return s
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string           `json:"id"`
	Experiment string           `json:"experiment"`
	Timestamp  time.Time        `json:"timestamp"`
	Params     config.Params    `json:"params"`
	Frames     int              `json:"frames"`
	Height     int              `json:"display_height"`
	GridStep   int              `json:"grid_step"`
	Drift      float64          `json:"energy_drift"`
	MomentsVx  analysis.Summary `json:"moments_vx"`
	MomentsVy  analysis.Summary `json:"moments_vy"`
	Files      []string         `json:"files"`
}

// Save archives snap under a generated run id.
func (s *Store) Save(snap Snapshot) (string, error) {
	return s.SaveAs("", snap)
}

// SaveAs archives snap under name, or a generated id when name is empty.
// An existing run of the same name is overwritten.
func (s *Store) SaveAs(name string, snap Snapshot) (string, error) {
	runID := name
	if runID == "" {
		runID = fmt.Sprintf("%s_%d", snap.Experiment, time.Now().UnixNano())
	}
	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	files := []string{metadataFile, bucketsFile}
	if err := s.writeBuckets(filepath.Join(runDir, bucketsFile), snap); err != nil {
		return "", err
	}

	charts, err := s.writeCharts(runDir, snap)
	if err != nil {
		return "", err
	}
	files = append(files, charts...)

	if len(snap.ParticleX) > 0 {
		svg := export.ParticlesToSVG(snap.ParticleX, snap.ParticleY, snap.Radius, s.chartWidth, "#000088")
		if err := os.WriteFile(filepath.Join(runDir, particlesFile), []byte(svg), 0644); err != nil {
			return "", err
		}
		files = append(files, particlesFile)
	}

	vx, vy := snap.Moments()
	meta := RunMetadata{
		ID:         runID,
		Experiment: snap.Experiment,
		Timestamp:  time.Now(),
		Params:     snap.Params,
		Frames:     snap.Frame,
		Height:     snap.Scale.Height,
		GridStep:   snap.Scale.GridStep,
		Drift:      snap.Drift,
		MomentsVx:  vx,
		MomentsVy:  vy,
		Files:      files,
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}
	return runID, nil
}

func (s *Store) writeBuckets(path string, snap Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"bucket", "center", "vx", "vy", "avg_vx", "avg_vy"}); err != nil {
		return err
	}

	centers := analysis.BucketCenters(len(snap.RawVx), snap.Scale.Left, snap.Scale.Right)
	for i := range snap.RawVx {
		row := []string{
			strconv.Itoa(i),
			formatFloat(centers[i]),
			formatFloat(at(snap.RawVx, i)),
			formatFloat(at(snap.RawVy, i)),
			formatFloat(at(snap.AvgVx, i)),
			formatFloat(at(snap.AvgVy, i)),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func (s *Store) writeCharts(runDir string, snap Snapshot) ([]string, error) {
	rasters, err := RenderRasters(snap, s.chartWidth, s.chartHeight)
	if err != nil {
		return nil, err
	}
	f, err := os.Create(filepath.Join(runDir, chartsFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if err := png.Encode(f, export.Combine(2, rasters[:]...)); err != nil {
		return nil, err
	}

	files := []string{chartsFile}
	svgs, err := RenderSVGs(snap, s.chartWidth, s.chartHeight)
	if err != nil {
		return nil, err
	}
	for i, svg := range svgs {
		name := chartNames[i] + ".svg"
		if err := os.WriteFile(filepath.Join(runDir, name), []byte(svg.String()), 0644); err != nil {
			return nil, err
		}
		files = append(files, name)
	}
	return files, nil
}

// List returns the metadata of every archived run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		if runs[i].Timestamp.Equal(runs[j].Timestamp) {
			return runs[i].ID < runs[j].ID
		}
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// Buckets is the bucket table of an archived run, one slice per column.
type Buckets struct {
	Centers      []float64
	Vx, Vy       []float64
	AvgVx, AvgVy []float64
}

func (s *Store) LoadBuckets(runID string) (*Buckets, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, bucketsFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}

	b := &Buckets{}
	for i, record := range records {
		if i == 0 || len(record) < 6 {
			continue
		}
		vals := make([]float64, 5)
		for j := range vals {
			v, err := strconv.ParseFloat(record[j+1], 64)
			if err != nil {
				return nil, fmt.Errorf("%s line %d: %w", bucketsFile, i+1, err)
			}
			vals[j] = v
		}
		b.Centers = append(b.Centers, vals[0])
		b.Vx = append(b.Vx, vals[1])
		b.Vy = append(b.Vy, vals[2])
		b.AvgVx = append(b.AvgVx, vals[3])
		b.AvgVy = append(b.AvgVy, vals[4])
	}
	return b, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func at(xs []float64, i int) float64 {
	if i < len(xs) {
		return xs[i]
	}
	return 0
}
