package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/san-kum/impulse/internal/sim"
)

type ExportData struct {
	Scene    string             `json:"scene"`
	Dt       float64            `json:"dt"`
	Duration float64            `json:"duration"`
	Steps    int                `json:"steps"`
	Times    []float64          `json:"times"`
	Bodies   []BodyExport       `json:"bodies"`
	Metrics  map[string]float64 `json:"metrics"`
}

type BodyExport struct {
	ID         string       `json:"id"`
	Times      []float64    `json:"times"`
	Positions  [][3]float64 `json:"positions"`
	Velocities [][3]float64 `json:"velocities"`
}

func buildExport(cfg sim.Config, result *sim.Result) ExportData {
	data := ExportData{
		Scene:    cfg.Scene,
		Dt:       cfg.Dt,
		Duration: cfg.Duration,
		Steps:    result.StepsTaken,
		Times:    result.Times,
		Metrics:  result.Metrics,
	}

	for _, s := range sim.Collate(result) {
		body := BodyExport{
			ID:    s.Body,
			Times: s.Times,
		}
		for i := range s.Positions {
			body.Positions = append(body.Positions, [3]float64(s.Positions[i]))
			body.Velocities = append(body.Velocities, [3]float64(s.Velocities[i]))
		}
		data.Bodies = append(data.Bodies, body)
	}

	return data
}

func writeJSON(w io.Writer, cfg sim.Config, result *sim.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(buildExport(cfg, result))
}

func ExportJSON(path string, cfg sim.Config, result *sim.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return writeJSON(file, cfg, result)
}

func ExportJSONStdout(cfg sim.Config, result *sim.Result) error {
	return writeJSON(os.Stdout, cfg, result)
}

// ExportCSV writes series rows in the states.csv layout.
func ExportCSV(out io.Writer, series []sim.Series) error {
	w := csv.NewWriter(out)
	defer w.Flush()

	if err := w.Write([]string{"time", "body", "x", "y", "z", "vx", "vy", "vz"}); err != nil {
		return err
	}

	for _, s := range series {
		for i := range s.Times {
			p, v := s.Positions[i], s.Velocities[i]
			row := []string{
				strconv.FormatFloat(s.Times[i], 'f', 6, 64),
				s.Body,
				strconv.FormatFloat(p.X(), 'f', 6, 64),
				strconv.FormatFloat(p.Y(), 'f', 6, 64),
				strconv.FormatFloat(p.Z(), 'f', 6, 64),
				strconv.FormatFloat(v.X(), 'f', 6, 64),
				strconv.FormatFloat(v.Y(), 'f', 6, 64),
				strconv.FormatFloat(v.Z(), 'f', 6, 64),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	return w.Error()
}

var svgPalette = [...]string{
	"#61afef", "#e06c75", "#98c379", "#e5c07b", "#c678dd", "#56b6c2",
}

// ExportSVG draws each body's trajectory as a polyline, plotting height
// (world Y) against whichever horizontal world axis spans more.
func ExportSVG(path string, series []sim.Series, width, height int) error {
	if width <= 0 {
		width = 640
	}
	if height <= 0 {
		height = 480
	}

	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	minZ, maxZ := math.Inf(1), math.Inf(-1)
	points := 0
	for _, s := range series {
		for _, p := range s.Positions {
			minX, maxX = math.Min(minX, p.X()), math.Max(maxX, p.X())
			minY, maxY = math.Min(minY, p.Y()), math.Max(maxY, p.Y())
			minZ, maxZ = math.Min(minZ, p.Z()), math.Max(maxZ, p.Z())
			points++
		}
	}

	useZ := maxZ-minZ > maxX-minX
	minH, maxH := minX, maxX
	if useZ {
		minH, maxH = minZ, maxZ
	}
	if points == 0 {
		minH, maxH, minY, maxY = 0, 1, 0, 1
	}

	spanH := maxH - minH
	if spanH < 1e-9 {
		spanH = 1
	}
	spanV := maxY - minY
	if spanV < 1e-9 {
		spanV = 1
	}

	const margin = 24.0
	scaleH := (float64(width) - 2*margin) / spanH
	scaleV := (float64(height) - 2*margin) / spanV

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d">`+"\n", width, height)
	fmt.Fprintf(&b, `  <rect width="%d" height="%d" fill="#14161a"/>`+"\n", width, height)

	for i, s := range series {
		if len(s.Positions) < 2 {
			continue
		}
		color := svgPalette[i%len(svgPalette)]
		fmt.Fprintf(&b, `  <polyline fill="none" stroke="%s" stroke-width="1.5" points="`, color)
		for j, p := range s.Positions {
			h := p.X()
			if useZ {
				h = p.Z()
			}
			px := margin + (h-minH)*scaleH
			py := float64(height) - margin - (p.Y()-minY)*scaleV
			if j > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "%.1f,%.1f", px, py)
		}
		b.WriteString(`"/>` + "\n")
	}

	b.WriteString("</svg>\n")
	return os.WriteFile(path, []byte(b.String()), 0644)
}
