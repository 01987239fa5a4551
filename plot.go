package aqmort

import (
	"fmt"
	"os"
	"os/exec"
	"time"

	grob "github.com/MetalBlueberry/go-plotly/graph_objects"
	"github.com/MetalBlueberry/go-plotly/offline"
)

const minPlotSize = 100.0

// Plot wraps a plotly figure.
type Plot struct {
	Fig *grob.Fig
	Lay *grob.Layout
}

type PlotOpt func(plot *Plot) error

func NewPlot(opts ...PlotOpt) (*Plot, error) {
	fig := &grob.Fig{}
	lay := &grob.Layout{}
	fig.Layout = lay
	p := &Plot{Fig: fig, Lay: lay}
	for _, o := range opts {
		if e := o(p); e != nil {
			return nil, e
		}
	}

	return p, nil
}

func PlotWidth(w float64) PlotOpt {
	return func(p *Plot) error {
		if w < minPlotSize {
			return fmt.Errorf("width must be at least %v", minPlotSize)
		}

		p.Lay.Width = w
		return nil
	}
}

func PlotHeight(h float64) PlotOpt {
	return func(p *Plot) error {
		if h < minPlotSize {
			return fmt.Errorf("height must be at least %v", minPlotSize)
		}

		p.Lay.Height = h
		return nil
	}
}

func PlotTitle(title string) PlotOpt {
	return func(p *Plot) error {
		p.Lay.Title = &grob.LayoutTitle{Text: title}
		return nil
	}
}

func PlotLegend(show bool) PlotOpt {
	return func(p *Plot) error {
		if show {
			p.Lay.Showlegend = grob.True
		} else {
			p.Lay.Showlegend = grob.False
		}

		return nil
	}
}

func PlotXlabel(label string) PlotOpt {
	return func(p *Plot) error {
		if p.Lay.Xaxis == nil {
			p.Lay.Xaxis = &grob.LayoutXaxis{}
		}

		if p.Lay.Xaxis.Title == nil {
			p.Lay.Xaxis.Title = &grob.LayoutXaxisTitle{}
		}

		p.Lay.Xaxis.Title.Text = label
		return nil
	}
}

func PlotYlabel(label string) PlotOpt {
	return func(p *Plot) error {
		if p.Lay.Yaxis == nil {
			p.Lay.Yaxis = &grob.LayoutYaxis{}
		}

		if p.Lay.Yaxis.Title == nil {
			p.Lay.Yaxis.Title = &grob.LayoutYaxisTitle{}
		}

		p.Lay.Yaxis.Title.Text = label
		return nil
	}
}

// PlotXY adds a line trace.
func (p *Plot) PlotXY(x, y []float64, seriesName, color string) error {
	if len(x) != len(y) {
		return fmt.Errorf("x and y must have the same length")
	}

	tr := &grob.Scatter{Name: seriesName, X: x, Y: y,
		Mode: grob.ScatterModeLines, Line: &grob.ScatterLine{Color: color}}

	p.Fig.AddTraces(tr)

	return nil
}

// PlotScatter adds a marker trace.
func (p *Plot) PlotScatter(x, y []float64, seriesName, color string) error {
	if len(x) != len(y) {
		return fmt.Errorf("x and y must have the same length")
	}

	tr := &grob.Scatter{Name: seriesName, X: x, Y: y,
		Mode: grob.ScatterModeMarkers, Marker: &grob.ScatterMarker{Color: color}}

	p.Fig.AddTraces(tr)

	return nil
}

// PlotBox adds a box trace for one group.
func (p *Plot) PlotBox(y []float64, groupName string) error {
	if y == nil {
		return fmt.Errorf("no data for box %s", groupName)
	}

	tr := &grob.Box{Name: groupName, Y: y}
	p.Fig.AddTraces(tr)

	return nil
}

// Save writes the figure to fileName as a self-contained HTML page.
func (p *Plot) Save(fileName string) error {
	offline.ToHtml(p.Fig, fileName)

	return nil
}

// Show renders the figure in a browser.  An empty browser uses xdg-open.
func (p *Plot) Show(browser, fileName string) error {
	const nameLength = 8

	if browser == "" {
		browser = "xdg-open"
	}

	tmpFile := false
	if fileName == "" {
		fileName = tempFile("html", nameLength)
		tmpFile = true
	}

	offline.ToHtml(p.Fig, fileName)

	cmd := exec.Command(browser, fileName)
	if e := cmd.Start(); e != nil {
		return e
	}

	time.Sleep(time.Second) // need to pause while browser loads graph

	if tmpFile {
		if e := os.Remove(fileName); e != nil {
			return e
		}
	}

	return nil
}
