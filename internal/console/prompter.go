package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/2beens/healthtracker/internal/charts"
	"github.com/2beens/healthtracker/internal/dashboard"
	"github.com/2beens/healthtracker/internal/history"
	"github.com/2beens/healthtracker/pkg"

	log "github.com/sirupsen/logrus"
)

const quitCommand = "q"

type field struct {
	label string
	set   func(in *history.RawInput, v string)
}

var fields = []field{
	{label: "Steps:", set: func(in *history.RawInput, v string) { in.Steps = v }},
	{label: "Water (L):", set: func(in *history.RawInput, v string) { in.Water = v }},
	{label: "Sleep (hrs):", set: func(in *history.RawInput, v string) { in.Sleep = v }},
	{label: "Weight (kg):", set: func(in *history.RawInput, v string) { in.Weight = v }},
	{label: "Height (cm):", set: func(in *history.RawInput, v string) { in.Height = v }},
}

// Prompter is the terminal form: it asks for the five fields, submits them
// and prints the summary. Charts are written as PNG files when outDir is set.
type Prompter struct {
	reader   *bufio.Reader
	out      io.Writer
	tracker  dashboard.Tracker
	renderer *charts.Renderer
	outDir   string
}

func NewPrompter(
	in io.Reader,
	out io.Writer,
	tracker dashboard.Tracker,
	renderer *charts.Renderer,
	outDir string,
) *Prompter {
	return &Prompter{
		reader:   bufio.NewReader(in),
		out:      out,
		tracker:  tracker,
		renderer: renderer,
		outDir:   outDir,
	}
}

// Run loops until the input ends, "q" is entered or the context is done.
func (p *Prompter) Run(ctx context.Context) error {
	snap := p.tracker.Snapshot()
	p.printf("Health Tracker (enter %q to quit, leave a field blank for its default)\n", quitCommand)
	p.printf("%s\n%s\n", snap.Summary, snap.LastUpdated)

	if err := p.writeCharts(snap.Charts); err != nil {
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		in, quit, err := p.readInput()
		if err != nil {
			return err
		}
		if quit {
			p.printf("bye\n")
			return nil
		}

		res, err := p.tracker.OnSubmit(ctx, in)
		if err != nil {
			var inputErr *dashboard.InputError
			if errors.As(err, &inputErr) {
				p.printf("Input Error: %s\n", inputErr.Error())
				continue
			}
			return fmt.Errorf("submit: %w", err)
		}

		p.printf("\n%s\n%s\n", res.Summary, dashboard.LastUpdatedText(res.LastUpdated))
		if err := p.writeCharts(res.Charts); err != nil {
			return err
		}
	}
}

func (p *Prompter) readInput() (_ history.RawInput, quit bool, _ error) {
	var in history.RawInput
	p.printf("\n")
	for _, f := range fields {
		p.printf("%s ", f.label)
		line, err := p.reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return in, false, fmt.Errorf("read input: %w", err)
		}
		if errors.Is(err, io.EOF) && line == "" {
			return in, true, nil
		}

		value := strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(value) == quitCommand {
			return in, true, nil
		}
		f.set(&in, value)
	}
	return in, false, nil
}

func (p *Prompter) writeCharts(set charts.Set) error {
	if p.outDir == "" {
		return nil
	}
	if err := pkg.EnsureDir(p.outDir); err != nil {
		return fmt.Errorf("charts dir: %w", err)
	}

	for _, c := range set.Charts {
		path := filepath.Join(p.outDir, string(c.Slot)+".png")
		if err := p.writeChart(c, path); err != nil {
			return err
		}
	}
	log.Debugf("%d charts written to %s", len(set.Charts), p.outDir)
	return nil
}

func (p *Prompter) writeChart(c charts.Chart, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close chart file: %w", closeErr)
		}
	}()
	return p.renderer.RenderPNG(c, f)
}

func (p *Prompter) printf(format string, args ...any) {
	if _, err := fmt.Fprintf(p.out, format, args...); err != nil {
		log.Errorf("console write: %s", err)
	}
}
