package annotate

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/PtitMax51/vent-pdf/internal/cartouche"
	"github.com/PtitMax51/vent-pdf/internal/location"
	"github.com/PtitMax51/vent-pdf/internal/pdf"
	"github.com/PtitMax51/vent-pdf/internal/wind"
)

// StampAuto asks for a fresh UUID micro-stamp on every run, so repeated runs
// over unchanged weather still produce byte-distinct documents.
const StampAuto = "auto"

// Options configures an annotation run.
type Options struct {
	Layout cartouche.Options
	// ShowSource prints the provenance tag ("OMF"/"MF") small inside the box.
	ShowSource bool
}

// Annotator glues location resolution, the source fallback chain and the
// layout engine into one run over a document.
type Annotator struct {
	resolver location.Resolver
	chain    *wind.Chain
	engine   *cartouche.Engine
	clock    clockwork.Clock
	logger   *slog.Logger
	opts     Options
}

func New(resolver location.Resolver, chain *wind.Chain, engine *cartouche.Engine, clock clockwork.Clock, logger *slog.Logger, opts Options) *Annotator {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Annotator{
		resolver: resolver,
		chain:    chain,
		engine:   engine,
		clock:    clock,
		logger:   logger,
		opts:     opts,
	}
}

// Result reports what a run resolved, for inspection by the caller.
type Result struct {
	Lines  [4]string
	Source string
}

// Run annotates the first page of the document at inPath and writes the
// result to outPath. Nothing is written when the location cannot be resolved
// or the document cannot be read or saved; missing weather only degrades the
// lines to "N/A".
func (a *Annotator) Run(ctx context.Context, identifier, inPath, outPath string) (Result, error) {
	res, err := a.resolveLines(ctx, identifier)
	if err != nil {
		return Result{}, err
	}

	doc, err := pdf.Open(inPath)
	if err != nil {
		return Result{}, err
	}
	pageBox, err := doc.FirstPageBox()
	if err != nil {
		return Result{}, err
	}

	lay := a.opts.Layout
	box := cartouche.Rect{
		LLx: pageBox.URx - lay.Margin - lay.Width,
		LLy: pageBox.URy - lay.Margin - lay.Height,
		URx: pageBox.URx - lay.Margin,
		URy: pageBox.URy - lay.Margin,
	}

	if a.opts.ShowSource && res.Source != "" {
		lay.SourceTag = res.Source
	}
	if lay.Stamp == StampAuto {
		lay.Stamp = uuid.NewString()
	}

	lines := [4]cartouche.Line{
		{Text: res.Lines[0], Size: lay.TitleSize},
		{Text: res.Lines[1], Size: lay.BodySize},
		{Text: res.Lines[2], Size: lay.BodySize},
		{Text: res.Lines[3], Size: lay.BodySize},
	}

	canvas := pdf.NewCanvas()
	if err := a.engine.Render(canvas, box, lines, lay); err != nil {
		return Result{}, err
	}
	if err := doc.Apply(canvas); err != nil {
		return Result{}, err
	}
	if err := doc.Save(outPath); err != nil {
		return Result{}, err
	}
	return res, nil
}

// resolveLines runs the data half of the pipeline: place, observation,
// formatted lines.
func (a *Annotator) resolveLines(ctx context.Context, identifier string) (Result, error) {
	place, err := a.resolver.Resolve(ctx, identifier)
	if err != nil {
		return Result{}, err
	}

	obs, source, ok := a.chain.Resolve(ctx, place.Coord, place.Timezone)
	tzName := place.Timezone
	if ok && obs.Timezone != "" {
		tzName = obs.Timezone
	}
	if !ok {
		a.logger.Warn("no wind data available, rendering N/A", "place", place.Name)
	}

	return Result{
		Lines:  a.buildLines(place.Name, tzName, obs),
		Source: source,
	}, nil
}

// buildLines formats the four cartouche lines. The timestamp is "now" in the
// place's timezone rather than the observation time: the cartouche advertises
// when the document was refreshed.
func (a *Annotator) buildLines(name, tzName string, obs wind.Observation) [4]string {
	now := a.clock.Now()
	loc, err := time.LoadLocation(tzName)
	if err != nil || tzName == "" {
		loc = time.UTC
	}
	dateTxt := now.In(loc).Format("02/01/2006 15:04:05")

	direction := "N/A"
	if obs.DirectionDeg != nil {
		direction = wind.DegToCompass(*obs.DirectionDeg)
	}
	speed := "N/A"
	if obs.SpeedKmh != nil {
		speed = wind.FormatSpeed(*obs.SpeedKmh)
	}

	return [4]string{
		name,
		dateTxt,
		"Direction : " + direction,
		"Vitesse : " + speed,
	}
}
