package readex

import (
	"io"
	"regexp"

	"github.com/pagelens/readex/internal/engine"
)

// Options configures a single Parse call.
type Options struct {
	// CharThreshold is the minimum text length an attempt must produce
	// before the multi-attempt fallback loop stops relaxing flags.
	CharThreshold int

	// NbTopCandidates bounds how many scored elements the candidate
	// selector keeps before picking a winner.
	NbTopCandidates int

	// ClassesToPreserve lists class names that survive attribute
	// stripping during article cleanup.
	ClassesToPreserve []string

	// KeepClasses disables class-attribute stripping entirely when true.
	KeepClasses bool

	// DisableJSONLD skips the JSON-LD metadata ladder.
	DisableJSONLD bool

	// AllowedVideoRegex overrides which <iframe>/<embed> src values survive
	// cleanup as embedded video.
	AllowedVideoRegex *regexp.Regexp

	// LinkDensityModifier shifts the link-density threshold used when
	// deciding whether to keep a borderline node during conditional
	// cleaning; positive values make cleaning stricter.
	LinkDensityModifier float64

	// MaxElemsToParse aborts extraction if the document has more than
	// this many elements. Zero means unlimited.
	MaxElemsToParse int

	// Debug enables verbose tracing. Extraction traces go to DebugWriter;
	// the article-cleaning stage prints its trace lines to standard output.
	Debug bool

	// DebugWriter receives the extraction traces when Debug is true; the
	// article-cleaning stage's trace lines do not go through it. Defaults to
	// io.Discard.
	DebugWriter io.Writer

	// ContentDigests attaches a content-digest attribute to each
	// extracted text block in Result.Blocks.
	ContentDigests bool

	// NodeIndexes attaches a source node-index attribute to each
	// extracted text block in Result.Blocks.
	NodeIndexes bool

	// PreserveImportantLinks rescues "next/prev"/"read more"-style
	// navigational links out of elements the generic pipeline would
	// otherwise discard. Off by default; additive behavior layered on top
	// of the stock algorithm.
	PreserveImportantLinks bool
}

// DefaultOptions returns the default extraction configuration.
func DefaultOptions() Options {
	return Options{
		CharThreshold:       engine.DefaultCharThreshold,
		NbTopCandidates:     engine.DefaultNTopCandidates,
		ClassesToPreserve:   append([]string{}, engine.ClassesToPreserve...),
		KeepClasses:         false,
		DisableJSONLD:       false,
		AllowedVideoRegex:   engine.RegexpVideos,
		LinkDensityModifier: 0,
		MaxElemsToParse:     engine.DefaultMaxElemsToParse,
		Debug:               false,
		DebugWriter:         io.Discard,
	}
}

// Option configures an Engine constructed with New.
type Option func(*Options)

// WithCharThreshold sets the minimum character count an attempt must reach.
func WithCharThreshold(n int) Option {
	return func(o *Options) { o.CharThreshold = n }
}

// WithNbTopCandidates sets the candidate-set size.
func WithNbTopCandidates(n int) Option {
	return func(o *Options) { o.NbTopCandidates = n }
}

// WithClassesToPreserve sets the class allow-list for attribute stripping.
func WithClassesToPreserve(classes []string) Option {
	return func(o *Options) { o.ClassesToPreserve = classes }
}

// WithKeepClasses disables class-attribute stripping entirely.
func WithKeepClasses(keep bool) Option {
	return func(o *Options) { o.KeepClasses = keep }
}

// WithDisableJSONLD skips the JSON-LD metadata ladder.
func WithDisableJSONLD(disable bool) Option {
	return func(o *Options) { o.DisableJSONLD = disable }
}

// WithAllowedVideoRegex overrides the embedded-video allow-list.
func WithAllowedVideoRegex(re *regexp.Regexp) Option {
	return func(o *Options) { o.AllowedVideoRegex = re }
}

// WithLinkDensityModifier shifts the conditional-cleaning link-density
// threshold.
func WithLinkDensityModifier(modifier float64) Option {
	return func(o *Options) { o.LinkDensityModifier = modifier }
}

// WithMaxElemsToParse caps the number of elements a document may contain.
func WithMaxElemsToParse(n int) Option {
	return func(o *Options) { o.MaxElemsToParse = n }
}

// WithDebug enables debug tracing, with extraction traces going to w (or
// io.Discard if w is nil); the article-cleaning stage prints to standard
// output regardless of w.
func WithDebug(w io.Writer) Option {
	return func(o *Options) {
		o.Debug = true
		if w == nil {
			w = io.Discard
		}
		o.DebugWriter = w
	}
}

// WithContentDigests enables SHA-256 content digests on Result.Blocks.
func WithContentDigests(enable bool) Option {
	return func(o *Options) { o.ContentDigests = enable }
}

// WithNodeIndexes enables source node-index attributes on Result.Blocks.
func WithNodeIndexes(enable bool) Option {
	return func(o *Options) { o.NodeIndexes = enable }
}

// WithPreserveImportantLinks enables rescuing navigational links out of
// elements the generic pipeline would otherwise discard.
func WithPreserveImportantLinks(enable bool) Option {
	return func(o *Options) { o.PreserveImportantLinks = enable }
}

func (o Options) toEngineOptions(baseURL string) engine.ReadabilityOptions {
	debugWriter := o.DebugWriter
	if debugWriter == nil {
		debugWriter = io.Discard
	}
	return engine.ReadabilityOptions{
		Debug:                  o.Debug,
		DebugWriter:            debugWriter,
		MaxElemsToParse:        o.MaxElemsToParse,
		NbTopCandidates:        o.NbTopCandidates,
		CharThreshold:          o.CharThreshold,
		ClassesToPreserve:      o.ClassesToPreserve,
		KeepClasses:            o.KeepClasses,
		DisableJSONLD:          o.DisableJSONLD,
		AllowedVideoRegex:      o.AllowedVideoRegex,
		LinkDensityModifier:    o.LinkDensityModifier,
		PreserveImportantLinks: o.PreserveImportantLinks,
		BaseURL:                baseURL,
	}
}
