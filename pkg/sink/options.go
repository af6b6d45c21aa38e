package sink

// Default canvas size of exported scenes.
const (
	DefaultWidth  = 600
	DefaultHeight = 400
)

// Option configures [RenderSVG] and [RenderJSON].
type Option func(*options)

type options struct {
	width, height float64
	background    string
	title         string
}

func WithSize(width, height float64) Option {
	return func(o *options) {
		if width > 0 && height > 0 {
			o.width, o.height = width, height
		}
	}
}

// WithBackground fills the canvas with color before drawing marks.
func WithBackground(color string) Option { return func(o *options) { o.background = color } }

func WithTitle(title string) Option { return func(o *options) { o.title = title } }

func newOptions(opts []Option) options {
	o := options{width: DefaultWidth, height: DefaultHeight}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
