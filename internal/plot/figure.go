// Package plot defines the declarative figure and audio descriptors the
// engine hands to its host. The engine never renders; it only describes.
package plot

// SeriesKind enumerates the 2-D series styles.
type SeriesKind string

// Series kinds.
const (
	KindLine    SeriesKind = "line"
	KindScatter SeriesKind = "scatter"
	KindBar     SeriesKind = "bar"
	KindStem    SeriesKind = "stem"
	KindStairs  SeriesKind = "stairs"
	KindArea    SeriesKind = "area"
	KindHist    SeriesKind = "hist"
)

// Series is one plotted data set of a figure.
type Series struct {
	Kind       SeriesKind `json:"kind"`
	X          []float64  `json:"x"`
	Y          []float64  `json:"y"`
	Color      string     `json:"color"`
	LineWidth  float64    `json:"lineWidth"`
	LineStyle  string     `json:"lineStyle"`
	Marker     string     `json:"marker"`
	MarkerSize float64    `json:"markerSize"`
	Label      string     `json:"label"`
	FillAlpha  float64    `json:"fillAlpha"`
	Axes       int        `json:"axes"` // subplot slot, 0 for the full figure
}

// Annotation is a positioned text label.
type Annotation struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Text string  `json:"text"`
}

// Subplot describes the active subplot grid of a figure.
type Subplot struct {
	Rows   int `json:"rows"`
	Cols   int `json:"cols"`
	Active int `json:"active"` // 1-based slot index
}

// Figure is the declarative description of one plot window.
type Figure struct {
	ID          int          `json:"id"`
	Series      []Series     `json:"series"`
	Title       string       `json:"title"`
	XLabel      string       `json:"xlabel"`
	YLabel      string       `json:"ylabel"`
	Grid        bool         `json:"grid"`
	Legend      bool         `json:"legend"`
	Hold        bool         `json:"hold"`
	XRange      *[2]float64  `json:"xrange,omitempty"`
	YRange      *[2]float64  `json:"yrange,omitempty"`
	Annotations []Annotation `json:"annotations,omitempty"`
	Subplot     *Subplot     `json:"subplot,omitempty"`
}

// NewFigure creates an empty figure with the given id.
func NewFigure(id int) *Figure {
	return &Figure{ID: id}
}

// Clone returns a deep copy suitable for handing to the host.
func (f *Figure) Clone() *Figure {
	out := *f
	out.Series = make([]Series, len(f.Series))
	copy(out.Series, f.Series)
	if f.XRange != nil {
		r := *f.XRange
		out.XRange = &r
	}
	if f.YRange != nil {
		r := *f.YRange
		out.YRange = &r
	}
	out.Annotations = append([]Annotation(nil), f.Annotations...)
	if f.Subplot != nil {
		s := *f.Subplot
		out.Subplot = &s
	}
	return &out
}

// colorCycle is the default line color order.
var colorCycle = []string{
	"#0072BD", "#D95319", "#EDB120", "#7E2F8E",
	"#77AC30", "#4DBEEE", "#A2142F",
}

// NextColor returns the default color for the series added after n
// existing ones.
func NextColor(n int) string {
	return colorCycle[n%len(colorCycle)]
}

// AddSeries appends a series, clearing existing series first unless hold
// is on, and fills in the default color when none is set.
func (f *Figure) AddSeries(s Series) {
	if !f.Hold {
		if f.Subplot == nil {
			f.Series = nil
		} else {
			// With a subplot grid active, only the active slot resets.
			kept := f.Series[:0]
			for _, old := range f.Series {
				if old.Axes != f.Subplot.Active {
					kept = append(kept, old)
				}
			}
			f.Series = kept
		}
	}
	if s.Color == "" {
		s.Color = NextColor(len(f.Series))
	}
	if f.Subplot != nil {
		s.Axes = f.Subplot.Active
	}
	f.Series = append(f.Series, s)
}

// Plot3D is the out-of-band payload for the 3-D plotting built-ins,
// emitted under the __plot3d: output prefix.
type Plot3D struct {
	Type   string      `json:"type"` // surf, mesh, contour, plot3
	X      [][]float64 `json:"x,omitempty"`
	Y      [][]float64 `json:"y,omitempty"`
	Z      [][]float64 `json:"z,omitempty"`
	LineX  []float64   `json:"lineX,omitempty"`
	LineY  []float64   `json:"lineY,omitempty"`
	LineZ  []float64   `json:"lineZ,omitempty"`
	Title  string      `json:"title"`
	XLabel string      `json:"xlabel"`
	YLabel string      `json:"ylabel"`
	ZLabel string      `json:"zlabel"`
}
