package builtins

import (
	"encoding/json"
	"math"

	"github.com/cwbudde/go-mlab/internal/interp/runtime"
	"github.com/cwbudde/go-mlab/internal/matrix"
	"github.com/cwbudde/go-mlab/internal/plot"
)

func registerPlotting(r *Registry) {
	r.register("plot", CategoryPlotting, "2-D line plot", seriesBuiltin("plot", plot.KindLine))
	r.register("scatter", CategoryPlotting, "Scatter plot", seriesBuiltin("scatter", plot.KindScatter))
	r.register("bar", CategoryPlotting, "Bar chart", seriesBuiltin("bar", plot.KindBar))
	r.register("stem", CategoryPlotting, "Stem plot", seriesBuiltin("stem", plot.KindStem))
	r.register("stairs", CategoryPlotting, "Stairstep plot", seriesBuiltin("stairs", plot.KindStairs))
	r.register("area", CategoryPlotting, "Filled area plot", seriesBuiltin("area", plot.KindArea))

	r.register("hist", CategoryPlotting, "Histogram", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("hist", args, 1, 2); err != nil {
			return nil, err
		}
		data, err := matArg("hist", args, 0)
		if err != nil {
			return nil, err
		}
		bins := 10
		if len(args) == 2 {
			if bins, err = intArg("hist", args, 1); err != nil {
				return nil, err
			}
		}
		if bins < 1 {
			bins = 1
		}
		centers, counts := histogram(data.ToVector(), bins)

		fig := ctx.Figure()
		fig.AddSeries(plot.Series{
			Kind:      plot.KindHist,
			X:         centers,
			Y:         counts,
			FillAlpha: 0.7,
		})
		ctx.EmitFigure()
		if nargout >= 1 {
			return list(runtime.NewMatrix(matrix.RowVector(counts)), runtime.NewMatrix(matrix.RowVector(centers))), nil
		}
		return nil, nil
	})

	r.register("title", CategoryPlotting, "Figure title", figureText("title", func(f *plot.Figure, s string) { f.Title = s }))
	r.register("xlabel", CategoryPlotting, "X-axis label", figureText("xlabel", func(f *plot.Figure, s string) { f.XLabel = s }))
	r.register("ylabel", CategoryPlotting, "Y-axis label", figureText("ylabel", func(f *plot.Figure, s string) { f.YLabel = s }))

	r.register("legend", CategoryPlotting, "Series legend", func(ctx Context, args []Value, nargout int) (Value, error) {
		fig := ctx.Figure()
		fig.Legend = true
		for i := range args {
			label, err := strArg("legend", args, i)
			if err != nil {
				return nil, err
			}
			if i < len(fig.Series) {
				fig.Series[i].Label = label
			}
		}
		ctx.EmitFigure()
		return nil, nil
	})

	r.register("grid", CategoryPlotting, "Grid lines", onOffBuiltin("grid", func(f *plot.Figure, on bool) { f.Grid = on }, func(f *plot.Figure) bool { return f.Grid }))
	r.register("hold", CategoryPlotting, "Hold current series", onOffBuiltin("hold", func(f *plot.Figure, on bool) { f.Hold = on }, func(f *plot.Figure) bool { return f.Hold }))

	r.register("figure", CategoryPlotting, "Select the current figure", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("figure", args, 0, 1); err != nil {
			return nil, err
		}
		if len(args) == 0 {
			fig := ctx.Figure()
			return runtime.NewScalar(float64(fig.ID)), nil
		}
		id, err := intArg("figure", args, 0)
		if err != nil {
			return nil, err
		}
		fig := ctx.SwitchFigure(id)
		return runtime.NewScalar(float64(fig.ID)), nil
	})

	r.register("clf", CategoryPlotting, "Clear the current figure", func(ctx Context, args []Value, nargout int) (Value, error) {
		ctx.ResetFigure()
		ctx.EmitFigure()
		return nil, nil
	})

	r.register("close", CategoryPlotting, "Close figures", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("close", args, 0, 1); err != nil {
			return nil, err
		}
		all := false
		if len(args) == 1 {
			if s, serr := runtime.ToString(args[0]); serr == nil && s == "all" {
				all = true
			}
		}
		ctx.CloseFigure(all)
		return nil, nil
	})

	r.register("xlim", CategoryPlotting, "X-axis range", rangeBuiltin("xlim", func(f *plot.Figure, lo, hi float64) {
		f.XRange = &[2]float64{lo, hi}
	}))
	r.register("ylim", CategoryPlotting, "Y-axis range", rangeBuiltin("ylim", func(f *plot.Figure, lo, hi float64) {
		f.YRange = &[2]float64{lo, hi}
	}))

	r.register("text", CategoryPlotting, "Text annotation", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("text", args, 3, 3); err != nil {
			return nil, err
		}
		x, err := scalarArg("text", args, 0)
		if err != nil {
			return nil, err
		}
		y, err := scalarArg("text", args, 1)
		if err != nil {
			return nil, err
		}
		s, err := strArg("text", args, 2)
		if err != nil {
			return nil, err
		}
		fig := ctx.Figure()
		fig.Annotations = append(fig.Annotations, plot.Annotation{X: x, Y: y, Text: s})
		ctx.EmitFigure()
		return nil, nil
	})

	r.register("subplot", CategoryPlotting, "Select a subplot slot", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("subplot", args, 3, 3); err != nil {
			return nil, err
		}
		rows, err := intArg("subplot", args, 0)
		if err != nil {
			return nil, err
		}
		cols, err := intArg("subplot", args, 1)
		if err != nil {
			return nil, err
		}
		active, err := intArg("subplot", args, 2)
		if err != nil {
			return nil, err
		}
		if rows < 1 || cols < 1 || active < 1 || active > rows*cols {
			return nil, runtime.NewError("subplot: invalid grid position")
		}
		fig := ctx.Figure()
		if fig.Subplot == nil || fig.Subplot.Rows != rows || fig.Subplot.Cols != cols {
			fig.Subplot = &plot.Subplot{Rows: rows, Cols: cols}
		}
		fig.Subplot.Active = active
		return nil, nil
	})

	r.register("surf", CategoryPlotting, "3-D surface", surfaceBuiltin("surf"))
	r.register("mesh", CategoryPlotting, "3-D wireframe", surfaceBuiltin("mesh"))
	r.register("contour", CategoryPlotting, "Contour plot", surfaceBuiltin("contour"))
	r.register("imagesc", CategoryPlotting, "Scaled image of a matrix", surfaceBuiltin("imagesc"))

	r.register("plot3", CategoryPlotting, "3-D line plot", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("plot3", args, 3, 3); err != nil {
			return nil, err
		}
		x, err := vectorArg("plot3", args, 0)
		if err != nil {
			return nil, err
		}
		y, err := vectorArg("plot3", args, 1)
		if err != nil {
			return nil, err
		}
		z, err := vectorArg("plot3", args, 2)
		if err != nil {
			return nil, err
		}
		if x.Numel() != y.Numel() || y.Numel() != z.Numel() {
			return nil, runtime.NewError("plot3: vectors must have equal length")
		}
		fig := ctx.Figure()
		payload := plot.Plot3D{
			Type:   "plot3",
			LineX:  x.ToVector(),
			LineY:  y.ToVector(),
			LineZ:  z.ToVector(),
			Title:  fig.Title,
			XLabel: fig.XLabel,
			YLabel: fig.YLabel,
		}
		return nil, emit3D(ctx, payload)
	})
}

// seriesBuiltin parses the shared (y), (x, y), (x, y, fmt) argument
// shapes, with additional x/y/fmt groups appended after the first.
func seriesBuiltin(name string, kind plot.SeriesKind) BuiltinFunc {
	return func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs(name, args, 1, -1); err != nil {
			return nil, err
		}
		fig := ctx.Figure()

		i := 0
		for i < len(args) {
			first, err := matArg(name, args, i)
			if err != nil {
				return nil, err
			}
			i++

			var x, y []float64
			if i < len(args) {
				if second, merr := runtime.ToMatrix(args[i]); merr == nil {
					if _, isStr := runtime.First(args[i]).(*runtime.StringValue); !isStr {
						x = first.ToVector()
						y = second.ToVector()
						i++
					}
				}
			}
			if y == nil {
				y = first.ToVector()
				x = make([]float64, len(y))
				for k := range x {
					x[k] = float64(k + 1)
				}
			}
			if len(x) != len(y) {
				return nil, runtime.NewError("%s: x and y must have the same length", name)
			}

			series := plot.Series{Kind: kind, X: x, Y: y, LineWidth: 1.5, LineStyle: "-"}
			if kind == plot.KindArea {
				series.FillAlpha = 0.5
			}
			if i < len(args) {
				if spec, serr := runtime.ToString(args[i]); serr == nil {
					applyLineSpec(&series, spec)
					i++
				}
			}
			fig.AddSeries(series)
		}

		ctx.EmitFigure()
		return nil, nil
	}
}

// applyLineSpec decodes a MATLAB-style format string such as 'r--o'.
func applyLineSpec(s *plot.Series, spec string) {
	colors := map[byte]string{
		'r': "#FF0000", 'g': "#00FF00", 'b': "#0000FF", 'c': "#00FFFF",
		'm': "#FF00FF", 'y': "#FFFF00", 'k': "#000000", 'w': "#FFFFFF",
	}
	i := 0
	for i < len(spec) {
		c := spec[i]
		if color, ok := colors[c]; ok {
			s.Color = color
			i++
			continue
		}
		switch c {
		case '-':
			if i+1 < len(spec) && spec[i+1] == '-' {
				s.LineStyle = "--"
				i += 2
				continue
			}
			if i+1 < len(spec) && spec[i+1] == '.' {
				s.LineStyle = "-."
				i += 2
				continue
			}
			s.LineStyle = "-"
			i++
		case ':':
			s.LineStyle = ":"
			i++
		case 'o', '+', '*', '.', 'x', 's', 'd', '^', 'v':
			s.Marker = string(c)
			if s.MarkerSize == 0 {
				s.MarkerSize = 6
			}
			i++
		default:
			i++
		}
	}
}

func figureText(name string, set func(f *plot.Figure, s string)) BuiltinFunc {
	return func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs(name, args, 1, 1); err != nil {
			return nil, err
		}
		s, err := strArg(name, args, 0)
		if err != nil {
			return nil, err
		}
		set(ctx.Figure(), s)
		ctx.EmitFigure()
		return nil, nil
	}
}

// onOffBuiltin implements grid/hold: no argument toggles, 'on'/'off'
// set explicitly.
func onOffBuiltin(name string, set func(f *plot.Figure, on bool), get func(f *plot.Figure) bool) BuiltinFunc {
	return func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs(name, args, 0, 1); err != nil {
			return nil, err
		}
		fig := ctx.Figure()
		if len(args) == 0 {
			set(fig, !get(fig))
		} else {
			mode, err := strArg(name, args, 0)
			if err != nil {
				return nil, err
			}
			switch mode {
			case "on":
				set(fig, true)
			case "off":
				set(fig, false)
			default:
				return nil, runtime.NewError("%s: expected 'on' or 'off'", name)
			}
		}
		ctx.EmitFigure()
		return nil, nil
	}
}

func rangeBuiltin(name string, set func(f *plot.Figure, lo, hi float64)) BuiltinFunc {
	return func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs(name, args, 1, 1); err != nil {
			return nil, err
		}
		v, err := vectorArg(name, args, 0)
		if err != nil {
			return nil, err
		}
		if v.Numel() != 2 {
			return nil, runtime.NewError("%s: expected a [min max] pair", name)
		}
		set(ctx.Figure(), v.LinearGet(0), v.LinearGet(1))
		ctx.EmitFigure()
		return nil, nil
	}
}

// surfaceBuiltin handles surf/mesh/contour/imagesc: (Z) alone or
// (X, Y, Z) grids.
func surfaceBuiltin(kind string) BuiltinFunc {
	return func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs(kind, args, 1, 3); err != nil {
			return nil, err
		}
		var xm, ym, zm *matrix.Matrix
		var err error
		switch len(args) {
		case 1:
			zm, err = matArg(kind, args, 0)
			if err != nil {
				return nil, err
			}
			xm = matrix.New(zm.Rows(), zm.Cols())
			ym = matrix.New(zm.Rows(), zm.Cols())
			for i := 0; i < zm.Rows(); i++ {
				for j := 0; j < zm.Cols(); j++ {
					xm.Set(i, j, float64(j+1))
					ym.Set(i, j, float64(i+1))
				}
			}
		case 3:
			if xm, err = matArg(kind, args, 0); err != nil {
				return nil, err
			}
			if ym, err = matArg(kind, args, 1); err != nil {
				return nil, err
			}
			if zm, err = matArg(kind, args, 2); err != nil {
				return nil, err
			}
		default:
			return nil, runtime.NewError("%s: expected (Z) or (X, Y, Z)", kind)
		}

		fig := ctx.Figure()
		payload := plot.Plot3D{
			Type:   kind,
			X:      toGrid(xm),
			Y:      toGrid(ym),
			Z:      toGrid(zm),
			Title:  fig.Title,
			XLabel: fig.XLabel,
			YLabel: fig.YLabel,
		}
		return nil, emit3D(ctx, payload)
	}
}

func toGrid(m *matrix.Matrix) [][]float64 {
	out := make([][]float64, m.Rows())
	for i := range out {
		row := make([]float64, m.Cols())
		for j := range row {
			row[j] = m.At(i, j)
		}
		out[i] = row
	}
	return out
}

func emit3D(ctx Context, payload plot.Plot3D) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return runtime.NewError("%s: %v", payload.Type, err)
	}
	ctx.Output("__plot3d:" + string(data) + "\n")
	return nil
}

func histogram(data []float64, bins int) (centers, counts []float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range data {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if len(data) == 0 || math.IsInf(lo, 1) {
		return make([]float64, bins), make([]float64, bins)
	}
	if lo == hi {
		lo -= 0.5
		hi += 0.5
	}
	width := (hi - lo) / float64(bins)
	centers = make([]float64, bins)
	counts = make([]float64, bins)
	for i := range centers {
		centers[i] = lo + (float64(i)+0.5)*width
	}
	for _, v := range data {
		idx := int((v - lo) / width)
		if idx >= bins {
			idx = bins - 1
		}
		if idx < 0 {
			idx = 0
		}
		counts[idx]++
	}
	return centers, counts
}
