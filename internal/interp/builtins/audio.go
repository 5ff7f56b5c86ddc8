package builtins

import (
	"github.com/cwbudde/go-mlab/internal/plot"
)

func registerAudio(r *Registry) {
	r.register("sound", CategoryAudio, "Play an audio signal", func(ctx Context, args []Value, nargout int) (Value, error) {
		if err := wantArgs("sound", args, 1, 2); err != nil {
			return nil, err
		}
		y, err := vectorArg("sound", args, 0)
		if err != nil {
			return nil, err
		}
		fs := 8192
		if len(args) == 2 {
			if fs, err = intArg("sound", args, 1); err != nil {
				return nil, err
			}
		}
		ctx.Output("__audio:" + plot.WAVDataURL(y.ToVector(), fs) + "\n")
		return nil, nil
	})
}
