package pipeline

import (
	"github.com/matzehuels/vizbind/pkg/errors"
	"github.com/matzehuels/vizbind/pkg/sink"
)

// Export renders an animation in every format.
func Export(anim *Animation, formats []string, opts ...sink.Option) (map[string][]byte, error) {
	out := make(map[string][]byte, len(formats))
	for _, format := range formats {
		var (
			data []byte
			err  error
		)
		switch format {
		case FormatSVG:
			data = sink.RenderSVG(anim.Scene, opts...)
		case FormatJSON:
			data, err = sink.RenderJSON(anim.Scene, opts...)
		case FormatCommands:
			data, err = sink.RenderCommandsJSON(anim.Recorder.Passes())
		default:
			return nil, errors.New(errors.ErrCodeConfiguration, "unsupported format %q", format)
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s", format)
		}
		out[format] = data
	}
	return out, nil
}
