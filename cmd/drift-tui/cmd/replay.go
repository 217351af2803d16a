package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-drift/drift-tui/pkg/graphics"
	"github.com/go-drift/drift-tui/pkg/rendering"
)

func init() {
	RegisterCommand(&Command{
		Name:  "replay",
		Short: "Print frames from a recording",
		Long: `Print the frames of a recording made with "drift-tui demo --record".

Each frame is drawn into an off-screen buffer of its recorded size and
printed as plain text after a header line.

Flags:
  --frame N     Print only frame N (1-based)
  --summary     Print header lines only`,
		Usage: "drift-tui replay <file> [--frame N] [--summary]",
		Run:   runReplay,
	})
}

type replayOptions struct {
	path    string
	frame   int
	summary bool
}

func parseReplayArgs(args []string) (replayOptions, error) {
	var opts replayOptions
	for i := 0; i < len(args); {
		arg := args[i]
		switch {
		case arg == "--summary":
			opts.summary = true
			i++
		case arg == "--frame" || strings.HasPrefix(arg, "--frame="):
			value, n, err := flagValue(args, i, "--frame")
			if err != nil {
				return opts, err
			}
			frame, err := strconv.Atoi(value)
			if err != nil || frame <= 0 {
				return opts, fmt.Errorf("--frame must be a positive integer, got %q", value)
			}
			opts.frame = frame
			i += n
		case opts.path == "":
			opts.path = arg
			i++
		default:
			return opts, fmt.Errorf("unexpected argument %q", arg)
		}
	}
	if opts.path == "" {
		return opts, fmt.Errorf("recording file is required\n\nUsage: drift-tui replay <file> [--frame N] [--summary]")
	}
	return opts, nil
}

func runReplay(args []string) error {
	opts, err := parseReplayArgs(args)
	if err != nil {
		return err
	}

	f, err := os.Open(opts.path)
	if err != nil {
		return fmt.Errorf("failed to open recording: %w", err)
	}
	defer f.Close()

	n, err := replay(stdout, rendering.NewFrameReader(f), opts)
	if err != nil {
		return err
	}
	if opts.frame > n {
		return fmt.Errorf("recording has %d frames, cannot print frame %d", n, opts.frame)
	}
	return nil
}

// replay prints frames from r and returns how many it read.
func replay(w io.Writer, r *rendering.FrameReader, opts replayOptions) (int, error) {
	buf := rendering.NewCellBuffer(graphics.Size{})
	count := 0
	for {
		list, err := r.ReadFrame()
		if errors.Is(err, io.EOF) {
			return count, nil
		}
		if err != nil {
			return count, fmt.Errorf("frame %d: %w", count+1, err)
		}
		count++
		if opts.frame != 0 && opts.frame != count {
			continue
		}

		size := list.Size()
		fmt.Fprintf(w, "--- frame %d (%dx%d, %d ops)\n", count, size.Width, size.Height, list.Len())
		if opts.summary {
			continue
		}
		if buf.Size() != size {
			buf.Resize(size)
		}
		if err := buf.Draw(list); err != nil {
			return count, err
		}
		if text := buf.String(); text != "" {
			fmt.Fprintln(w, text)
		}
	}
}
