package cli

import (
	"context"
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/lennartvogel/foldview/pkg/errors"
	"github.com/lennartvogel/foldview/pkg/layered"
	"github.com/lennartvogel/foldview/pkg/pipeline"
)

// resolveCommand creates the resolve command for translating drag gestures
// into constraint actions.
func (c *CLI) resolveCommand() *cobra.Command {
	var (
		nodeID    string
		x         float64
		y         float64
		direction string
		movesFile string
		noStore   bool
	)

	cmd := &cobra.Command{
		Use:   "resolve [model.json]",
		Short: "Translate node drags into layout constraint actions",
		Long: `Translate node drags into layout constraint actions.

A single drag is given with --node, --x and --y: the named node is treated
as released at that position, and the resulting constraint action is
printed as JSON. Alternatively --moves replays a JSON file containing a
list of {"node_id", "x", "y"} gestures in order.

Unless --no-store is given, resulting constraints are persisted through
the store configured in the config file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if movesFile == "" && nodeID == "" {
				return errors.New(errors.ErrCodeInvalidInput, "either --node or --moves is required")
			}
			return c.runResolve(cmd.Context(), args[0], nodeID, x, y, direction, movesFile, noStore)
		},
	}

	cmd.Flags().StringVarP(&nodeID, "node", "n", "", "ID of the dragged node")
	cmd.Flags().Float64Var(&x, "x", 0, "drop position x (top-left corner)")
	cmd.Flags().Float64Var(&y, "y", 0, "drop position y (top-left corner)")
	cmd.Flags().StringVarP(&direction, "direction", "d", "", "layout direction: right, left, down, up")
	cmd.Flags().StringVar(&movesFile, "moves", "", "JSON file with a list of drag gestures to replay")
	cmd.Flags().BoolVar(&noStore, "no-store", false, "do not persist resulting constraints")

	return cmd
}

func (c *CLI) runResolve(ctx context.Context, input, nodeID string, x, y float64, direction, movesFile string, noStore bool) error {
	opts := c.pipelineOptions()
	if direction != "" {
		dir := layered.DirectionFromString(direction)
		if dir == layered.Undefined && direction != "undefined" {
			return errors.New(errors.ErrCodeInvalidDirection, "unknown direction %q", direction)
		}
		opts.Direction = dir
	}

	var (
		runner *pipeline.Runner
		closer func()
		err    error
	)
	if noStore {
		runner, closer = pipeline.NewRunner(nil, c.Logger), func() {}
	} else {
		runner, closer, err = c.newRunner(ctx)
		if err != nil {
			return err
		}
	}
	defer closer()

	root, err := runner.LoadModel(input)
	if err != nil {
		return err
	}

	moves := []pipeline.Move{{NodeID: nodeID, X: x, Y: y}}
	if movesFile != "" {
		moves, err = readMoves(movesFile)
		if err != nil {
			return err
		}
	}

	enc := json.NewEncoder(os.Stdout)
	for _, move := range moves {
		action, err := runner.ResolveMove(ctx, input, root, move, opts)
		if err != nil {
			return err
		}
		body, err := layered.MarshalAction(action)
		if err != nil {
			return err
		}
		if err := enc.Encode(json.RawMessage(body)); err != nil {
			return err
		}
	}

	printSuccess("Resolved %d move(s)", len(moves))
	return nil
}

// readMoves loads a JSON array of drag gestures.
func readMoves(path string) ([]pipeline.Move, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read moves %s", path)
	}
	var moves []pipeline.Move
	if err := json.Unmarshal(data, &moves); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse moves %s", path)
	}
	if len(moves) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "moves file %s is empty", path)
	}
	for i, m := range moves {
		if m.NodeID == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "move %d has no node_id", i)
		}
	}
	return moves, nil
}
