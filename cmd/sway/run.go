package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phanxgames/sway"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <script>",
	Short: "Run an animation script headless and print its values",
	Long:  `Runs the script frame by frame without a window and prints the named values, as text or NDJSON.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		script, err := loadScript(args[0])
		if err != nil {
			return err
		}
		if forceRemote, _ := cmd.Flags().GetBool("remote"); forceRemote {
			script.Remote = true
		}
		every, _ := cmd.Flags().GetInt("every")
		jsonMode, _ := cmd.Flags().GetBool("json")
		showMetrics, _ := cmd.Flags().GetBool("metrics")

		s := newSession(cfg, logger, script.Remote, nil)
		out := cmd.OutOrStdout()
		frames := 0
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		res, err := script.Run(ctx, s.graph,
			sway.BeforeFrame(s.tick),
			sway.OnFrame(func(f sway.Frame) {
				frames++
				if every <= 0 || f.Index%every != 0 {
					return
				}
				printFrame(out, f, jsonMode)
			}),
		)
		if err != nil {
			return err
		}
		logger.Debug("script finished", "script", args[0], "frames", frames, "finished", res.Finished)
		if jsonMode {
			enc := json.NewEncoder(out)
			if err := enc.Encode(map[string]any{"finished": res.Finished, "frames": frames}); err != nil {
				return err
			}
		} else {
			fmt.Fprintf(out, "finished=%t frames=%d\n", res.Finished, frames)
		}
		if showMetrics {
			counters, err := s.counters()
			if err != nil {
				return err
			}
			names := make([]string, 0, len(counters))
			for name := range counters {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(out, "%s %g\n", name, counters[name])
			}
		}
		return nil
	},
}

func printFrame(w io.Writer, f sway.Frame, jsonMode bool) {
	if jsonMode {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"frame":  f.Index,
			"time":   f.Time,
			"values": f.Values,
		})
		return
	}
	names := make([]string, 0, len(f.Values))
	for name := range f.Values {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s=%.3f", name, f.Values[name])
	}
	fmt.Fprintf(w, "%5d %7.3fs %s\n", f.Index, f.Time, strings.Join(parts, " "))
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("remote", false, "Run every timing step on the in-process remote executor")
	runCmd.Flags().Int("every", 1, "Print every Nth frame (0 prints only the summary)")
	runCmd.Flags().Bool("json", false, "Print NDJSON instead of text")
	runCmd.Flags().Bool("metrics", false, "Print bridge metrics after the run")
}
