package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glyphlang/glyph/internal/diag"
	"github.com/glyphlang/glyph/internal/symbol"
	"github.com/glyphlang/glyph/internal/util"
	"github.com/glyphlang/glyph/module"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [names...]",
	Short: "Construct a demo module graph and print its resolved bindings.",
	Long: "Builds a Core module and one module per name argument (each `using` Core), " +
		"then prints every module's exported and imported names.",
	Run: func(cmd *cobra.Command, args []string) {
		opts := &module.Options{
			Interner:   symbol.NewInterner(),
			Diagnostic: diag.NewSink(depModeOf(GetString(cmd, "depwarn"))),
		}

		core := module.NewModule(opts, "Core", nil, false)
		opts.Core = core
		opts.Root = core

		if len(args) == 0 {
			args = []string{"Demo"}
		}

		using, _ := cmd.Flags().GetStringArray("using")
		built := make(map[string]*module.Module, len(args))

		var summary []util.Pair[string, uint64]

		for _, name := range args {
			m := module.NewModule(opts, name, nil, true)
			built[name] = m

			for _, dep := range using {
				if other, ok := built[dep]; ok {
					m.Using(other)
				}
			}

			summary = append(summary, util.NewPair(name, m.BuildID().Lo))

			fmt.Printf("%s (parent=%s)\n", name, m.Parent().Name().Text())

			for _, n := range m.Names(false, true) {
				fmt.Printf("  %s\n", n)
			}
		}

		fmt.Println("---")

		for _, s := range summary {
			name, buildID := s.Split()
			fmt.Printf("%s: build_id=%d\n", name, buildID)
		}
	},
}

func init() {
	inspectCmd.Flags().StringArray("using", nil, "additional modules to `using` by name")
}

func depModeOf(s string) diag.DepMode {
	switch s {
	case "off":
		return diag.DepOff
	case "error":
		return diag.DepError
	default:
		return diag.DepWarn
	}
}
