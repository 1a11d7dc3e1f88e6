package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/empack-dev/empack/internal/core"
)

// requirement is one external binary empack shells out to.
type requirement struct {
	bin   string
	why   string
}

func requirements() []requirement {
	return []requirement{
		{core.BinPackwiz, "manages pack.toml and pack/index.toml"},
		{core.BinMrpackInstall, "bootstraps a dedicated server from a .mrpack"},
		{core.BinJava, "runs packwiz-installer-bootstrap.jar for full installs"},
		{core.BinZip, "produces stored, uncompressed .zip distributions"},
		{core.BinGit, "optional: used only if the workspace is a git repository"},
	}
}

func newRequirementsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "requirements",
		Short: "List required external binaries and their resolution",
		RunE: func(cmd *cobra.Command, args []string) error {
			missing := 0
			report := "# empack requirements\n\n"
			for _, r := range requirements() {
				path, err := exec.LookPath(r.bin)
				if err != nil {
					if r.bin != core.BinGit {
						missing++
					}
					report += fmt.Sprintf("- **%s** — NOT FOUND (%s)\n", r.bin, r.why)
					continue
				}
				report += fmt.Sprintf("- **%s** — %s (%s)\n", r.bin, path, r.why)
			}

			renderAndPrint(cmd, report)

			if missing > 0 {
				os.Exit(6)
			}
			return nil
		},
	}
}

// renderAndPrint renders report through glamour when verbose output was
// requested and stdout is worth decorating; otherwise it prints the raw
// markdown, the same "degrade to plain text" rule the teacher's terminal
// UI applies when color is disabled.
func renderAndPrint(cmd *cobra.Command, report string) {
	if flags.verbose {
		if renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle()); err == nil {
			if rendered, err := renderer.Render(report); err == nil {
				fmt.Fprint(cmd.OutOrStdout(), rendered)
				return
			}
		}
	}
	fmt.Fprint(cmd.OutOrStdout(), report)
}
