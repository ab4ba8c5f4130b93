package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/wordmosaic/pkg/palette"
)

// swatchWidth is the number of color cells drawn per palette.
const swatchWidth = 24

// palettesCommand creates the palettes command.
func (c *CLI) palettesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "palettes",
		Short: "List the built-in color palettes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			nameStyle := lipgloss.NewStyle().Foreground(colorGray).Width(10)
			for _, name := range palette.Names() {
				p, err := palette.Get(name)
				if err != nil {
					return err
				}
				label := name
				if name == palette.Default {
					label += "*"
				}
				fmt.Fprintln(out, nameStyle.Render(label)+" "+swatch(p, swatchWidth))
			}
			printDetail("* default")
			return nil
		},
	}
}

// swatch draws p as a row of n colored cells, sampled evenly from dark to
// light.
func swatch(p palette.Palette, n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		b.WriteString(lipgloss.NewStyle().Background(lipgloss.Color(p.Hex(t))).Render(" "))
	}
	return b.String()
}
