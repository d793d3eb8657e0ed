package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/wordcloud/pkg/fonts"
	"github.com/matzehuels/wordcloud/pkg/palette"
)

// palettesCommand creates the palettes command.
func (c *CLI) palettesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "palettes",
		Short: "List the named color palettes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			nameStyle := lipgloss.NewStyle().Foreground(colorWhite).Width(10)
			for _, name := range palette.Names() {
				colors, err := palette.Named(name)
				if err != nil {
					return err
				}
				var sw strings.Builder
				for _, col := range colors {
					sw.WriteString(swatch(col.Hex()))
				}
				label := name
				if name == palette.DefaultName {
					label += "*"
				}
				fmt.Fprintln(w, nameStyle.Render(label)+" "+sw.String()+" "+styleDim.Render(fmt.Sprintf("%d colors", len(colors))))
			}
			return nil
		},
	}
}

// swatch renders a two-cell block filled with hex.
func swatch(hex string) string {
	return lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render("  ")
}

// fontsCommand creates the fonts command.
func (c *CLI) fontsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "fonts",
		Short: "List the built-in typefaces",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := printer{cmd.OutOrStdout()}
			for _, name := range fonts.Names() {
				face, err := fonts.Lookup(name)
				if err != nil {
					return err
				}
				label := name
				if name == fonts.Default {
					label += "*"
				}
				out.keyValue(label, fmt.Sprintf("%s %s %s", face.Family, face.Weight, face.Style))
			}
			return nil
		},
	}
}
