package cmd

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/spf13/cobra"

	"github.com/bnema/sitetheme/internal/cli/styles"
	"github.com/bnema/sitetheme/internal/domain/entity"
	"github.com/bnema/sitetheme/internal/ui/theme"
)

var paletteCmd = &cobra.Command{
	Use:   "palette",
	Short: "Show accent colours and their contrast against both backgrounds",
	Long: `List every accent of the palette with its dark and light variants, and
the WCAG contrast ratio of each against the light and dark backgrounds.`,
	Args: cobra.NoArgs,
	RunE: runPalette,
}

func init() {
	rootCmd.AddCommand(paletteCmd)
}

func runPalette(cmd *cobra.Command, _ []string) error {
	app, err := requireApp()
	if err != nil {
		return err
	}

	rows, err := paletteRows()
	if err != nil {
		return err
	}
	tableRows := make([]table.Row, len(rows))
	width := 0
	for _, c := range styles.PaletteTableColumns() {
		width += c.Width + 2
	}
	for i, r := range rows {
		tableRows[i] = r.ToRow()
	}

	t := styles.NewStyledTable(app.Theme, styles.PaletteTableColumns(), tableRows, width, len(tableRows)+1)
	t.Blur()
	fmt.Fprintln(cmd.OutOrStdout(), t.View())
	return nil
}

// paletteRows measures every accent variant against the default light and
// dark backgrounds.
func paletteRows() ([]styles.PaletteRow, error) {
	light, _ := theme.HexToRGB(theme.DefaultLightPalette().Background)
	dark, _ := theme.HexToRGB(theme.DefaultDarkPalette().Background)

	var rows []styles.PaletteRow
	for _, accent := range entity.Accents() {
		primary, ok := theme.HexToRGB(accent.Hex)
		if !ok {
			return nil, fmt.Errorf("accent %s has invalid colour %q", accent.Key, accent.Hex)
		}
		variants := []struct {
			name string
			rgb  theme.RGB
		}{
			{"primary", primary},
			{"dark", theme.AdjustBrightness(primary, theme.PrimaryDarkPercent)},
			{"light", theme.AdjustBrightness(primary, theme.PrimaryLightPercent)},
		}
		for _, v := range variants {
			onLight := theme.ContrastRatio(v.rgb, light)
			onDark := theme.ContrastRatio(v.rgb, dark)
			rows = append(rows, styles.PaletteRow{
				Accent:     accent.Name,
				Variant:    v.name,
				Hex:        theme.RGBToHex(v.rgb),
				OnLight:    onLight,
				LightGrade: theme.ContrastGrade(onLight),
				OnDark:     onDark,
				DarkGrade:  theme.ContrastGrade(onDark),
			})
		}
	}
	return rows, nil
}
