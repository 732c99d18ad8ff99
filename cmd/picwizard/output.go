package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/ironsheep/picwizard/internal/dispatch"
	"github.com/ironsheep/picwizard/internal/transform"
)

func printPalette(w io.Writer, palette transform.Palette) {
	for i, s := range palette {
		fmt.Fprintf(w, "%2d. %s  %6.2f%%  rgb(%d, %d, %d)  hsl(%d, %d%%, %d%%)\n",
			i+1, s.Hex, s.Percentage, s.RGB.R, s.RGB.G, s.RGB.B, s.HSL.H, s.HSL.S, s.HSL.L)
	}
}

func printOperations(w io.Writer, ops []dispatch.OperationInfo) {
	for _, op := range ops {
		fmt.Fprintf(w, "%s (%s -> %s)\n", op.Name, op.Accepts, op.Output)
		fmt.Fprintf(w, "    %s\n", op.Description)
		for _, p := range op.Params {
			def := p.Default
			if len(p.Values) > 0 {
				def += " [" + strings.Join(p.Values, "|") + "]"
			}
			fmt.Fprintf(w, "    %-16s %-7s default %-18s %s\n", p.Name, p.Type, def, p.Help)
		}
	}
}
