package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/deepnoodle-ai/actrec/frame"
	"github.com/spf13/cobra"
)

type layoutInfo struct {
	Size              int              `json:"size"`
	Fields            []frame.Field    `json:"fields"`
	NumArgsAndFlags   []frame.BitField `json:"num_args_and_flags"`
	HasClassBit       uint64           `json:"has_class_bit"`
	TrashedThisSlot   string           `json:"trashed_this_slot"`
	TrashedVarEnvSlot string           `json:"trashed_var_env_slot"`
}

func currentLayout() layoutInfo {
	return layoutInfo{
		Size:              frame.Size,
		Fields:            frame.Fields(),
		NumArgsAndFlags:   frame.BitFields(),
		HasClassBit:       uint64(frame.HasClassBit),
		TrashedThisSlot:   frame.TrashedThisSlot.String(),
		TrashedVarEnvSlot: frame.TrashedVarEnvSlot.String(),
	}
}

func newLayoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "layout",
		Short: "Print frame field offsets and bit assignments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat()
			if err != nil {
				return err
			}
			info := currentLayout()
			out := cmd.OutOrStdout()
			if format == "json" {
				return writeJSON(out, info)
			}
			fmt.Fprintf(out, "%s %d bytes\n\n", bold("frame"), info.Size)
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, bold("OFFSET\tSIZE\tFIELD\tDESCRIPTION"))
			for _, f := range info.Fields {
				fmt.Fprintf(tw, "%d\t%d\t%s\t%s\n", f.Offset, f.Size, cyan(f.Name), f.Doc)
			}
			tw.Flush()

			fmt.Fprintf(out, "\n%s\n\n", bold("numArgsAndFlags"))
			tw = tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, bold("BITS\tMASK\tFIELD"))
			for _, bf := range info.NumArgsAndFlags {
				bits := fmt.Sprintf("%d", bf.Shift)
				if bf.Width > 1 {
					bits = fmt.Sprintf("%d-%d", bf.Shift, bf.Shift+bf.Width-1)
				}
				fmt.Fprintf(tw, "%s\t0x%08x\t%s\n", bits, bf.Mask, cyan(bf.Name))
			}
			tw.Flush()

			fmt.Fprintf(out, "\nclass tag bit: %s\n", yellow(fmt.Sprintf("0x%x", info.HasClassBit)))
			fmt.Fprintf(out, "trashed thisOrClass: %s\n", yellow(info.TrashedThisSlot))
			fmt.Fprintf(out, "trashed varEnv: %s\n", yellow(info.TrashedVarEnvSlot))
			return nil
		},
	}
}
