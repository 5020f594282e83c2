package main

import (
	"fmt"
	"strconv"

	"github.com/deepnoodle-ai/actrec/frame"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type wordInfo struct {
	Word          string `json:"word"`
	NumArgs       uint32 `json:"num_args"`
	Flags         string `json:"flags"`
	LocalsDecRefd bool   `json:"locals_dec_refd"`
	Mode          string `json:"mode"`
}

func decodeWord(word uint32) wordInfo {
	numArgs, flags := frame.DecodeNumArgsAndFlags(word)
	return wordInfo{
		Word:          fmt.Sprintf("0x%08x", word),
		NumArgs:       numArgs,
		Flags:         flags.String(),
		LocalsDecRefd: flags.Has(frame.LocalsDecRefd),
		Mode:          flags.Mode().String(),
	}
}

func newWordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "word <value>",
		Short: "Decode a packed numArgsAndFlags word",
		Long:  "Decode a packed numArgsAndFlags word. The value may be decimal, 0x hex or 0b binary.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat()
			if err != nil {
				return err
			}
			value, err := strconv.ParseUint(args[0], 0, 32)
			if err != nil {
				return fmt.Errorf("invalid word %q: %w", args[0], err)
			}
			log.Debug().Uint64("word", value).Msg("decoding word")
			info := decodeWord(uint32(value))
			out := cmd.OutOrStdout()
			if format == "json" {
				return writeJSON(out, info)
			}
			fmt.Fprintf(out, "word     %s\n", info.Word)
			fmt.Fprintf(out, "numArgs  %s\n", cyan(info.NumArgs))
			fmt.Fprintf(out, "flags    %s\n", yellow(info.Flags))
			fmt.Fprintf(out, "mode     %s\n", info.Mode)
			return nil
		},
	}
}
