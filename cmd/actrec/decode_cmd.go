package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/deepnoodle-ai/actrec/frame"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type imageInfo struct {
	CallerLink  string   `json:"caller_link"`
	Func        string   `json:"func"`
	NumArgs     uint32   `json:"num_args"`
	Flags       wordInfo `json:"flags"`
	Context     string   `json:"context"`
	ContextAddr string   `json:"context_addr,omitempty"`
	VarEnv      string   `json:"var_env"`
}

func describeImage(img frame.Image) imageInfo {
	info := imageInfo{
		CallerLink: img.CallerLink().String(),
		Func:       img.FuncAddr().String(),
		NumArgs:    img.NumArgs(),
		Flags:      decodeWord(img.NumArgsAndFlags()),
	}
	if img.ThisOrClass() == frame.TrashedThisSlot {
		info.Context = "trashed"
	} else {
		cc := img.CallContext()
		info.Context = cc.Kind.String()
		if cc.Kind != frame.Empty {
			info.ContextAddr = cc.Addr.String()
		}
	}
	switch env := img.VarEnvAddr(); {
	case env == frame.TrashedVarEnvSlot:
		info.VarEnv = "trashed"
	case env.IsNull():
		info.VarEnv = "none"
	default:
		info.VarEnv = env.String()
	}
	return info
}

func parseHexImage(s string) (frame.Image, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	s = strings.NewReplacer(" ", "", "\n", "", "\t", "", ":", "").Replace(s)
	b, err := hex.DecodeString(s)
	if err != nil {
		return frame.Image{}, fmt.Errorf("invalid hex image: %w", err)
	}
	return frame.ParseImage(b)
}

func newDecodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode [hex]",
		Short: "Decode a raw frame image",
		Long:  fmt.Sprintf("Decode a raw %d-byte frame image given as hex, from the argument or stdin.", frame.Size),
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat()
			if err != nil {
				return err
			}
			var input string
			if len(args) == 1 {
				input = args[0]
			} else {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return err
				}
				input = string(data)
			}
			img, err := parseHexImage(input)
			if err != nil {
				return err
			}
			log.Debug().Str("image", img.String()).Msg("decoded frame image")
			info := describeImage(img)
			out := cmd.OutOrStdout()
			if format == "json" {
				return writeJSON(out, info)
			}
			fmt.Fprintf(out, "callerLink  %s\n", info.CallerLink)
			fmt.Fprintf(out, "func        %s\n", info.Func)
			fmt.Fprintf(out, "numArgs     %s\n", cyan(info.NumArgs))
			fmt.Fprintf(out, "flags       %s (%s)\n", yellow(info.Flags.Flags), info.Flags.Word)
			context := info.Context
			if info.ContextAddr != "" {
				context = fmt.Sprintf("%s %s", context, info.ContextAddr)
			}
			if info.Context == "trashed" {
				context = red(context)
			}
			fmt.Fprintf(out, "context     %s\n", context)
			fmt.Fprintf(out, "varEnv      %s\n", info.VarEnv)
			return nil
		},
	}
	return cmd
}
