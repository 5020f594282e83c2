package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/deepnoodle-ai/actrec/frame"
	"github.com/deepnoodle-ai/actrec/object"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	viper.Reset()
	cfg := filepath.Join(t.TempDir(), "actrec.yaml")
	require.Nil(t, os.WriteFile(cfg, []byte("no-color: true\n"), 0o644))

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", cfg}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestLayoutText(t *testing.T) {
	out, err := execute(t, "", "layout")
	require.Nil(t, err)
	require.Contains(t, out, "frame 40 bytes")
	require.Contains(t, out, "callerLink")
	require.Contains(t, out, "thisOrClass")
	require.Contains(t, out, "0-27")
	require.Contains(t, out, "0x0fffffff")
	require.Contains(t, out, "30-31")
	require.Contains(t, out, "class tag bit: 0x1")
}

func TestLayoutJSON(t *testing.T) {
	out, err := execute(t, "", "layout", "-o", "json")
	require.Nil(t, err)
	var got layoutInfo
	require.Nil(t, json.Unmarshal([]byte(out), &got))
	require.Equal(t, currentLayout(), got)
}

func TestUnknownOutputFormat(t *testing.T) {
	_, err := execute(t, "", "layout", "-o", "yaml")
	require.EqualError(t, err, "unknown output format: yaml")
}

func TestWord(t *testing.T) {
	out, err := execute(t, "", "word", "0x50000003")
	require.Nil(t, err)
	require.Contains(t, out, "numArgs  3")
	require.Contains(t, out, "flags    LocalsDecRefd|InResumed")
	require.Contains(t, out, "mode     InResumed")

	out, err = execute(t, "", "word", "-o", "json", "7")
	require.Nil(t, err)
	var got wordInfo
	require.Nil(t, json.Unmarshal([]byte(out), &got))
	require.Equal(t, wordInfo{Word: "0x00000007", NumArgs: 7, Flags: "None", Mode: "Normal"}, got)

	_, err = execute(t, "", "word", "seven")
	require.Error(t, err)
}

func testImage(t *testing.T) (frame.Image, *object.Instance, *object.Function) {
	t.Helper()
	h := object.NewHeap()
	unit := object.NewUnit(h, "main.hack")
	cls := object.NewClass(h, "C", nil, unit)
	fn := object.NewFunction(h, "m", unit, object.WithClass(cls))
	inst := object.NewInstance(h, cls)
	var f frame.Frame
	f.Init(fn, 0x100028, 2)
	f.SetThis(inst.Addr())
	f.SetAsyncEagerReturn()
	return f.Image(), inst, fn
}

func TestDecodeJSON(t *testing.T) {
	img, inst, fn := testImage(t)
	out, err := execute(t, "", "decode", "-o", "json", hex.EncodeToString(img[:]))
	require.Nil(t, err)

	var got imageInfo
	require.Nil(t, json.Unmarshal([]byte(out), &got))
	require.Equal(t, "0x100028", got.CallerLink)
	require.Equal(t, fn.Addr().String(), got.Func)
	require.Equal(t, uint32(2), got.NumArgs)
	require.Equal(t, "AsyncEagerRet", got.Flags.Mode)
	require.Equal(t, "instance", got.Context)
	require.Equal(t, inst.Addr().String(), got.ContextAddr)
	require.Equal(t, "none", got.VarEnv)
}

func TestDecodeStdin(t *testing.T) {
	img, _, _ := testImage(t)
	out, err := execute(t, "0x"+hex.EncodeToString(img[:])+"\n", "decode")
	require.Nil(t, err)
	require.Contains(t, out, "callerLink  0x100028")
	require.Contains(t, out, "numArgs     2")
	require.Contains(t, out, "flags       AsyncEagerRet (0x80000002)")
	require.Contains(t, out, "context     instance")
}

func TestDecodeErrors(t *testing.T) {
	_, err := execute(t, "", "decode", "zz")
	require.ErrorContains(t, err, "invalid hex image")

	_, err = execute(t, "", "decode", "00ff")
	require.EqualError(t, err, "frame image must be 40 bytes, got 2")
}

func TestDescribeTrashedImage(t *testing.T) {
	var img frame.Image
	b := img[:]
	copy(b[frame.ThisOrClassOffset:], le64(uint64(frame.TrashedThisSlot)))
	copy(b[frame.VarEnvOffset:], le64(uint64(frame.TrashedVarEnvSlot)))
	info := describeImage(img)
	require.Equal(t, "trashed", info.Context)
	require.Equal(t, "trashed", info.VarEnv)
}

func le64(v uint64) []byte {
	b := make([]byte, 8)
	for i := range b {
		b[i] = byte(v >> (8 * i))
	}
	return b
}

func TestMissingConfigFile(t *testing.T) {
	viper.Reset()
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml"), "layout"})
	require.ErrorContains(t, cmd.Execute(), "reading config")
}
