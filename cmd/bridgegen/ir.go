package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/chazu/bridgegen/bridge"
	"github.com/chazu/bridgegen/bridgefile"
	"github.com/spf13/cobra"
)

var irCmd = &cobra.Command{
	Use:   "ir <file>",
	Short: "Print the resolved declarations of a bridge description",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := bridgefile.Load(args[0])
		if err != nil {
			return err
		}
		mod, err := doc.BuildModule()
		if err != nil {
			return err
		}
		describeModule(cmd.OutOrStdout(), mod)
		return nil
	},
}

// describeModule prints types then functions, both in declaration order,
// with the ownership classification of every use site.
func describeModule(w io.Writer, mod *bridge.Module) {
	fmt.Fprintf(w, "module %s\n", mod.Name)

	fmt.Fprintln(w, "types:")
	for _, d := range mod.Types.Types() {
		extern := ""
		if d.AlreadyDeclared() {
			extern = " (already declared)"
		}
		switch d.Kind {
		case bridge.DeclOpaque:
			fmt.Fprintf(w, "  opaque %s, %s-owned%s\n", d.Opaque.Name, d.Opaque.Owner, extern)
		case bridge.DeclStruct:
			fmt.Fprintf(w, "  struct %s, repr %s%s\n", d.Struct.Name, d.Struct.Repr, extern)
			for _, f := range d.Struct.Fields {
				fmt.Fprintf(w, "    %s: %s  [%s]\n", f.Name, f.Type, bridge.Classify(f.Type))
			}
		case bridge.DeclEnum:
			fmt.Fprintf(w, "  enum %s { %s }%s\n", d.Enum.Name, strings.Join(d.Enum.Variants, ", "), extern)
		}
	}

	fmt.Fprintln(w, "functions:")
	for _, fn := range mod.Functions {
		name := fn.Name
		if fn.SelfType != nil {
			name = fn.SelfType.Name + "::" + fn.Name
		}
		var tags []string
		if fn.Receiver != bridge.NoReceiver {
			tags = append(tags, fn.Receiver.String())
		}
		if fn.Init {
			tags = append(tags, "init")
		}
		if fn.Feature != "" {
			tags = append(tags, "feature "+fn.Feature)
		}
		tag := ""
		if len(tags) > 0 {
			tag = " (" + strings.Join(tags, ", ") + ")"
		}
		fmt.Fprintf(w, "  %s fn %s -> %s%s\n", fn.Side, name, fn.Return, tag)
		for _, p := range fn.Params {
			fmt.Fprintf(w, "    %s: %s  [%s]\n", p.Name, p.Type, describeUse(p.Type))
		}
		if !fn.Return.IsUnit() {
			fmt.Fprintf(w, "    return: %s  [%s]\n", fn.Return, describeUse(fn.Return))
		}
	}
}

func describeUse(b bridge.BridgedType) string {
	c := bridge.Classify(b)
	if c.Transfers() {
		return c.String() + ", transfers ownership"
	}
	return c.String()
}
