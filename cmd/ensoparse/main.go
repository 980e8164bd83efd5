// Command ensoparse is a debug harness over the parser pipeline (spec
// §7): parse a file and print its tree, round-trip it through
// pkgs/serialize, or split out its metadata block. Grounded on the
// teacher's CLIHarness, a thin Cobra root wired to a handful of leaf
// commands rather than a code-generation framework.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ensolang/parser/pkgs/metadata"
	"github.com/ensolang/parser/pkgs/parser"
	"github.com/ensolang/parser/pkgs/serialize"
	"github.com/ensolang/parser/pkgs/sexpr"
	"github.com/ensolang/parser/pkgs/source"
	"github.com/ensolang/parser/pkgs/validator"
)

func spanOf(src string) source.Span {
	return source.Span{Start: 0, End: source.New(src).Len()}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var trace bool

	root := &cobra.Command{
		Use:   "ensoparse",
		Short: "Debug harness for the Enso surface-language parser",
	}
	root.PersistentFlags().BoolVar(&trace, "trace", false, "emit resolver trace logs to stderr")

	newP := func() *parser.Parser {
		if trace {
			return parser.NewTrace()
		}
		return parser.New()
	}

	root.AddCommand(newParseCmd(newP))
	root.AddCommand(newSexprCmd(newP))
	root.AddCommand(newRoundtripCmd(newP))
	root.AddCommand(newMetadataCmd())
	return root
}

func readSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

func newParseCmd(newP func() *parser.Parser) *cobra.Command {
	return &cobra.Command{
		Use:   "parse FILE",
		Short: "parse a file and print validation results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(args[0])
			if err != nil {
				return err
			}
			_, body, err := metadata.Parse(src)
			if err != nil {
				return err
			}
			tree := newP().Parse(body)
			spanErrs := validator.ValidateSpans(tree, spanOf(body))
			for _, e := range spanErrs {
				fmt.Fprintln(os.Stderr, e.Error())
			}
			fmt.Printf("parsed %d nodes, %d span violations\n", len(tree.Nodes)-1, len(spanErrs))
			return nil
		},
	}
}

func newSexprCmd(newP func() *parser.Parser) *cobra.Command {
	return &cobra.Command{
		Use:   "sexpr FILE",
		Short: "parse a file and print its s-expression",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(args[0])
			if err != nil {
				return err
			}
			tree := newP().Parse(src)
			fmt.Println(sexpr.Print(tree))
			return nil
		},
	}
}

func newRoundtripCmd(newP func() *parser.Parser) *cobra.Command {
	return &cobra.Command{
		Use:   "roundtrip FILE",
		Short: "parse, serialize, deserialize, and compare s-expressions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(args[0])
			if err != nil {
				return err
			}
			tree := newP().Parse(src)
			data, err := serialize.Encode(tree)
			if err != nil {
				return err
			}
			decoded, err := serialize.Decode(data)
			if err != nil {
				return err
			}
			before, after := sexpr.Print(tree), sexpr.Print(decoded)
			if before != after {
				fmt.Fprintln(os.Stderr, "roundtrip mismatch")
				fmt.Fprintln(os.Stderr, "before:", before)
				fmt.Fprintln(os.Stderr, "after: ", after)
				return fmt.Errorf("roundtrip: tree changed shape across encode/decode")
			}
			fmt.Printf("roundtrip ok: %d bytes\n", len(data))
			return nil
		},
	}
}

func newMetadataCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "metadata FILE",
		Short: "print a file's metadata block, if any",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(args[0])
			if err != nil {
				return err
			}
			block, _, err := metadata.Parse(src)
			if err != nil {
				return err
			}
			if block == nil {
				fmt.Println("no metadata block")
				return nil
			}
			for _, rec := range block.Records {
				fmt.Printf("index=%d size=%d id=%s\n", rec.Index, rec.Size, rec.ID)
			}
			return nil
		},
	}
}
