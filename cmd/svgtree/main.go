// Command svgtree loads an SVG (or SVGZ) file, builds its render tree
// and prints it as YAML. With -id, only the transform and the bounding
// box of the given node are printed.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/benoitkugler/svgtree/svgconv"
	"github.com/benoitkugler/svgtree/svgraster"
)

func main() {
	os.Exit(runWithArgs(os.Args[1:], os.Stdout, os.Stderr))
}

func runWithArgs(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("svgtree", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "TOML file with the conversion options")
	dpi := fs.Float64("dpi", 0, "resolution used for absolute units (overrides the config)")
	languages := fs.String("languages", "", "comma separated accepted languages (overrides the config)")
	keepNamed := fs.Bool("keep-named-groups", false, "preserve the groups having an id")
	id := fs.String("id", "", "print the transform and bounding box of this node")
	verbose := fs.Bool("v", false, "log the problems found in the document")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: %s [options] <file.svg>\n\n", fs.Name())
		fmt.Fprintln(stderr, "Prints the render tree of an SVG document.")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Options:")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "error: exactly one SVG file argument is required")
		fs.Usage()
		return 2
	}

	if *verbose {
		svgconv.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))
		defer svgconv.SetLogger(nil)
	}

	opts, err := loadOptions(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	if *dpi != 0 {
		opts.DPI = *dpi
	}
	if *languages != "" {
		opts.Languages = svgconv.ParseLanguages(*languages)
	}
	if *keepNamed {
		opts.KeepNamedGroups = true
	}

	tree, err := svgconv.ConvertFile(fs.Arg(0), &opts)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		var convErr *svgconv.Error
		if errors.As(err, &convErr) && convErr.Code == svgconv.FileOpenFailed {
			return 2
		}
		return 1
	}

	if *id != "" {
		node := tree.NodeByID(*id)
		if node == nil {
			fmt.Fprintf(stderr, "error: no node with id %q\n", *id)
			return 1
		}
		fmt.Fprintf(stdout, "transform: %s\n", node.AbsTransform())
		if bbox, ok := svgraster.NodeBBox(tree, node); ok {
			fmt.Fprintf(stdout, "bbox: %s\n", rectString(bbox))
		} else {
			fmt.Fprintln(stdout, "bbox: none")
		}
		return 0
	}

	out, err := dumpTree(tree)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	if _, err := stdout.Write(out); err != nil {
		return 1
	}
	return 0
}

// loadOptions reads the config file, if any.
func loadOptions(path string) (svgconv.Options, error) {
	if path == "" {
		return svgconv.DefaultOptions(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return svgconv.Options{}, err
	}
	defer f.Close()
	return svgconv.ReadOptions(f)
}
