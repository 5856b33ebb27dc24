// Command effectdemo runs an effect file against the null backend and
// prints the native calls it issued.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/gogpu/glrender"
	"github.com/gogpu/glrender/backend"
	"github.com/gogpu/glrender/effect"
	"github.com/gogpu/glrender/iostream"
	"github.com/gogpu/glrender/resource"
	"github.com/gogpu/glrender/shader"
)

func main() {
	var (
		file    = flag.String("effect", "", "effect file (TOML)")
		class   = flag.String("class", "", "effect class to run (default: first in file)")
		version = flag.String("version", "OpenGL ES 3.1", "GL_VERSION string of the simulated context")
		width   = flag.Int("width", 800, "input width")
		height  = flag.Int("height", 600, "input height")
		frames  = flag.Int("frames", 1, "number of invocations")
		search  = flag.String("search", "", "comma-separated shader search directories")
		verbose = flag.Bool("v", false, "debug logging to stderr")
	)
	flag.Parse()

	if *file == "" {
		flag.Usage()
		os.Exit(2)
	}
	if *verbose {
		glrender.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	format, err := backend.ParseVersion(*version)
	if err != nil {
		log.Fatalf("Invalid version: %v", err)
	}
	funcs := backend.NewNullFunctions(format)
	b := backend.New(funcs, format)

	streams := iostream.NewFactory()
	streams.AddSearchDirectory(filepath.Dir(*file))
	for _, dir := range strings.Split(*search, ",") {
		if dir != "" {
			streams.AddSearchDirectory(dir)
		}
	}

	rm := resource.NewManager(b, resource.Config{})
	shaders := shader.NewManager(b, shader.Config{})
	shaders.SetStreamFactory(streams)
	lib := effect.NewLibrary()
	loader := effect.Loader{Library: lib, Shaders: shaders, Streams: streams}
	if err := loader.LoadFile(*file); err != nil {
		log.Fatalf("Failed to load effect: %v", err)
	}

	name := *class
	if name == "" {
		classes := lib.Classes()
		if len(classes) == 0 {
			log.Fatalf("No effect classes in %s", *file)
		}
		name = classes[0]
	}
	eff, err := lib.Create(name)
	if err != nil {
		log.Fatalf("Failed to create effect: %v", err)
	}

	sys := effect.NewSystem(rm, shaders, effect.Config{})
	sys.SetStreamFactory(streams)

	input := rm.AllocateTexture2D(*width, *height, backend.FormatRGBA8, 1, false)
	rendered := 0
	for i := range *frames {
		sys.SetFrameInfo(uint32(i), 60)
		out, ok := sys.RenderEffect(eff, effect.RenderArgs{Input: input})
		if !ok {
			continue
		}
		rendered++
		rm.ReleaseTexture(out)
	}
	rm.ReleaseTexture(input)

	fmt.Printf("%s on %s (%s): %d/%d invocations rendered\n", name, format, b.ContextType(), rendered, *frames)
	fmt.Println(rm.Stats())
	printCalls(funcs.CallLog())

	sys.Release()
	rm.Release()
	for kind, n := range b.LiveObjects() {
		if n > 0 {
			log.Printf("Leaked %d %s objects", n, kind)
		}
	}
}

// printCalls prints the native call counts, most frequent first.
func printCalls(calls []string) {
	counts := make(map[string]int)
	for _, c := range calls {
		counts[c]++
	}
	names := make([]string, 0, len(counts))
	for n := range counts {
		names = append(names, n)
	}
	slices.SortFunc(names, func(a, b string) int {
		if counts[a] != counts[b] {
			return counts[b] - counts[a]
		}
		return strings.Compare(a, b)
	})

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "call\tcount\n")
	for _, n := range names {
		fmt.Fprintf(w, "%s\t%d\n", n, counts[n])
	}
	_ = w.Flush()
}
