package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/gekko3d/meshview"
)

func init() {
	// GLFW and the GL context must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	width := flag.Int("width", 800, "Window width")
	height := flag.Int("height", 600, "Window height")
	title := flag.String("title", "meshview", "Window title")
	debug := flag.Bool("debug", false, "Log drag and reset transitions")
	meshName := flag.String("mesh", "cube", "Built-in mesh to view: cube or triangle")
	flag.Parse()

	mesh, err := meshview.BuiltinMesh(*meshName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	app := meshview.NewAppBuilder().
		UseModule(
			meshview.LoggingModule{Debug: *debug},
			meshview.TimeModule{},
			meshview.NewPlatformWindow(*width, *height, *title),
			meshview.InputModule{},
			meshview.TransformModule{},
			meshview.AssetServerModule{},
			meshview.RenderModule{Mesh: &mesh},
			meshview.HudModule{},
		).
		Build()

	app.Run()
}
