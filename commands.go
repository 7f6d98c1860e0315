package meshview

type Commands struct {
	app *App
}

func (cmd *Commands) AddResources(resources ...any) *Commands {
	cmd.app.addResources(resources...)
	return cmd
}

// Exit asks the frame driver to stop after the current frame.
func (cmd *Commands) Exit() {
	cmd.app.requestExit()
}

func (cmd *Commands) OnShutdown(fn func()) {
	cmd.app.OnShutdown(fn)
}
