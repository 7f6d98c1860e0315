package meshview

// TransformModule provides the TransformSession resource and updates it from
// the Input snapshot once per frame. Zero gains fall back to the defaults;
// a nil Bindings uses DefaultBindings.
type TransformModule struct {
	OrbitGain  float32
	PanGain    float32
	ScrollGain float32
	Bindings   *Bindings
}

func (mod TransformModule) config() SessionConfig {
	cfg := DefaultSessionConfig()
	if mod.OrbitGain != 0 {
		cfg.OrbitGain = mod.OrbitGain
	}
	if mod.PanGain != 0 {
		cfg.PanGain = mod.PanGain
	}
	if mod.ScrollGain != 0 {
		cfg.ScrollGain = mod.ScrollGain
	}
	if mod.Bindings != nil {
		cfg.Bindings = *mod.Bindings
	}
	return cfg
}

func (mod TransformModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(NewTransformSession(mod.config(), app.Logger()))
	app.UseSystem(
		System(transformSystem).
			InStage(Update),
	)
}

func transformSystem(input *Input, session *TransformSession) {
	session.Update(input)
}
