package meshview

import (
	"fmt"
	"reflect"
	"runtime"
)

type systemFn any

type Module interface {
	Install(app *App, cmd *Commands)
}

// App is the frame driver: it owns every resource and calls the scheduled
// systems stage by stage, once per frame, on the calling goroutine.
type App struct {
	stages    []Stage
	systems   map[string][]systemFn
	resources map[reflect.Type]any
	cleanups  []func()

	exitRequested bool
	frame         uint64
}

func newApp() *App {
	app := &App{
		systems:   make(map[string][]systemFn),
		resources: make(map[reflect.Type]any),
	}
	for _, stage := range defaultStages {
		app.stages = append(app.stages, stage)
		app.initStage(stage)
	}
	return app
}

func (app *App) Commands() *Commands {
	return &Commands{
		app: app,
	}
}

// Run steps frames until a system requests exit, then runs cleanups in
// reverse registration order.
func (app *App) Run() {
	defer app.shutdown()

	app.Logger().Infof("Running %d stages", len(app.stages))
	for !app.exitRequested {
		app.Step()
	}
	app.Logger().Infof("Exit requested after %d frames", app.frame)
}

// Step runs every stage once.
func (app *App) Step() {
	for _, stage := range app.stages {
		for _, system := range app.systems[stage.Name] {
			app.callSystem(system)
		}
	}
	app.frame++
}

func (app *App) Frame() uint64 {
	return app.frame
}

func (app *App) ExitRequested() bool {
	return app.exitRequested
}

func (app *App) requestExit() {
	app.exitRequested = true
}

// OnShutdown registers fn to run when Run returns.
func (app *App) OnShutdown(fn func()) {
	app.cleanups = append(app.cleanups, fn)
}

func (app *App) shutdown() {
	for i := len(app.cleanups) - 1; i >= 0; i-- {
		app.cleanups[i]()
	}
	app.cleanups = nil
}

func (app *App) addResources(resources ...any) *App {
	for _, resource := range resources {
		resourceType := reflect.TypeOf(resource)
		if resourceType.Kind() != reflect.Pointer {
			panic(fmt.Sprintf("%s is not a pointer resource", resourceType))
		}
		if _, ok := app.resources[resourceType.Elem()]; ok {
			panic(fmt.Sprintf("%s is already in resources", resourceType))
		}

		app.resources[resourceType.Elem()] = resource
	}
	return app
}

// Resource returns the resource stored for the pointer type of target.
func Resource[T any](app *App) (*T, bool) {
	r, ok := app.resources[reflect.TypeOf((*T)(nil)).Elem()]
	if !ok {
		return nil, false
	}
	return r.(*T), true
}

func (app *App) callSystem(system systemFn) {
	systemType := reflect.TypeOf(system)
	systemValue := reflect.ValueOf(system)

	args := make([]reflect.Value, systemType.NumIn())

	for i := 0; i < systemType.NumIn(); i++ {
		arg, ok := app.resolveArgument(systemType.In(i))
		if !ok {
			msg := fmt.Sprintf("Unable to resolve System dependency.\nSystem: %s\nSystem type: %s\nDependency: %s",
				runtime.FuncForPC(systemValue.Pointer()).Name(),
				fmt.Sprint(systemType),
				fmt.Sprint(systemType.In(i)),
			)
			panic(msg)
		}
		args[i] = arg
	}
	systemValue.Call(args)
}

var (
	typeOfCommands = reflect.TypeOf(Commands{})
	typeOfLogger   = reflect.TypeOf((*Logger)(nil)).Elem()
)

func (app *App) resolveArgument(argType reflect.Type) (reflect.Value, bool) {
	if argType == typeOfLogger {
		return reflect.ValueOf(app.Logger()), true
	}
	if argType.Kind() != reflect.Pointer {
		return reflect.Value{}, false
	}

	underlyingType := argType.Elem()
	if underlyingType == typeOfCommands {
		return reflect.ValueOf(&Commands{app: app}), true
	}
	if resource, ok := app.resources[underlyingType]; ok {
		return reflect.ValueOf(resource), true
	}
	return reflect.Value{}, false
}
