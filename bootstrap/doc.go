// Package bootstrap runs a service through its lifecycle: typed config,
// logger, component start in registration order, configure callbacks,
// readiness, signal wait and reverse-order shutdown.
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.RegisterComponent(database.NewComponent(cfg.Database, app.Logger))
//	app.OnConfigure(func(ctx context.Context, a *bootstrap.App[*Config]) error {
//	    // build services from started components, register the server
//	    return nil
//	})
//	err = app.Run(ctx)
package bootstrap
