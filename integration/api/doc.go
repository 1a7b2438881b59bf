// Package api is the REST client for the platform backend. It covers the
// operations the session core depends on: login, registration, profile reads
// and updates, the pending collaboration-request count, and the liveness ping.
//
// The client satisfies session.AuthService, notify.CountService, and
// keepalive.PingService, so one instance wires the whole core:
//
//	client, err := api.New(cfg,
//		api.WithTokenSource(func() string { return store.Get().Token() }),
//	)
package api
