// Package gatehouse is a request-routing and access-control engine for
// server-rendered web applications.
//
// URLs follow the /<module>/<action>/<params...> convention, optionally
// carrying the reserved tokens page-N, order-N and noLog. Custom routes
// with regex placeholders can remap any URL shape onto a module/action
// pair; authorization always evaluates the canonical pair.
//
// The pipeline behind every request:
//
//  1. Parse the URL into segments, query parameters and the ajax/raw
//     presentation flags.
//  2. Resolve it against the application route table, then the module
//     table, then the positional fallback.
//  3. Resume or start the session; expired sessions are audited and
//     replaced, and a remember-me cookie logs the user back in.
//  4. Redirect anonymous requests to gated modules to the login page,
//     remembering where they wanted to go.
//  5. Authorize authenticated users against their group's ACL rules;
//     denials redirect to the group's landing resource.
//  6. Dispatch to the registered module/action handler.
//
// Everything is assembled through functional options:
//
//	app, err := gatehouse.New(
//	    gatehouse.WithCookieOptions(gatehouse.WithCookieSecret(secret)),
//	    gatehouse.WithSessionStore(session.NewPostgresStore(pool)),
//	    gatehouse.WithUserStore(pg.NewUserStore(pool)),
//	    gatehouse.WithRuleStore(pg.NewRuleStore(pool)),
//	)
//
//	app.Handle("blog", "list", listPosts)
//	err = app.Run(":8080")
package gatehouse
