// Package messages provides the diagnostic sink shared by the resource clients.
//
// Every client operation appends one short, human-readable status line
// ("fetched languages", "added language w/ id=21", "getLanguages failed: ...")
// to a Sink. The log is append-only; the only way entries disappear is an
// explicit Clear from the UI. There are no severity levels and no structured
// fields: structured diagnostics go to slog, this log is for the user.
//
// One Log is created per session and handed to every client that should
// report into it:
//
//	log := messages.NewLog()
//	languages := resource.New[model.Language](kind, tr, log, logger)
//	...
//	for _, m := range log.Messages() {
//	    fmt.Println(m)
//	}
package messages
