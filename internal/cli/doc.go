// Package cli implements the gapview command-line interface.
//
// Each Cobra command loads the config, builds a source and hands the
// payload to the package that does the work: the dashboard in monitor,
// the gap math in chart, the tables in ui.
//
// # Command Structure
//
//	gapview               - Open the dashboard (same as view)
//	gapview view          - Interactive gap-compressed charts
//	gapview gaps [client] - List the idle stretches the chart compresses
//	gapview status        - Latest status per client, exit code 0/1/2
//	gapview keys <client> - Choose the keys a chart starts with
//	gapview init          - Create .gapview.yaml
//
// # Flag Handling
//
// Global flags (--config, --verbose, --no-color) are defined on the root
// command. The source flags (--file, --url, --host, --command) override
// the config's source section for one run, and init uses them to
// prefill the new config.
//
// # Error Handling
//
// Commands return errors from the errors package, which carry a code and
// a suggestion. Execute prints them to stderr. An ExitError sets the exit
// status without printing, which is how status reports its result.
package cli
