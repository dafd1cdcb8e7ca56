// Package packaging builds a function project and archives the build output
// into a deployment artifact.
//
// Every call rebuilds from scratch. The build writes into a fixed publish
// directory; once the build succeeds and that directory exists, every file
// under it is written into a ZIP archive with entry names relative to the
// publish root.
package packaging
