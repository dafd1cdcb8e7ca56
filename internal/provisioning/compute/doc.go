// Package compute provisions serverless functions.
//
// A function is described by an immutable FunctionSpec built through
// NewFunctionSpec. AddFunction runs the whole build-package-deploy sequence:
// the project is rebuilt and archived, the function is created from the
// archive, and the HTTP gateway is granted permission to invoke it.
// An existing function is left as is; its code is not updated in place.
package compute
