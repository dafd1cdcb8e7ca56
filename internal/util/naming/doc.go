// Package naming provides consistent names and ARNs for emulated cloud resources.
//
// All ARNs use the emulator's fixed account id. Gateway resources follow the
// pattern {prefix}-{environment}, which is both the API name and its
// _custom_id_ tag.
package naming
