// Package secrets creates secret store entries from a JSON secrets file.
//
// Each top-level key of the file becomes a secret whose string value is the
// entry's value re-serialised in the compact-with-spaces form produced by
// Python's json.dumps defaults, so consumers written against the original
// tooling read identical payloads:
//
//	{"db": {"user": "admin", "port": 5432}, "token": "abc"}
//
// yields the secrets "db" = {"user": "admin", "port": 5432} and
// "token" = "abc" (with quotes).
package secrets
