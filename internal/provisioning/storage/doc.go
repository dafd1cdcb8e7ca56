// Package storage ensures object-storage buckets exist.
//
// A bucket is probed first; any probe failure is treated as "absent" and
// creation is attempted. A creation conflict counts as success.
package storage
