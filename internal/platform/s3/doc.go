// Package s3 provides the object-storage client used by the bucket provisioner.
//
// It wraps the SDK S3 client with the two calls provisioning needs: a
// HeadBucket existence probe and a region-constrained CreateBucket. Requests
// use path-style addressing, which the emulator requires.
package s3
