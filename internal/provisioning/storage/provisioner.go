package storage

import (
	"context"

	"github.com/imamik/iacup/internal/platform/awsclient"
	"github.com/imamik/iacup/internal/provisioning"
)

const (
	phase = "buckets"
	kind  = "bucket"
)

// BucketAPI is the subset of the bucket wrapper used by the provisioner.
type BucketAPI interface {
	BucketExists(ctx context.Context, name string) (bool, error)
	CreateBucket(ctx context.Context, name string) error
}

// Provisioner ensures buckets exist.
type Provisioner struct {
	client BucketAPI
}

// NewProvisioner creates a bucket provisioner.
func NewProvisioner(client BucketAPI) *Provisioner {
	return &Provisioner{client: client}
}

// EnsureBucket creates the bucket unless it already exists.
func (p *Provisioner) EnsureBucket(ctx *provisioning.Context, name string) error {
	exists, err := p.client.BucketExists(ctx, name)
	if err == nil && exists {
		provisioning.LogResourceExists(ctx.Observer, phase, kind, name, "")
		ctx.State.Buckets = append(ctx.State.Buckets, name)
		return nil
	}

	err = provisioning.Ensure(ctx.Observer, phase, provisioning.Resource{Kind: kind, Name: name},
		awsclient.IsBucketConflict,
		func() error { return p.client.CreateBucket(ctx, name) },
	)
	if err != nil {
		return err
	}
	ctx.State.Buckets = append(ctx.State.Buckets, name)
	return nil
}

// EnsureBuckets ensures each bucket in order and stops at the first failure.
func (p *Provisioner) EnsureBuckets(ctx *provisioning.Context, names []string) error {
	for _, name := range names {
		if err := p.EnsureBucket(ctx, name); err != nil {
			return err
		}
	}
	return nil
}
