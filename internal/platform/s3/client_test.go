package s3

import (
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
)

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	client := NewFromConfig(aws.Config{Region: "eu-west-1"})
	assert.Equal(t, "eu-west-1", client.Region())
}

func TestIsNotFoundError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error", nil, false},
		{"plain error", errors.New("boom"), false},
		{"no such bucket", &types.NoSuchBucket{}, true},
		{"not found", &types.NotFound{}, true},
		{"generic 404 code", &smithy.GenericAPIError{Code: "404"}, true},
		{"access denied", &smithy.GenericAPIError{Code: "AccessDenied"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, isNotFoundError(tt.err))
		})
	}
}
