package awsclient

import (
	"errors"

	apigwtypes "github.com/aws/aws-sdk-go-v2/service/apigateway/types"
	lambdatypes "github.com/aws/aws-sdk-go-v2/service/lambda/types"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	smtypes "github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
	"github.com/aws/smithy-go"
)

// IsFunctionConflict reports whether a compute-function call failed because
// the function, permission statement or event source mapping already exists.
func IsFunctionConflict(err error) bool {
	var rce *lambdatypes.ResourceConflictException
	if errors.As(err, &rce) {
		return true
	}
	return hasErrorCode(err, "ResourceConflictException")
}

// IsSecretConflict reports whether a secret with the same name already exists.
func IsSecretConflict(err error) bool {
	var ree *smtypes.ResourceExistsException
	if errors.As(err, &ree) {
		return true
	}
	return hasErrorCode(err, "ResourceExistsException")
}

// IsBucketConflict reports whether the bucket already exists.
func IsBucketConflict(err error) bool {
	var baoby *s3types.BucketAlreadyOwnedByYou
	if errors.As(err, &baoby) {
		return true
	}
	var bae *s3types.BucketAlreadyExists
	if errors.As(err, &bae) {
		return true
	}
	return hasErrorCode(err, "BucketAlreadyOwnedByYou", "BucketAlreadyExists")
}

// IsGatewayConflict reports whether a gateway resource already exists.
func IsGatewayConflict(err error) bool {
	var ce *apigwtypes.ConflictException
	if errors.As(err, &ce) {
		return true
	}
	return hasErrorCode(err, "ConflictException")
}

// hasErrorCode checks if err is a smithy API error with one of the given codes.
func hasErrorCode(err error, codes ...string) bool {
	if err == nil {
		return false
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		for _, c := range codes {
			if code == c {
				return true
			}
		}
	}
	return false
}
