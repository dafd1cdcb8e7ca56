package queues

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	lambdatypes "github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"github.com/imamik/iacup/internal/platform/awsclient"
	"github.com/imamik/iacup/internal/provisioning"
	"github.com/imamik/iacup/internal/util/naming"
)

const (
	phase       = "queues"
	kindQueue   = "queue"
	kindMapping = "event source mapping"
)

// QueueAPI is the subset of the queue client used by the provisioner.
type QueueAPI interface {
	CreateQueue(ctx context.Context, in *sqs.CreateQueueInput, optFns ...func(*sqs.Options)) (*sqs.CreateQueueOutput, error)
}

// MappingAPI is the subset of the function client that binds queues.
type MappingAPI interface {
	CreateEventSourceMapping(ctx context.Context, in *lambda.CreateEventSourceMappingInput, optFns ...func(*lambda.Options)) (*lambda.CreateEventSourceMappingOutput, error)
}

// Provisioner creates queues and their event source mappings.
type Provisioner struct {
	queues   QueueAPI
	mappings MappingAPI
}

// NewProvisioner creates a queue provisioner.
func NewProvisioner(queues QueueAPI, mappings MappingAPI) *Provisioner {
	return &Provisioner{queues: queues, mappings: mappings}
}

// CreateQueues creates each queue and binds it to its function, in order.
func (p *Provisioner) CreateQueues(ctx *provisioning.Context, specs []Spec) error {
	for _, spec := range specs {
		if err := p.createQueue(ctx, spec); err != nil {
			return err
		}
	}
	return nil
}

func (p *Provisioner) createQueue(ctx *provisioning.Context, spec Spec) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	if !naming.IsFIFOQueue(spec.Name) {
		ctx.Observer.Printf("Queue %s has no .fifo suffix; the emulator may reject it as a FIFO queue", spec.Name)
	}

	// An existing queue with identical attributes is returned by CreateQueue as
	// success; QueueNameExists means the attributes differ and is fatal.
	err := provisioning.Ensure(ctx.Observer, phase, provisioning.Resource{Kind: kindQueue, Name: spec.Name},
		nil,
		func() error {
			_, err := p.queues.CreateQueue(ctx, &sqs.CreateQueueInput{
				QueueName: aws.String(spec.Name),
				Attributes: map[string]string{
					string(sqstypes.QueueAttributeNameFifoQueue):                 "true",
					string(sqstypes.QueueAttributeNameContentBasedDeduplication): "true",
					string(sqstypes.QueueAttributeNameVisibilityTimeout):         spec.visibilitySeconds(),
				},
			})
			return err
		},
	)
	if err != nil {
		return fmt.Errorf("failed to create queue %s: %w", spec.Name, err)
	}
	ctx.State.Queues = append(ctx.State.Queues, spec.Name)

	responseTypes := []lambdatypes.FunctionResponseType{}
	if spec.ReportBatchItemFailures {
		responseTypes = append(responseTypes, lambdatypes.FunctionResponseTypeReportBatchItemFailures)
	}

	mapping := provisioning.Resource{Kind: kindMapping, Name: spec.Name + " -> " + spec.FunctionName}
	err = provisioning.Ensure(ctx.Observer, phase, mapping, awsclient.IsFunctionConflict, func() error {
		_, err := p.mappings.CreateEventSourceMapping(ctx, &lambda.CreateEventSourceMappingInput{
			EventSourceArn:                 aws.String(naming.QueueARN(ctx.Credentials.Region, spec.Name)),
			FunctionName:                   aws.String(spec.FunctionName),
			BatchSize:                      aws.Int32(spec.BatchSize),
			MaximumBatchingWindowInSeconds: aws.Int32(spec.batchWindowSeconds()),
			FunctionResponseTypes:          responseTypes,
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to link queue %s to function %s: %w", spec.Name, spec.FunctionName, err)
	}
	return nil
}
