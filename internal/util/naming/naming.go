package naming

import (
	"fmt"
	"strings"

	"github.com/imamik/iacup/internal/config"
)

// CustomIDTag is the tag key the emulator reads to pin a REST API id.
const CustomIDTag = "_custom_id_"

// Naming functions for emulated resources.

func QueueARN(region, queue string) string {
	return fmt.Sprintf("arn:aws:sqs:%s:%s:%s", region, config.AccountID, queue)
}

func FunctionRole(role string) string {
	return fmt.Sprintf("arn:aws:iam::%s:role/%s", config.AccountID, role)
}

// GatewaySourceARN matches every method and path of every stage of the
// emulator's local gateway.
func GatewaySourceARN(region string) string {
	return fmt.Sprintf("arn:aws:execute-api:%s:%s:local/*/*/*", region, config.AccountID)
}

func Gateway(prefix string, env config.Environment) string {
	return fmt.Sprintf("%s-%s", prefix, env)
}

// IsFIFOQueue reports whether a queue name carries the FIFO suffix.
func IsFIFOQueue(name string) bool {
	return strings.HasSuffix(name, ".fifo")
}
