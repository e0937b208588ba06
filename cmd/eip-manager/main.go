// Command eip-manager is the Lambda function that binds the static Elastic IP
// to the network interface of each new game server task.
package main

import (
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/johnlam90/ecs-minecraft-ondemand/pkg/handler"
)

func main() {
	lambda.Start(handler.NewAttachmentHandler(handler.Options{}))
}
