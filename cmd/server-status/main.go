// Command server-status is the Lambda function behind GET /status.
package main

import (
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/johnlam90/ecs-minecraft-ondemand/pkg/handler"
)

func main() {
	lambda.Start(handler.NewStatusHandler(handler.Options{}))
}
