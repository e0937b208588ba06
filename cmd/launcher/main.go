// Command launcher is the Lambda function that scales the game server service
// from zero to one when a player looks up the server hostname.
package main

import (
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/johnlam90/ecs-minecraft-ondemand/pkg/handler"
)

func main() {
	lambda.Start(handler.NewWakeHandler(handler.Options{}))
}
