// Package ecsminecraftondemand keeps an on-demand ECS Fargate game server reachable
// at one stable address and wakes it when players show up.
//
// It ships three Lambda functions and an operator CLI:
//
//  1. eip-manager (cmd/eip-manager) binds a pre-reserved Elastic IP to the network
//     interface of every new server task once its attachment becomes ATTACHED.
//  2. launcher (cmd/launcher) scales the service from zero to one running task.
//  3. server-status (cmd/server-status) reports whether the server has running tasks.
//  4. mcctl (cmd/mcctl) runs any of the above by hand.
//
// The reconcilers can also be used as a library:
//
//	zapLog, _ := zap.NewDevelopment()
//	logger := zapr.NewLogger(zapLog)
//
//	clients, err := aws.NewClients(ctx, aws.ClientOptions{Region: "us-east-1", Logger: logger})
//	if err != nil {
//	    log.Fatalf("Failed to create clients: %v", err)
//	}
//
//	cfg, _ := config.LoadWakeConfig(nil)
//	result, err := reconciler.NewWakeReconciler(cfg, clients.Services, logger).Handle(ctx)
package ecsminecraftondemand
