/*
Package lib provides a small API for driving the game server service from other Go programs.

Basic usage:

	// Create a logger
	zapLog, _ := zap.NewDevelopment()
	logger := zapr.NewLogger(zapLog)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	// Create a server manager for the default cluster and service
	manager, err := lib.NewServerManager(ctx, lib.ServerOptions{AllocationID: "eipalloc-12345678"}, logger)
	if err != nil {
		log.Fatalf("Failed to create server manager: %v", err)
	}

	// Start the server if it is scaled to zero
	result, err := manager.Wake(ctx)
	if err != nil {
		log.Fatalf("Failed to wake server: %v", err)
	}

	// Bind the static IP to a task interface by hand
	_, err = manager.AssociateStaticIP(ctx, "eni-12345678")

For a runnable program, see the examples/library-usage directory.
*/
package lib
