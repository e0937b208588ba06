// Package config resolves the per-invocation configuration of the reconcilers
// from named environment inputs.
package config

const (
	// DefaultRegion is the AWS region used for every API call
	DefaultRegion = "us-east-1"
	// DefaultCluster is the ECS cluster used when CLUSTER is not set
	DefaultCluster = "minecraft"
	// DefaultService is the ECS service used when SERVICE is not set
	DefaultService = "minecraft-server"
)

var (
	eipVar            = Var{Name: "EIP", Kind: KindString}
	clusterVar        = Var{Name: "CLUSTER", Kind: KindString, Default: DefaultCluster}
	serviceVar        = Var{Name: "SERVICE", Kind: KindString, Default: DefaultService}
	debugVar          = Var{Name: "DEBUG", Kind: KindBool, Default: false}
	logDevelopmentVar = Var{Name: "LOG_DEVELOPMENT", Kind: KindBool, Default: false}
	pushgatewayVar    = Var{Name: "METRICS_PUSHGATEWAY", Kind: KindString}
)

// ResolvedConfig is the configuration snapshot of a single invocation.
// It is passed by value and never modified after it is loaded.
type ResolvedConfig struct {
	// AWS Region to use for API calls
	Region string
	// ECS cluster name
	Cluster string
	// ECS service name
	Service string
	// Elastic IP allocation ID, only required on the attachment path
	AllocationID string
	// Enable debug logging
	Debug bool
	// Use the human readable development log encoder
	LogDevelopment bool
	// Prometheus Pushgateway URL; metrics are not pushed when empty
	PushgatewayURL string
}

// DefaultResolvedConfig returns the configuration used when no input is set
func DefaultResolvedConfig() ResolvedConfig {
	return ResolvedConfig{
		Region:  DefaultRegion,
		Cluster: DefaultCluster,
		Service: DefaultService,
	}
}

// RequireAllocationID returns the Elastic IP allocation ID or a ConfigError when EIP is not set
func (c ResolvedConfig) RequireAllocationID() (string, error) {
	if c.AllocationID == "" {
		return "", &ConfigError{Name: eipVar.Name, Reason: "required value is not set"}
	}
	return c.AllocationID, nil
}

// LoadWakeConfig loads the configuration of the wake and status handlers
func LoadWakeConfig(lookup LookupFunc) (ResolvedConfig, error) {
	return load(NewResolver(lookup))
}

// LoadAttachmentConfig loads the configuration of the attachment handler.
// A missing EIP is not an error here; it is reported by RequireAllocationID
// only when an attachment actually needs it.
func LoadAttachmentConfig(lookup LookupFunc) (ResolvedConfig, error) {
	r := NewResolver(lookup)
	cfg, err := load(r)
	if err != nil {
		return ResolvedConfig{}, err
	}

	if cfg.AllocationID, err = r.String(eipVar); err != nil {
		return ResolvedConfig{}, err
	}
	return cfg, nil
}

func load(r *Resolver) (ResolvedConfig, error) {
	cfg := DefaultResolvedConfig()
	var err error

	if cfg.Cluster, err = r.String(clusterVar); err != nil {
		return ResolvedConfig{}, err
	}
	if cfg.Service, err = r.String(serviceVar); err != nil {
		return ResolvedConfig{}, err
	}
	if cfg.Debug, err = r.Bool(debugVar); err != nil {
		return ResolvedConfig{}, err
	}
	if cfg.LogDevelopment, err = r.Bool(logDevelopmentVar); err != nil {
		return ResolvedConfig{}, err
	}
	if cfg.PushgatewayURL, err = r.String(pushgatewayVar); err != nil {
		return ResolvedConfig{}, err
	}

	return cfg, nil
}
