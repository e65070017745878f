// Package service is a thin orchestration façade: it validates a
// service-creation command, translates it into the vendor-agnostic
// deployment model, and delegates to a vendor.Provider.
package service

import (
	"context"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/lattice-works/x402gateway/quantity"
	"github.com/lattice-works/x402gateway/vendor"
)

var validate = validator.New()

// CreateServiceCommand is the validated input to Service.Create.
type CreateServiceCommand struct {
	Name   string `validate:"required,max=32"`
	GitURL string `validate:"required,max=2048"`
	Branch string `validate:"max=64"`
	Dir    string `validate:"max=128"`
	Port   int    `validate:"required,min=1,max=65535"`

	CPURequest    string
	MemoryRequest string
	CPULimit      string
	MemoryLimit   string

	MinScale int
	MaxScale int

	Envs map[string]string
}

// ServiceDTO is the result of a successful Create.
type ServiceDTO struct {
	ID   string
	Name string
}

// StatusDTO is the result of a successful Status lookup.
type StatusDTO struct {
	ID      string
	Name    string
	URL     string
	Ready   bool
	Message string
	Extra   map[string]any
}

// Service orchestrates deployment requests against a single vendor.Provider.
type Service struct {
	provider vendor.Provider
}

// New builds a Service backed by provider.
func New(provider vendor.Provider) *Service {
	return &Service{provider: provider}
}

var namePattern = `^[A-Za-z0-9\-]+$`
var nameRegexp = regexp.MustCompile(namePattern)

// Create validates cmd, translates it to vendor.DeploymentConfig, and
// deploys it via the configured vendor.Provider.
func (s *Service) Create(ctx context.Context, cmd CreateServiceCommand) (ServiceDTO, error) {
	if err := validate.Struct(cmd); err != nil {
		return ServiceDTO{}, fmt.Errorf("invalid service command: %w", err)
	}
	if !nameRegexp.MatchString(cmd.Name) {
		return ServiceDTO{}, fmt.Errorf("invalid service command: name %q must match %s", cmd.Name, namePattern)
	}

	cfg, err := toDeploymentConfig(cmd)
	if err != nil {
		return ServiceDTO{}, fmt.Errorf("invalid service command: %w", err)
	}

	id, err := s.provider.Deploy(ctx, cfg)
	if err != nil {
		return ServiceDTO{}, err
	}

	return ServiceDTO{ID: id, Name: cmd.Name}, nil
}

// Status reports the current deployment state for id.
func (s *Service) Status(ctx context.Context, id string) (StatusDTO, error) {
	status, err := s.provider.Status(ctx, id)
	if err != nil {
		return StatusDTO{}, err
	}

	return StatusDTO{
		ID:      status.ID,
		Name:    status.Name,
		URL:     status.URL,
		Ready:   status.Ready,
		Message: status.Message,
		Extra:   status.Extra,
	}, nil
}

func toDeploymentConfig(cmd CreateServiceCommand) (vendor.DeploymentConfig, error) {
	cfg := vendor.DeploymentConfig{
		Name: cmd.Name,
		SourceConfig: vendor.SourceConfig{
			Git:    cmd.GitURL,
			Branch: cmd.Branch,
			Dir:    cmd.Dir,
		},
		RunConfig: vendor.RunConfig{
			Port:     cmd.Port,
			Envs:     cmd.Envs,
			MinScale: cmd.MinScale,
			MaxScale: cmd.MaxScale,
		},
	}

	var err error
	if cmd.CPURequest != "" {
		if cfg.RunConfig.CPURequest, err = quantity.ParseCpuQuantity(cmd.CPURequest); err != nil {
			return vendor.DeploymentConfig{}, err
		}
	}
	if cmd.MemoryRequest != "" {
		if cfg.RunConfig.MemoryRequest, err = quantity.ParseMemoryQuantity(cmd.MemoryRequest); err != nil {
			return vendor.DeploymentConfig{}, err
		}
	}
	if cmd.CPULimit != "" {
		if cfg.RunConfig.CPULimit, err = quantity.ParseCpuQuantity(cmd.CPULimit); err != nil {
			return vendor.DeploymentConfig{}, err
		}
	}
	if cmd.MemoryLimit != "" {
		if cfg.RunConfig.MemoryLimit, err = quantity.ParseMemoryQuantity(cmd.MemoryLimit); err != nil {
			return vendor.DeploymentConfig{}, err
		}
	}

	return cfg, nil
}
