package secrets

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// Provider reads individual values out of a JSON application secret.
type Provider interface {
	Value(ctx context.Context, key string) (string, error)
}

// Manager resolves keys from an AWS Secrets Manager secret whose payload is a
// flat JSON object. The secret is fetched once and cached for the process
// lifetime, matching the Lambda execution-environment reuse model.
type Manager struct {
	client     *secretsmanager.Client
	secretName string
	cached     map[string]string
}

// New constructs a Manager for the named secret.
func New(ctx context.Context, region, secretName string) (*Manager, error) {
	if strings.TrimSpace(secretName) == "" {
		return nil, fmt.Errorf("secret name is required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{}
	if region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &Manager{
		client:     secretsmanager.NewFromConfig(cfg),
		secretName: secretName,
	}, nil
}

// Value returns the value stored under key in the secret payload.
func (m *Manager) Value(ctx context.Context, key string) (string, error) {
	if m.cached == nil {
		out, err := m.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
			SecretId: &m.secretName,
		})
		if err != nil {
			return "", fmt.Errorf("get secret value %s: %w", m.secretName, err)
		}
		if out.SecretString == nil {
			return "", fmt.Errorf("secret %s has no string payload", m.secretName)
		}
		var payload map[string]string
		if err := json.Unmarshal([]byte(*out.SecretString), &payload); err != nil {
			return "", fmt.Errorf("decode secret %s: %w", m.secretName, err)
		}
		m.cached = payload
	}

	val, ok := m.cached[key]
	if !ok {
		return "", fmt.Errorf("secret %s missing key %s", m.secretName, key)
	}
	return val, nil
}

// Static is a fixed map Provider for tests and env-only deployments.
type Static map[string]string

// Value returns the mapped value or an error when absent.
func (s Static) Value(_ context.Context, key string) (string, error) {
	val, ok := s[key]
	if !ok {
		return "", fmt.Errorf("secret key %s not configured", key)
	}
	return val, nil
}

var _ Provider = (*Manager)(nil)
var _ Provider = Static(nil)
