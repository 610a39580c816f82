package config

import (
	"context"
	"fmt"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	secretmanagerpb "cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
)

// buildSecretVersionName returns the resource name of the latest version of a secret
func buildSecretVersionName(projectID, secretID string) string {
	if strings.HasPrefix(secretID, "projects/") {
		return strings.TrimSuffix(secretID, "/versions/latest") + "/versions/latest"
	}
	return fmt.Sprintf("projects/%s/secrets/%s/versions/latest", projectID, secretID)
}

// fetchSecret reads a secret payload from GCP Secret Manager
func fetchSecret(ctx context.Context, projectID, secretID string) (string, error) {
	if secretID == "" {
		return "", fmt.Errorf("secret id is required")
	}
	if projectID == "" && !strings.HasPrefix(secretID, "projects/") {
		return "", fmt.Errorf("GCP_PROJECT_ID is required when USE_GCP_SECRET_MANAGER is enabled")
	}

	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create secret manager client: %w", err)
	}
	defer client.Close()

	result, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: buildSecretVersionName(projectID, secretID),
	})
	if err != nil {
		return "", fmt.Errorf("failed to access secret: %w", err)
	}

	return strings.TrimSpace(string(result.Payload.Data)), nil
}
