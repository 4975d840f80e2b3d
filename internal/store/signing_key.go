package store

import (
	"context"
	"crypto/rand"
	"fmt"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/errs"
)

// Secret path
// projects/{project}/secrets/{secretID}/versions/latest

type signingKeyStore struct {
	client    *secretmanager.Client
	projectID string
	secretID  string
}

func NewSigningKeyStore(client *secretmanager.Client, projectID, secretID string) *signingKeyStore {
	return &signingKeyStore{
		client:    client,
		projectID: projectID,
		secretID:  secretID,
	}
}

func (s *signingKeyStore) secretName() string {
	return fmt.Sprintf("projects/%s/secrets/%s", s.projectID, s.secretID)
}

// SigningKey returns the HMAC key for verification links, creating the secret with a
// random 32-byte key on first use.
func (s *signingKeyStore) SigningKey(ctx context.Context) ([]byte, error) {
	res, err := s.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: s.secretName() + "/versions/latest",
	})
	if err == nil {
		return res.Payload.Data, nil
	}
	if status.Code(err) != codes.NotFound {
		return nil, errs.NewExternalServiceError("secretmanager", "failed to read signing key", true, err)
	}

	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, errs.NewEncryptionError("failed to generate signing key", err)
	}
	if err := s.ensureSecret(ctx); err != nil {
		return nil, errs.NewExternalServiceError("secretmanager", "failed to create signing key secret", false, err)
	}
	_, err = s.client.AddSecretVersion(ctx, &secretmanagerpb.AddSecretVersionRequest{
		Parent:  s.secretName(),
		Payload: &secretmanagerpb.SecretPayload{Data: key},
	})
	if err != nil {
		return nil, errs.NewExternalServiceError("secretmanager", "failed to store signing key", false, err)
	}
	return key, nil
}

func (s *signingKeyStore) ensureSecret(ctx context.Context) error {
	_, err := s.client.GetSecret(ctx, &secretmanagerpb.GetSecretRequest{Name: s.secretName()})
	if status.Code(err) == codes.NotFound {
		_, err = s.client.CreateSecret(ctx, &secretmanagerpb.CreateSecretRequest{
			Parent:   fmt.Sprintf("projects/%s", s.projectID),
			SecretId: s.secretID,
			Secret: &secretmanagerpb.Secret{
				Replication: &secretmanagerpb.Replication{
					Replication: &secretmanagerpb.Replication_Automatic_{Automatic: &secretmanagerpb.Replication_Automatic{}},
				},
			},
		})
	}
	return err
}
