package crypto

import (
	"context"
	"encoding/base64"

	gcpkms "cloud.google.com/go/kms/apiv1"
	"cloud.google.com/go/kms/apiv1/kmspb"

	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/errs"
)

type kms struct {
	client  *gcpkms.KeyManagementClient
	keyName string
}

func NewKMS(client *gcpkms.KeyManagementClient, keyName string) *kms {
	return &kms{client: client, keyName: keyName}
}

// Encrypt seals plaintext with the configured key and returns base64 text. The
// owner uid is bound as additional authenticated data, so a ciphertext copied to
// another student's document will not decrypt.
func (k *kms) Encrypt(ctx context.Context, owner, plaintext string) (string, error) {
	resp, err := k.client.Encrypt(ctx, &kmspb.EncryptRequest{
		Name:                        k.keyName,
		Plaintext:                   []byte(plaintext),
		AdditionalAuthenticatedData: []byte(owner),
	})
	if err != nil {
		return "", errs.NewEncryptionError("failed to encrypt field", err)
	}
	return base64.StdEncoding.EncodeToString(resp.Ciphertext), nil
}

func (k *kms) Decrypt(ctx context.Context, owner, ciphertext string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", errs.NewEncryptionError("malformed ciphertext", err)
	}
	resp, err := k.client.Decrypt(ctx, &kmspb.DecryptRequest{
		Name:                        k.keyName,
		Ciphertext:                  raw,
		AdditionalAuthenticatedData: []byte(owner),
	})
	if err != nil {
		return "", errs.NewEncryptionError("failed to decrypt field", err)
	}
	return string(resp.Plaintext), nil
}
