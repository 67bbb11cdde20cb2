package storage

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

// ArtifactStore persists exported creatives. The pipeline itself owns no
// storage; uploads are optional glue and the artifact bytes are always
// returned to the caller regardless.
type ArtifactStore interface {
	PutArtifact(ctx context.Context, name string, data []byte) (string, error)
}

type azureArtifactStore struct {
	client    *azblob.Client
	account   string
	container string
}

// NewAzureArtifactStore creates a blob-backed artifact store writing into
// the given container.
func NewAzureArtifactStore(accountName, accountKey, container string) (ArtifactStore, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, err
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net", accountName),
		credential,
		nil,
	)
	if err != nil {
		return nil, err
	}

	return &azureArtifactStore{client: client, account: accountName, container: container}, nil
}

// PutArtifact uploads the artifact bytes and returns the blob URL.
func (s *azureArtifactStore) PutArtifact(ctx context.Context, name string, data []byte) (string, error) {
	if _, err := s.client.UploadBuffer(ctx, s.container, name, data, nil); err != nil {
		return "", fmt.Errorf("upload artifact %s: %w", name, err)
	}
	return fmt.Sprintf("https://%s.blob.core.windows.net/%s/%s", s.account, s.container, name), nil
}
