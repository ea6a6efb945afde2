package infra

import "context"

//go:generate go run github.com/vektra/mockery/v2@v2.53.2 --name=Extractor --output=../../../mocks
type Extractor interface {
	// Extract unpacks archivePath into destDir and returns the root directory
	// the archive actually produced.
	Extract(ctx context.Context, archivePath, destDir string) (string, error)
}
