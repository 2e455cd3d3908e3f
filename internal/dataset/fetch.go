package dataset

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/rs/zerolog/log"

	"github.com/woozymasta/neairports/internal/airport"
)

// DefaultFetchURL is the public OurAirports export.
const DefaultFetchURL = "https://davidmegginson.github.io/ourairports-data/airports.csv"

// Fetch downloads the CSV at url into dest and validates it with LoadFile
// before replacing dest. An existing dest is kept unless force is set; it is
// validated and returned in that case.
func Fetch(ctx context.Context, client *http.Client, url, dest string, force bool) ([]airport.Record, error) {
	if _, err := os.Stat(dest); err == nil && !force {
		log.Debug().Str("path", dest).Msg("Dataset file exists, skipping download")
		return LoadFile(dest)
	}

	if client == nil {
		client = http.DefaultClient
	}

	log.Info().Str("source", url).Str("path", dest).Msg("Downloading dataset")

	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp(dir, ".airports-*.csv")
	if err != nil {
		return nil, err
	}
	// no-op once renamed
	defer func() { _ = os.Remove(tmp.Name()) }()

	written, err := download(ctx, client, url, tmp)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", url, err)
	}

	records, err := LoadFile(tmp.Name())
	if err != nil {
		return nil, err
	}

	if err := os.Rename(tmp.Name(), dest); err != nil {
		return nil, err
	}

	log.Info().
		Str("path", dest).
		Int64("bytes", written).
		Int("records", len(records)).
		Msg("Dataset downloaded")

	return records, nil
}

func download(ctx context.Context, client *http.Client, url string, w io.Writer) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	// Explicitly ignore close error as it's a read-only operation
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("status %d", resp.StatusCode)
	}

	return io.Copy(w, resp.Body)
}

// Upload stores the local file at path as the dataset object.
func (s *S3Source) Upload(ctx context.Context, path string) error {
	info, err := s.client.FPutObject(ctx, s.bucket, s.key, path, minio.PutObjectOptions{
		ContentType: "text/csv",
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", s.Name(), err)
	}

	log.Info().
		Str("object", s.Name()).
		Int64("bytes", info.Size).
		Str("etag", info.ETag).
		Msg("Dataset uploaded")

	return nil
}
