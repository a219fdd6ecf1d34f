package parquet

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/siphondata/siphon/constants"
	"github.com/siphondata/siphon/destination"
	"github.com/siphondata/siphon/types"
	"github.com/siphondata/siphon/utils"
	"github.com/siphondata/siphon/utils/logger"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"
)

// Parquet writes records as local parquet files laid out as
// local_path/namespace/stream/<timestamp>_<ulid>.parquet
type Parquet struct {
	closed bool
	config *Config
	file   source.ParquetFile
	writer *writer.ParquetWriter
	stream types.StreamInterface
}

func (p *Parquet) GetConfigRef() destination.Config {
	p.config = &Config{}
	return p.config
}

func (p *Parquet) Spec() any {
	return Config{}
}

func (p *Parquet) Type() string {
	return string(types.ParquetDestination)
}

// Check verifies the base path is writable by cycling a temp file
func (p *Parquet) Check(_ context.Context) error {
	if err := os.MkdirAll(p.config.Path, os.ModePerm); err != nil {
		return err
	}

	tempFile, err := os.CreateTemp(p.config.Path, "check-*.tmp")
	if err != nil {
		return err
	}
	if _, err := tempFile.Write([]byte("ok")); err != nil {
		tempFile.Close()
		return err
	}
	if err := tempFile.Close(); err != nil {
		return err
	}

	return os.Remove(tempFile.Name())
}

func (p *Parquet) Setup(stream types.StreamInterface, _ *destination.Options) error {
	destinationFilePath := filepath.Join(p.config.Path, stream.Namespace(), stream.Name(), utils.TimestampedFileName(constants.ParquetFileExt))
	if err := os.MkdirAll(filepath.Dir(destinationFilePath), os.ModePerm); err != nil {
		return err
	}

	pqFile, err := local.NewLocalFileWriter(destinationFilePath)
	if err != nil {
		return err
	}

	pw, err := writer.NewParquetWriter(pqFile, stream.Schema().ToParquet(), 4)
	if err != nil {
		return err
	}
	pw.RowGroupSize = p.config.RowGroupSize
	pw.CompressionType = compressionCodec(p.config.Compression)

	p.file = pqFile
	p.writer = pw
	p.stream = stream

	logger.Debugf("parquet writer opened %s", destinationFilePath)
	return nil
}

func (p *Parquet) Write(ctx context.Context, records []types.RawRecord) error {
	for _, raw := range records {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		record := make(types.Record, len(raw.Data)+2)
		for key, value := range raw.Data {
			record[key] = value
		}
		record[constants.SiphonID] = raw.RecordID
		record[constants.SiphonExtractedAt] = raw.ExtractedAt

		stringified, err := p.stream.Schema().StringifyComplexFields(record)
		if err != nil {
			return fmt.Errorf("failed to prepare record for parquet: %s", err)
		}

		if err := p.writer.Write(stringified); err != nil {
			return fmt.Errorf("parquet write error: %s", err)
		}
	}

	return nil
}

// DropStreams removes previously written files of the selected streams
func (p *Parquet) DropStreams(_ context.Context, selectedStreams []string) error {
	for _, streamID := range selectedStreams {
		namespace, name := utils.SplitStreamID(streamID)
		streamPath := filepath.Join(p.config.Path, namespace, name)
		if err := os.RemoveAll(streamPath); err != nil {
			return fmt.Errorf("failed to drop stream path %s: %s", streamPath, err)
		}
	}

	return nil
}

func (p *Parquet) Close(_ context.Context) error {
	if p.closed {
		return nil
	}
	p.closed = true

	return utils.ErrExecSequential(
		utils.ErrExecFormat("failed to stop parquet writer: %s", p.writer.WriteStop),
		utils.ErrExecFormat("failed to close parquet file: %s", p.file.Close),
	)
}

func compressionCodec(name string) parquet.CompressionCodec {
	switch name {
	case "gzip":
		return parquet.CompressionCodec_GZIP
	case "zstd":
		return parquet.CompressionCodec_ZSTD
	case "none", "uncompressed":
		return parquet.CompressionCodec_UNCOMPRESSED
	default:
		return parquet.CompressionCodec_SNAPPY
	}
}

func init() {
	destination.RegisteredWriters[types.ParquetDestination] = func() destination.Writer {
		return &Parquet{}
	}
}
