package coupon

import (
	"bufio"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// fileLoader implements Loader for gzipped coupon files on local disk.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based coupon loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "coupon-loader").Logger(),
	}
}

// Load reads a gzipped coupon file.
func (l *fileLoader) Load(ctx context.Context, filePath string) (Table, error) {
	l.logger.Info().Str("file", filePath).Msg("loading coupon file")

	file, err := os.Open(filePath)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to open coupon file")
		return nil, fmt.Errorf("failed to open coupon file %s: %w", filePath, err)
	}
	defer file.Close()

	table, err := readTable(ctx, file, filePath)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to read coupon file")
		return nil, err
	}

	l.logger.Info().
		Str("file", filePath).
		Int("coupons_loaded", table.Size()).
		Msg("coupon file loaded successfully")

	return table, nil
}

// readTable parses gzipped "CODE,PERCENT" lines. Blank lines and lines
// starting with '#' are ignored.
func readTable(ctx context.Context, r io.Reader, source string) (*mapTable, error) {
	gzipReader, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader for %s: %w", source, err)
	}
	defer gzipReader.Close()

	table := newMapTable(64)
	scanner := bufio.NewScanner(gzipReader)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if lineNo%10_000 == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		code, pct, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("invalid coupon line %d in %s: %w", lineNo, source, err)
		}
		table.Add(code, pct)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading coupon file %s: %w", source, err)
	}

	return table, nil
}

func parseLine(line string) (string, float64, error) {
	code, rawPct, ok := strings.Cut(line, ",")
	if !ok {
		return "", 0, fmt.Errorf("expected CODE,PERCENT")
	}

	code = strings.TrimSpace(code)
	if code == "" {
		return "", 0, fmt.Errorf("empty code")
	}

	pct, err := strconv.ParseFloat(strings.TrimSpace(rawPct), 64)
	if err != nil {
		return "", 0, fmt.Errorf("invalid percentage %q", rawPct)
	}
	if pct <= 0 || pct > 100 {
		return "", 0, fmt.Errorf("percentage %v out of range (0, 100]", pct)
	}

	return code, pct, nil
}
