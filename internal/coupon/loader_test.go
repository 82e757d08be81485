package coupon

import (
	"compress/gzip"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestCouponFile writes lines to a gzipped file in a temp directory.
func createTestCouponFile(t *testing.T, filename string, lines []string) string {
	t.Helper()
	filePath := filepath.Join(t.TempDir(), filename)

	file, err := os.Create(filePath)
	require.NoError(t, err)
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	for _, line := range lines {
		_, err := gzipWriter.Write([]byte(line + "\n"))
		require.NoError(t, err)
	}

	return filePath
}

func TestFileLoader_Load_Success(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())

	filePath := createTestCouponFile(t, "coupons.gz", []string{
		"SPRING25,25",
		"FLASH5,5",
		"half,50",
	})

	table, err := loader.Load(context.Background(), filePath)
	require.NoError(t, err)
	require.NotNil(t, table)
	assert.Equal(t, 3, table.Size())

	c, ok := table.Lookup("spring25")
	assert.True(t, ok)
	assert.Equal(t, 25.0, c.Percentage)

	c, ok = table.Lookup("HALF")
	assert.True(t, ok)
	assert.Equal(t, "HALF", c.Code)
}

func TestFileLoader_Load_SkipsBlankAndComments(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())

	filePath := createTestCouponFile(t, "coupons.gz", []string{
		"# seasonal codes",
		"",
		"  AUTUMN10 , 10  ",
		"   ",
		"WINTER15,15",
	})

	table, err := loader.Load(context.Background(), filePath)
	require.NoError(t, err)
	assert.Equal(t, 2, table.Size())

	c, ok := table.Lookup("AUTUMN10")
	assert.True(t, ok)
	assert.Equal(t, 10.0, c.Percentage)
}

func TestFileLoader_Load_DuplicateCodesLastWins(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())

	filePath := createTestCouponFile(t, "coupons.gz", []string{"DUP,5", "dup,7"})

	table, err := loader.Load(context.Background(), filePath)
	require.NoError(t, err)
	assert.Equal(t, 1, table.Size())

	c, _ := table.Lookup("DUP")
	assert.Equal(t, 7.0, c.Percentage)
}

func TestFileLoader_Load_InvalidLines(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		errMsg string
	}{
		{name: "missing percent", line: "NOPCT", errMsg: "expected CODE,PERCENT"},
		{name: "empty code", line: ",10", errMsg: "empty code"},
		{name: "non numeric", line: "BAD,ten", errMsg: "invalid percentage"},
		{name: "zero", line: "ZERO,0", errMsg: "out of range"},
		{name: "over hundred", line: "HUGE,150", errMsg: "out of range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := NewFileLoader(zerolog.Nop())
			filePath := createTestCouponFile(t, "coupons.gz", []string{"GOOD,10", tt.line})

			table, err := loader.Load(context.Background(), filePath)
			require.Error(t, err)
			assert.Nil(t, table)
			assert.Contains(t, err.Error(), "invalid coupon line 2")
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestFileLoader_Load_FileNotFound(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())

	table, err := loader.Load(context.Background(), "/nonexistent/path/to/file.gz")

	require.Error(t, err)
	assert.Nil(t, table)
	assert.Contains(t, err.Error(), "failed to open coupon file")
}

func TestFileLoader_Load_InvalidGzip(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())

	filePath := filepath.Join(t.TempDir(), "invalid.gz")
	require.NoError(t, os.WriteFile(filePath, []byte("not a gzip file"), 0644))

	table, err := loader.Load(context.Background(), filePath)

	require.Error(t, err)
	assert.Nil(t, table)
	assert.Contains(t, err.Error(), "failed to create gzip reader")
}

func TestFileLoader_Load_ContextCancellation(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())

	lines := make([]string, 20_000)
	for i := range lines {
		lines[i] = fmt.Sprintf("CODE%05d,10", i)
	}
	filePath := createTestCouponFile(t, "large.gz", lines)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	table, err := loader.Load(ctx, filePath)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, table)
}

func TestFileLoader_Load_EmptyFile(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())

	filePath := createTestCouponFile(t, "empty.gz", []string{})

	table, err := loader.Load(context.Background(), filePath)
	require.NoError(t, err)
	require.NotNil(t, table)
	assert.Equal(t, 0, table.Size())
}
